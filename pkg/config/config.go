// Package config loads the service file that declares functions, packaging
// options and the prunePath rule block.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kukaryambik/prunepath/pkg/rules"
	"github.com/kukaryambik/prunepath/pkg/util"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is the service file looked up when none is given.
	DefaultFile = "serverless.yml"
	// DefaultArtifactDir holds packaged archives, relative to the service directory.
	DefaultArtifactDir = ".serverless"
	// BlockName is the key of the rule block under custom.
	BlockName = "prunePath"
)

// Package holds the packaging options of the service.
type Package struct {
	// Individually packs every function into its own archive.
	Individually bool `yaml:"individually"`
	// Artifact names the single archive when packed together.
	Artifact string `yaml:"artifact"`
	// ArtifactDirectory holds the packaged archives.
	ArtifactDirectory string `yaml:"artifactDirectory"`
}

// Service is a loaded service file.
type Service struct {
	// Dir is the directory relative paths in the file resolve against.
	Dir       string
	Name      string
	Functions []string
	Package   Package
	// PrunePath is nil when custom.prunePath is absent.
	PrunePath *rules.RuleSet
}

type rawService struct {
	Service   string    `yaml:"service"`
	Functions yaml.Node `yaml:"functions"`
	Package   Package   `yaml:"package"`
	Custom    yaml.Node `yaml:"custom"`
}

// Load reads and parses a service file.
func Load(path string) (*Service, error) {
	logrus.Debugf("Loading service file %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading service file %s: %w", path, err)
	}

	svc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing service file %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}
	svc.Dir = filepath.Dir(absPath)
	return svc, nil
}

// Parse decodes a service document. Shape errors of the rule block are left
// to rules.Validate; only malformed YAML fails here.
func Parse(data []byte) (*Service, error) {
	var raw rawService
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	functions, err := mappingKeys(&raw.Functions)
	if err != nil {
		return nil, fmt.Errorf("functions: %w", err)
	}

	svc := &Service{
		Name:      raw.Service,
		Functions: functions,
		Package:   raw.Package,
	}
	svc.Package.ArtifactDirectory = util.Coalesce(svc.Package.ArtifactDirectory, DefaultArtifactDir)

	block := lookup(&raw.Custom, BlockName)
	if block == nil {
		return svc, nil
	}

	rs, err := decodeRuleSet(block)
	if err != nil {
		return nil, fmt.Errorf("custom.%s: %w", BlockName, err)
	}
	svc.PrunePath = rs
	return svc, nil
}

// ArtifactDir returns the absolute archive directory.
func (s *Service) ArtifactDir() string {
	if filepath.IsAbs(s.Package.ArtifactDirectory) {
		return s.Package.ArtifactDirectory
	}
	return filepath.Join(s.Dir, s.Package.ArtifactDirectory)
}

// Validate runs the rule-block shape checks and the path checks.
func (s *Service) Validate() error {
	if err := rules.Validate(s.PrunePath, s.Functions); err != nil {
		return err
	}
	return rules.CheckPaths(s.PrunePath)
}

func decodeRuleSet(n *yaml.Node) (*rules.RuleSet, error) {
	rs := &rules.RuleSet{}
	if isNull(n) {
		return rs, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		rs.Keys = append(rs.Keys, key)

		var cat **rules.Category
		switch key {
		case rules.KeyKeep:
			cat = &rs.Keep
		case rules.KeyDelete:
			cat = &rs.Delete
		default:
			continue
		}

		c, err := decodeCategory(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		*cat = c
	}
	return rs, nil
}

// decodeCategory resolves the list-or-mapping shape of one category.
func decodeCategory(n *yaml.Node) (*rules.Category, error) {
	switch {
	case isNull(n):
		return nil, nil
	case n.Kind == yaml.SequenceNode:
		var list []string
		if err := n.Decode(&list); err != nil {
			return nil, err
		}
		return rules.NewList(list...), nil
	case n.Kind == yaml.MappingNode:
		c := rules.NewTargets()
		for i := 0; i+1 < len(n.Content); i += 2 {
			target, val := n.Content[i].Value, n.Content[i+1]
			var list []string
			if !isNull(val) {
				if err := val.Decode(&list); err != nil {
					return nil, fmt.Errorf("%s: %w", target, err)
				}
			}
			c.Set(target, list...)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("line %d: expected a list or a mapping", n.Line)
	}
}

func mappingKeys(n *yaml.Node) ([]string, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	var keys []string
	for i := 0; i < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys, nil
}

func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}
