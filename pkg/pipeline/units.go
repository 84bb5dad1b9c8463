package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/kukaryambik/prunepath/pkg/archiver"
	"github.com/kukaryambik/prunepath/pkg/fsys"
	"github.com/kukaryambik/prunepath/pkg/rules"
	"github.com/sirupsen/logrus"
)

// Unit is one packaged archive and the rule context it is pruned under.
type Unit struct {
	// Name is the archive name without extension; it also names the
	// working directory the archive is unpacked into.
	Name string
	// Archive is the absolute path of the archive.
	Archive string
	// Target is the function name in individual mode, "all" otherwise.
	Target string
}

// Layout describes where packaged archives live.
type Layout struct {
	Service      string
	Individually bool
	ArtifactDir  string
	Artifact     string
}

// Discover lists the units of a packaged service.
func Discover(fs fsys.FS, l Layout) ([]Unit, error) {
	archives, err := listArchives(fs, l.ArtifactDir)
	if err != nil {
		return nil, err
	}

	if l.Individually {
		units := make([]Unit, 0, len(archives))
		for _, a := range archives {
			name := archiver.BaseName(a)
			units = append(units, Unit{Name: name, Archive: a, Target: name})
		}
		logrus.Debugf("Found %d individually packaged unit(s) in %s", len(units), l.ArtifactDir)
		return units, nil
	}

	archive, err := togetherArchive(fs, l, archives)
	if err != nil {
		return nil, err
	}
	return []Unit{{Name: archiver.BaseName(archive), Archive: archive, Target: rules.TargetAll}}, nil
}

// togetherArchive picks the single archive: the configured artifact, then
// <service>.zip, then the only archive present.
func togetherArchive(fs fsys.FS, l Layout, archives []string) (string, error) {
	if l.Artifact != "" {
		a := l.Artifact
		if !filepath.IsAbs(a) {
			a = filepath.Join(l.ArtifactDir, filepath.Base(a))
		}
		return a, requireFile(fs, a)
	}

	if l.Service != "" {
		a := filepath.Join(l.ArtifactDir, l.Service+".zip")
		ok, err := fs.Exists(a)
		if err != nil {
			return "", err
		}
		if ok {
			return a, nil
		}
	}

	switch len(archives) {
	case 1:
		return archives[0], nil
	case 0:
		return "", fmt.Errorf("no archive found in %s", l.ArtifactDir)
	default:
		return "", fmt.Errorf("cannot choose between %d archives in %s; set package.artifact", len(archives), l.ArtifactDir)
	}
}

func listArchives(fs fsys.FS, dir string) ([]string, error) {
	entries, err := fs.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error listing artifact directory: %w", err)
	}

	var archives []string
	for _, e := range entries {
		if e.IsDir || !archiver.IsArchive(e.Name) {
			continue
		}
		archives = append(archives, filepath.Join(dir, e.Name))
	}
	return archives, nil
}

func requireFile(fs fsys.FS, path string) error {
	ok, err := fs.Exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("archive not found: %s", path)
	}
	return nil
}
