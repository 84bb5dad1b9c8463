// Package pipeline runs pruning over packaged archives: every unit is
// unpacked, pruned and repacked in place, one after another.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kukaryambik/prunepath/pkg/archiver"
	"github.com/kukaryambik/prunepath/pkg/config"
	"github.com/kukaryambik/prunepath/pkg/prune"
	"github.com/kukaryambik/prunepath/pkg/rules"
	"github.com/sirupsen/logrus"
)

// Job is a unit together with its resolved rules.
type Job struct {
	Unit  Unit
	Rules rules.UnitRules
}

// Pipeline processes packaged units with a pruning engine.
type Pipeline struct {
	Engine *prune.Engine
	// KeepWorkdir leaves unpacked trees in place after a successful repack.
	KeepWorkdir bool
}

// New returns a pipeline on the real filesystem.
func New() *Pipeline {
	return &Pipeline{Engine: prune.New(nil, nil)}
}

// LayoutOf derives the archive layout from a service file.
func LayoutOf(svc *config.Service) Layout {
	return Layout{
		Service:      svc.Name,
		Individually: svc.Package.Individually,
		ArtifactDir:  svc.ArtifactDir(),
		Artifact:     svc.Package.Artifact,
	}
}

// Plan validates the service rules and resolves them for every unit. No
// archive is touched; any error here means nothing was changed on disk.
func (p *Pipeline) Plan(svc *config.Service) ([]Job, error) {
	if err := svc.Validate(); err != nil {
		return nil, err
	}

	units, err := Discover(p.Engine.FS, LayoutOf(svc))
	if err != nil {
		return nil, err
	}

	var jobs []Job
	for _, u := range units {
		r := svc.PrunePath.ForTarget(u.Target)
		if r.Empty() {
			logrus.Debugf("No rules for %s, skipping", u.Name)
			continue
		}
		if err := rules.CheckContradictions(r.Keep, r.Delete); err != nil {
			return nil, err
		}
		jobs = append(jobs, Job{Unit: u, Rules: r})
	}
	return jobs, nil
}

// Run plans and then processes every job in order, stopping at the first
// failure. Units finished before the failure stay pruned.
func (p *Pipeline) Run(ctx context.Context, svc *config.Service) error {
	jobs, err := p.Plan(svc)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		logrus.Infof("Nothing to prune")
		return nil
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Process(ctx, job); err != nil {
			return fmt.Errorf("unit %s: %w", job.Unit.Name, err)
		}
	}
	logrus.Infof("Pruned %d unit(s)", len(jobs))
	return nil
}

// Process unpacks one archive next to itself, prunes the tree, repacks it
// over the original archive and removes the working directory. On failure
// the working directory is left for inspection.
func (p *Pipeline) Process(ctx context.Context, job Job) error {
	workdir := filepath.Join(filepath.Dir(job.Unit.Archive), job.Unit.Name)
	logrus.Infof("Pruning %s", job.Unit.Archive)

	if err := p.Engine.FS.RemoveTree(workdir); err != nil {
		return fmt.Errorf("error clearing working directory: %w", err)
	}

	if err := archiver.Extract(ctx, job.Unit.Archive, workdir); err != nil {
		return err
	}

	if err := p.Engine.Apply(workdir, job.Rules); err != nil {
		return err
	}

	if err := archiver.Create(ctx, workdir, job.Unit.Archive); err != nil {
		return err
	}

	if p.KeepWorkdir {
		return nil
	}
	if err := p.Engine.FS.RemoveTree(workdir); err != nil {
		return fmt.Errorf("error removing working directory: %w", err)
	}
	logrus.Debugf("Removed working directory %s", workdir)
	return nil
}

// Dir prunes an already unpacked tree. The rules are validated against
// functions and applied in the "all" context, so every target list counts.
func (p *Pipeline) Dir(root string, rs *rules.RuleSet, functions []string) error {
	if err := rules.Validate(rs, functions); err != nil {
		return err
	}
	if err := rules.CheckPaths(rs); err != nil {
		return err
	}

	isDir, err := p.Engine.FS.IsDir(root)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", root, err)
	}
	if !isDir {
		return fmt.Errorf("%s is not a directory", root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", root, err)
	}
	return p.Engine.Apply(absRoot, rs.ForTarget(rules.TargetAll))
}
