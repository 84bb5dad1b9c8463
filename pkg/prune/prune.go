// Package prune removes files from an unpacked artifact tree according to
// keep and delete rules.
//
// Delete rules remove the named entries. Keep rules are enforced one
// directory level at a time: in the parent directory of each kept path,
// every sibling that is neither kept nor an ancestor of a kept path is
// removed. Parents are visited shallowest first, so a pruned subdirectory is
// removed in one recursive delete and never visited again.
package prune

import (
	"path/filepath"
	"sort"

	"github.com/kukaryambik/prunepath/pkg/fsys"
	"github.com/kukaryambik/prunepath/pkg/paths"
	"github.com/kukaryambik/prunepath/pkg/rules"
	"github.com/sirupsen/logrus"
)

// Engine prunes trees through a filesystem provider.
type Engine struct {
	FS  fsys.FS
	Log logrus.FieldLogger
}

// New returns an engine working on fs and logging to log; nil arguments
// fall back to the real filesystem and the standard logrus logger.
func New(fs fsys.FS, log logrus.FieldLogger) *Engine {
	if fs == nil {
		fs = fsys.OS()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{FS: fs, Log: log}
}

// Apply prunes one unit rooted at root. Every path is checked, then the
// rules are checked for contradictions; then delete rules run, then keep
// rules.
func (e *Engine) Apply(root string, u rules.UnitRules) error {
	log := e.Log.WithField("unit", u.Target)

	for _, list := range [][]string{u.Keep, u.Delete} {
		for _, rel := range list {
			if err := rules.CheckPath(rel); err != nil {
				return err
			}
		}
	}

	if err := rules.CheckContradictions(u.Keep, u.Delete); err != nil {
		return err
	}

	if len(u.Delete) > 0 {
		log.Debugf("Deleting %d listed path(s) in %s", len(u.Delete), root)
		if err := e.DeleteListed(root, u.Delete); err != nil {
			return err
		}
	}

	if len(u.Keep) > 0 {
		log.Debugf("Keeping %d listed path(s) in %s", len(u.Keep), root)
		if err := e.DeleteUnlisted(root, u.Keep); err != nil {
			return err
		}
	}
	return nil
}

// DeleteListed removes every listed path below root. Directories are
// removed with their contents; a missing path is logged and skipped.
// Paths naming the root or leaving it fail before anything is removed.
func (e *Engine) DeleteListed(root string, list []string) error {
	fulls, err := resolveAll(filepath.Clean(root), list)
	if err != nil {
		return err
	}

	for _, full := range fulls {
		exists, err := e.FS.Exists(full)
		if err != nil {
			return err
		}
		if !exists {
			e.Log.Infof("File not found: %s", full)
			continue
		}

		isDir, err := e.FS.IsDir(full)
		if err != nil {
			return err
		}
		if isDir {
			if err := e.FS.RemoveTree(full); err != nil {
				return err
			}
			e.Log.Infof("Deleted directory: %s", full)
			continue
		}

		if err := e.FS.RemoveFile(full); err != nil {
			return err
		}
		e.Log.Infof("Deleted: %s", full)
	}
	return nil
}

// DeleteUnlisted keeps the listed paths and removes their unlisted siblings.
// Every keep path must exist with its exact spelling; otherwise nothing is
// removed and a PathNotFound error names the first offending path.
func (e *Engine) DeleteUnlisted(root string, keep []string) error {
	root = filepath.Clean(root)
	resolver := paths.NewResolver(e.FS, root)

	fulls, err := resolveAll(root, keep)
	if err != nil {
		return err
	}

	var keepList []string
	keepSet := make(map[string]struct{})
	for _, full := range fulls {
		if _, ok := keepSet[full]; ok {
			continue
		}
		keepSet[full] = struct{}{}
		keepList = append(keepList, full)
	}

	for _, full := range keepList {
		status, resolved, err := resolver.Check(full)
		if err != nil {
			return err
		}
		switch status {
		case paths.Found:
			continue
		case paths.CaseMismatch:
			e.Log.Warnf("Case does not match for: %s. Real path: %s", full, resolved)
		}
		return rules.PathNotFound(full)
	}

	// Ancestors of kept paths stay so that a shallow pass never removes
	// the directory a deeper kept path lives in.
	ancestors := make(map[string]struct{})
	for _, full := range keepList {
		for dir := filepath.Dir(full); dir != root && paths.PathFrom(dir, []string{root}); dir = filepath.Dir(dir) {
			ancestors[dir] = struct{}{}
		}
	}

	for _, dir := range TargetDirs(keepList) {
		entries, err := e.FS.ListDir(dir)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name)
			if _, ok := keepSet[full]; ok {
				continue
			}
			if _, ok := ancestors[full]; ok {
				continue
			}

			if entry.IsDir {
				if err := e.FS.RemoveTree(full); err != nil {
					return err
				}
				e.Log.Infof("Deleted directory: %s", full)
				continue
			}

			if err := e.FS.RemoveFile(full); err != nil {
				return err
			}
			e.Log.Infof("Deleted file: %s", full)
		}
	}
	return nil
}

// resolveAll joins rule paths against root. Empty paths, the root itself
// and paths outside root are refused.
func resolveAll(root string, list []string) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, rel := range list {
		if err := rules.CheckPath(rel); err != nil {
			return nil, err
		}
		full := paths.Join(root, rel)
		if full == root || !paths.PathFrom(full, []string{root}) {
			return nil, rules.EscapesRoot(rel)
		}
		out = append(out, full)
	}
	return out, nil
}

// TargetDirs returns the distinct parent directories of the given paths,
// shallowest first. Directories of equal depth are sorted by name.
func TargetDirs(keep []string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, p := range keep {
		d := filepath.Dir(p)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		di, dj := paths.Depth(dirs[i]), paths.Depth(dirs[j])
		if di != dj {
			return di < dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs
}
