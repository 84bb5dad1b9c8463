package paths

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/kukaryambik/prunepath/pkg/fsys"
)

// Status is the outcome of a case-sensitive existence check.
type Status uint8

const (
	Missing Status = iota
	Found
	// CaseMismatch means the path resolves only under a different spelling.
	CaseMismatch
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case CaseMismatch:
		return "case mismatch"
	default:
		return "missing"
	}
}

// Resolver joins rule paths against a tree root and checks them against
// the filesystem byte for byte.
type Resolver struct {
	FS   fsys.FS
	Root string
}

// NewResolver returns a resolver for one tree root.
func NewResolver(fs fsys.FS, root string) *Resolver {
	return &Resolver{FS: fs, Root: root}
}

// Resolve joins a relative rule path against the root.
func (r *Resolver) Resolve(rel string) string {
	return Join(r.Root, rel)
}

// Check reports whether abs exists with exactly this spelling. The real
// path is probed even when the entry looks missing, so a wrong-case path on
// a case-sensitive filesystem is reported as CaseMismatch rather than
// Missing, and a wrong-case path that a case-insensitive filesystem happily
// resolves is not reported as Found. Only the part of abs below the root is
// compared; resolved is the on-disk spelling.
func (r *Resolver) Check(abs string) (status Status, resolved string, err error) {
	exists, err := r.FS.Exists(abs)
	if err != nil {
		return Missing, "", err
	}

	resolved, err = r.FS.RealPath(abs)
	if err != nil {
		return Missing, "", err
	}

	if sameBelow(r.Root, abs, resolved) {
		if exists {
			return Found, resolved, nil
		}
		return Missing, resolved, nil
	}

	resolvedExists, err := r.FS.Exists(resolved)
	if err != nil {
		return Missing, "", err
	}
	if exists || resolvedExists {
		return CaseMismatch, resolved, nil
	}
	return Missing, resolved, nil
}

// sameBelow compares the trailing segments of abs and resolved that lie below
// root. RealPath keeps the segment count, so the tails line up.
func sameBelow(root, abs, resolved string) bool {
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." {
		return abs == resolved
	}
	n := len(strings.Split(rel, string(filepath.Separator)))

	a := strings.Split(filepath.Clean(abs), string(filepath.Separator))
	b := strings.Split(filepath.Clean(resolved), string(filepath.Separator))
	if len(a) < n || len(b) < n {
		return abs == resolved
	}
	return slices.Equal(a[len(a)-n:], b[len(b)-n:])
}
