// Package fsys is the filesystem provider the pruning engine works against.
// The default implementation is backed by afero, so tests can run the
// engine on an in-memory tree.
package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Entry is one child of a listed directory.
type Entry struct {
	Name  string
	IsDir bool
}

// FS is the set of filesystem operations pruning needs.
type FS interface {
	// Exists reports whether path exists, without following a final symlink.
	Exists(path string) (bool, error)
	// IsDir reports whether path is a directory.
	IsDir(path string) (bool, error)
	// ListDir returns the immediate children of a directory, sorted by name.
	ListDir(path string) ([]Entry, error)
	// RemoveFile removes a single non-directory entry.
	RemoveFile(path string) error
	// RemoveTree removes path and everything below it.
	RemoveTree(path string) error
	// RealPath returns path spelled the way the filesystem stores it.
	RealPath(path string) (string, error)
}

type aferoFS struct {
	fs afero.Fs
}

// New wraps an afero filesystem.
func New(fs afero.Fs) FS {
	return &aferoFS{fs: fs}
}

// OS returns the provider for the real filesystem.
func OS() FS {
	return New(afero.NewOsFs())
}

func (a *aferoFS) lstat(path string) (os.FileInfo, error) {
	if l, ok := a.fs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(path)
		return fi, err
	}
	return a.fs.Stat(path)
}

// notExist reports errors meaning the entry is absent, including a path
// that runs through a regular file.
func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func (a *aferoFS) Exists(path string) (bool, error) {
	_, err := a.lstat(path)
	if err == nil {
		return true, nil
	}
	if notExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("error checking %s: %w", path, err)
}

func (a *aferoFS) IsDir(path string) (bool, error) {
	fi, err := a.lstat(path)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

func (a *aferoFS) ListDir(path string) ([]Entry, error) {
	infos, err := afero.ReadDir(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, Entry{Name: fi.Name(), IsDir: fi.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (a *aferoFS) RemoveFile(path string) error {
	if err := a.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func (a *aferoFS) RemoveTree(path string) error {
	if err := a.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// RealPath walks path segment by segment from the volume root, replacing
// each segment with the name stored on disk: an exact match wins, then the
// first case-insensitive match. Once a segment has no match the rest of
// the path is appended unchanged, so the result is the real path of the
// nearest existing ancestor followed by the missing tail.
func (a *aferoFS) RealPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("real path requires an absolute path, got %s", path)
	}
	path = filepath.Clean(path)

	vol := filepath.VolumeName(path)
	cur := vol + string(filepath.Separator)
	rest := strings.TrimPrefix(path, cur)
	if rest == "" {
		return cur, nil
	}

	segs := strings.Split(rest, string(filepath.Separator))
	for i, seg := range segs {
		name, ok, err := a.lookup(cur, seg)
		if err != nil {
			return "", err
		}
		if !ok {
			return filepath.Join(append([]string{cur}, segs[i:]...)...), nil
		}
		cur = filepath.Join(cur, name)
	}
	return cur, nil
}

// lookup finds the on-disk spelling of name inside dir.
func (a *aferoFS) lookup(dir, name string) (string, bool, error) {
	infos, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		if notExist(err) {
			return "", false, nil
		}
		if fi, serr := a.fs.Stat(dir); serr == nil && !fi.IsDir() {
			return "", false, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			// Unreadable ancestors are taken as spelled.
			logrus.Tracef("Cannot list %s, taking %s as spelled", dir, name)
			return name, true, nil
		}
		return "", false, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	folded := ""
	for _, fi := range infos {
		if fi.Name() == name {
			return name, true, nil
		}
		if folded == "" && strings.EqualFold(fi.Name(), name) {
			folded = fi.Name()
		}
	}
	if folded != "" {
		return folded, true, nil
	}
	return "", false, nil
}
