package archiver

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kukaryambik/prunepath/pkg/paths"
	"github.com/mholt/archiver/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type entryMeta struct {
	mode    fs.FileMode
	modTime time.Time
}

// Extract unpacks the archive at src into dst. Entries that would land
// outside dst are rejected, both by name and through symbolic links
// extracted earlier. Directory permissions and modification times are
// restored after all files are written.
func Extract(ctx context.Context, src, dst string) error {
	logrus.Debugf("Unpacking archive %s to %s", src, dst)

	af, err := FormatOf(src)
	if err != nil {
		return err
	}

	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("error getting absolute path for %s: %w", dst, err)
	}
	if err := os.MkdirAll(absDst, os.ModePerm); err != nil {
		return fmt.Errorf("error creating directory %s: %w", absDst, err)
	}

	realDst, err := filepath.EvalSymlinks(absDst)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", absDst, err)
	}

	input, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error opening archive %s: %w", src, err)
	}
	defer input.Close()

	metas := make(map[string]entryMeta)

	handler := func(ctx context.Context, file archiver.File) error {
		name := strings.TrimLeft(filepath.FromSlash(file.NameInArchive), string(os.PathSeparator))
		targetPath := filepath.Join(absDst, name)

		if targetPath == absDst {
			return nil
		}
		if !paths.PathFrom(targetPath, []string{absDst}) {
			return fmt.Errorf("archive entry %s points outside of %s", file.NameInArchive, absDst)
		}
		if err := checkParent(absDst, realDst, targetPath); err != nil {
			return fmt.Errorf("archive entry %s: %w", file.NameInArchive, err)
		}
		// Never write through a link left by an earlier entry.
		if err := removeSymlink(targetPath); err != nil {
			return err
		}

		// Symbolic links
		if file.LinkTarget != "" {
			logrus.Tracef("Creating symbolic link: %s -> %s", targetPath, file.LinkTarget)
			if err := os.MkdirAll(filepath.Dir(targetPath), os.ModePerm); err != nil {
				return fmt.Errorf("error creating parent directory for %s: %w", targetPath, err)
			}
			if err := os.RemoveAll(targetPath); err != nil {
				return fmt.Errorf("error removing existing file %s: %w", targetPath, err)
			}
			if err := os.Symlink(file.LinkTarget, targetPath); err != nil {
				return fmt.Errorf("error creating symbolic link %s: %w", targetPath, err)
			}
			delete(metas, targetPath)
			return nil
		}

		// Directories are created writable; their mode is restored later.
		if file.IsDir() {
			logrus.Tracef("Creating directory: %s", targetPath)
			if err := os.MkdirAll(targetPath, os.ModePerm); err != nil {
				return fmt.Errorf("error creating directory %s: %w", targetPath, err)
			}
			metas[targetPath] = entryMeta{mode: file.Mode(), modTime: file.ModTime()}
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), os.ModePerm); err != nil {
			return fmt.Errorf("error creating parent directory for %s: %w", targetPath, err)
		}

		if err := writeFile(file, targetPath); err != nil {
			return err
		}
		metas[targetPath] = entryMeta{mode: file.Mode(), modTime: file.ModTime()}
		logrus.Tracef("Extracted file: %s", targetPath)
		return nil
	}

	if err := af.Extract(ctx, input, nil, handler); err != nil {
		return fmt.Errorf("error extracting archive %s: %w", src, err)
	}

	if err := parallelProcess(metas, restoreMeta); err != nil {
		return err
	}

	logrus.Debugf("Successfully extracted archive: %s", src)
	return nil
}

// checkParent makes sure the nearest existing ancestor of target resolves
// inside dst once symbolic links are followed.
func checkParent(absDst, realDst, target string) error {
	for dir := filepath.Dir(target); ; dir = filepath.Dir(dir) {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			if !paths.PathFrom(resolved, []string{realDst}) {
				return fmt.Errorf("%s resolves to %s, outside of %s", dir, resolved, absDst)
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("error resolving %s: %w", dir, err)
		}
		if dir == absDst {
			return nil
		}
	}
}

func removeSymlink(path string) error {
	fi, err := os.Lstat(path)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("error removing existing link %s: %w", path, err)
	}
	return nil
}

func writeFile(file archiver.File, target string) error {
	outFile, err := os.OpenFile(target, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("error creating file %s: %w", target, err)
	}
	defer outFile.Close()

	fileReader, err := file.Open()
	if err != nil {
		return fmt.Errorf("error opening archive file %s: %w", file.NameInArchive, err)
	}
	defer fileReader.Close()

	if _, err := io.Copy(outFile, fileReader); err != nil {
		return fmt.Errorf("error writing file %s: %w", target, err)
	}
	return nil
}

// parallelProcess applies fn to every entry, bounded by the number of CPUs.
func parallelProcess(metas map[string]entryMeta, fn func(string, entryMeta) error) error {
	sem := make(chan struct{}, runtime.NumCPU())
	var g errgroup.Group

	for name, meta := range metas {
		name, meta := name, meta
		g.Go(
			func() error {
				sem <- struct{}{}        // Acquire a semaphore slot
				defer func() { <-sem }() // Release the semaphore slot
				return fn(name, meta)
			},
		)
	}

	return g.Wait()
}

// restoreMeta restores the permissions and modification time of an entry.
// Failures are logged, not returned.
func restoreMeta(path string, meta entryMeta) error {
	if perm := meta.mode.Perm(); perm != 0 {
		if meta.mode.IsDir() {
			// Directories must stay traversable for pruning and repacking.
			perm |= 0o700
		}
		if err := os.Chmod(path, perm); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("Error setting permissions for %s: %v", path, err)
		}
	}

	if !meta.modTime.IsZero() {
		if err := os.Chtimes(path, meta.modTime, meta.modTime); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("Error setting times for %s: %v", path, err)
		}
	}
	return nil
}
