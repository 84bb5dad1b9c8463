package archiver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archiver/v4"
	"github.com/sirupsen/logrus"
)

// Create archives the contents of srcDir into dst, with entries named
// relative to srcDir. The format follows the extension of dst. The archive
// is written to a temporary file next to dst and renamed into place, so an
// existing dst is only replaced by a complete archive.
func Create(ctx context.Context, srcDir, dst string) error {
	af, err := FormatOf(dst)
	if err != nil {
		return err
	}

	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for src %s: %w", srcDir, err)
	}

	// A trailing separator adds the directory contents without the directory itself.
	files, err := archiver.FilesFromDisk(nil, map[string]string{
		absSrc + string(os.PathSeparator): "",
	})
	if err != nil {
		return fmt.Errorf("error collecting files from %s: %w", absSrc, err)
	}

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("error creating archive file for %s: %w", dst, err)
	}
	tmp := out.Name()
	defer os.Remove(tmp)

	if err := af.Archive(ctx, out, files); err != nil {
		out.Close()
		return fmt.Errorf("error archiving %s: %w", absSrc, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("error closing archive %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("error moving archive to %s: %w", dst, err)
	}

	logrus.Debugf("Archive successfully created: %s (%d entries)", dst, len(files))
	return nil
}
