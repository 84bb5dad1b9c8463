package archiver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v4"
)

// Format is an archive format that can be both read and written.
type Format interface {
	archiver.Archiver
	archiver.Extractor
}

type format struct {
	ext string
	fmt Format
}

// Supported formats, longest extension first.
var formats = []format{
	{".tar.gz", archiver.CompressedArchive{Compression: archiver.Gz{}, Archival: archiver.Tar{}}},
	{".tgz", archiver.CompressedArchive{Compression: archiver.Gz{}, Archival: archiver.Tar{}}},
	{".tar", archiver.Tar{}},
	{".zip", archiver.Zip{}},
}

// FormatOf picks the archive format from the file name.
func FormatOf(name string) (Format, error) {
	lower := strings.ToLower(name)
	for _, f := range formats {
		if strings.HasSuffix(lower, f.ext) {
			return f.fmt, nil
		}
	}
	return nil, fmt.Errorf("unsupported archive format: %s", name)
}

// IsArchive reports whether the file name has a supported extension.
func IsArchive(name string) bool {
	_, err := FormatOf(name)
	return err == nil
}

// BaseName strips the directory and the archive extension.
func BaseName(name string) string {
	base := filepath.Base(name)
	lower := strings.ToLower(base)
	for _, f := range formats {
		if strings.HasSuffix(lower, f.ext) {
			return base[:len(base)-len(f.ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
