package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// PathFrom checks if a path originates from any of the listed paths.
var PathFrom = func(path string, list []string) bool {
	for _, base := range list {
		if path == base || strings.HasPrefix(path, strings.TrimSuffix(base, string(os.PathSeparator))+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

// Depth returns the number of separator-delimited segments of a path.
func Depth(path string) int {
	return len(strings.Split(filepath.Clean(path), string(os.PathSeparator)))
}
