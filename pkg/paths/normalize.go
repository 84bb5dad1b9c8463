package paths

import (
	"path"
	"path/filepath"
	"strings"
)

// Normalize turns a rule path into a slash-separated relative clean form.
// "./a//b/" becomes "a/b"; the root ("", "/", ".") becomes "".
// Parent references are kept so Escapes can report them.
func Normalize(raw string) string {
	if strings.Contains(raw, `\`) {
		raw = strings.ReplaceAll(raw, `\`, `/`)
	}

	raw = strings.TrimLeft(raw, "/")
	if raw == "" {
		return ""
	}

	raw = path.Clean(raw)
	if raw == "." {
		return ""
	}
	return raw
}

// Escapes reports whether a rule path points outside of the tree root.
func Escapes(raw string) bool {
	p := Normalize(raw)
	return p == ".." || strings.HasPrefix(p, "../")
}

// Within reports whether slash path p equals base or lies inside it.
func Within(p, base string) bool {
	return p == base || strings.HasPrefix(p, base+"/")
}

// Join resolves a rule path against a tree root.
func Join(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(Normalize(rel)))
}
