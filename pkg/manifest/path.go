package manifest

import (
	"path"
	"strings"
)

// NormalizePath cleans an archive-relative path and reports whether it
// stays inside the archive root. The second return is false for empty,
// absolute, and root-escaping paths.
func NormalizePath(p string) (string, bool) {
	if p == "" || strings.ContainsRune(p, 0) {
		return "", false
	}
	if path.IsAbs(p) {
		return "", false
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." ||
		strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}
