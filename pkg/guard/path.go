package guard

import (
	"path"
	"strings"
)

// isUnsafePath reports whether p is empty, absolute, contains a
// backslash, or has a ".." segment. It does not check p against the
// canonical entry names; archive.Open rejects unrecognized names.
// Archive entry names are always "/"-separated regardless of host OS
// (§4.7), so this checks "/" segments directly rather than filepath.
func isUnsafePath(p string) bool {
	if p == "" {
		return true
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return true
	}
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return true
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// pathDepth returns the number of "/"-separated segments in a cleaned
// archive entry path.
func pathDepth(p string) int {
	if p == "" {
		return 0
	}
	return len(strings.Split(path.Clean(p), "/"))
}
