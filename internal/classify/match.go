package classify

import (
	"path"
	"strings"
)

const pickcodeLength = 17

// ExtensionSet holds lowercase, dot-prefixed extensions.
type ExtensionSet map[string]struct{}

func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s[ext]
	return ok
}

// NormalizeExtensions turns "MP4", ".mp4" and " mp4 " into ".mp4".
func NormalizeExtensions(exts []string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		set[normalizeExtension(e)] = struct{}{}
	}
	return set
}

func normalizeExtension(ext string) string {
	ext = strings.TrimLeft(strings.TrimSpace(ext), ".")
	return "." + strings.ToLower(ext)
}

func trimSlashes(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	return strings.Trim(p, "/")
}

// InMediaDir reports whether p lies inside root on a path segment boundary.
// An empty root matches everything.
func InMediaDir(p, root string) bool {
	root = trimSlashes(root)
	if root == "" {
		return true
	}
	p = "/" + trimSlashes(p)
	return p == "/"+root || strings.HasPrefix(p, "/"+root+"/")
}

// FileExtension returns the lowercase final extension of name including the
// dot, or "" when there is none. "movie." yields ".".
func FileExtension(name string) string {
	base := path.Base(name)
	i := strings.LastIndexByte(base, '.')
	// A leading dot alone (".nfo", "..") does not start an extension.
	if i <= 0 || base == ".." {
		return ""
	}
	return strings.ToLower(base[i:])
}

// IsValidPickcode checks the format only: 17 ASCII letters or digits after
// trimming whitespace.
func IsValidPickcode(pc string) bool {
	pc = strings.TrimSpace(pc)
	if len(pc) != pickcodeLength {
		return false
	}
	for i := 0; i < len(pc); i++ {
		c := pc[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
