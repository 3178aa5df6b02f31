package chart

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	reservedChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	unsafeChars   = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	multiUnder    = regexp.MustCompile(`_+`)
)

// SafeFilename converts a string into a filesystem-safe file name:
// non-ASCII characters are dropped, spaces become underscores, reserved
// and unsafe characters are removed, runs of underscores collapse.
func SafeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	out := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	out = reservedChars.ReplaceAllString(out, "")
	out = unsafeChars.ReplaceAllString(out, "")
	out = multiUnder.ReplaceAllString(out, "_")
	return strings.Trim(out, "_.")
}

// SafePath sanitizes only the file name component of a path.
func SafePath(path string) string {
	dir, file := filepath.Split(path)
	return filepath.Join(dir, SafeFilename(file))
}
