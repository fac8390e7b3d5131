package artwork

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	separators = regexp.MustCompile(`[/:]`)
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9\s\-]`)
	spaces     = regexp.MustCompile(`\s+`)
)

// SanitizeFileName turns a card name into the file name the collection site
// expects. The result only contains ASCII letters, digits, single spaces and
// hyphens, and sanitizing it again is a no-op.
func SanitizeFileName(name string) string {
	name = strings.Map(plainSpace, name)
	name = separators.ReplaceAllString(name, "-")
	name = disallowed.ReplaceAllString(name, "")
	name = spaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// plainSpace folds every Unicode whitespace rune, including no-break and
// ideographic spaces and the ASCII separators U+001C..U+001F, into ' '.
func plainSpace(r rune) rune {
	if unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || (r >= 0x1c && r <= 0x1f) {
		return ' '
	}
	return r
}

// ImagePath is where the artwork for name lives inside dir.
func ImagePath(dir, name string) string {
	return filepath.Join(dir, SanitizeFileName(name)+".jpg")
}
