package settings

import (
	"strings"
	"unicode"
)

// PathSeparator separates segments of a setting key.
const PathSeparator = "/"

// LastSegment returns the final non-empty segment of a key path.
// "Controls/Mouse/Sensitivity" yields "Sensitivity".
func LastSegment(key string) string {
	key = strings.TrimRight(strings.TrimSpace(key), PathSeparator)
	if i := strings.LastIndex(key, PathSeparator); i >= 0 {
		return strings.TrimSpace(key[i+1:])
	}
	return key
}

// Labelize turns an identifier-like segment into a display label:
// "mouseSensitivity" -> "Mouse Sensitivity", "HTTPPort" -> "HTTP Port",
// "vsync_enabled" -> "Vsync Enabled", "fov2x" -> "Fov 2 X".
func Labelize(segment string) string {
	words := splitWords(segment)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && unicode.IsLower(next):
				// End of an acronym: "HTTPPort" splits before the final P.
				flush()
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
