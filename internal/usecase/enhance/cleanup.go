package enhance

import (
	"regexp"
	"strings"
)

// labelPattern strips the "Search query:" echo some models prepend, in any
// of its observed spellings: bare, single or double quoted, or bold markdown.
var labelPattern = regexp.MustCompile(`(?im)^(?:['"]?\s*\*?\*?search\s+query\*?\*?['"]?\s*:\s*\*{0,2})\s*`)

// Clean normalizes raw model output into a usable search query. Applying it
// to already-clean text is a no-op.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = labelPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		s = s[1:]
	}
	if strings.HasSuffix(s, `"`) {
		s = s[:len(s)-1]
	}
	return s
}
