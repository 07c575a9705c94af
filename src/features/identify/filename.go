package identify

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bracketedPattern  = regexp.MustCompile(`\[.*?\]`)
	noiseParenPattern = regexp.MustCompile(`(?i)\(.*?(official|video|audio|lyrics|hd|hq|4k|remix|edit).*?\)`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// Ordered artist/title separators; the first match wins.
	separatorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+)$`),
		regexp.MustCompile(`^(.+?)\s*\|\s*(.+)$`),
		regexp.MustCompile(`^(.+?)\s*/\s*(.+)$`),
	}

	// A 4-digit 20xx token bounded by non-digits or the string edges.
	stemYearPattern = regexp.MustCompile(`(?:^|\D)(20[0-2][0-9])(?:\D|$)`)
)

// ParseStem derives (title, artist) from a filename stem. Bracketed
// annotations and noise parentheticals are stripped first, then the ordered
// separator patterns split the stem into artist and title. When no separator
// matches, the whole cleaned stem becomes the title. This is a best-effort
// heuristic: a title containing a dash silently produces a wrong split.
func ParseStem(stem string) (title, artist string) {
	cleaned := bracketedPattern.ReplaceAllString(stem, "")
	cleaned = noiseParenPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	for _, pattern := range separatorPatterns {
		if m := pattern.FindStringSubmatch(cleaned); m != nil {
			artist = collapseWhitespace(m[1])
			title = collapseWhitespace(m[2])
			return title, artist
		}
	}

	return collapseWhitespace(cleaned), ""
}

// YearFromStem scans a filename stem for a plausible release year token.
func YearFromStem(stem string) (int, bool) {
	m := stemYearPattern.FindStringSubmatch(stem)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil || year < 2000 || year > 2030 {
		return 0, false
	}
	return year, true
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
