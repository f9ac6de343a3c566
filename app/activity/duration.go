package activity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	loggedPattern   = regexp.MustCompile(`(?i)logged '(.+?)'`)
	durationPattern = regexp.MustCompile(`(?i)(\d+)\s*([wdhms])`)
)

var unitSeconds = map[string]int{
	"w": 7 * 24 * 3600,
	"d": 24 * 3600,
	"h": 3600,
	"m": 60,
	"s": 1,
}

// ExtractLogged searches the full entry text for a quoted duration
// following the "logged" marker, e.g. logged '2h 30m'. ok is false when
// the marker is absent or the captured token parses to zero seconds, so
// zero-duration logs never surface as logged time.
func ExtractLogged(text string) (human string, seconds int, ok bool) {
	m := loggedPattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, false
	}

	human = m[1]
	seconds = ParseHumanDuration(human)
	if seconds == 0 {
		return "", 0, false
	}

	return human, seconds, true
}

// ParseHumanDuration converts a Jira-style human duration ("1w 2d 3h
// 30m 15s", case-insensitive, in any order) to seconds. An unparseable
// token contributes nothing; a string with no recognizable token yields
// zero, never an error.
func ParseHumanDuration(human string) int {
	total := 0
	for _, m := range durationPattern.FindAllStringSubmatch(human, -1) {
		value, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		total += value * unitSeconds[strings.ToLower(m[2])]
	}
	return total
}

// FormatSeconds renders a second count in the same human grammar the
// feed uses, e.g. 5400 -> "1h 30m".
func FormatSeconds(seconds int) string {
	if seconds <= 0 {
		return "0m"
	}

	parts := []struct {
		unit    string
		seconds int
	}{
		{"w", 7 * 24 * 3600},
		{"d", 24 * 3600},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}

	var out []string
	for _, p := range parts {
		if seconds >= p.seconds {
			out = append(out, fmt.Sprintf("%d%s", seconds/p.seconds, p.unit))
			seconds %= p.seconds
		}
	}

	return strings.Join(out, " ")
}
