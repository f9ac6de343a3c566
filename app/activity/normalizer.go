package activity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern    = regexp.MustCompile(`<.*?>`)
	spacesPattern = regexp.MustCompile(`\s{2,}`)
)

// Clean strips HTML/XML tag markup from raw feed text, collapses
// whitespace runs into single spaces, trims the result and decodes
// literal backslash escape sequences left over by the feed provider's
// own text escaping. Always returns a string, possibly empty.
func Clean(raw string) string {
	text := tagPattern.ReplaceAllString(raw, "")
	text = spacesPattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return decodeEscapes(text)
}

// decodeEscapes turns literal sequences like \n, \t and unicode or hex
// escapes into their real characters. Sequences that do not form a valid
// escape are kept verbatim.
func decodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			i++
			continue
		}

		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case '\\':
			b.WriteByte('\\')
			i += 2
		case '\'':
			b.WriteByte('\'')
			i += 2
		case '"':
			b.WriteByte('"')
			i += 2
		case 'u':
			if i+6 <= len(s) {
				if code, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
					b.WriteRune(rune(code))
					i += 6
					continue
				}
			}
			b.WriteByte(c)
			i++
		case 'x':
			if i+4 <= len(s) {
				if code, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					b.WriteRune(rune(code))
					i += 4
					continue
				}
			}
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}

	out := b.String()
	if !utf8.ValidString(out) {
		return s
	}
	return out
}
