package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsonkit/internal/models"
)

var (
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	decimalPattern = regexp.MustCompile(`^-?\d*\.\d+$`)
)

// CoerceScalar interprets a raw scalar the way YAML values and edited
// values are read: booleans, null, quoted strings, integers and decimals
// are recognized, `{}` and `[]` become empty containers, and anything else
// is kept as the trimmed literal text.
func CoerceScalar(raw string) *models.Value {
	s := strings.TrimSpace(raw)
	switch s {
	case "true":
		return models.Bool(true)
	case "false":
		return models.Bool(false)
	case "null", "~":
		return models.Null()
	case "{}":
		return models.NewObject()
	case "[]":
		return models.Array()
	}
	if unquoted, ok := unquote(s); ok {
		return models.String(unquoted)
	}
	if integerPattern.MatchString(s) || decimalPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return models.Number(f)
		}
	}
	return models.String(s)
}

// unquote strips matching quotes. Double-quoted text has its backslash
// escapes resolved; single-quoted text is taken as is.
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	switch {
	case s[0] == '"' && s[len(s)-1] == '"':
		return unescape(s[1 : len(s)-1]), true
	case s[0] == '\'' && s[len(s)-1] == '\'':
		return s[1 : len(s)-1], true
	}
	return "", false
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case '"', '\\', '/':
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			r, n := decodeUnicodeEscape(s[i+1:])
			if n == 0 {
				b.WriteString(`\u`)
				continue
			}
			b.WriteRune(r)
			i += n
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// decodeUnicodeEscape reads the hex digits following a \u escape, joining
// a surrogate pair written as two escapes. It returns the rune and the
// number of bytes consumed, or zero when s does not start with four hex
// digits.
func decodeUnicodeEscape(s string) (rune, int) {
	r, ok := hex4(s)
	if !ok {
		return 0, 0
	}
	if utf16.IsSurrogate(r) {
		if len(s) >= 10 && s[4] == '\\' && s[5] == 'u' {
			if low, ok := hex4(s[6:]); ok {
				if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
					return pair, 10
				}
			}
		}
		return utf8.RuneError, 4
	}
	return r, 4
}

func hex4(s string) (rune, bool) {
	if len(s) < 4 {
		return 0, false
	}
	n, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
