package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// Options control how Render writes a document.
type Options struct {
	// Minify writes compact JSON. YAML output ignores it.
	Minify bool
	// SortKeys orders object members alphabetically at every level.
	SortKeys bool
	// KeyCase rewrites every object key, see NormalizeKeys.
	KeyCase KeyCase
}

// Render applies the transforms in opts to v and writes it in format.
// FormatUnknown writes JSON.
func Render(v *models.Value, format models.Format, opts Options) (string, error) {
	if v == nil {
		return "", nil
	}
	if opts.KeyCase != KeyCaseNone {
		normalized, err := NormalizeKeys(v, opts.KeyCase)
		if err != nil {
			return "", err
		}
		v = normalized
	}
	if opts.SortKeys {
		v = SortKeys(v)
	}

	switch format {
	case models.FormatYAML:
		return ToYAML(v), nil
	case models.FormatJSON, models.FormatUnknown, "":
		return ToJSON(v, !opts.Minify)
	}
	return "", errors.NewConversionError(fmt.Sprintf("unknown output format '%s'", format), errors.ErrUnsupportedValue)
}

// ToJSON renders v as JSON, indented by two spaces when pretty. Object
// members keep their stored order and HTML characters are not escaped.
// An absent value renders as empty text.
func ToJSON(v *models.Value, pretty bool) (string, error) {
	if v == nil {
		return "", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", errors.NewConversionError("failed to encode JSON", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ToYAML renders v as block YAML with two spaces per level.
func ToYAML(v *models.Value) string {
	return ToYAMLIndent(v, 0)
}

// ToYAMLIndent renders v as if nested indent levels deep.
func ToYAMLIndent(v *models.Value, indent int) string {
	if v == nil {
		return ""
	}
	spaces := strings.Repeat("  ", indent)

	switch v.Kind() {
	case models.KindNull:
		return "null"
	case models.KindBool:
		return strconv.FormatBool(v.Bool())
	case models.KindNumber:
		return formatNumber(v.Number())
	case models.KindString:
		return yamlString(v.Text())
	case models.KindArray:
		if v.Len() == 0 {
			return "[]"
		}
		lines := make([]string, 0, v.Len())
		for _, item := range v.Items() {
			if isBlock(item) {
				// The first line of the nested block sits after the dash;
				// the rest are already indented one level deeper.
				inner := ToYAMLIndent(item, indent+1)
				lines = append(lines, spaces+"- "+strings.TrimLeft(inner, " "))
				continue
			}
			lines = append(lines, spaces+"- "+ToYAMLIndent(item, indent))
		}
		return strings.Join(lines, "\n")
	case models.KindObject:
		if v.Len() == 0 {
			return "{}"
		}
		lines := make([]string, 0, v.Len())
		for _, field := range v.Fields() {
			key := yamlString(field.Key)
			if isBlock(field.Value) {
				lines = append(lines, spaces+key+":\n"+ToYAMLIndent(field.Value, indent+1))
				continue
			}
			lines = append(lines, spaces+key+": "+ToYAMLIndent(field.Value, indent))
		}
		return strings.Join(lines, "\n")
	}
	panic("formatter: unknown kind")
}

// isBlock reports whether v renders over several lines.
func isBlock(v *models.Value) bool {
	return v.IsContainer() && v.Len() > 0
}

// formatNumber writes n without an exponent so it reads back as a number.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

var (
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	decimalPattern = regexp.MustCompile(`^-?\d*\.\d+$`)
)

// yamlString writes s bare when that reads back as the same string and
// double-quoted otherwise.
func yamlString(s string) string {
	if !needsQuotes(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuotes(s string) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return true
	}
	if strings.ContainsAny(s, "\n\r\t:#") {
		return true
	}
	switch s {
	case "true", "false", "null", "~", "{}", "[]", "-":
		return true
	}
	switch s[0] {
	case '"', '\'', '{', '[':
		return true
	}
	if strings.HasPrefix(s, "- ") {
		return true
	}
	return integerPattern.MatchString(s) || decimalPattern.MatchString(s)
}
