// Package analyzer infers JSON Schemas from sample documents
package analyzer

import (
	"math"
	"regexp"
	"sort"

	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/schema"
)

// Regex patterns for string formats
var (
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// Time format patterns (ordered by specificity - most specific first)
	rfc3339NanoRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{9}(Z|[+-]\d{2}:\d{2})$`) // 2006-01-02T15:04:05.999999999Z
	rfc3339Regex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`) // 2006-01-02T15:04:05Z
	dateOnlyRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)                                             // 2006-01-02
	emailRegex       = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// JSON Schema type names
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Analyzer infers schemas from sample documents
type Analyzer struct {
	// DetectFormats records string formats such as date-time and uuid.
	DetectFormats bool
	// RequireAll marks every seen property as required, not only the
	// properties every sample has.
	RequireAll bool
}

// NewAnalyzer creates a new Analyzer instance with format detection on.
func NewAnalyzer() *Analyzer {
	return &Analyzer{DetectFormats: true}
}

// Infer analyzes every sample and returns the merged schema, with the
// dialect declared at the root.
func (a *Analyzer) Infer(samples ...*models.Value) *schema.Schema {
	var out *schema.Schema
	for _, sample := range samples {
		out = a.Merge(out, a.Analyze(sample))
	}
	if out == nil {
		out = &schema.Schema{}
	}
	out.Schema = schema.Dialect
	return out
}

// Analyze infers the schema of a single value. Absent values have none.
func (a *Analyzer) Analyze(v *models.Value) *schema.Schema {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case models.KindNull:
		return typed(TypeNull)
	case models.KindBool:
		return typed(TypeBoolean)
	case models.KindNumber:
		if isInteger(v.Number()) {
			return typed(TypeInteger)
		}
		return typed(TypeNumber)
	case models.KindString:
		s := typed(TypeString)
		if a.DetectFormats {
			s.Format = detectFormat(v.Text())
		}
		return s
	case models.KindArray:
		// Elements merge into one items schema, so objects with slightly
		// different members become one object schema.
		s := typed(TypeArray)
		for _, item := range v.Items() {
			s.Items = a.Merge(s.Items, a.Analyze(item))
		}
		return s
	default:
		s := typed(TypeObject)
		s.Properties = make(map[string]*schema.Schema, v.Len())
		s.Required = []string{}
		for _, field := range v.Fields() {
			s.AddProperty(field.Key, a.Analyze(field.Value))
			s.Required = append(s.Required, field.Key)
		}
		return s
	}
}

func typed(name string) *schema.Schema {
	return &schema.Schema{Type: schema.SchemaType{Types: []string{name}}}
}

func isInteger(n float64) bool {
	return n == math.Trunc(n) && !math.IsInf(n, 0)
}

func detectFormat(s string) string {
	switch {
	case uuidRegex.MatchString(s):
		return "uuid"
	case rfc3339NanoRegex.MatchString(s), rfc3339Regex.MatchString(s):
		return "date-time"
	case dateOnlyRegex.MatchString(s):
		return "date"
	case emailRegex.MatchString(s):
		return "email"
	}
	return ""
}

// Merge combines two schemas into one that accepts the samples of both.
// Integer and number merge to number; differing string formats are
// dropped. Meta keywords come from x when set there.
func (a *Analyzer) Merge(x, y *schema.Schema) *schema.Schema {
	if x == nil {
		return y
	}
	if y == nil {
		return x
	}

	out := &schema.Schema{
		Schema:      firstNonEmpty(x.Schema, y.Schema),
		ID:          firstNonEmpty(x.ID, y.ID),
		Title:       firstNonEmpty(x.Title, y.Title),
		Description: firstNonEmpty(x.Description, y.Description),
		Type:        schema.SchemaType{Types: mergeTypes(x.Type.Types, y.Type.Types)},
	}

	xStrings, yStrings := x.Type.Has(TypeString), y.Type.Has(TypeString)
	switch {
	case xStrings && yStrings && x.Format == y.Format:
		out.Format = x.Format
	case xStrings && !yStrings:
		out.Format = x.Format
	case yStrings && !xStrings:
		out.Format = y.Format
	}

	xObject, yObject := x.Type.Has(TypeObject), y.Type.Has(TypeObject)
	if xObject || yObject {
		out.Properties = make(map[string]*schema.Schema)
		for _, name := range x.PropertyNames() {
			out.AddProperty(name, x.Properties[name])
		}
		for _, name := range y.PropertyNames() {
			out.AddProperty(name, a.Merge(out.Properties[name], y.Properties[name]))
		}
		switch {
		case a.RequireAll:
			out.Required = union(x.Required, y.Required)
		case xObject && yObject:
			out.Required = intersect(x.Required, y.Required)
		case xObject:
			out.Required = x.Required
		default:
			out.Required = y.Required
		}
	}

	if x.Type.Has(TypeArray) || y.Type.Has(TypeArray) {
		out.Items = a.Merge(x.Items, y.Items)
	}
	return out
}

func firstNonEmpty(x, y string) string {
	if x != "" {
		return x
	}
	return y
}

func mergeTypes(x, y []string) []string {
	seen := make(map[string]bool)
	for _, t := range x {
		seen[t] = true
	}
	for _, t := range y {
		seen[t] = true
	}
	if seen[TypeNumber] && seen[TypeInteger] {
		delete(seen, TypeInteger)
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func intersect(x, y []string) []string {
	inY := make(map[string]bool, len(y))
	for _, k := range y {
		inY[k] = true
	}
	out := []string{}
	for _, k := range x {
		if inY[k] {
			out = append(out, k)
		}
	}
	return out
}

func union(x, y []string) []string {
	seen := make(map[string]bool, len(x))
	out := append([]string{}, x...)
	for _, k := range x {
		seen[k] = true
	}
	for _, k := range y {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
