// Package schema models the JSON Schema documents that jsonkit infers and
// reads back as a base for further inference
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// Dialect is the $schema URI written on inferred root schemas.
const Dialect = "https://json-schema.org/draft/2020-12/schema"

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	// Try string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	// Try array of strings
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// Has reports whether name is one of the allowed types
func (st SchemaType) Has(name string) bool {
	for _, t := range st.Types {
		if t == name {
			return true
		}
	}
	return false
}

// IsNullable returns true if "null" is one of the allowed types
func (st SchemaType) IsNullable() bool {
	return st.Has("null")
}

// Schema represents a JSON Schema document or one of its subschemas
type Schema struct {
	// Meta
	Schema      string `json:"$schema,omitempty"`
	ID          string `json:"$id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type   SchemaType `json:"type,omitempty"`
	Format string     `json:"format,omitempty"`

	// Object properties. PropertyOrder lists property names in the order
	// they are written.
	Properties    map[string]*Schema `json:"properties,omitempty"`
	PropertyOrder []string           `json:"-"`
	Required      []string           `json:"required,omitempty"`

	// Array items
	Items *Schema `json:"items,omitempty"`
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, errors.NewSchemaError(fmt.Sprintf("failed to parse JSON Schema: %v", err), errors.ErrInvalidJSON)
	}

	return &schema, nil
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

// FromValue builds a Schema from a parsed document, so a schema may be
// written in YAML as well as JSON. Property order follows the document.
func FromValue(v *models.Value) (*Schema, error) {
	if v == nil || v.Kind() != models.KindObject {
		return nil, errors.NewSchemaError("a schema must be an object", errors.ErrUnsupportedValue)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewSchemaError("failed to encode schema", err)
	}
	s, err := ParseBytes(data)
	if err != nil {
		return nil, err
	}
	s.orderFrom(v)
	return s, nil
}

// orderFrom copies property order from the document the schema was read
// from.
func (s *Schema) orderFrom(v *models.Value) {
	if s == nil || v == nil || v.Kind() != models.KindObject {
		return
	}
	if props, ok := v.Get("properties"); ok && props.Kind() == models.KindObject {
		s.PropertyOrder = props.Keys()
		for _, field := range props.Fields() {
			s.Properties[field.Key].orderFrom(field.Value)
		}
	}
	if items, ok := v.Get("items"); ok {
		s.Items.orderFrom(items)
	}
}

// AddProperty stores p under name, appending name to the property order
// when it is new.
func (s *Schema) AddProperty(name string, p *Schema) {
	if s.Properties == nil {
		s.Properties = make(map[string]*Schema)
	}
	if _, ok := s.Properties[name]; !ok {
		s.PropertyOrder = append(s.PropertyOrder, name)
	}
	s.Properties[name] = p
}

// PropertyNames returns the property names in write order. Names missing
// from PropertyOrder follow in sorted order.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range s.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Value renders the schema as a document with keywords in a fixed order.
func (s *Schema) Value() *models.Value {
	out := models.NewObject()
	if s == nil {
		return out
	}

	for _, meta := range []struct{ key, value string }{
		{"$schema", s.Schema},
		{"$id", s.ID},
		{"title", s.Title},
		{"description", s.Description},
	} {
		if meta.value != "" {
			out.Set(meta.key, models.String(meta.value))
		}
	}

	switch len(s.Type.Types) {
	case 0:
	case 1:
		out.Set("type", models.String(s.Type.Types[0]))
	default:
		out.Set("type", stringArray(s.Type.Types))
	}
	if s.Format != "" {
		out.Set("format", models.String(s.Format))
	}
	if s.Properties != nil {
		props := models.NewObject()
		for _, name := range s.PropertyNames() {
			props.Set(name, s.Properties[name].Value())
		}
		out.Set("properties", props)
	}
	if len(s.Required) > 0 {
		out.Set("required", stringArray(s.Required))
	}
	if s.Items != nil {
		out.Set("items", s.Items.Value())
	}
	return out
}

func stringArray(values []string) *models.Value {
	items := make([]*models.Value, len(values))
	for i, v := range values {
		items[i] = models.String(v)
	}
	return models.Array(items...)
}
