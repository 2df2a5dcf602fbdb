// Package models defines the document value tree shared by the parser,
// formatter, path editor and diff engine.
package models

import (
	"bytes"
	"encoding/json"
	"math"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Type is the textual classification of a value as reported by TypeOf.
type Type string

const (
	TypeNull   Type = "null"
	TypeBool   Type = "bool"
	TypeNumber Type = "number"
	TypeString Type = "string"
	TypeArray  Type = "array"
	TypeObject Type = "object"
)

// String returns the Type a Kind maps to.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return string(TypeNull)
	case KindBool:
		return string(TypeBool)
	case KindNumber:
		return string(TypeNumber)
	case KindString:
		return string(TypeString)
	case KindArray:
		return string(TypeArray)
	case KindObject:
		return string(TypeObject)
	}
	panic("models: unknown kind")
}

// Value is a JSON-compatible document node. A nil *Value means "absent",
// which is different from a Value holding null.
//
// Values are treated as immutable once handed to a caller. The mutating
// methods exist for code that builds or edits a tree it exclusively owns,
// such as the parser or the path editor after cloning.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	items  []*Value
	fields []Field
}

// Field is one member of an object.
type Field struct {
	Key   string
	Value *Value
}

// Null returns a null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) *Value { return &Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// Array returns an array holding items. A nil item is stored as null.
func Array(items ...*Value) *Value {
	v := &Value{kind: KindArray, items: make([]*Value, 0, len(items))}
	for _, item := range items {
		v.Append(item)
	}
	return v
}

// NewObject returns an empty object.
func NewObject() *Value { return &Value{kind: KindObject} }

// ObjectOf returns an object with the given fields in order. Later
// duplicates replace earlier values but keep the first position.
func ObjectOf(fields ...Field) *Value {
	v := NewObject()
	for _, f := range fields {
		v.Set(f.Key, f.Value)
	}
	return v
}

// F is shorthand for building a Field.
func F(key string, value *Value) Field { return Field{Key: key, Value: value} }

// TypeOf classifies v. It returns the empty Type for an absent value.
func TypeOf(v *Value) Type {
	if v == nil {
		return ""
	}
	return Type(v.kind.String())
}

// Kind returns the variant held by v.
func (v *Value) Kind() Kind { return v.kind }

// IsContainer reports whether v is an array or an object.
func (v *Value) IsContainer() bool {
	return v != nil && (v.kind == KindArray || v.kind == KindObject)
}

// Bool returns the boolean payload; false for other kinds.
func (v *Value) Bool() bool { return v.b }

// Number returns the numeric payload; 0 for other kinds.
func (v *Value) Number() float64 { return v.n }

// Text returns the string payload; empty for other kinds.
func (v *Value) Text() string { return v.s }

// Len returns the number of array items or object fields.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.fields)
	}
	return 0
}

// Items returns the array items. The slice must not be modified.
func (v *Value) Items() []*Value { return v.items }

// Index returns the i'th array item, or nil when out of range.
func (v *Value) Index(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Fields returns the object members in order. The slice must not be modified.
func (v *Value) Fields() []Field { return v.fields }

// Keys returns the object keys in stored order.
func (v *Value) Keys() []string {
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the member stored under key.
func (v *Value) Get(key string) (*Value, bool) {
	i := v.indexOf(key)
	if i < 0 {
		return nil, false
	}
	return v.fields[i].Value, true
}

// Has reports whether the object has key.
func (v *Value) Has(key string) bool { return v.indexOf(key) >= 0 }

func (v *Value) indexOf(key string) int {
	if v.kind != KindObject {
		return -1
	}
	for i, f := range v.fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Set stores val under key, replacing an existing member in place or
// appending a new one. A nil val is stored as null.
func (v *Value) Set(key string, val *Value) {
	if v.kind != KindObject {
		panic("models: Set on " + v.kind.String())
	}
	if val == nil {
		val = Null()
	}
	if i := v.indexOf(key); i >= 0 {
		v.fields[i].Value = val
		return
	}
	v.fields = append(v.fields, Field{Key: key, Value: val})
}

// Delete removes key and reports whether it was present.
func (v *Value) Delete(key string) bool {
	i := v.indexOf(key)
	if i < 0 {
		return false
	}
	v.fields = append(v.fields[:i], v.fields[i+1:]...)
	return true
}

// Rename moves the member stored under oldKey to newKey, keeping its
// position. It reports false when oldKey is missing or newKey is taken.
func (v *Value) Rename(oldKey, newKey string) bool {
	i := v.indexOf(oldKey)
	if i < 0 {
		return false
	}
	if oldKey == newKey {
		return true
	}
	if v.indexOf(newKey) >= 0 {
		return false
	}
	v.fields[i].Key = newKey
	return true
}

// Append adds item to the end of an array. A nil item is stored as null.
func (v *Value) Append(item *Value) {
	if v.kind != KindArray {
		panic("models: Append on " + v.kind.String())
	}
	if item == nil {
		item = Null()
	}
	v.items = append(v.items, item)
}

// SetIndex replaces the i'th item and reports whether i was in range.
func (v *Value) SetIndex(i int, item *Value) bool {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return false
	}
	if item == nil {
		item = Null()
	}
	v.items[i] = item
	return true
}

// RemoveIndex removes the i'th item, shifting later items down.
func (v *Value) RemoveIndex(i int) bool {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return false
	}
	v.items = append(v.items[:i], v.items[i+1:]...)
	return true
}

// Clone returns a deep copy of v. Cloning an absent value returns nil.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{kind: v.kind, b: v.b, n: v.n, s: v.s}
	switch v.kind {
	case KindArray:
		out.items = make([]*Value, len(v.items))
		for i, item := range v.items {
			out.items[i] = item.Clone()
		}
	case KindObject:
		out.fields = make([]Field, len(v.fields))
		for i, f := range v.fields {
			out.fields[i] = Field{Key: f.Key, Value: f.Value.Clone()}
		}
	}
	return out
}

// Equal reports whether a and b hold the same tree. Object members must
// appear in the same order. Two absent values are equal.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Key != b.fields[i].Key || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// ScalarEqual compares two non-container values of the same kind.
func ScalarEqual(a, b *Value) bool {
	if a.IsContainer() || b.IsContainer() {
		return false
	}
	return Equal(a, b)
}

// MarshalJSON writes v as compact JSON, keeping object member order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(v.n)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindString:
		writeJSONString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, f.Key)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// writeJSONString encodes s without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
}

// String renders v as compact JSON, mainly for test failure output.
func (v *Value) String() string {
	if v == nil {
		return "<absent>"
	}
	b, _ := v.MarshalJSON()
	return string(b)
}

// Format names a text representation of a document.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatUnknown Format = "unknown"
)
