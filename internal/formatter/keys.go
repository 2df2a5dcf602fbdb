package formatter

import (
	"fmt"
	"sort"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// KeyCase names a key naming convention.
type KeyCase string

const (
	KeyCaseNone      KeyCase = ""
	KeyCaseSnake     KeyCase = "snake"
	KeyCaseCamel     KeyCase = "camel"
	KeyCasePascal    KeyCase = "pascal"
	KeyCaseKebab     KeyCase = "kebab"
	KeyCaseScreaming KeyCase = "screaming"
)

// ParseKeyCase validates a key case name.
func ParseKeyCase(name string) (KeyCase, error) {
	switch kc := KeyCase(name); kc {
	case KeyCaseNone, KeyCaseSnake, KeyCaseCamel, KeyCasePascal, KeyCaseKebab, KeyCaseScreaming:
		return kc, nil
	}
	return KeyCaseNone, errors.NewConversionError(fmt.Sprintf("unknown key case '%s'", name), errors.ErrUnsupportedValue)
}

func (kc KeyCase) convert(key string) string {
	switch kc {
	case KeyCaseSnake:
		return strcase.ToSnake(key)
	case KeyCaseCamel:
		return strcase.ToLowerCamel(key)
	case KeyCasePascal:
		return strcase.ToCamel(key)
	case KeyCaseKebab:
		return strcase.ToKebab(key)
	case KeyCaseScreaming:
		return strcase.ToScreamingSnake(key)
	}
	return key
}

// NormalizeKeys returns a copy of v with every object key rewritten to kc.
// When two keys collide the later value wins, kept at the position of the
// first.
func NormalizeKeys(v *models.Value, kc KeyCase) (*models.Value, error) {
	if _, err := ParseKeyCase(string(kc)); err != nil {
		return nil, err
	}
	return normalize(v, kc), nil
}

func normalize(v *models.Value, kc KeyCase) *models.Value {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case models.KindArray:
		items := make([]*models.Value, 0, v.Len())
		for _, item := range v.Items() {
			items = append(items, normalize(item, kc))
		}
		return models.Array(items...)
	case models.KindObject:
		out := models.NewObject()
		for _, field := range v.Fields() {
			out.Set(kc.convert(field.Key), normalize(field.Value, kc))
		}
		return out
	}
	return v.Clone()
}

// SortKeys returns a copy of v whose object members are ordered by key at
// every level. Array order is kept.
func SortKeys(v *models.Value) *models.Value {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case models.KindArray:
		items := make([]*models.Value, 0, v.Len())
		for _, item := range v.Items() {
			items = append(items, SortKeys(item))
		}
		return models.Array(items...)
	case models.KindObject:
		fields := append([]models.Field(nil), v.Fields()...)
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
		out := models.NewObject()
		for _, field := range fields {
			out.Set(field.Key, SortKeys(field.Value))
		}
		return out
	}
	return v.Clone()
}
