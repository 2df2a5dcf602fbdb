package path

import (
	"fmt"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
)

// The editing functions below never modify root. They clone it, apply
// the change to the clone and return the clone. On error they return
// root itself together with the error, so a caller that ignores the error
// keeps its current document.

// Set stores v at p. The empty path replaces the whole document. A
// missing object key is appended; an array index must already exist.
func Set(root *models.Value, p Path, v *models.Value) (*models.Value, error) {
	if v == nil {
		return root, errors.NewConversionError("cannot store an absent value", errors.ErrUnsupportedValue)
	}
	if len(p) == 0 {
		return v.Clone(), nil
	}

	out := root.Clone()
	parent, err := container(out, p.Parent())
	if err != nil {
		return root, err
	}
	last, _ := p.Last()

	switch parent.Kind() {
	case models.KindArray:
		i, ok := last.arrayIndex()
		if !ok {
			return root, errors.NewNavigationError(fmt.Sprintf("%s is an array, cannot set key '%s'", p.Parent(), last.Key), errors.ErrTypeMismatch)
		}
		if !parent.SetIndex(i, v.Clone()) {
			return root, errors.NewNavigationError(fmt.Sprintf("index %d is out of range for %s (length %d)", i, p.Parent(), parent.Len()), errors.ErrIndexOutOfRange)
		}
	case models.KindObject:
		if last.Kind == IndexSegment {
			return root, errors.NewNavigationError(fmt.Sprintf("%s is an object, cannot set index %d", p.Parent(), last.Index), errors.ErrTypeMismatch)
		}
		parent.Set(last.Key, v.Clone())
	default:
		return root, errors.NewNavigationError(fmt.Sprintf("%s is a %s, not a container", p.Parent(), models.TypeOf(parent)), errors.ErrNotContainer)
	}
	return out, nil
}

// SetRaw reads raw the way an edited field is read (see
// parser.CoerceScalar) and stores the result at p.
func SetRaw(root *models.Value, p Path, raw string) (*models.Value, error) {
	return Set(root, p, parser.CoerceScalar(raw))
}

// RenameKey renames oldKey to newKey in the object at p, keeping the
// member's position. Renaming a key to itself changes nothing.
func RenameKey(root *models.Value, p Path, oldKey, newKey string) (*models.Value, error) {
	if oldKey == newKey {
		return root, nil
	}

	out := root.Clone()
	obj, err := container(out, p)
	if err != nil {
		return root, err
	}
	if obj.Kind() != models.KindObject {
		return root, errors.NewNavigationError(fmt.Sprintf("%s is a %s, only object keys can be renamed", p, models.TypeOf(obj)), errors.ErrTypeMismatch)
	}
	if !obj.Has(oldKey) {
		return root, errors.NewNavigationError(fmt.Sprintf("%s has no key '%s'", p, oldKey), errors.ErrNotFound)
	}
	if obj.Has(newKey) {
		return root, errors.NewNavigationError(fmt.Sprintf("%s already has a key '%s'", p, newKey), errors.ErrKeyExists)
	}
	obj.Rename(oldKey, newKey)
	return out, nil
}

// DeleteAt removes the value at p. Array items after it shift down.
func DeleteAt(root *models.Value, p Path) (*models.Value, error) {
	if len(p) == 0 {
		return root, errors.NewNavigationError("the document root cannot be deleted", errors.ErrRootDelete)
	}

	out := root.Clone()
	parent, err := container(out, p.Parent())
	if err != nil {
		return root, err
	}
	last, _ := p.Last()

	switch parent.Kind() {
	case models.KindArray:
		i, ok := last.arrayIndex()
		if !ok {
			return root, errors.NewNavigationError(fmt.Sprintf("%s is an array, cannot delete key '%s'", p.Parent(), last.Key), errors.ErrTypeMismatch)
		}
		if !parent.RemoveIndex(i) {
			return root, errors.NewNavigationError(fmt.Sprintf("index %d is out of range for %s (length %d)", i, p.Parent(), parent.Len()), errors.ErrIndexOutOfRange)
		}
	case models.KindObject:
		if last.Kind == IndexSegment {
			return root, errors.NewNavigationError(fmt.Sprintf("%s is an object, cannot delete index %d", p.Parent(), last.Index), errors.ErrTypeMismatch)
		}
		if !parent.Delete(last.Key) {
			return root, errors.NewNavigationError(fmt.Sprintf("%s does not exist", p), errors.ErrNotFound)
		}
	default:
		return root, errors.NewNavigationError(fmt.Sprintf("%s is a %s, not a container", p.Parent(), models.TypeOf(parent)), errors.ErrNotContainer)
	}
	return out, nil
}

// InsertChild adds a null child to the container at p. Arrays get a new
// last item when isArray is set; objects get the first free key among
// newKey, newKey1, newKey2 and so on when it is not. Any other target
// leaves the document as it is.
func InsertChild(root *models.Value, p Path, isArray bool) (*models.Value, error) {
	out := root.Clone()
	target, err := container(out, p)
	if err != nil {
		return root, err
	}

	switch {
	case isArray && target.Kind() == models.KindArray:
		target.Append(models.Null())
	case !isArray && target.Kind() == models.KindObject:
		target.Set(FreeKey(target, "newKey"), models.Null())
	default:
		return root, nil
	}
	return out, nil
}

// FreeKey returns base, or base followed by the smallest positive number
// that obj does not use yet.
func FreeKey(obj *models.Value, base string) string {
	key := base
	for i := 1; obj.Has(key); i++ {
		key = fmt.Sprintf("%s%d", base, i)
	}
	return key
}
