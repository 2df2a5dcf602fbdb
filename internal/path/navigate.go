package path

import (
	"fmt"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// Get returns the value at p. A missing final key or an index past the
// end yields an absent value with no error. Stepping into a scalar, using
// the wrong segment kind for a container, or passing through a missing
// intermediate is a navigation error.
func Get(root *models.Value, p Path) (*models.Value, error) {
	cur := root
	for i, seg := range p {
		if cur == nil {
			return nil, errors.NewNavigationError(fmt.Sprintf("%s does not exist", p[:i]), errors.ErrNotFound)
		}
		next, err := step(cur, p[:i], seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// step moves from cur, found at at, into seg.
func step(cur *models.Value, at Path, seg Segment) (*models.Value, error) {
	switch cur.Kind() {
	case models.KindArray:
		i, ok := seg.arrayIndex()
		if !ok {
			return nil, errors.NewNavigationError(fmt.Sprintf("%s is an array, cannot select key '%s'", at, seg.Key), errors.ErrTypeMismatch)
		}
		return cur.Index(i), nil
	case models.KindObject:
		if seg.Kind == IndexSegment {
			return nil, errors.NewNavigationError(fmt.Sprintf("%s is an object, cannot select index %d", at, seg.Index), errors.ErrTypeMismatch)
		}
		v, _ := cur.Get(seg.Key)
		return v, nil
	}
	return nil, errors.NewNavigationError(fmt.Sprintf("%s is a %s, not a container", at, models.TypeOf(cur)), errors.ErrNotContainer)
}

// container returns the existing value at p. Unlike Get, a missing value
// is an error.
func container(root *models.Value, p Path) (*models.Value, error) {
	v, err := Get(root, p)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.NewNavigationError(fmt.Sprintf("%s does not exist", p), errors.ErrNotFound)
	}
	return v, nil
}
