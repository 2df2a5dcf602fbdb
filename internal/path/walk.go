package path

import "github.com/mcncl/jsonkit/internal/models"

// WalkFunc is called for every value reached by Walk. Returning false
// skips the children of v.
type WalkFunc func(p Path, v *models.Value) bool

// Walk visits root and its descendants depth first, parents before
// children, objects in stored key order.
func Walk(root *models.Value, fn WalkFunc) {
	if root == nil {
		return
	}
	walk(root, Path{}, fn)
}

func walk(v *models.Value, p Path, fn WalkFunc) {
	if !fn(p, v) {
		return
	}
	switch v.Kind() {
	case models.KindArray:
		for i, item := range v.Items() {
			walk(item, p.Child(Index(i)), fn)
		}
	case models.KindObject:
		for _, field := range v.Fields() {
			walk(field.Value, p.Child(Key(field.Key)), fn)
		}
	}
}

// PathsToDepth lists the paths of root at most depth segments deep, in
// Walk order. A negative depth lists every path.
func PathsToDepth(root *models.Value, depth int) []Path {
	var paths []Path
	Walk(root, func(p Path, _ *models.Value) bool {
		paths = append(paths, p)
		return depth < 0 || len(p) < depth
	})
	return paths
}
