// Package diff compares two documents structurally and describes the
// result as a tree of nodes, a change summary or a JSON Patch.
package diff

import (
	"sort"

	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/path"
)

// Status classifies how a location differs between the two documents.
type Status int

const (
	Unchanged Status = iota
	Added
	Removed
	Modified
	TypeChanged
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	case TypeChanged:
		return "type_changed"
	}
	return "unknown"
}

// MarshalText writes the status name, so JSON output reads "added" rather
// than a number.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RootKey is the key reported for the root node.
const RootKey = "root"

// Node is one location in the comparison. Left and Right point into the
// compared documents and must not be modified. A nil side means the
// location does not exist in that document.
type Node struct {
	Key       path.Segment
	Path      path.Path
	LeftType  models.Type
	RightType models.Type
	Left      *models.Value
	Right     *models.Value
	Children  []*Node
	Status    Status
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Diff compares left and right. Either side may be absent.
func Diff(left, right *models.Value) *Node {
	return compare(left, right, path.Path{}, path.Key(RootKey))
}

func compare(left, right *models.Value, p path.Path, key path.Segment) *Node {
	node := &Node{
		Key:       key,
		Path:      p,
		LeftType:  models.TypeOf(left),
		RightType: models.TypeOf(right),
		Left:      left,
		Right:     right,
		Status:    Unchanged,
	}

	switch {
	case left == nil && right == nil:
		return node
	case left == nil:
		node.Status = Added
		node.Children = oneSided(right, p, false)
		return node
	case right == nil:
		node.Status = Removed
		node.Children = oneSided(left, p, true)
		return node
	case left.Kind() != right.Kind():
		node.Status = TypeChanged
		return node
	}

	switch left.Kind() {
	case models.KindObject:
		for _, k := range unionKeys(left, right) {
			l, _ := left.Get(k)
			r, _ := right.Get(k)
			node.addChild(compare(l, r, p.Child(path.Key(k)), path.Key(k)))
		}
	case models.KindArray:
		n := left.Len()
		if right.Len() > n {
			n = right.Len()
		}
		for i := 0; i < n; i++ {
			node.addChild(compare(left.Index(i), right.Index(i), p.Child(path.Index(i)), path.Index(i)))
		}
	default:
		if !models.ScalarEqual(left, right) {
			node.Status = Modified
		}
	}
	return node
}

func (n *Node) addChild(child *Node) {
	n.Children = append(n.Children, child)
	if child.Status != Unchanged {
		n.Status = Modified
	}
}

// oneSided builds the children of a subtree that exists on one side only,
// so every leaf below an added or removed container is reported too.
func oneSided(v *models.Value, p path.Path, removed bool) []*Node {
	var children []*Node
	visit := func(seg path.Segment, child *models.Value) {
		if removed {
			children = append(children, compare(child, nil, p.Child(seg), seg))
		} else {
			children = append(children, compare(nil, child, p.Child(seg), seg))
		}
	}
	switch v.Kind() {
	case models.KindArray:
		for i, item := range v.Items() {
			visit(path.Index(i), item)
		}
	case models.KindObject:
		for _, f := range v.Fields() {
			visit(path.Key(f.Key), f.Value)
		}
	}
	return children
}

// unionKeys returns the keys of both objects, sorted.
func unionKeys(left, right *models.Value) []string {
	seen := make(map[string]struct{}, left.Len()+right.Len())
	keys := make([]string, 0, left.Len()+right.Len())
	for _, obj := range []*models.Value{left, right} {
		for _, f := range obj.Fields() {
			if _, ok := seen[f.Key]; ok {
				continue
			}
			seen[f.Key] = struct{}{}
			keys = append(keys, f.Key)
		}
	}
	sort.Strings(keys)
	return keys
}
