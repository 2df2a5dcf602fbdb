package diff

// Summary counts the changes in a comparison.
type Summary struct {
	Added       int `json:"added"`
	Removed     int `json:"removed"`
	Modified    int `json:"modified"`
	TypeChanged int `json:"typeChanged"`
}

// Total is the number of counted changes.
func (s Summary) Total() int {
	return s.Added + s.Removed + s.Modified + s.TypeChanged
}

// Summarize counts leaf nodes by status. Containers are only counted
// through their leaves, except type changes, which are counted wherever
// they occur.
func Summarize(node *Node) Summary {
	var s Summary
	Visit(node, func(n *Node) bool {
		if n.Status == TypeChanged {
			s.TypeChanged++
			return true
		}
		if !n.IsLeaf() {
			return true
		}
		switch n.Status {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Modified:
			s.Modified++
		}
		return true
	})
	return s
}

// Visit calls fn for node and its descendants, parents first. Returning
// false skips the children of that node.
func Visit(node *Node, fn func(*Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range node.Children {
		Visit(child, fn)
	}
}

// Changes returns the changed leaves and type changes in tree order.
func Changes(node *Node) []*Node {
	var changes []*Node
	Visit(node, func(n *Node) bool {
		if n.Status != Unchanged && (n.IsLeaf() || n.Status == TypeChanged) {
			changes = append(changes, n)
		}
		return true
	})
	return changes
}

// ChangedPaths lists the root and every changed node in tree order. A
// container holding a change is itself marked modified, so the result
// includes the ancestors of every change.
func ChangedPaths(node *Node) []string {
	if node == nil {
		return nil
	}
	paths := []string{node.Path.String()}
	Visit(node, func(n *Node) bool {
		if n.Status == Unchanged {
			return false
		}
		if n != node {
			paths = append(paths, n.Path.String())
		}
		return true
	})
	return paths
}

// AllPaths lists the path of every node in tree order.
func AllPaths(node *Node) []string {
	var paths []string
	Visit(node, func(n *Node) bool {
		paths = append(paths, n.Path.String())
		return true
	})
	return paths
}
