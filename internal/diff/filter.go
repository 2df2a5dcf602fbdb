package diff

// Filter returns a copy of node without the subtrees whose canonical path
// ignore reports. A container left with only unchanged children becomes
// unchanged. The root is never removed.
func Filter(node *Node, ignore func(path string) bool) *Node {
	if node == nil {
		return nil
	}
	return filter(node, ignore)
}

func filter(n *Node, ignore func(string) bool) *Node {
	out := *n
	if n.IsLeaf() {
		return &out
	}

	out.Children = make([]*Node, 0, len(n.Children))
	changed := false
	for _, child := range n.Children {
		if ignore(child.Path.String()) {
			continue
		}
		kept := filter(child, ignore)
		out.Children = append(out.Children, kept)
		if kept.Status != Unchanged {
			changed = true
		}
	}
	if n.Status == Modified && !changed {
		out.Status = Unchanged
	}
	return &out
}
