package tree

// Match is the result of an identifier lookup.
type Match struct {
	Node *Node
	// Ancestors runs from the root down to the direct parent.
	Ancestors []*Node
	// Path holds the flat child index taken at each level.
	Path []int
}

// FindFirstLeaf returns the first leaf in pre-order, which is n itself when
// n is a leaf.
func FindFirstLeaf(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return n
	}
	for _, c := range n.ChildCollections() {
		for _, child := range c.Children {
			if leaf := FindFirstLeaf(child); leaf != nil {
				return leaf
			}
		}
	}
	return nil
}

// FindByIdentifier returns the first node in pre-order whose number equals id.
func FindByIdentifier(root *Node, id string) (*Match, bool) {
	if root == nil || id == "" {
		return nil, false
	}
	var ancestors []*Node
	var path []int
	return findByIdentifier(root, id, ancestors, path)
}

func findByIdentifier(n *Node, id string, ancestors []*Node, path []int) (*Match, bool) {
	if n.Number == id {
		return &Match{
			Node:      n,
			Ancestors: append([]*Node(nil), ancestors...),
			Path:      append([]int(nil), path...),
		}, true
	}
	for i, child := range n.Children() {
		if m, ok := findByIdentifier(child, id, append(ancestors, n), append(path, i)); ok {
			return m, true
		}
	}
	return nil, false
}

// CollectLeavesInOrder returns every leaf in document order. A leaf with
// children is listed before its descendants.
func CollectLeavesInOrder(root *Node) []*Node {
	var leaves []*Node
	Walk(root, func(n *Node, _ []*Node) bool {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

// Walk visits nodes in pre-order. fn receives the node and its ancestors
// (root first); returning false skips the node's subtree.
func Walk(root *Node, fn func(n *Node, ancestors []*Node) bool) {
	if root == nil {
		return
	}
	walk(root, nil, fn)
}

func walk(n *Node, ancestors []*Node, fn func(*Node, []*Node) bool) {
	if !fn(n, ancestors) {
		return
	}
	ancestors = append(ancestors, n)
	for _, c := range n.ChildCollections() {
		for _, child := range c.Children {
			walk(child, ancestors, fn)
		}
	}
}

// Neighbors returns the leaves immediately before and after the first leaf
// numbered id. Either result is nil at the ends or when id is unknown.
func Neighbors(root *Node, id string) (prev, next *Node) {
	leaves := CollectLeavesInOrder(root)
	for i, leaf := range leaves {
		if leaf.Number != id {
			continue
		}
		if i > 0 {
			prev = leaves[i-1]
		}
		if i < len(leaves)-1 {
			next = leaves[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// PathTo returns the flat-index path from root to target, comparing nodes by
// identity.
func PathTo(root, target *Node) ([]int, bool) {
	if root == nil || target == nil {
		return nil, false
	}
	if root == target {
		return []int{}, true
	}
	for i, child := range root.Children() {
		if rest, ok := PathTo(child, target); ok {
			return append([]int{i}, rest...), true
		}
	}
	return nil, false
}
