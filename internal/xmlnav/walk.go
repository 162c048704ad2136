package xmlnav

import "strings"

// SuffixMatch returns a predicate matching nodes whose local tag name ends
// with the given bare name. Known limitation: the match is a plain string
// suffix, so "Sede" also matches "IndirizzoSede". Callers that care must
// pick tag names that are not suffixes of sibling tags.
func SuffixMatch(tag string) func(*Node) bool {
	return func(n *Node) bool {
		return strings.HasSuffix(n.Name.Local, tag)
	}
}

// Walk visits root and every descendant in pre-order, each node exactly
// once, and returns the first node satisfying pred. Returns nil when root
// is nil or nothing matches, so lookups chain without panicking.
func Walk(root *Node, pred func(*Node) bool) *Node {
	if root == nil {
		return nil
	}
	if pred(root) {
		return root
	}
	for _, child := range root.Children {
		if found := Walk(child, pred); found != nil {
			return found
		}
	}
	return nil
}

// WalkAll collects every node satisfying pred, in document order.
func WalkAll(root *Node, pred func(*Node) bool) []*Node {
	if root == nil {
		return nil
	}

	var matches []*Node
	var visit func(*Node)
	visit = func(n *Node) {
		if pred(n) {
			matches = append(matches, n)
		}
		for _, child := range n.Children {
			visit(child)
		}
	}
	visit(root)

	return matches
}

// FindFirst returns the first element under root (root included) whose tag
// name ends with tag, or nil.
func FindFirst(root *Node, tag string) *Node {
	return Walk(root, SuffixMatch(tag))
}

// FindAll returns every element under root (root included) whose tag name
// ends with tag, in document order.
func FindAll(root *Node, tag string) []*Node {
	return WalkAll(root, SuffixMatch(tag))
}
