package filetree

import "strings"

// Node represents one filesystem entry in the scanned tree. The root node
// has Path "." and owns its descendants exclusively; symlinks are recorded
// as leaves so the tree stays acyclic.
type Node struct {
	Path     string // relative to the scan root, slash-separated; "." for the root
	Name     string
	IsDir    bool
	Included bool
	Expanded bool // directories only; controls visibility in the selection UI
	Children []*Node
}

// SetIncludedAll sets Included on n and every descendant.
func (n *Node) SetIncludedAll(included bool) {
	n.Included = included
	for _, c := range n.Children {
		c.SetIncludedAll(included)
	}
}

// Toggle flips n's Included flag. For a directory the new value cascades to
// all descendants; individual descendants can be re-toggled afterwards.
func (n *Node) Toggle() {
	if n.IsDir {
		n.SetIncludedAll(!n.Included)
		return
	}
	n.Included = !n.Included
}

// Walk visits n and every descendant in preorder.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the descendant (or n itself) with the given relative path,
// or nil if no such node exists.
func (n *Node) Find(path string) *Node {
	var found *Node
	n.Walk(func(node *Node) {
		if node.Path == path {
			found = node
		}
	})
	return found
}

// Files returns the file nodes under n in preorder.
func (n *Node) Files() []*Node {
	var files []*Node
	n.Walk(func(node *Node) {
		if !node.IsDir {
			files = append(files, node)
		}
	})
	return files
}

// VisibleRows flattens the tree into the rows the selection screen lists:
// n itself, then recursively the children of every expanded directory.
// Collapsed descendants stay in the model, they just aren't listed.
func (n *Node) VisibleRows() []*Node {
	rows := []*Node{n}
	if n.IsDir && n.Expanded {
		for _, c := range n.Children {
			rows = append(rows, c.VisibleRows()...)
		}
	}
	return rows
}

// Depth is the number of path segments below the root, used for
// indentation. The root has depth 0.
func (n *Node) Depth() int {
	if n.Path == "." {
		return 0
	}
	return strings.Count(n.Path, "/") + 1
}
