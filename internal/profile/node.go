package profile

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/pmx/internal/paths"
)

// NodeKind distinguishes directories from profiles in a listing.
type NodeKind int

const (
	NodeDir NodeKind = iota
	NodeLeaf
)

// Node is one entry of a profile listing. The root node has an empty name.
type Node struct {
	Name     string
	Kind     NodeKind
	Children []*Node
}

// IsDir reports whether n is a directory node.
func (n *Node) IsDir() bool {
	return n.Kind == NodeDir
}

// scan builds the tree under dir without recursion. Only *.md files become
// leaves, with the extension stripped. Symlinked directories are not followed.
func scan(dir string) (*Node, error) {
	root := &Node{Kind: NodeDir}

	type frame struct {
		dir  string
		node *Node
	}
	stack := []frame{{dir: dir, node: root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(top.dir)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			switch {
			case e.IsDir():
				child := &Node{Name: e.Name(), Kind: NodeDir}
				top.node.Children = append(top.node.Children, child)
				stack = append(stack, frame{dir: filepath.Join(top.dir, e.Name()), node: child})
			case strings.HasSuffix(e.Name(), paths.ProfileExt) && len(e.Name()) > len(paths.ProfileExt):
				top.node.Children = append(top.node.Children, &Node{
					Name: strings.TrimSuffix(e.Name(), paths.ProfileExt),
					Kind: NodeLeaf,
				})
			}
		}
	}

	sortTree(root)
	return root, nil
}

// sortTree orders every child list byte-wise by name. A leaf sorts before a
// directory of the same name.
func sortTree(root *Node) {
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		slices.SortStableFunc(n.Children, func(a, b *Node) int {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return int(b.Kind) - int(a.Kind)
		})
		for _, c := range n.Children {
			if c.IsDir() {
				stack = append(stack, c)
			}
		}
	}
}

// Leaves returns the full slash-joined names of every leaf under root,
// sorted byte-wise.
func Leaves(root *Node) []string {
	if root == nil {
		return nil
	}

	type frame struct {
		prefix string
		node   *Node
	}

	var names []string
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, c := range top.node.Children {
			full := c.Name
			if top.prefix != "" {
				full = path.Join(top.prefix, c.Name)
			}
			if c.IsDir() {
				stack = append(stack, frame{prefix: full, node: c})
				continue
			}
			names = append(names, full)
		}
	}

	slices.Sort(names)
	return names
}
