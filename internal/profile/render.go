package profile

import (
	"fmt"
	"io"
	"strings"
)

// EmptyMessage is printed instead of an empty interactive tree.
const EmptyMessage = "No profiles found."

// Render writes the tree to w. Interactive output is a box-drawing tree with
// directories suffixed by "/"; otherwise one full profile name per line,
// sorted, for scripts.
func Render(w io.Writer, root *Node, interactive bool) error {
	if !interactive {
		for _, name := range Leaves(root) {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	}

	if root == nil || len(root.Children) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	var b strings.Builder

	type frame struct {
		node   *Node
		indent string
		last   bool
	}

	// Push children in reverse so they pop in order.
	var stack []frame
	pushChildren := func(n *Node, indent string) {
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:   n.Children[i],
				indent: indent,
				last:   i == len(n.Children)-1,
			})
		}
	}
	pushChildren(root, "")

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		connector, continuation := "├── ", "│   "
		if f.last {
			connector, continuation = "└── ", "    "
		}

		b.WriteString(f.indent)
		b.WriteString(connector)
		b.WriteString(f.node.Name)
		if f.node.IsDir() {
			b.WriteByte('/')
			pushChildren(f.node, f.indent+continuation)
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
