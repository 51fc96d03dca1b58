// Package surface models the externally-owned UI tree the pin layer
// attaches to. The host feed owns the structure; everything else reads
// and mutates it through a Tree, which serializes access and reports
// mutations to observers. Detached nodes (clones, snapshots) belong to
// the caller and may be read directly.
package surface

type Node struct {
	Tag     string
	ID      string
	Classes []string
	Attrs   map[string]string
	Text    string

	parent   *Node
	children []*Node

	onClick func(target *Node)
	onHover func(target *Node)
}

// Desc declares a subtree. NewNode builds detached nodes from it; the
// tree's Append/Prepend take ownership on insert.
type Desc struct {
	Tag      string
	ID       string
	Classes  []string
	Attrs    map[string]string
	Text     string
	Children []Desc
}

func NewNode(desc Desc) *Node {
	node := &Node{
		Tag:     desc.Tag,
		ID:      desc.ID,
		Classes: append([]string(nil), desc.Classes...),
		Text:    desc.Text,
	}
	if len(desc.Attrs) > 0 {
		node.Attrs = make(map[string]string, len(desc.Attrs))
		for name, value := range desc.Attrs {
			node.Attrs[name] = value
		}
	}
	for _, child := range desc.Children {
		childNode := NewNode(child)
		childNode.parent = node
		node.children = append(node.children, childNode)
	}
	return node
}

// clone deep-copies the subtree. Handlers never survive a clone; the
// copy starts detached.
func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Tag:     n.Tag,
		ID:      n.ID,
		Classes: append([]string(nil), n.Classes...),
		Text:    n.Text,
	}
	if len(n.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for name, value := range n.Attrs {
			out.Attrs[name] = value
		}
	}
	for _, child := range n.children {
		childCopy := child.clone()
		childCopy.parent = out
		out.children = append(out.children, childCopy)
	}
	return out
}

// Parent and Children are safe on detached subtrees; live-tree callers
// go through the Tree accessors instead.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return append([]*Node(nil), n.children...)
}

func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	value, ok := n.Attrs[name]
	return value, ok
}

func (n *Node) hasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (n *Node) addClass(class string) bool {
	if n.hasClass(class) {
		return false
	}
	n.Classes = append(n.Classes, class)
	return true
}

func (n *Node) removeClass(class string) bool {
	for i, c := range n.Classes {
		if c == class {
			n.Classes = append(n.Classes[:i], n.Classes[i+1:]...)
			return true
		}
	}
	return false
}

func (n *Node) detach() {
	if n == nil || n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, child := range siblings {
		if child == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}
