package surface

import (
	"sync"

	"pinboard/internal/logging"
)

// Tree serializes all access to a live node structure. Mutators report
// to observers after the write lock is released, so observer callbacks
// may mutate the tree again without deadlocking.
type Tree struct {
	mu     sync.RWMutex
	root   *Node
	logger logging.Logger

	obsMu     sync.Mutex
	observers map[int]func(Mutation)
	nextObsID int

	queueMu  sync.Mutex
	queue    []Mutation
	draining bool
}

func NewTree(logger logging.Logger) *Tree {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Tree{
		root:      &Node{Tag: "document"},
		logger:    logger,
		observers: map[int]func(Mutation){},
	}
}

func (t *Tree) Root() *Node {
	return t.root
}

// Find returns the first descendant of the root matching the selector,
// in document order, or nil.
func (t *Tree) Find(sel string) *Node {
	return t.FindIn(t.root, sel)
}

func (t *Tree) FindAll(sel string) []*Node {
	return t.FindAllIn(t.root, sel)
}

// FindIn scopes the lookup to descendants of scope; scope itself never
// matches.
func (t *Tree) FindIn(scope *Node, sel string) *Node {
	parsed, err := parseSelector(sel)
	if err != nil {
		t.logger.Debug("selector rejected", logging.F("selector", sel), logging.F("err", err))
		return nil
	}
	if scope == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return findFirst(scope, scope, parsed)
}

func (t *Tree) FindAllIn(scope *Node, sel string) []*Node {
	parsed, err := parseSelector(sel)
	if err != nil {
		t.logger.Debug("selector rejected", logging.F("selector", sel), logging.F("err", err))
		return nil
	}
	if scope == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*Node
	collectMatches(scope, scope, parsed, &out)
	return out
}

// Matches reports whether n satisfies the selector against its current
// ancestry.
func (t *Tree) Matches(n *Node, sel string) bool {
	parsed, err := parseSelector(sel)
	if err != nil || n == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return parsed.matches(n, nil)
}

func findFirst(scope, n *Node, sel selector) *Node {
	for _, child := range n.children {
		if sel.matches(child, scope) {
			return child
		}
		if found := findFirst(scope, child, sel); found != nil {
			return found
		}
	}
	return nil
}

func collectMatches(scope, n *Node, sel selector, out *[]*Node) {
	for _, child := range n.children {
		if sel.matches(child, scope) {
			*out = append(*out, child)
		}
		collectMatches(scope, child, sel, out)
	}
}

func (t *Tree) Append(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	t.mu.Lock()
	child.detach()
	child.parent = parent
	parent.children = append(parent.children, child)
	t.mu.Unlock()
	t.notify(Mutation{Kind: MutationChildren, Target: parent})
}

func (t *Tree) Prepend(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	t.mu.Lock()
	child.detach()
	child.parent = parent
	parent.children = append([]*Node{child}, parent.children...)
	t.mu.Unlock()
	t.notify(Mutation{Kind: MutationChildren, Target: parent})
}

func (t *Tree) Remove(n *Node) {
	if n == nil {
		return
	}
	t.mu.Lock()
	parent := n.parent
	n.detach()
	t.mu.Unlock()
	if parent != nil {
		t.notify(Mutation{Kind: MutationChildren, Target: parent})
	}
}

func (t *Tree) SetText(n *Node, text string) {
	if n == nil {
		return
	}
	t.mu.Lock()
	changed := n.Text != text
	n.Text = text
	t.mu.Unlock()
	if changed {
		t.notify(Mutation{Kind: MutationText, Target: n})
	}
}

func (t *Tree) SetAttr(n *Node, name, value string) {
	if n == nil || name == "" {
		return
	}
	t.mu.Lock()
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	changed := n.Attrs[name] != value
	n.Attrs[name] = value
	t.mu.Unlock()
	if changed {
		t.notify(Mutation{Kind: MutationAttr, Target: n, Attr: name})
	}
}

func (t *Tree) AddClass(n *Node, class string) {
	if n == nil || class == "" {
		return
	}
	t.mu.Lock()
	changed := n.addClass(class)
	t.mu.Unlock()
	if changed {
		t.notify(Mutation{Kind: MutationAttr, Target: n, Attr: "class"})
	}
}

func (t *Tree) RemoveClass(n *Node, class string) {
	if n == nil || class == "" {
		return
	}
	t.mu.Lock()
	changed := n.removeClass(class)
	t.mu.Unlock()
	if changed {
		t.notify(Mutation{Kind: MutationAttr, Target: n, Attr: "class"})
	}
}

func (t *Tree) HasClass(n *Node, class string) bool {
	if n == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return n.hasClass(class)
}

func (t *Tree) Attr(n *Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return n.Attr(name)
}

func (t *Tree) Text(n *Node) string {
	if n == nil {
		return ""
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return n.Text
}

func (t *Tree) Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*Node(nil), n.children...)
}

func (t *Tree) Parent(n *Node) *Node {
	if n == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return n.parent
}

// CloneNode deep-copies n for use as a template. The copy is detached
// and carries no handlers.
func (t *Tree) CloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return n.clone()
}

// Snapshot returns a detached copy of the whole tree, which the caller
// may read without further locking.
func (t *Tree) Snapshot() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.clone()
}
