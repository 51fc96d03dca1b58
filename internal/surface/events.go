package surface

import (
	"fmt"

	"pinboard/internal/logging"
)

const (
	eventClick = "click"
	eventHover = "hover"
)

// OnClick installs the click handler for n, replacing any previous one.
// A nil fn clears it.
func (t *Tree) OnClick(n *Node, fn func(target *Node)) {
	if n == nil {
		return
	}
	t.mu.Lock()
	n.onClick = fn
	t.mu.Unlock()
}

func (t *Tree) OnHover(n *Node, fn func(target *Node)) {
	if n == nil {
		return
	}
	t.mu.Lock()
	n.onHover = fn
	t.mu.Unlock()
}

// Click dispatches a click at target. Handlers run target-first, then up
// the ancestor chain, each receiving the original target. A panicking
// handler is recovered and logged; the surface must survive its guests.
func (t *Tree) Click(target *Node) {
	t.dispatch(eventClick, target)
}

func (t *Tree) Hover(target *Node) {
	t.dispatch(eventHover, target)
}

func (t *Tree) dispatch(kind string, target *Node) {
	if target == nil {
		return
	}
	t.mu.RLock()
	var handlers []func(*Node)
	for n := target; n != nil; n = n.parent {
		var fn func(*Node)
		switch kind {
		case eventClick:
			fn = n.onClick
		case eventHover:
			fn = n.onHover
		}
		if fn != nil {
			handlers = append(handlers, fn)
		}
	}
	t.mu.RUnlock()

	for _, fn := range handlers {
		t.invokeHandler(kind, fn, target)
	}
}

func (t *Tree) invokeHandler(kind string, fn func(*Node), target *Node) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("event handler panicked",
				logging.F("event", kind),
				logging.F("panic", fmt.Sprintf("%v", r)))
		}
	}()
	fn(target)
}
