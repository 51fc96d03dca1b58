package surface

import (
	"fmt"
	"sort"
	"sync"

	"pinboard/internal/logging"
)

type MutationKind string

const (
	MutationChildren MutationKind = "children"
	MutationAttr     MutationKind = "attr"
	MutationText     MutationKind = "text"
)

// Mutation describes one observed change. Target is the node whose
// attribute or text changed, or the parent whose child list changed.
type Mutation struct {
	Kind   MutationKind
	Target *Node
	Attr   string
}

type Subscription struct {
	tree *Tree
	id   int
	once sync.Once
}

// Disconnect stops delivery. Safe to call more than once.
func (s *Subscription) Disconnect() {
	if s == nil || s.tree == nil {
		return
	}
	s.once.Do(func() {
		s.tree.obsMu.Lock()
		delete(s.tree.observers, s.id)
		s.tree.obsMu.Unlock()
	})
}

// Observe registers fn for every future mutation. Callbacks are
// serialized, never concurrent with each other, and fire after the
// mutating operation released the tree lock.
func (t *Tree) Observe(fn func(Mutation)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	t.obsMu.Lock()
	t.nextObsID++
	id := t.nextObsID
	t.observers[id] = fn
	t.obsMu.Unlock()
	return &Subscription{tree: t, id: id}
}

// notify queues the mutation and drains the queue unless another
// goroutine, or an observer callback further up this stack, is already
// draining. Mutations made inside a callback are delivered after the
// current one finishes, preserving serialization.
func (t *Tree) notify(m Mutation) {
	t.queueMu.Lock()
	t.queue = append(t.queue, m)
	if t.draining {
		t.queueMu.Unlock()
		return
	}
	t.draining = true
	t.queueMu.Unlock()
	t.drain()
}

func (t *Tree) drain() {
	for {
		t.queueMu.Lock()
		if len(t.queue) == 0 {
			t.draining = false
			t.queueMu.Unlock()
			return
		}
		m := t.queue[0]
		t.queue = t.queue[1:]
		t.queueMu.Unlock()

		for _, fn := range t.observerSnapshot() {
			t.invokeObserver(fn, m)
		}
	}
}

func (t *Tree) observerSnapshot() []func(Mutation) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	ids := make([]int, 0, len(t.observers))
	for id := range t.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Mutation), 0, len(ids))
	for _, id := range ids {
		out = append(out, t.observers[id])
	}
	return out
}

func (t *Tree) invokeObserver(fn func(Mutation), m Mutation) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("mutation observer panicked",
				logging.F("kind", string(m.Kind)),
				logging.F("panic", fmt.Sprintf("%v", r)))
		}
	}()
	fn(m)
}
