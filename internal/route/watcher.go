package route

import (
	"errors"
	"strings"
	"sync"

	"pinboard/internal/logging"
	"pinboard/internal/surface"
)

// Watcher turns mutations of the host's location node into navigation
// callbacks. The host surface has no native navigation event, so the
// watcher observes the node the host keeps current and re-tests its
// path on every change.
//
// Two states: idle and matched. Only a conversation-detail path causes
// a transition; repeated reports of the same matched path are
// suppressed, since one logical navigation can surface as several
// mutations.
type Watcher struct {
	tree     *surface.Tree
	selector string
	pattern  *Pattern
	logger   logging.Logger

	mu        sync.Mutex
	callback  func(path string)
	sub       *surface.Subscription
	matched   bool
	lastMatch string
}

func NewWatcher(tree *surface.Tree, locationSelector string, pattern *Pattern, logger logging.Logger) (*Watcher, error) {
	if tree == nil {
		return nil, errors.New("tree is required")
	}
	if strings.TrimSpace(locationSelector) == "" {
		return nil, errors.New("location selector is required")
	}
	if pattern == nil || len(pattern.segments) == 0 {
		return nil, ErrInvalidPattern
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		tree:     tree,
		selector: locationSelector,
		pattern:  pattern,
		logger:   logger,
	}, nil
}

// OnChange registers the navigation callback and starts observing the
// location node. Replacing the callback keeps the existing observation.
func (w *Watcher) OnChange(fn func(path string)) error {
	if fn == nil {
		return ErrInvalidCallback
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callback = fn
	if w.sub == nil {
		w.sub = w.tree.Observe(w.handleMutation)
	}
	return nil
}

func (w *Watcher) handleMutation(m surface.Mutation) {
	if m.Target == nil || !w.tree.Matches(m.Target, w.selector) {
		return
	}
	path, _ := w.tree.Attr(m.Target, "path")
	w.evaluate(path)
}

func (w *Watcher) evaluate(path string) {
	if _, ok := w.pattern.Match(path); !ok {
		return
	}
	w.mu.Lock()
	if w.matched && w.lastMatch == path {
		w.mu.Unlock()
		return
	}
	w.matched = true
	w.lastMatch = path
	fn := w.callback
	w.mu.Unlock()

	if fn != nil {
		w.logger.Debug("navigation matched", logging.F("path", path))
		fn(path)
	}
}

// Disconnect stops observation and clears the callback. Safe to call
// repeatedly.
func (w *Watcher) Disconnect() {
	if w == nil {
		return
	}
	w.mu.Lock()
	sub := w.sub
	w.sub = nil
	w.callback = nil
	w.matched = false
	w.lastMatch = ""
	w.mu.Unlock()
	if sub != nil {
		sub.Disconnect()
	}
}
