// Package pinboard keeps a pinned-conversations section in the host
// sidebar consistent with the pin store and the current location. The
// board augments structure the host owns; when the host has not
// rendered enough of it, the board stays inert rather than getting in
// the way.
package pinboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pinboard/internal/bus"
	"pinboard/internal/hosts"
	"pinboard/internal/logging"
	"pinboard/internal/route"
	"pinboard/internal/store"
	"pinboard/internal/surface"
)

// Navigator is the host-navigation hook the board falls back to when no
// original link is available to click.
type Navigator interface {
	Navigate(path string) error
}

type Deps struct {
	Repository store.Repository
	Bus        *bus.Bus
	Tree       *surface.Tree
	Navigator  Navigator
	Host       hosts.Definition
	Styles     StyleRegistry
	Logger     logging.Logger
}

type Options struct {
	WaitTimeout  time.Duration
	PollInterval time.Duration
}

const (
	defaultWaitTimeout  = 5 * time.Second
	defaultPollInterval = 50 * time.Millisecond
)

type busSubscription struct {
	topic string
	id    int
}

type Board struct {
	repo    store.Repository
	bus     *bus.Bus
	tree    *surface.Tree
	nav     Navigator
	def     hosts.Definition
	styles  StyleRegistry
	logger  logging.Logger
	opts    Options
	pattern *route.Pattern

	mu       sync.Mutex
	attached bool
	closed   bool
	section  *surface.Node
	list     *surface.Node
	history  *surface.Node
	rows     map[string]*surface.Node
	current  string
	subs     []busSubscription
	watcher  *route.Watcher
}

func New(deps Deps, opts Options) (*Board, error) {
	if deps.Repository == nil {
		return nil, errors.New("repository is required")
	}
	if deps.Bus == nil {
		return nil, errors.New("bus is required")
	}
	if deps.Tree == nil {
		return nil, errors.New("surface tree is required")
	}
	if deps.Navigator == nil {
		return nil, errors.New("navigator is required")
	}
	pattern, err := route.CompilePattern(deps.Host.PathPattern)
	if err != nil {
		return nil, fmt.Errorf("host %q: %w", deps.Host.Name, err)
	}
	styles := deps.Styles
	if styles == nil {
		styles = nopStyleRegistry{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = defaultWaitTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Board{
		repo:    deps.Repository,
		bus:     deps.Bus,
		tree:    deps.Tree,
		nav:     deps.Navigator,
		def:     deps.Host,
		styles:  styles,
		logger:  logger,
		opts:    opts,
		pattern: pattern,
		rows:    map[string]*surface.Node{},
	}, nil
}

// Attach augments the host sidebar: wait for the host to render enough
// structure, mount the pinned section, wire events, replay persisted
// pins, and mark the currently open conversation. The wait is bounded;
// on timeout the board logs, returns the error, and leaves the host UI
// untouched.
func (b *Board) Attach(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errors.New("board is closed")
	}
	if b.attached {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	sel := b.def.Selectors
	wait := surface.WaitOptions{Interval: b.opts.PollInterval, Timeout: b.opts.WaitTimeout}
	sidebar, err := surface.WaitFor(ctx, b.tree, sel.Sidebar, wait)
	if err != nil {
		b.logger.Error("sidebar never appeared; pin layer stays inert",
			logging.F("selector", sel.Sidebar), logging.F("err", err))
		return err
	}
	if _, err := surface.WaitFor(ctx, b.tree, b.rowSelector(), wait); err != nil {
		b.logger.Error("no conversation rows; pin layer stays inert",
			logging.F("selector", b.rowSelector()), logging.F("err", err))
		return err
	}
	history := b.tree.FindIn(sidebar, sel.History)
	if history == nil {
		err := fmt.Errorf("%w: %s", surface.ErrElementNotFound, sel.History)
		b.logger.Error("history list missing", logging.F("err", err))
		return err
	}

	b.registerStyles()

	section, list := b.buildSection()
	b.tree.Prepend(sidebar, section)

	watcher, err := route.NewWatcher(b.tree, sel.Location, b.pattern, b.logger)
	if err != nil {
		b.tree.Remove(section)
		return err
	}
	if err := watcher.OnChange(b.handleNavigation); err != nil {
		watcher.Disconnect()
		b.tree.Remove(section)
		return err
	}

	subs := []busSubscription{
		{topic: bus.TopicPinConversation, id: b.bus.On(bus.TopicPinConversation, b.handlePinRequest)},
		{topic: bus.TopicUnpinConversation, id: b.bus.On(bus.TopicUnpinConversation, b.handleUnpinRequest)},
	}
	b.tree.OnHover(history, b.handleRowHover)

	current := b.currentConversation()

	b.mu.Lock()
	b.attached = true
	b.section = section
	b.list = list
	b.history = history
	b.watcher = watcher
	b.subs = subs
	b.current = current
	b.mu.Unlock()

	b.replayPins(ctx)
	b.refreshActive()

	b.logger.Info("pin board attached", logging.F("host", b.def.Name))
	return nil
}

func (b *Board) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attached
}

// Current returns the conversation path of the last matched navigation,
// or the empty string when no conversation is open.
func (b *Board) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Close undoes the augmentation: stop watching navigation, drop the bus
// subscriptions and hover wiring, remove the pinned section. Safe to
// call more than once.
func (b *Board) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	watcher := b.watcher
	subs := b.subs
	section := b.section
	history := b.history
	b.watcher = nil
	b.subs = nil
	b.section = nil
	b.list = nil
	b.history = nil
	b.rows = map[string]*surface.Node{}
	b.mu.Unlock()

	if watcher != nil {
		watcher.Disconnect()
	}
	for _, sub := range subs {
		b.bus.Off(sub.topic, sub.id)
	}
	if history != nil {
		b.tree.OnHover(history, nil)
	}
	if section != nil {
		b.tree.Remove(section)
	}
	return nil
}

func (b *Board) rowSelector() string {
	return b.def.Selectors.History + " " + b.def.Selectors.Row
}

func (b *Board) buildSection() (section, list *surface.Node) {
	section = surface.NewNode(surface.Desc{
		Tag:     "section",
		ID:      "pinned-section",
		Classes: []string{ClassPinnedSection},
		Children: []surface.Desc{
			{Tag: "header", Classes: []string{ClassPinnedHeader}, Text: "Pinned"},
		},
	})
	list = surface.NewNode(surface.Desc{
		Tag:     "ol",
		ID:      "pinned-list",
		Classes: []string{ClassPinnedList},
	})
	b.tree.Append(section, list)
	return section, list
}

func (b *Board) currentConversation() string {
	location := b.tree.Find(b.def.Selectors.Location)
	if location == nil {
		return ""
	}
	path, _ := b.tree.Attr(location, "path")
	if _, ok := b.pattern.Match(path); !ok {
		return ""
	}
	return path
}

func (b *Board) replayPins(ctx context.Context) {
	set, err := b.repo.Pins().Load(ctx)
	if err != nil {
		b.logger.Warn("pinned state unavailable", logging.F("err", err))
		return
	}
	for _, entry := range set.Entries() {
		b.renderPinnedRow(entry.ConversationID, entry.Title)
	}
}

// handleRowHover runs for every hover inside the history list. The
// first hover over a row attaches the pin toggle and marks the row, so
// repeated hovers do not double-attach.
func (b *Board) handleRowHover(target *surface.Node) {
	row := b.rowFor(target)
	if row == nil || b.tree.HasClass(row, ClassRowReady) {
		return
	}
	toggle := surface.NewNode(surface.Desc{
		Tag:     "button",
		Classes: []string{ClassPinToggle},
		Text:    "pin",
	})
	b.tree.OnClick(toggle, func(*surface.Node) {
		b.requestPin(row)
	})
	b.tree.Append(row, toggle)
	b.tree.AddClass(row, ClassRowReady)
}

func (b *Board) rowFor(target *surface.Node) *surface.Node {
	for n := target; n != nil; n = b.tree.Parent(n) {
		if b.tree.Matches(n, b.def.Selectors.Row) {
			return n
		}
	}
	return nil
}

func (b *Board) requestPin(row *surface.Node) {
	link := b.tree.FindIn(row, b.def.Selectors.Link)
	if link == nil {
		b.logger.Warn("conversation row has no link")
		return
	}
	href, _ := b.tree.Attr(link, "href")
	b.bus.Emit(bus.PinRequest{ConversationID: href, Title: b.tree.Text(link)})
}

// handlePinRequest persists first and renders only on success, so a
// rejected pin never leaves a row without a stored entry.
func (b *Board) handlePinRequest(event bus.Event) {
	req, ok := event.(bus.PinRequest)
	if !ok {
		b.logger.Warn("unexpected pin payload", logging.F("topic", event.Topic()))
		return
	}
	added, err := b.repo.Pins().Pin(context.Background(), req.ConversationID, req.Title)
	if err != nil {
		b.logger.Warn("pin rejected",
			logging.F("conversation", req.ConversationID), logging.F("err", err))
		return
	}
	if !added {
		b.logger.Debug("already pinned", logging.F("conversation", req.ConversationID))
		return
	}
	b.renderPinnedRow(req.ConversationID, req.Title)
	b.refreshActive()
	b.logger.Info("conversation pinned", logging.F("conversation", req.ConversationID))
}

func (b *Board) handleUnpinRequest(event bus.Event) {
	req, ok := event.(bus.UnpinRequest)
	if !ok {
		b.logger.Warn("unexpected unpin payload", logging.F("topic", event.Topic()))
		return
	}
	removed, err := b.repo.Pins().Unpin(context.Background(), req.ConversationID)
	if err != nil {
		b.logger.Warn("unpin rejected",
			logging.F("conversation", req.ConversationID), logging.F("err", err))
		return
	}
	if !removed {
		b.logger.Debug("not pinned", logging.F("conversation", req.ConversationID))
		return
	}
	b.mu.Lock()
	row := b.rows[req.ConversationID]
	delete(b.rows, req.ConversationID)
	b.mu.Unlock()
	if row != nil {
		b.tree.Remove(row)
	}
	b.refreshActive()
	b.logger.Info("conversation unpinned", logging.F("conversation", req.ConversationID))
}

func (b *Board) handleNavigation(path string) {
	b.mu.Lock()
	b.current = path
	b.mu.Unlock()
	b.refreshActive()
}

func (b *Board) renderPinnedRow(id, title string) {
	b.mu.Lock()
	list := b.list
	if list == nil || b.rows[id] != nil {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	row := b.buildPinnedRow(id, title)

	b.mu.Lock()
	if b.list == nil || b.rows[id] != nil {
		b.mu.Unlock()
		return
	}
	b.rows[id] = row
	b.mu.Unlock()
	b.tree.Append(list, row)
}

// buildPinnedRow clones the host's first history row as a template when
// one is rendered, so pinned rows inherit the host's row structure. The
// clone is re-skinned while still detached.
func (b *Board) buildPinnedRow(id, title string) *surface.Node {
	var row, link *surface.Node
	if template := b.tree.Find(b.rowSelector()); template != nil {
		row = b.tree.CloneNode(template)
		row.ID = ""
		row.Classes = []string{ClassPinnedRow}
		for _, child := range row.Children() {
			if link == nil && child.Tag == "a" {
				link = child
				continue
			}
			b.tree.Remove(child)
		}
	} else {
		row = surface.NewNode(surface.Desc{Tag: "li", Classes: []string{ClassPinnedRow}})
	}
	if row.Attrs == nil {
		row.Attrs = map[string]string{}
	}
	row.Attrs["data-id"] = id

	if link == nil {
		link = surface.NewNode(surface.Desc{Tag: "a"})
		b.tree.Append(row, link)
	}
	if link.Attrs == nil {
		link.Attrs = map[string]string{}
	}
	link.Attrs["href"] = id
	link.Text = title

	unpin := surface.NewNode(surface.Desc{
		Tag:     "button",
		Classes: []string{ClassUnpinToggle},
		Text:    "unpin",
	})
	b.tree.OnClick(unpin, func(*surface.Node) {
		b.bus.Emit(bus.UnpinRequest{ConversationID: id})
	})
	b.tree.Append(row, unpin)

	b.tree.OnClick(row, func(target *surface.Node) {
		if b.tree.Matches(target, "."+ClassUnpinToggle) {
			return
		}
		b.openPinned(id)
	})
	return row
}

// openPinned reuses host navigation: click the original history link
// when the host has rendered it; otherwise click a transient link wired
// to the navigator and drop it again.
func (b *Board) openPinned(id string) {
	b.mu.Lock()
	history := b.history
	b.mu.Unlock()
	if history != nil {
		for _, link := range b.tree.FindAllIn(history, b.def.Selectors.Link) {
			if href, _ := b.tree.Attr(link, "href"); href == id {
				b.tree.Click(link)
				return
			}
		}
	}

	temp := surface.NewNode(surface.Desc{Tag: "a", Attrs: map[string]string{"href": id}})
	b.tree.OnClick(temp, func(*surface.Node) {
		if err := b.nav.Navigate(id); err != nil {
			b.logger.Warn("navigation failed",
				logging.F("conversation", id), logging.F("err", err))
		}
	})
	b.tree.Append(b.tree.Root(), temp)
	b.tree.Click(temp)
	b.tree.Remove(temp)
}

// refreshActive reconciles the active marker: at most one pinned row
// carries it, and only when its conversation is the current location.
func (b *Board) refreshActive() {
	b.mu.Lock()
	current := b.current
	rows := make(map[string]*surface.Node, len(b.rows))
	for id, row := range b.rows {
		rows[id] = row
	}
	b.mu.Unlock()

	for id, row := range rows {
		if id == current {
			b.tree.AddClass(row, ClassActive)
		} else {
			b.tree.RemoveClass(row, ClassActive)
		}
	}
}
