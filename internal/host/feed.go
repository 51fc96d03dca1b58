// Package host keeps the surface tree in sync with the chat
// application's exported sidebar snapshot. The feed owns the sidebar
// shape; the pin layer only augments it.
package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pinboard/internal/hosts"
	"pinboard/internal/logging"
	"pinboard/internal/route"
	"pinboard/internal/surface"
	"pinboard/internal/types"
)

const defaultPollInterval = 200 * time.Millisecond

type Options struct {
	SnapshotPath string
	PollInterval time.Duration
	Logger       logging.Logger
}

// Feed renders snapshots into the tree and follows file changes. The
// rendered shape is the shared normalized sidebar
// (nav#sidebar > ol#history > li.conversation > a[href=path]) plus the
// #location node; re-applying a snapshot only replaces the history rows
// and the location, so subtrees added by others survive.
type Feed struct {
	tree     *surface.Tree
	def      hosts.Definition
	pattern  *route.Pattern
	path     string
	interval time.Duration
	logger   logging.Logger

	mu       sync.Mutex
	started  bool
	closed   bool
	stop     chan struct{}
	done     chan struct{}
	lastMod  time.Time
	lastSize int64

	refreshMu sync.Mutex
}

func New(tree *surface.Tree, def hosts.Definition, opts Options) (*Feed, error) {
	if tree == nil {
		return nil, errors.New("surface tree is required")
	}
	path := strings.TrimSpace(opts.SnapshotPath)
	if path == "" {
		return nil, errors.New("snapshot path is required")
	}
	pattern, err := route.CompilePattern(def.PathPattern)
	if err != nil {
		return nil, fmt.Errorf("host %q: %w", def.Name, err)
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Feed{
		tree:     tree,
		def:      def,
		pattern:  pattern,
		path:     path,
		interval: interval,
		logger:   logger,
	}, nil
}

func (f *Feed) Definition() hosts.Definition {
	return f.def
}

func (f *Feed) Pattern() *route.Pattern {
	return f.pattern
}

// Refresh loads the snapshot file and applies it. A file that does not
// exist yet is not an error; the host simply has not exported anything.
func (f *Feed) Refresh() error {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	info, statErr := os.Stat(f.path)
	snap, err := ReadSnapshot(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Debug("no host snapshot yet", logging.F("path", f.path))
			return nil
		}
		return err
	}
	if snap.Host != "" && hosts.Normalize(snap.Host) != f.def.Name {
		f.logger.Warn("snapshot belongs to a different host",
			logging.F("snapshot_host", snap.Host),
			logging.F("host", f.def.Name))
		return nil
	}

	f.apply(snap)
	if statErr == nil {
		f.mu.Lock()
		f.lastMod = info.ModTime()
		f.lastSize = info.Size()
		f.mu.Unlock()
	}
	f.logger.Debug("snapshot applied",
		logging.F("host", f.def.Name),
		logging.F("conversations", len(snap.Conversations)))
	return nil
}

// Start begins following the snapshot file. File events drive the
// refresh; a poll ticker backs them up, so a broken watcher degrades to
// polling instead of failing.
func (f *Feed) Start() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return errors.New("host feed is closed")
	}
	if f.started {
		f.mu.Unlock()
		return nil
	}
	f.started = true
	stop := make(chan struct{})
	done := make(chan struct{})
	f.stop = stop
	f.done = done
	f.mu.Unlock()

	if err := f.Refresh(); err != nil {
		f.logger.Warn("initial snapshot load failed", logging.F("err", err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.logger.Warn("snapshot watcher unavailable; polling only", logging.F("err", err))
		watcher = nil
	} else {
		dir := filepath.Dir(f.path)
		_ = os.MkdirAll(dir, 0o700)
		if err := watcher.Add(dir); err != nil {
			f.logger.Warn("snapshot watch failed; polling only",
				logging.F("path", f.path), logging.F("err", err))
			_ = watcher.Close()
			watcher = nil
		}
	}
	go f.run(watcher, stop, done)
	return nil
}

// Navigate points the host at a new location. Absolute URLs must belong
// to this host; host-relative paths pass through.
func (f *Feed) Navigate(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return errors.New("navigation target is required")
	}
	if base := f.def.BaseURL; base != "" && strings.HasPrefix(target, base) {
		target = target[len(base):]
		if target == "" {
			target = "/"
		}
	}
	if !strings.HasPrefix(target, "/") {
		return fmt.Errorf("navigation target %q is not a path on %s", target, f.def.Name)
	}
	location := f.tree.Find(f.def.Selectors.Location)
	if location == nil {
		return errors.New("location node is not mounted")
	}
	f.tree.SetAttr(location, "path", target)
	return nil
}

// Close stops following the snapshot file. Safe to call more than once;
// the tree keeps its last applied state.
func (f *Feed) Close() error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	stop := f.stop
	done := f.done
	f.stop = nil
	f.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

func (f *Feed) run(watcher *fsnotify.Watcher, stop, done chan struct{}) {
	defer close(done)
	if watcher != nil {
		defer watcher.Close()
	}
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	var events chan fsnotify.Event
	var errs chan error
	if watcher != nil {
		events = watcher.Events
		errs = watcher.Errors
	}

	base := filepath.Base(f.path)
	for {
		select {
		case <-stop:
			return
		case event, ok := <-events:
			if !ok {
				events, errs = nil, nil
				continue
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if err := f.Refresh(); err != nil {
				f.logger.Warn("snapshot refresh failed", logging.F("err", err))
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			f.logger.Warn("snapshot watcher error; polling continues", logging.F("err", err))
		case <-ticker.C:
			f.pollRefresh()
		}
	}
}

func (f *Feed) pollRefresh() {
	info, err := os.Stat(f.path)
	if err != nil {
		return
	}
	f.mu.Lock()
	unchanged := info.ModTime().Equal(f.lastMod) && info.Size() == f.lastSize
	f.mu.Unlock()
	if unchanged {
		return
	}
	if err := f.Refresh(); err != nil {
		f.logger.Warn("snapshot refresh failed", logging.F("err", err))
	}
}

func (f *Feed) apply(snap types.HostSnapshot) {
	history, location := f.ensureSkeleton()
	for _, row := range f.tree.Children(history) {
		f.tree.Remove(row)
	}
	for _, conv := range snap.Conversations {
		id := strings.TrimSpace(conv.ID)
		if id == "" {
			continue
		}
		path, err := f.conversationPath(id)
		if err != nil {
			f.logger.Debug("conversation skipped", logging.F("id", id), logging.F("err", err))
			continue
		}
		title := strings.TrimSpace(conv.Title)
		if title == "" {
			title = id
		}
		row := surface.NewNode(surface.Desc{
			Tag:     "li",
			Classes: []string{"conversation"},
			Attrs:   map[string]string{"data-id": id},
		})
		link := surface.NewNode(surface.Desc{
			Tag:   "a",
			Attrs: map[string]string{"href": path},
			Text:  title,
		})
		f.tree.OnClick(link, f.followLink)
		f.tree.Append(row, link)
		f.tree.Append(history, row)
	}
	if loc := strings.TrimSpace(snap.Location); loc != "" {
		f.tree.SetAttr(location, "path", loc)
	}
}

// ensureSkeleton mounts the sidebar scaffolding on first use. Later
// applies find the existing nodes, so anything prepended to the sidebar
// by the pin layer stays where it is.
func (f *Feed) ensureSkeleton() (history, location *surface.Node) {
	sel := f.def.Selectors
	sidebar := f.tree.Find(sel.Sidebar)
	if sidebar == nil {
		sidebar = surface.NewNode(surface.Desc{Tag: "nav", ID: "sidebar"})
		f.tree.Append(f.tree.Root(), sidebar)
	}
	history = f.tree.FindIn(sidebar, sel.History)
	if history == nil {
		history = surface.NewNode(surface.Desc{Tag: "ol", ID: "history"})
		f.tree.Append(sidebar, history)
	}
	location = f.tree.Find(sel.Location)
	if location == nil {
		location = surface.NewNode(surface.Desc{
			Tag:   "div",
			ID:    "location",
			Attrs: map[string]string{"path": "/"},
		})
		f.tree.Append(f.tree.Root(), location)
	}
	return history, location
}

func (f *Feed) conversationPath(id string) (string, error) {
	params := map[string]string{}
	for _, name := range f.pattern.Params() {
		params[name] = id
	}
	return f.pattern.Expand(params)
}

// followLink resolves the clicked link's destination. The click target
// may be a descendant of the anchor, so the href lookup walks up.
func (f *Feed) followLink(target *surface.Node) {
	for n := target; n != nil; n = f.tree.Parent(n) {
		if href, ok := f.tree.Attr(n, "href"); ok {
			if err := f.Navigate(href); err != nil {
				f.logger.Warn("navigation failed", logging.F("href", href), logging.F("err", err))
			}
			return
		}
	}
}
