package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pinboard/internal/host"
	"pinboard/internal/hosts"
	"pinboard/internal/logging"
	"pinboard/internal/pinboard"
	"pinboard/internal/store"
	"pinboard/internal/surface"
	"pinboard/internal/types"
)

const (
	tickInterval      = 100 * time.Millisecond
	minListWidth      = 24
	maxListWidth      = 40
	minViewportWidth  = 20
	minContentHeight  = 6
	statusLinePadding = 1
)

type Deps struct {
	Tree       *surface.Tree
	Feed       *host.Feed
	Board      *pinboard.Board
	Repository store.Repository
	Keymap     *types.Keymap
	Styles     *Styles
	Logger     logging.Logger
}

type Model struct {
	tree     *surface.Tree
	feed     *host.Feed
	board    *pinboard.Board
	repo     store.Repository
	keymap   *types.Keymap
	actions  map[string]string
	styles   *Styles
	sidebar  *SidebarController
	viewport viewport.Model
	loader   spinner.Model
	hotkeys  *HotkeyRenderer
	logger   logging.Logger

	uiState    types.UIState
	attaching  bool
	attachErr  error
	previewKey string
	status     string
	width      int
	height     int
}

func NewModel(deps Deps) Model {
	keymap := deps.Keymap
	if keymap == nil {
		keymap = types.DefaultKeymap()
	}
	appStyles := deps.Styles
	if appStyles == nil {
		appStyles = NewStyles()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	selectors := hosts.SelectorsFor("")
	if deps.Feed != nil {
		selectors = deps.Feed.Definition().Selectors
	}

	vp := viewport.New(minViewportWidth, minContentHeight-1)
	vp.SetContent("No conversation selected.")
	loader := spinner.New()
	loader.Spinner = spinner.Line
	loader.Style = lipgloss.NewStyle()

	actions := make(map[string]string, len(keymap.Bindings))
	for action, key := range keymap.Bindings {
		if key = strings.TrimSpace(key); key != "" {
			actions[key] = action
		}
	}

	return Model{
		tree:      deps.Tree,
		feed:      deps.Feed,
		board:     deps.Board,
		repo:      deps.Repository,
		keymap:    keymap,
		actions:   actions,
		styles:    appStyles,
		sidebar:   NewSidebarController(appStyles, selectors),
		viewport:  vp,
		loader:    loader,
		hotkeys:   NewHotkeyRenderer(HotkeysFromKeymap(keymap)),
		logger:    logger,
		attaching: true,
	}
}

func Run(deps Deps) error {
	model := NewModel(deps)
	p := tea.NewProgram(&model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(attachCmd(m.feed, m.board), loadUIStateCmd(m.repo), tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case attachDoneMsg:
		m.attaching = false
		m.attachErr = msg.err
		if msg.err != nil {
			m.status = "attach error: " + msg.err.Error()
		} else {
			m.status = "pinned section ready"
		}
		m.refreshSidebar()
		return m, nil
	case uiStateMsg:
		if msg.err != nil {
			m.status = "ui state error: " + msg.err.Error()
			return m, nil
		}
		if msg.state != nil {
			m.uiState = *msg.state
			m.sidebar.SetCollapsed(m.uiState.PinnedCollapsed)
			m.refreshSidebar()
		}
		return m, nil
	case uiStateSavedMsg:
		if msg.err != nil {
			m.status = "ui state error: " + msg.err.Error()
		}
		return m, nil
	case snapshotReloadMsg:
		if msg.err != nil {
			m.status = "refresh error: " + msg.err.Error()
		} else {
			m.status = "snapshot reloaded"
		}
		m.refreshSidebar()
		return m, nil
	case tickMsg:
		if m.attaching {
			m.loader, _ = m.loader.Update(spinner.TickMsg{Time: time.Time(msg), ID: m.loader.ID()})
		}
		m.refreshSidebar()
		return m, tickCmd()
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.LineUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.LineDown(3)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "up":
		key = m.keymap.Bindings[types.KeyActionMoveUp]
	case "down":
		key = m.keymap.Bindings[types.KeyActionMoveDown]
	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	switch m.actions[key] {
	case types.KeyActionQuit:
		return m, tea.Quit
	case types.KeyActionMoveUp:
		m.moveCursor(-1)
		return m, nil
	case types.KeyActionMoveDown:
		m.moveCursor(1)
		return m, nil
	case types.KeyActionOpen:
		return m, m.openCurrent()
	case types.KeyActionTogglePin:
		m.togglePin()
		return m, nil
	case types.KeyActionCopyLink:
		m.copyCurrentLink()
		return m, nil
	case types.KeyActionTogglePinned:
		return m, m.togglePinnedSection()
	case types.KeyActionRefresh:
		m.status = "reloading snapshot"
		return m, refreshCmd(m.feed)
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.sidebar == nil {
		return
	}
	var row *sidebarRow
	if delta < 0 {
		row = m.sidebar.MoveUp()
	} else {
		row = m.sidebar.MoveDown()
	}
	if row != nil && row.link != nil && m.tree != nil {
		// hovering is what makes the pin layer attach its toggle
		m.tree.Hover(row.link)
	}
	m.refreshSidebar()
}

func (m *Model) openCurrent() tea.Cmd {
	row := m.currentRow()
	if row == nil {
		m.status = "no conversation selected"
		return nil
	}
	if row.link != nil && m.tree != nil {
		m.tree.Click(row.link)
	}
	m.refreshSidebar()
	m.status = "opened " + displayTitle(row)
	if row.path != "" && row.path != m.uiState.LastLocation {
		m.uiState.LastLocation = row.path
		return m.saveUIStateCmd()
	}
	return nil
}

func (m *Model) togglePin() {
	row := m.currentRow()
	if row == nil {
		m.status = "no conversation selected"
		return
	}
	if pinnedRow := m.pinnedRowFor(row.path); pinnedRow != nil {
		toggle := m.tree.FindIn(pinnedRow, "."+pinboard.ClassUnpinToggle)
		if toggle == nil {
			m.status = "unpin control unavailable"
			return
		}
		m.tree.Click(toggle)
		m.refreshSidebar()
		m.status = "unpinned " + displayTitle(row)
		return
	}
	if row.link != nil {
		m.tree.Hover(row.link)
	}
	toggle := m.tree.FindIn(row.row, "."+pinboard.ClassPinToggle)
	if toggle == nil {
		m.status = "pin control unavailable"
		return
	}
	m.tree.Click(toggle)
	m.refreshSidebar()
	if m.pinnedRowFor(row.path) != nil {
		m.status = "pinned " + displayTitle(row)
	} else {
		m.status = "pin rejected"
	}
}

func (m *Model) copyCurrentLink() {
	row := m.currentRow()
	if row == nil || row.path == "" {
		m.status = "no conversation selected"
		return
	}
	url := m.conversationURL(row.path)
	m.copyWithStatus(url, "link copied: "+url)
}

func (m *Model) copyWithStatus(text, success string) bool {
	_, err := copyTextToClipboard(text)
	if err != nil {
		m.status = "copy failed: " + err.Error()
		return false
	}
	m.status = success
	return true
}

func (m *Model) togglePinnedSection() tea.Cmd {
	m.uiState.PinnedCollapsed = !m.uiState.PinnedCollapsed
	if m.sidebar != nil {
		m.sidebar.SetCollapsed(m.uiState.PinnedCollapsed)
	}
	m.refreshSidebar()
	if m.uiState.PinnedCollapsed {
		m.status = "pinned section collapsed"
	} else {
		m.status = "pinned section expanded"
	}
	return m.saveUIStateCmd()
}

func (m *Model) currentRow() *sidebarRow {
	if m.sidebar == nil {
		return nil
	}
	return m.sidebar.Current()
}

func (m *Model) pinnedRowFor(path string) *surface.Node {
	if m.tree == nil || path == "" {
		return nil
	}
	for _, row := range m.tree.FindAll("#pinned-list ." + pinboard.ClassPinnedRow) {
		if id, ok := m.tree.Attr(row, "data-id"); ok && id == path {
			return row
		}
	}
	return nil
}

func (m *Model) conversationURL(path string) string {
	if m.feed != nil {
		return m.feed.Definition().ConversationURL(path)
	}
	return path
}

func (m *Model) refreshSidebar() {
	if m.sidebar == nil || m.tree == nil {
		return
	}
	m.sidebar.Rebuild(m.tree)
	m.syncPreview()
}

func (m *Model) syncPreview() {
	row := m.currentRow()
	if row == nil {
		if m.previewKey != "" {
			m.previewKey = ""
			m.viewport.SetContent(mutedStyle.Render("No conversation selected."))
		}
		return
	}
	pinned := m.pinnedRowFor(row.path) != nil
	open := m.board != nil && m.board.Current() != "" && m.board.Current() == row.path
	key := fmt.Sprintf("%s|%s|%t|%t|%d", row.path, row.title, pinned, open, m.viewport.Width)
	if key == m.previewKey {
		return
	}
	m.previewKey = key
	m.viewport.SetContent(renderMarkdown(previewMarkdown(row, m.conversationURL(row.path), pinned, open), m.viewport.Width))
	m.viewport.GotoTop()
}

func previewMarkdown(row *sidebarRow, url string, pinned, open bool) string {
	var b strings.Builder
	b.WriteString("# " + escapeMarkdown(displayTitle(row)) + "\n\n")
	b.WriteString("- Path: `" + row.path + "`\n")
	b.WriteString("- Link: <" + url + ">\n")
	b.WriteString("- Pinned: " + yesNo(pinned) + "\n")
	b.WriteString("- Open: " + yesNo(open) + "\n")
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func displayTitle(row *sidebarRow) string {
	if row == nil {
		return ""
	}
	if row.title != "" {
		return row.title
	}
	return row.path
}

func (m *Model) View() string {
	bodyText := m.viewport.View()
	if m.attaching {
		bodyText = m.loader.View() + " attaching pin layer"
	}
	rightHeader := headerStyle.Render("Conversation")
	rightView := lipgloss.JoinVertical(lipgloss.Left, rightHeader, bodyText)

	listView := ""
	if m.sidebar != nil {
		listView = m.sidebar.View()
	}
	height := max(lipgloss.Height(listView), lipgloss.Height(rightView))
	if height < 1 {
		height = 1
	}
	divider := strings.Repeat("│\n", height-1) + "│"
	body := lipgloss.JoinHorizontal(lipgloss.Top, listView, dividerStyle.Render(divider), rightView)

	helpText := ""
	if m.hotkeys != nil {
		helpText = m.hotkeys.Render()
	}
	if helpText == "" {
		helpText = "q quit"
	}
	help := helpStyle.Render(helpText)
	status := statusStyle.Render(m.status)
	statusLine := renderStatusLine(m.width, help, status)

	if m.height <= 0 || m.width <= 0 {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, statusLine)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	contentHeight := max(minContentHeight, height-2)
	listWidth := clamp(width/3, minListWidth, maxListWidth)
	if width-listWidth-1 < minViewportWidth {
		listWidth = max(minListWidth, width/2)
	}
	viewportWidth := max(minViewportWidth, width-listWidth-1)

	if m.sidebar != nil {
		m.sidebar.SetSize(listWidth, contentHeight)
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = contentHeight - 1
	m.previewKey = ""
	m.syncPreview()
}

func attachCmd(feed *host.Feed, board *pinboard.Board) tea.Cmd {
	return func() tea.Msg {
		if feed == nil || board == nil {
			return attachDoneMsg{err: errors.New("host feed and board are required")}
		}
		if err := feed.Start(); err != nil {
			return attachDoneMsg{err: err}
		}
		return attachDoneMsg{err: board.Attach(context.Background())}
	}
}

func loadUIStateCmd(repo store.Repository) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return uiStateMsg{state: &types.UIState{}}
		}
		state, err := repo.UIState().Load(context.Background())
		return uiStateMsg{state: state, err: err}
	}
}

func (m *Model) saveUIStateCmd() tea.Cmd {
	repo := m.repo
	state := m.uiState
	return func() tea.Msg {
		if repo == nil {
			return uiStateSavedMsg{}
		}
		return uiStateSavedMsg{err: repo.UIState().Save(context.Background(), &state)}
	}
}

func refreshCmd(feed *host.Feed) tea.Cmd {
	return func() tea.Msg {
		if feed == nil {
			return snapshotReloadMsg{err: errors.New("host feed is not running")}
		}
		return snapshotReloadMsg{err: feed.Refresh()}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func renderStatusLine(width int, help, status string) string {
	if width <= 0 {
		return help + " " + status
	}
	helpWidth := lipgloss.Width(help)
	statusWidth := lipgloss.Width(status)
	padding := width - helpWidth - statusWidth
	if padding < statusLinePadding {
		padding = statusLinePadding
	}
	return help + strings.Repeat(" ", padding) + status
}

func clamp(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
