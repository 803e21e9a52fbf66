package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/worroc/claude-yelp/internal/clipboard"
	"github.com/worroc/claude-yelp/internal/config"
	"github.com/worroc/claude-yelp/internal/controller"
	"github.com/worroc/claude-yelp/internal/export"
	"github.com/worroc/claude-yelp/internal/highlight"
	"github.com/worroc/claude-yelp/internal/search"
	"github.com/worroc/claude-yelp/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

// LaunchRequest is the handoff the program leaves behind when the user opens
// a session: the TUI quits, then the entry point execs the assistant.
type LaunchRequest struct {
	ProjectDir string
	SessionID  string
}

type Model struct {
	cfg      config.AppConfig
	index    *session.Index
	exporter *export.Exporter
	ctrl     *controller.Controller
	logger   *log.Logger

	list     list.Model
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model
	input    textinput.Model
	keys     keyMap

	width  int
	height int

	discovering    bool
	discoverQueued bool
	paneShift      int
	userOnly       bool
	rendering      bool
	renderNonce    int

	filterQuery string
	visible     []*session.Record

	threadQuery string
	threadPlain string
	cursor      *search.Cursor

	rendered map[string]string

	launch       *LaunchRequest
	pendingStart int

	status string
	err    error
}

type discoverDoneMsg struct{ err error }
type renderMsg struct {
	sessionID string
	cacheKey  string
	rendered  string
	nonce     int
	err       error
}
type exportMsg struct {
	path string
	err  error
}
type copyMsg struct{ err error }
type createMsg struct {
	id  string
	err error
}

type sessionItem struct {
	rec *session.Record
}

func (i sessionItem) Title() string {
	title := i.rec.DisplayName()
	if name := i.rec.ProjectName(); name != "unknown" {
		title += "  " + name
	}
	return title
}

func (i sessionItem) Description() string {
	desc := i.rec.DateString()
	if i.rec.Err != nil {
		return desc + " | unreadable: " + i.rec.Err.Error()
	}
	if i.rec.Preview != "" {
		desc += " | " + i.rec.Preview
	}
	return desc
}

func (i sessionItem) FilterValue() string {
	return strings.ToLower(i.rec.ID + " " + i.rec.Tag + " " + i.rec.ProjectPath + " " + i.rec.Preview)
}

func NewModel(cfg config.AppConfig, idx *session.Index, exp *export.Exporter, logger *log.Logger) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 40, 20)
	l.Title = "Sessions"
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	vp := viewport.New(60, 20)
	vp.SetContent("Scanning sessions...")

	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Points

	ti := textinput.New()
	ti.CharLimit = 256

	if logger == nil {
		logger = log.Default()
	}

	return Model{
		cfg:      cfg,
		index:    idx,
		exporter: exp,
		ctrl:     controller.New(),
		logger:   logger,
		list:     l,
		viewport: vp,
		help:     h,
		spinner:  sp,
		input:    ti,
		keys:     defaultKeys(),

		discovering:  true,
		rendered:     make(map[string]string),
		pendingStart: -1,
	}
}

// WithStartIndex selects the given zero-based list position once the first
// scan completes.
func (m Model) WithStartIndex(i int) Model {
	m.pendingStart = i
	return m
}

// Launch reports the session the user asked to resume, if any.
func (m Model) Launch() *LaunchRequest { return m.launch }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.discoverCmd())
}

func (m Model) discoverCmd() tea.Cmd {
	return func() tea.Msg {
		return discoverDoneMsg{err: m.index.Discover()}
	}
}

// requestDiscover coalesces refresh requests: at most one pass runs at a
// time, and at most one more is queued behind it.
func (m *Model) requestDiscover() tea.Cmd {
	if m.discovering {
		m.discoverQueued = true
		return nil
	}
	m.discovering = true
	return m.discoverCmd()
}

// exportCmd builds the document here, on the event loop, so the background
// write never touches the record while a keystroke mutates it.
func (m Model) exportCmd(rec *session.Record) tea.Cmd {
	name := export.FileName(rec)
	md := export.BuildThreadMarkdown(rec, m.userOnly)
	return func() tea.Msg {
		path, err := m.exporter.Write(name, md)
		return exportMsg{path: path, err: err}
	}
}

func (m Model) copyThreadCmd(rec *session.Record) tea.Cmd {
	text := export.BuildThreadText(rec, m.userOnly)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return copyMsg{err: clipboard.Copy(ctx, text)}
	}
}

func (m Model) copySelectionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		text, err := clipboard.ReadPrimary(ctx)
		if err != nil {
			return copyMsg{err: err}
		}
		return copyMsg{err: clipboard.Copy(ctx, text)}
	}
}

func (m Model) createCmd(tag string) tea.Cmd {
	return func() tea.Msg {
		id, err := m.index.Create(tag, false)
		return createMsg{id: id, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		cmds = append(cmds, m.renderSelected(true))

	case discoverDoneMsg:
		m.discovering = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "Scan failed: " + msg.err.Error()
		} else {
			m.logger.Debug("scan complete", "sessions", len(m.index.Records()))
			m.applyFilter(m.filterQuery)
			if m.pendingStart >= 0 {
				m.ctrl.SetSelection(m.pendingStart)
				m.list.Select(m.ctrl.Selection())
				m.pendingStart = -1
			}
			cmds = append(cmds, m.renderSelected(false))
		}
		if m.discoverQueued {
			m.discoverQueued = false
			m.discovering = true
			cmds = append(cmds, m.discoverCmd())
		}

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Exported: " + msg.path
		}

	case copyMsg:
		if msg.err != nil {
			m.err = msg.err
			if errors.Is(msg.err, clipboard.ErrToolNotFound) {
				m.status = "Could not copy: clipboard tool not found"
			} else {
				m.status = "Could not copy: " + msg.err.Error()
			}
		} else {
			m.status = "Copied to clipboard"
		}

	case createMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "Create failed: " + msg.err.Error()
		} else {
			m.status = "Created session " + msg.id
			cmds = append(cmds, m.requestDiscover())
		}

	case renderMsg:
		if msg.nonce != m.renderNonce {
			break
		}
		m.rendering = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "Render failed: " + msg.err.Error()
			break
		}
		m.rendered[msg.cacheKey] = msg.rendered
		if rec := m.selectedRecord(); rec != nil && rec.ID == msg.sessionID {
			m.setViewportFromRendered(msg.rendered, true)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.discovering {
		var spin tea.Cmd
		m.spinner, spin = m.spinner.Update(msg)
		cmds = append(cmds, spin)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()

	switch m.ctrl.State() {
	case controller.StateNormal:
		return m.handleNormalKey(msg, now)
	case controller.StateConfirmDelete:
		intent := controller.Intent{Kind: controller.IntentCancel}
		if msg.String() == "y" || msg.String() == "enter" {
			intent.Kind = controller.IntentConfirm
		}
		return m.dispatch(intent, now)
	default:
		return m.handleEntryKey(msg, now)
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	// With the thread focused, movement keys scroll the viewport instead of
	// moving the list selection.
	if m.ctrl.Focus() == controller.FocusThread {
		switch msg.String() {
		case "up", "k":
			m.viewport.LineUp(1)
			return m, nil
		case "down", "j":
			m.viewport.LineDown(1)
			return m, nil
		case "pgup", "b":
			m.viewport.HalfViewUp()
			return m, nil
		case "pgdown", "f":
			m.viewport.HalfViewDown()
			return m, nil
		}
	}

	intent := controller.Intent{Kind: controller.IntentNone}

	switch {
	case key.Matches(msg, m.keys.Quit):
		intent.Kind = controller.IntentQuit
	case key.Matches(msg, m.keys.Up):
		intent.Kind = controller.IntentUp
	case key.Matches(msg, m.keys.Down):
		intent.Kind = controller.IntentDown
	case key.Matches(msg, m.keys.Top):
		intent.Kind = controller.IntentFirst
	case key.Matches(msg, m.keys.Bottom):
		intent.Kind = controller.IntentLast
	case key.Matches(msg, m.keys.Search):
		intent.Kind = controller.IntentBeginFilter
	case key.Matches(msg, m.keys.Jump):
		intent.Kind = controller.IntentBeginJump
	case key.Matches(msg, m.keys.Tag):
		intent.Kind = controller.IntentBeginTag
		if rec := m.selectedRecord(); rec != nil {
			intent.Text = rec.Tag
		}
	case key.Matches(msg, m.keys.NewSession):
		intent.Kind = controller.IntentBeginNewSession
	case key.Matches(msg, m.keys.Delete):
		intent.Kind = controller.IntentDelete
	case key.Matches(msg, m.keys.Open):
		intent.Kind = controller.IntentOpen
	case key.Matches(msg, m.keys.Export):
		intent.Kind = controller.IntentExport
	case key.Matches(msg, m.keys.Copy):
		intent.Kind = controller.IntentCopyThread
	case key.Matches(msg, m.keys.Yank):
		intent.Kind = controller.IntentCopySelection
	case key.Matches(msg, m.keys.UserOnly):
		intent.Kind = controller.IntentToggleUserOnly
	case key.Matches(msg, m.keys.NextMatch):
		intent.Kind = controller.IntentNextMatch
	case key.Matches(msg, m.keys.PrevMatch):
		intent.Kind = controller.IntentPrevMatch
	case key.Matches(msg, m.keys.GrowPane):
		intent.Kind = controller.IntentGrowPane
	case key.Matches(msg, m.keys.ShrinkPane):
		intent.Kind = controller.IntentShrinkPane
	case key.Matches(msg, m.keys.Tab):
		intent.Kind = controller.IntentSwitchFocus
	case key.Matches(msg, m.keys.Refresh):
		return m, m.requestDiscover()
	default:
		return m, nil
	}

	return m.dispatch(intent, now)
}

func (m Model) handleEntryKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.dispatch(controller.Intent{Kind: controller.IntentCancel}, now)
	case "enter":
		return m.dispatch(controller.Intent{Kind: controller.IntentCommit}, now)
	}

	// The textinput widget owns editing; the controller mirrors its value so
	// commit/cancel see the same buffer.
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetBuffer(m.input.Value())

	if m.ctrl.State() == controller.StateFilterEntry && m.input.Value() != before {
		if m.ctrl.Focus() == controller.FocusThread {
			m.setThreadQuery(m.input.Value())
		} else {
			m.applyFilter(m.input.Value())
		}
	}
	return m, cmd
}

// dispatch feeds one intent through the state machine and performs the
// resulting action.
func (m Model) dispatch(intent controller.Intent, now time.Time) (tea.Model, tea.Cmd) {
	action := m.ctrl.Handle(intent, now)

	// Entering or leaving an entry mode re-syncs the text input widget.
	m.syncInput()

	switch action.Kind {
	case controller.ActionNone:
		return m, nil

	case controller.ActionSelectionChanged, controller.ActionJump:
		m.list.Select(action.Index)
		m.resetThreadSearch()
		return m, m.renderSelected(false)

	case controller.ActionApplyFilter:
		m.applyFilter(action.Query)
		return m, m.renderSelected(false)

	case controller.ActionThreadSearch:
		m.setThreadQuery(action.Query)
		return m, nil

	case controller.ActionSetTag:
		rec := m.selectedRecord()
		if rec == nil {
			return m, nil
		}
		if err := m.index.Tag(rec.ID, action.Tag); err != nil {
			m.err = err
			m.status = "Tag failed: " + err.Error()
			return m, nil
		}
		if action.Tag == "" {
			m.status = "Tag cleared"
		} else {
			m.status = "Tagged: " + action.Tag
		}
		m.applyFilter(m.filterQuery)
		return m, nil

	case controller.ActionCreateSession:
		m.status = "Creating session..."
		return m, m.createCmd(action.Tag)

	case controller.ActionOpen:
		rec := m.selectedRecord()
		if rec == nil {
			return m, nil
		}
		m.launch = &LaunchRequest{ProjectDir: rec.ProjectPath, SessionID: rec.ID}
		return m, tea.Quit

	case controller.ActionDelete:
		return m.deleteSelected()

	case controller.ActionExport:
		if rec := m.selectedRecord(); rec != nil {
			return m, m.exportCmd(rec)
		}
		return m, nil

	case controller.ActionCopyThread:
		if rec := m.selectedRecord(); rec != nil {
			return m, m.copyThreadCmd(rec)
		}
		return m, nil

	case controller.ActionCopySelection:
		return m, m.copySelectionCmd()

	case controller.ActionToggleUserOnly:
		m.userOnly = !m.userOnly
		return m, m.renderSelected(true)

	case controller.ActionNextMatch:
		m.jumpToMatch(1)
		return m, nil
	case controller.ActionPrevMatch:
		m.jumpToMatch(-1)
		return m, nil

	case controller.ActionGrowPane:
		m.paneShift += 4
		m.resize()
		return m, m.renderSelected(true)
	case controller.ActionShrinkPane:
		m.paneShift -= 4
		m.resize()
		return m, m.renderSelected(true)

	case controller.ActionFocusChanged:
		return m, nil

	case controller.ActionQuit:
		return m, tea.Quit

	case controller.ActionError:
		m.status = action.Err.Error()
		return m, nil
	}
	return m, nil
}

// syncInput keeps the textinput widget consistent with the controller's
// modal state and buffer.
func (m *Model) syncInput() {
	switch m.ctrl.State() {
	case controller.StateFilterEntry, controller.StateCommandEntry, controller.StateTagEntry:
		if !m.input.Focused() {
			m.input.SetValue(m.ctrl.Buffer())
			m.input.CursorEnd()
			m.input.Prompt = m.inputPrompt()
			m.input.Focus()
		}
	default:
		if m.input.Focused() {
			m.input.Blur()
			m.input.SetValue("")
		}
	}
}

func (m Model) inputPrompt() string {
	switch m.ctrl.State() {
	case controller.StateFilterEntry:
		if m.ctrl.Focus() == controller.FocusThread {
			return "search: "
		}
		return "filter: "
	case controller.StateCommandEntry:
		return ":"
	case controller.StateTagEntry:
		if m.ctrl.TagKind() == controller.TagKindNewSession {
			return "new session: "
		}
		return "tag: "
	}
	return "> "
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	rec := m.selectedRecord()
	if rec == nil {
		return m, nil
	}
	if err := m.index.Delete(rec.ID); err != nil {
		m.err = err
		m.status = "Delete failed: " + err.Error()
		return m, nil
	}
	m.status = "Deleted " + rec.DisplayName()
	m.applyFilter(m.filterQuery)
	return m, m.renderSelected(true)
}

// applyFilter recomputes the visible list and remaps the selection so it
// follows the previously selected record when it survives the filter.
func (m *Model) applyFilter(query string) {
	prevID := ""
	if rec := m.selectedRecord(); rec != nil {
		prevID = rec.ID
	}

	m.filterQuery = query
	m.visible = search.Filter(query, m.index.Records())

	ids := make([]string, len(m.visible))
	items := make([]list.Item, len(m.visible))
	for i, rec := range m.visible {
		ids[i] = rec.ID
		items[i] = sessionItem{rec: rec}
	}
	m.list.SetItems(items)

	m.ctrl.RemapSelection(ids, prevID)
	if len(m.visible) == 0 {
		if strings.TrimSpace(query) == "" {
			m.viewport.SetContent("No sessions found.")
		} else {
			m.viewport.SetContent("No sessions matched your filter.")
		}
		return
	}
	m.list.Select(m.ctrl.Selection())
}

func (m *Model) selectedRecord() *session.Record {
	sel := m.ctrl.Selection()
	if sel < 0 || sel >= len(m.visible) {
		return nil
	}
	return m.visible[sel]
}

func (m *Model) renderSelected(force bool) tea.Cmd {
	rec := m.selectedRecord()
	if rec == nil {
		m.resetThreadSearch()
		return nil
	}

	cacheKey := m.renderCacheKey(rec)
	if !force {
		if rendered, ok := m.rendered[cacheKey]; ok {
			m.setViewportFromRendered(rendered, false)
			return nil
		}
	}

	m.rendering = true
	m.renderNonce++
	nonce := m.renderNonce
	m.viewport.SetContent("Rendering thread...")

	wrap := m.viewport.Width - 2
	if wrap < 20 {
		wrap = 20
	}
	// The thread snapshot is taken here so overlapping render commands never
	// read the record concurrently; the goroutine only runs glamour.
	sessionID := rec.ID
	md := export.BuildThreadMarkdown(rec, m.userOnly)
	return func() tea.Msg {
		rendered := md
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(config.DefaultGlamourStyle),
			glamour.WithWordWrap(wrap),
		)
		if err == nil {
			if out, renderErr := r.Render(md); renderErr == nil {
				rendered = out
			}
		}
		return renderMsg{
			sessionID: sessionID,
			cacheKey:  cacheKey,
			rendered:  rendered,
			nonce:     nonce,
		}
	}
}

func (m Model) renderCacheKey(rec *session.Record) string {
	return fmt.Sprintf("%s|w=%d|u=%t", rec.ID, m.viewport.Width, m.userOnly)
}

func (m *Model) setViewportFromRendered(rendered string, gotoTop bool) {
	m.threadPlain = ansi.Strip(rendered)

	content := rendered
	if q := strings.TrimSpace(m.threadQuery); q != "" {
		res := highlight.ApplyANSI(rendered, q, func(s string) string {
			return searchMatchStyle.Render(s)
		})
		content = res.Text
		m.cursor = search.NewCursor(search.FindMatches(q, m.threadPlain))
	} else {
		m.cursor = nil
	}

	m.viewport.SetContent(content)
	if gotoTop {
		m.viewport.GotoTop()
	}
	if m.cursor != nil {
		if offset, ok := m.cursor.Current(); ok {
			m.viewport.SetYOffset(m.clampViewportOffset(lineOfOffset(m.threadPlain, offset)))
		}
	}
}

// setThreadQuery recomputes the match cursor against the current rendering.
func (m *Model) setThreadQuery(query string) {
	m.threadQuery = query
	m.ctrl.SetThreadSearchActive(strings.TrimSpace(query) != "")
	if rendered, ok := m.rendered[m.renderCacheKey(m.selectedRecordOrZero())]; ok {
		old := m.viewport.YOffset
		m.setViewportFromRendered(rendered, false)
		if m.cursor == nil {
			m.viewport.SetYOffset(m.clampViewportOffset(old))
		}
	}
}

func (m *Model) selectedRecordOrZero() *session.Record {
	if rec := m.selectedRecord(); rec != nil {
		return rec
	}
	return &session.Record{}
}

// resetThreadSearch drops the match cursor when the user navigates to a
// different session; the query itself survives and re-applies on render.
func (m *Model) resetThreadSearch() {
	m.cursor = nil
	m.threadPlain = ""
}

func (m *Model) jumpToMatch(delta int) {
	if m.cursor == nil || m.cursor.Count() == 0 {
		m.status = "No matches"
		return
	}

	var offset int
	var ok bool
	if delta > 0 {
		offset, ok = m.cursor.Next()
	} else {
		offset, ok = m.cursor.Prev()
	}
	if !ok {
		m.status = "No matches"
		return
	}

	m.viewport.SetYOffset(m.clampViewportOffset(lineOfOffset(m.threadPlain, offset)))
	m.status = fmt.Sprintf("Match %d/%d", m.cursor.Index()+1, m.cursor.Count())
}

// lineOfOffset converts a byte offset in plain text to its zero-based line.
func lineOfOffset(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n")
}

func (m *Model) clampViewportOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	maxOffset := m.viewport.TotalLineCount() - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	left, right := m.paneWidths()

	bodyHeight := m.height - 2
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	m.list.SetSize(left-2, bodyHeight-2)
	m.viewport.Width = right - 2
	m.viewport.Height = bodyHeight - 2
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}

	status := m.statusLine()
	left, right := m.paneWidths()
	focusList := m.ctrl.Focus() == controller.FocusList
	leftPane := panelStyle(focusList).Width(left).Height(m.height - 2).Render(m.list.View())
	rightPane := panelStyle(!focusList).Width(right).Height(m.height - 2).Render(m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	bottom := m.help.View(m.keys)
	switch m.ctrl.State() {
	case controller.StateFilterEntry, controller.StateCommandEntry, controller.StateTagEntry:
		bottom = m.input.View() + "  " + bottom
	case controller.StateConfirmDelete:
		bottom = confirmStyle.Render("Delete this session? (y/n)") + "  " + bottom
	default:
		if m.filterQuery != "" {
			bottom = "filter: " + m.filterQuery + "  " + bottom
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		body,
		bottom,
	)
}

func (m Model) statusLine() string {
	status := ""
	if m.discovering {
		status = m.spinner.View() + " scanning..."
	}
	if rec := m.selectedRecord(); rec != nil {
		status = fmt.Sprintf(
			"%d/%d  %s  %s  %s",
			m.ctrl.Selection()+1,
			len(m.visible),
			rec.DisplayName(),
			rec.DateString(),
			rec.ProjectPath,
		)
		if rec.ProjectAmbiguous {
			status += " (?)"
		}
	}
	if q := strings.TrimSpace(m.threadQuery); q != "" {
		if m.cursor != nil && m.cursor.Count() > 0 {
			status += fmt.Sprintf("  [match %d/%d]", m.cursor.Index()+1, m.cursor.Count())
		} else {
			status += "  [match 0]"
		}
	}
	if m.userOnly {
		status += "  [user-only]"
	}
	if m.rendering {
		status += "  [rendering]"
	}
	if strings.TrimSpace(m.status) != "" {
		status += "  " + shorten(strings.TrimSpace(m.status), 80)
	}
	if m.err != nil {
		status += "  err=" + m.err.Error()
	}
	return statusStyle.Render(status)
}

func (m *Model) paneWidths() (int, int) {
	left := m.width/3 + m.paneShift
	if left < 28 {
		left = 28
	}
	if left > m.width-32 {
		left = m.width - 32
	}
	if left < 20 {
		left = 20
	}
	right := m.width - left - 1
	if right < 20 {
		right = 20
	}
	return left, right
}

func shorten(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)
	searchMatchStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("220"))
	confirmStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func panelStyle(active bool) lipgloss.Style {
	border := lipgloss.NormalBorder()
	if active {
		return lipgloss.NewStyle().
			Border(border, true).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
	}
	return lipgloss.NewStyle().
		Border(border, true).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
}
