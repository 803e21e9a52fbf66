// Package controller implements the modal input state machine: normal
// navigation, filter/search entry, numeric jump entry, tag/name entry, and
// the delete confirmation. It holds no terminal state; transitions are plain
// functions over (state, intent) so the machine is testable headless.
package controller

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// State is the controller's modal state.
type State int

const (
	StateNormal State = iota
	StateFilterEntry
	StateCommandEntry
	StateTagEntry
	StateConfirmDelete
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateFilterEntry:
		return "filter"
	case StateCommandEntry:
		return "command"
	case StateTagEntry:
		return "tag"
	case StateConfirmDelete:
		return "confirm-delete"
	}
	return "unknown"
}

// TagEntryKind distinguishes editing a session's tag from naming a new
// session; both share the text-entry state but commit differently.
type TagEntryKind int

const (
	TagKindEdit TagEntryKind = iota
	TagKindNewSession
)

// Focus names which pane owns navigation keys.
type Focus int

const (
	FocusList Focus = iota
	FocusThread
)

// IntentKind is an abstract user intention, already decoupled from physical
// keys by the caller.
type IntentKind int

const (
	IntentNone IntentKind = iota

	// Text entry.
	IntentInput     // Rune carries the typed character
	IntentBackspace
	IntentCommit
	IntentCancel

	// Mode entry.
	IntentBeginFilter
	IntentBeginJump
	IntentBeginTag        // Text carries the current tag for prefill
	IntentBeginNewSession

	// Navigation.
	IntentUp
	IntentDown
	IntentFirst // double-press within the window jumps to top
	IntentLast

	// Direct actions.
	IntentOpen
	IntentDelete
	IntentConfirm
	IntentExport
	IntentCopyThread
	IntentCopySelection
	IntentToggleUserOnly
	IntentNextMatch
	IntentPrevMatch
	IntentGrowPane
	IntentShrinkPane
	IntentSwitchFocus
	IntentQuit
)

// Intent is one abstract keystroke plus its payload.
type Intent struct {
	Kind IntentKind
	Rune rune
	Text string
}

// ActionKind labels the committed effect a transition produced. ActionNone
// means the intent was consumed without external effect (buffer edits, mode
// changes, rejected input).
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSelectionChanged
	ActionApplyFilter  // Query carries the filter text
	ActionThreadSearch // Query carries the search text
	ActionJump         // Index carries the new zero-based selection
	ActionSetTag       // Tag carries the value; empty clears
	ActionCreateSession
	ActionOpen
	ActionDelete
	ActionExport
	ActionCopyThread
	ActionCopySelection
	ActionToggleUserOnly
	ActionNextMatch
	ActionPrevMatch
	ActionGrowPane
	ActionShrinkPane
	ActionFocusChanged
	ActionQuit
	ActionError // Err carries a user-visible validation message
)

// Action is the external effect of one Handle call. Zero value means no
// effect.
type Action struct {
	Kind  ActionKind
	Query string
	Index int
	Tag   string
	Err   error
}

// firstPressWindow is how long a "go to first" press waits for its double.
const firstPressWindow = 500 * time.Millisecond

// Controller is the single mutable-state holder for input handling. One
// instance per running program; no concurrent use.
type Controller struct {
	state   State
	tagKind TagEntryKind
	focus   Focus

	buffer string

	selection    int
	visibleCount int

	threadSearchActive bool

	pendingFirst time.Time
}

func New() *Controller {
	return &Controller{state: StateNormal, focus: FocusList}
}

func (c *Controller) State() State            { return c.state }
func (c *Controller) TagKind() TagEntryKind   { return c.tagKind }
func (c *Controller) Focus() Focus            { return c.focus }
func (c *Controller) Buffer() string          { return c.buffer }
func (c *Controller) Selection() int          { return c.selection }
func (c *Controller) ThreadSearchActive() bool { return c.threadSearchActive }

// SetBuffer overwrites the entry buffer; used when an external text input
// widget owns the actual editing.
func (c *Controller) SetBuffer(s string) { c.buffer = s }

// SetSelection moves the selection directly, clamped into the visible range.
func (c *Controller) SetSelection(i int) {
	if i >= c.visibleCount {
		i = c.visibleCount - 1
	}
	if i < 0 {
		i = 0
	}
	c.selection = i
}

// SetVisibleCount tells the controller how many records the filtered view
// currently shows, clamping the selection into range.
func (c *Controller) SetVisibleCount(n int) {
	c.visibleCount = n
	if c.selection >= n {
		c.selection = n - 1
	}
	if c.selection < 0 {
		c.selection = 0
	}
}

// SetThreadSearchActive marks whether a thread search query is live; match
// navigation intents are ignored otherwise.
func (c *Controller) SetThreadSearchActive(active bool) {
	c.threadSearchActive = active
}

// RemapSelection re-points the selection after the filtered view changed:
// it follows the previously selected id when still visible, otherwise it
// resets to the first element.
func (c *Controller) RemapSelection(visibleIDs []string, prevID string) {
	c.visibleCount = len(visibleIDs)
	c.selection = 0
	for i, id := range visibleIDs {
		if id == prevID {
			c.selection = i
			return
		}
	}
}

// Handle applies one intent and returns the resulting external action. now
// feeds the double-press timer.
func (c *Controller) Handle(intent Intent, now time.Time) Action {
	switch c.state {
	case StateNormal:
		return c.handleNormal(intent, now)
	case StateFilterEntry:
		return c.handleFilterEntry(intent)
	case StateCommandEntry:
		return c.handleCommandEntry(intent)
	case StateTagEntry:
		return c.handleTagEntry(intent)
	case StateConfirmDelete:
		return c.handleConfirmDelete(intent)
	}
	return Action{}
}

func (c *Controller) handleNormal(intent Intent, now time.Time) Action {
	// Any intent other than a repeated "first" cancels the pending
	// double-press.
	if intent.Kind != IntentFirst {
		c.pendingFirst = time.Time{}
	}

	switch intent.Kind {
	case IntentUp:
		if c.selection > 0 {
			c.selection--
			return Action{Kind: ActionSelectionChanged, Index: c.selection}
		}
		return Action{}
	case IntentDown:
		if c.selection < c.visibleCount-1 {
			c.selection++
			return Action{Kind: ActionSelectionChanged, Index: c.selection}
		}
		return Action{}
	case IntentFirst:
		if !c.pendingFirst.IsZero() && now.Sub(c.pendingFirst) <= firstPressWindow {
			c.pendingFirst = time.Time{}
			c.selection = 0
			return Action{Kind: ActionSelectionChanged, Index: 0}
		}
		c.pendingFirst = now
		return Action{}
	case IntentLast:
		if c.visibleCount > 0 {
			c.selection = c.visibleCount - 1
			return Action{Kind: ActionSelectionChanged, Index: c.selection}
		}
		return Action{}

	case IntentBeginFilter:
		c.state = StateFilterEntry
		c.buffer = ""
		return Action{}
	case IntentBeginJump:
		c.state = StateCommandEntry
		c.buffer = ""
		return Action{}
	case IntentBeginTag:
		if c.visibleCount == 0 {
			return Action{}
		}
		c.state = StateTagEntry
		c.tagKind = TagKindEdit
		c.buffer = intent.Text
		return Action{}
	case IntentBeginNewSession:
		c.state = StateTagEntry
		c.tagKind = TagKindNewSession
		c.buffer = ""
		return Action{}

	case IntentDelete:
		if c.visibleCount == 0 {
			return Action{}
		}
		c.state = StateConfirmDelete
		return Action{}

	case IntentOpen:
		if c.visibleCount == 0 {
			return Action{}
		}
		return Action{Kind: ActionOpen, Index: c.selection}
	case IntentExport:
		return Action{Kind: ActionExport}
	case IntentCopyThread:
		return Action{Kind: ActionCopyThread}
	case IntentCopySelection:
		return Action{Kind: ActionCopySelection}
	case IntentToggleUserOnly:
		return Action{Kind: ActionToggleUserOnly}
	case IntentNextMatch:
		if !c.threadSearchActive {
			return Action{}
		}
		return Action{Kind: ActionNextMatch}
	case IntentPrevMatch:
		if !c.threadSearchActive {
			return Action{}
		}
		return Action{Kind: ActionPrevMatch}
	case IntentGrowPane:
		return Action{Kind: ActionGrowPane}
	case IntentShrinkPane:
		return Action{Kind: ActionShrinkPane}
	case IntentSwitchFocus:
		if c.focus == FocusList {
			c.focus = FocusThread
		} else {
			c.focus = FocusList
		}
		return Action{Kind: ActionFocusChanged}
	case IntentQuit:
		return Action{Kind: ActionQuit}
	}
	return Action{}
}

func (c *Controller) handleFilterEntry(intent Intent) Action {
	switch intent.Kind {
	case IntentInput:
		c.buffer += string(intent.Rune)
		return c.liveFilterAction()
	case IntentBackspace:
		c.buffer = trimLastRune(c.buffer)
		return c.liveFilterAction()
	case IntentCancel:
		c.state = StateNormal
		c.buffer = ""
		// Discarding the buffer also discards any incremental narrowing.
		if c.focus == FocusThread {
			c.threadSearchActive = false
			return Action{Kind: ActionThreadSearch, Query: ""}
		}
		return Action{Kind: ActionApplyFilter, Query: ""}
	case IntentCommit:
		query := c.buffer
		c.state = StateNormal
		c.buffer = ""
		if c.focus == FocusThread {
			c.threadSearchActive = query != ""
			return Action{Kind: ActionThreadSearch, Query: query}
		}
		return Action{Kind: ActionApplyFilter, Query: query}
	}
	return Action{}
}

// liveFilterAction narrows incrementally on every keystroke while the entry
// mode is open.
func (c *Controller) liveFilterAction() Action {
	if c.focus == FocusThread {
		return Action{Kind: ActionThreadSearch, Query: c.buffer}
	}
	return Action{Kind: ActionApplyFilter, Query: c.buffer}
}

func (c *Controller) handleCommandEntry(intent Intent) Action {
	switch intent.Kind {
	case IntentInput:
		c.buffer += string(intent.Rune)
		return Action{}
	case IntentBackspace:
		c.buffer = trimLastRune(c.buffer)
		return Action{}
	case IntentCancel:
		c.state = StateNormal
		c.buffer = ""
		return Action{}
	case IntentCommit:
		n, err := strconv.Atoi(strings.TrimSpace(c.buffer))
		if err != nil {
			// Buffer stays editable; the user fixes it or cancels.
			return Action{Kind: ActionError, Err: fmt.Errorf("not a number: %q", c.buffer)}
		}
		if n < 1 || n > c.visibleCount {
			return Action{Kind: ActionError, Err: fmt.Errorf("index %d out of range 1-%d", n, c.visibleCount)}
		}
		c.state = StateNormal
		c.buffer = ""
		c.selection = n - 1
		return Action{Kind: ActionJump, Index: c.selection}
	}
	return Action{}
}

func (c *Controller) handleTagEntry(intent Intent) Action {
	switch intent.Kind {
	case IntentInput:
		c.buffer += string(intent.Rune)
		return Action{}
	case IntentBackspace:
		c.buffer = trimLastRune(c.buffer)
		return Action{}
	case IntentCancel:
		c.state = StateNormal
		c.buffer = ""
		return Action{}
	case IntentCommit:
		value := strings.TrimSpace(c.buffer)
		if c.tagKind == TagKindNewSession {
			if value == "" {
				return Action{Kind: ActionError, Err: fmt.Errorf("session name required")}
			}
			c.state = StateNormal
			c.buffer = ""
			return Action{Kind: ActionCreateSession, Tag: value}
		}
		// Editing: an empty buffer clears the tag.
		c.state = StateNormal
		c.buffer = ""
		return Action{Kind: ActionSetTag, Tag: value}
	}
	return Action{}
}

func (c *Controller) handleConfirmDelete(intent Intent) Action {
	c.state = StateNormal
	if intent.Kind == IntentConfirm {
		return Action{Kind: ActionDelete, Index: c.selection}
	}
	return Action{}
}

func trimLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}
