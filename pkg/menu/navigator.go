package menu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mchmarny/agrodash/pkg/metric"
)

// Action names a user interaction with the sidebar.
type Action string

const (
	// ActionClick clicks an entry body: a single entry is selected, an
	// expandable entry toggles.
	ActionClick Action = "click"
	// ActionSelect selects a single entry.
	ActionSelect Action = "select"
	// ActionSelectSub selects a submenu row of an expandable entry.
	ActionSelectSub Action = "select_sub"
	// ActionToggle expands or collapses an expandable entry.
	ActionToggle Action = "toggle"
)

// Command is one interaction against a menu.
type Command struct {
	Action Action `json:"action"`
	Entry  string `json:"entry"`
	Value  string `json:"value,omitempty"`
}

// Transition applies cmd to s. The returned selection is nil when the active
// section did not change hands (toggles). s is never modified.
func Transition(entries []Entry, s State, cmd Command) (State, *Selection, error) {
	e, ok := findEntry(entries, cmd.Entry)
	if !ok {
		return s, nil, fmt.Errorf("%w: %q", ErrUnknownEntry, cmd.Entry)
	}

	switch cmd.Action {
	case ActionClick:
		if e.Kind == KindExpandable {
			return ToggleExpansion(s, e.ID), nil, nil
		}
		return selectSingle(s, e)
	case ActionSelect:
		return selectSingle(s, e)
	case ActionSelectSub:
		sub, ok := e.Find(cmd.Value)
		if !ok {
			return s, nil, fmt.Errorf("%w: %q has no row %q", ErrUnknownEntry, e.ID, cmd.Value)
		}
		sel := SelectSubEntry(sub)
		return s.Apply(sel), &sel, nil
	case ActionToggle:
		if e.Kind != KindExpandable {
			return s, nil, fmt.Errorf("%w: %q is %s", ErrInvalidEntryKind, e.ID, e.Kind)
		}
		return ToggleExpansion(s, e.ID), nil, nil
	default:
		return s, nil, fmt.Errorf("unknown action %q", cmd.Action)
	}
}

func selectSingle(s State, e Entry) (State, *Selection, error) {
	sel, err := SelectSingle(e)
	if err != nil {
		return s, nil, err
	}
	return s.Apply(sel), &sel, nil
}

// SectionChangeFunc is notified once per successful selection.
type SectionChangeFunc func(section string)

// Navigator holds the state of one mounted menu and reports section changes.
type Navigator struct {
	role       Role
	entries    []Entry
	onChange   SectionChangeFunc
	logger     *slog.Logger
	selections metric.IncrementalCounter

	mu    sync.Mutex
	state State
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithSelectionCounter counts selections by role and section.
func WithSelectionCounter(c metric.IncrementalCounter) NavigatorOption {
	return func(n *Navigator) { n.selections = c }
}

// NewNavigator mounts the menu for role. onChange may be nil.
func (m *Model) NewNavigator(role Role, onChange SectionChangeFunc, opts ...NavigatorOption) (*Navigator, error) {
	entries, err := m.Build(role)
	if err != nil {
		return nil, err
	}

	n := &Navigator{
		role:       role,
		entries:    entries,
		onChange:   onChange,
		logger:     m.logger.With("role", string(role)),
		selections: m.selections,
		state:      m.NewState(),
	}
	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// State returns a copy of the current state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.clone()
}

// Entries returns a copy of the mounted menu.
func (n *Navigator) Entries() []Entry {
	return cloneEntries(n.entries)
}

// View renders the mounted menu under the current state.
func (n *Navigator) View() []EntryView {
	return Render(n.entries, n.State())
}

// Click handles a click on the body of an entry.
func (n *Navigator) Click(id string) error {
	return n.Do(Command{Action: ActionClick, Entry: id})
}

// SelectSub handles a click on a submenu row.
func (n *Navigator) SelectSub(id, value string) error {
	return n.Do(Command{Action: ActionSelectSub, Entry: id, Value: value})
}

// Toggle expands or collapses an expandable entry.
func (n *Navigator) Toggle(id string) error {
	return n.Do(Command{Action: ActionToggle, Entry: id})
}

// Do applies cmd and notifies the section listener when the selection changed.
func (n *Navigator) Do(cmd Command) error {
	n.mu.Lock()
	next, sel, err := Transition(n.entries, n.state, cmd)
	if err != nil {
		n.mu.Unlock()
		n.logger.Error("menu interaction rejected",
			"action", string(cmd.Action),
			"entry", cmd.Entry,
			"error", err)
		return err
	}
	n.state = next
	n.mu.Unlock()

	if sel == nil {
		n.logger.Debug("menu entry toggled",
			"entry", cmd.Entry,
			"expanded", next.IsExpanded(cmd.Entry))
		return nil
	}

	n.logger.Info("section changed",
		"entry", cmd.Entry,
		"section", sel.NewActiveSection)

	if n.selections != nil {
		n.selections.Increment(string(n.role), sel.NewActiveSection)
	}
	if n.onChange != nil {
		n.onChange(sel.NewActiveSection)
	}

	return nil
}
