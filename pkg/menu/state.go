package menu

import (
	"fmt"
	"maps"
)

// State is the navigation state of one rendered menu. It is owned by the
// surface that renders the menu and is never persisted here.
type State struct {
	// ActiveSection is a single entry's label or a submenu row's value.
	ActiveSection string `json:"active_section"`

	// Expanded maps entry ids to their expansion flag. Absent means collapsed.
	Expanded map[string]bool `json:"expanded,omitempty"`
}

// NewState returns a state with section active and every entry collapsed.
func NewState(section string) State {
	return State{ActiveSection: section}
}

// IsExpanded reports whether the entry with id is expanded.
func (s State) IsExpanded(id string) bool {
	return s.Expanded[id]
}

// Selection is the outcome of selecting an entry or row.
type Selection struct {
	NewActiveSection string `json:"new_active_section"`
}

// IsEntryActive reports whether e represents section: a single entry by its
// label, an expandable entry through any of its submenu values.
func IsEntryActive(e Entry, section string) bool {
	if e.Kind == KindExpandable {
		_, ok := e.Find(section)
		return ok
	}
	return e.Label == section
}

// IsSubEntryActive reports whether s is the active row.
func IsSubEntryActive(s SubEntry, section string) bool {
	return s.Value == section
}

// SelectSingle selects a single entry. Expandable entries are not selectable.
func SelectSingle(e Entry) (Selection, error) {
	if e.Kind != KindSingle {
		return Selection{}, fmt.Errorf("%w: %q is %s", ErrInvalidEntryKind, e.ID, e.Kind)
	}
	return Selection{NewActiveSection: e.Label}, nil
}

// SelectSubEntry selects a submenu row.
func SelectSubEntry(s SubEntry) Selection {
	return Selection{NewActiveSection: s.Value}
}

// Apply returns s with the selection made active. Expansion is untouched.
func (s State) Apply(sel Selection) State {
	out := s.clone()
	out.ActiveSection = sel.NewActiveSection
	return out
}

// ToggleExpansion returns a copy of s with only the entry id flipped. s is not
// modified, and several entries may be expanded at once.
func ToggleExpansion(s State, id string) State {
	return SetExpanded(s, id, !s.Expanded[id])
}

// SetExpanded returns a copy of s with the entry id explicitly expanded or collapsed.
func SetExpanded(s State, id string, expanded bool) State {
	out := s.clone()
	if out.Expanded == nil {
		out.Expanded = make(map[string]bool)
	}
	if expanded {
		out.Expanded[id] = true
	} else {
		delete(out.Expanded, id)
	}
	return out
}

func (s State) clone() State {
	s.Expanded = maps.Clone(s.Expanded)
	return s
}
