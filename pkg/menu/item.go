package menu

import (
	"fmt"
	"slices"
)

// Kind distinguishes directly selectable entries from expandable ones.
type Kind string

const (
	// KindSingle entries are selected by their label.
	KindSingle Kind = "single"
	// KindExpandable entries toggle open to show a submenu.
	KindExpandable Kind = "expandable"
)

// Role selects which menu a dashboard shows.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a role name into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// SubEntry is one row of an expandable entry's submenu.
type SubEntry struct {
	// Label is the display name.
	Label string `json:"label" yaml:"label"`

	// Value is the section identifier the row selects.
	Value string `json:"value" yaml:"value"`
}

// Entry is a top-level navigation item.
type Entry struct {
	// ID is unique within a menu.
	ID string `json:"id" yaml:"id"`

	// Label is the display name; for single entries it is also the section identifier.
	Label string `json:"label" yaml:"label"`

	// Icon is an icon-set key, passed through to the client.
	Icon string `json:"icon,omitempty" yaml:"icon"`

	// Kind is single or expandable.
	Kind Kind `json:"kind" yaml:"kind"`

	// Submenu is set only for expandable entries.
	Submenu []SubEntry `json:"submenu,omitempty" yaml:"submenu,omitempty"`
}

// clone returns a copy that shares no backing arrays with e.
func (e Entry) clone() Entry {
	e.Submenu = slices.Clone(e.Submenu)
	return e
}

// Find returns the sub-entry with the given value.
func (e Entry) Find(value string) (SubEntry, bool) {
	for _, s := range e.Submenu {
		if s.Value == value {
			return s, true
		}
	}
	return SubEntry{}, false
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}
