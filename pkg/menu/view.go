package menu

// SubEntryView is a submenu row as the sidebar draws it.
type SubEntryView struct {
	SubEntry
	Active bool `json:"active"`
}

// EntryView is an entry as the sidebar draws it.
type EntryView struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Icon     string         `json:"icon,omitempty"`
	Kind     Kind           `json:"kind"`
	Active   bool           `json:"active"`
	Expanded bool           `json:"expanded"`
	Submenu  []SubEntryView `json:"submenu,omitempty"`
}

// Render derives the view of entries under s.
func Render(entries []Entry, s State) []EntryView {
	out := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		v := EntryView{
			ID:       e.ID,
			Label:    e.Label,
			Icon:     e.Icon,
			Kind:     e.Kind,
			Active:   IsEntryActive(e, s.ActiveSection),
			Expanded: e.Kind == KindExpandable && s.IsExpanded(e.ID),
		}
		for _, sub := range e.Submenu {
			v.Submenu = append(v.Submenu, SubEntryView{
				SubEntry: sub,
				Active:   IsSubEntryActive(sub, s.ActiveSection),
			})
		}
		out = append(out, v)
	}
	return out
}
