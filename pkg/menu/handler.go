package menu

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const (
	// MenuPattern serves the rendered menu of a role.
	MenuPattern = "GET /api/v1/menu/{role}"

	// ActionPattern applies one interaction to a client-held state.
	ActionPattern = "POST /api/v1/menu/{role}/actions"

	maxActionBody = 1 << 16
)

// Response is the JSON body returned by the menu endpoints.
type Response struct {
	Role      Role        `json:"role"`
	State     State       `json:"state"`
	Selection *Selection  `json:"selection,omitempty"`
	Entries   []EntryView `json:"entries"`
}

// ActionRequest is the body of an action call. A missing state means a freshly
// mounted menu.
type ActionRequest struct {
	State *State `json:"state,omitempty"`
	Command
}

// RegisterHandlers registers the menu endpoints with register.
func (m *Model) RegisterHandlers(register func(pattern string, handler http.Handler)) {
	register(MenuPattern, http.HandlerFunc(m.handleMenu))
	register(ActionPattern, http.HandlerFunc(m.handleAction))
}

// Handler returns a handler serving only the menu endpoints.
func (m *Model) Handler() http.Handler {
	mux := http.NewServeMux()
	m.RegisterHandlers(func(pattern string, h http.Handler) {
		mux.Handle(pattern, h)
	})
	return mux
}

func (m *Model) handleMenu(w http.ResponseWriter, r *http.Request) {
	m.logger.Info("handling menu request",
		"method", r.Method,
		"url", r.URL.Path)

	role, entries, ok := m.resolve(w, r)
	if !ok {
		return
	}

	st := m.NewState()
	q := r.URL.Query()
	if sec := q.Get("section"); sec != "" {
		st.ActiveSection = sec
	}
	for id := range strings.SplitSeq(q.Get("expanded"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			st = SetExpanded(st, id, true)
		}
	}

	m.writeJSON(w, http.StatusOK, Response{
		Role:    role,
		State:   st,
		Entries: Render(entries, st),
	})
}

func (m *Model) handleAction(w http.ResponseWriter, r *http.Request) {
	m.logger.Info("handling menu action",
		"method", r.Method,
		"url", r.URL.Path)

	role, entries, ok := m.resolve(w, r)
	if !ok {
		return
	}

	var req ActionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		m.writeError(w, http.StatusBadRequest, "invalid action request")
		return
	}

	st := m.NewState()
	if req.State != nil {
		st = *req.State
	}

	next, sel, err := Transition(entries, st, req.Command)
	if err != nil {
		m.writeError(w, statusFor(err), err.Error())
		return
	}

	if sel != nil && m.selections != nil {
		m.selections.Increment(string(role), sel.NewActiveSection)
	}

	m.writeJSON(w, http.StatusOK, Response{
		Role:      role,
		State:     next,
		Selection: sel,
		Entries:   Render(entries, next),
	})
}

func (m *Model) resolve(w http.ResponseWriter, r *http.Request) (Role, []Entry, bool) {
	role, err := ParseRole(r.PathValue("role"))
	if err != nil {
		m.writeError(w, http.StatusNotFound, err.Error())
		return "", nil, false
	}

	entries, err := m.Build(role)
	if err != nil {
		m.writeError(w, http.StatusNotFound, err.Error())
		return "", nil, false
	}

	return role, entries, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownEntry):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidEntryKind):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (m *Model) writeError(w http.ResponseWriter, status int, message string) {
	m.logger.Error("handling error response",
		"status", status,
		"message", message)

	m.writeJSON(w, status, map[string]string{"error": message})
}

func (m *Model) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		m.logger.Error("failed to marshal JSON response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		m.logger.Error("failed to write JSON response", "error", err)
	}
}
