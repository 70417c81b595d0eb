// Package menu builds the role-specific sidebar navigation of the dashboard and
// derives its active and expanded state.
//
// Menu construction is a pure derivation over static configuration data: the
// base entries are enhanced per entry id (rows excluded, rows appended) and the
// admin dashboard appends its admin-only entries. Every build returns a fresh
// deep copy, so callers may modify the result freely.
package menu

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/mchmarny/agrodash/pkg/logger"
	"github.com/mchmarny/agrodash/pkg/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// Model builds menus from one Config.
type Model struct {
	cfg        Config
	logger     *slog.Logger
	selections metric.IncrementalCounter
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger sets the logger used by the model and the HTTP handlers.
func WithLogger(l *slog.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// WithRegisterer counts menu selections by role and section on reg.
func WithRegisterer(reg prometheus.Registerer) ModelOption {
	return func(m *Model) {
		m.selections = metric.NewCounterWithRegistry(reg, "menu_selections_total",
			"Number of menu sections selected.", "role", "section")
	}
}

// NewModel validates cfg and returns a model that owns a private copy of it.
func NewModel(cfg *Config, opts ...ModelOption) (*Model, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{cfg: cfg.clone()}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logger.OrDefault(m.logger)

	return m, nil
}

// DefaultSection is the section shown when a menu is first mounted.
func (m *Model) DefaultSection() string {
	return m.cfg.DefaultSection
}

// NewState returns the initial navigation state for this model.
func (m *Model) NewState() State {
	return NewState(m.cfg.DefaultSection)
}

// BuildUserMenu returns the enhanced base entries.
func (m *Model) BuildUserMenu() []Entry {
	out := make([]Entry, 0, len(m.cfg.Base))
	for _, e := range m.cfg.Base {
		if enh, ok := m.cfg.Enhancements[e.ID]; ok {
			out = append(out, enhance(e, enh))
			continue
		}
		out = append(out, e.clone())
	}
	return out
}

// BuildAdminMenu returns the enhanced base entries followed by the admin-only entries.
func (m *Model) BuildAdminMenu() []Entry {
	return append(m.BuildUserMenu(), cloneEntries(m.cfg.Admin)...)
}

// Build returns the menu for role.
func (m *Model) Build(role Role) ([]Entry, error) {
	switch role {
	case RoleUser:
		return m.BuildUserMenu(), nil
	case RoleAdmin:
		return m.BuildAdminMenu(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
}

// enhance returns a copy of e whose submenu keeps the base rows not excluded, in
// their original order, followed by the additions. e is not modified.
func enhance(e Entry, enh Enhancement) Entry {
	out := e
	out.Submenu = make([]SubEntry, 0, len(e.Submenu)+len(enh.Add))
	for _, s := range e.Submenu {
		if slices.Contains(enh.Exclude, s.Value) {
			continue
		}
		out.Submenu = append(out.Submenu, s)
	}
	out.Submenu = append(out.Submenu, enh.Add...)
	return out
}

func (c *Config) clone() Config {
	out := Config{
		DefaultSection: c.DefaultSection,
		Base:           cloneEntries(c.Base),
		Admin:          cloneEntries(c.Admin),
	}
	if c.Enhancements != nil {
		out.Enhancements = make(map[string]Enhancement, len(c.Enhancements))
		for id, enh := range c.Enhancements {
			out.Enhancements[id] = Enhancement{
				Exclude: slices.Clone(enh.Exclude),
				Add:     slices.Clone(enh.Add),
			}
		}
	}
	return out
}
