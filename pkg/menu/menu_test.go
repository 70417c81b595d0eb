package menu

import (
	"testing"

	"github.com/mchmarny/agrodash/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, opts ...ModelOption) *Model {
	t.Helper()

	cfg, err := DefaultConfig()
	require.NoError(t, err)

	opts = append([]ModelOption{WithLogger(logger.NewDiscardLogger())}, opts...)
	m, err := NewModel(cfg, opts...)
	require.NoError(t, err)

	return m
}

func submenuValues(e Entry) []string {
	out := make([]string, 0, len(e.Submenu))
	for _, s := range e.Submenu {
		out = append(out, s.Value)
	}
	return out
}

func entryByID(t *testing.T, entries []Entry, id string) Entry {
	t.Helper()
	e, ok := findEntry(entries, id)
	require.True(t, ok, "entry %q not found", id)
	return e
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestBuildUserMenu(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	entries := m.BuildUserMenu()

	assert.Equal(t,
		[]string{"overview", "livedata", "predictions", "recommendations", "alerts", "maps", "reports"},
		ids(entries))

	tests := map[string][]string{
		"alerts":          {"Active", "Acknowledged", "Resolved", "Silenced / Snoozed"},
		"livedata":        {"Soil Sensors", "Weather Station", "Spectral / NIR", "Compare"},
		"predictions":     {"Yield Forecast", "Quality (DM/Starch)", "Harvest Window", "Backtests"},
		"recommendations": {"Irrigation Plan", "Fertilization Plan", "Harvest Plan", "Policy Overrides"},
		"maps":            {"Field Maps", "Zone Management", "Boundary Setting", "Overlay Data"},
	}
	for id, want := range tests {
		assert.Equal(t, want, submenuValues(entryByID(t, entries, id)), id)
	}

	overview := entryByID(t, entries, "overview")
	assert.Equal(t, KindSingle, overview.Kind)
	assert.Empty(t, overview.Submenu)
}

func TestBuildAdminMenu(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	user := m.BuildUserMenu()
	admin := m.BuildAdminMenu()

	assert.Equal(t, user, admin[:len(user)])
	assert.Equal(t,
		[]string{"users", "devices", "farms", "system", "analytics", "integrations", "security", "support", "billing"},
		ids(admin[len(user):]))

	for _, u := range user {
		a := entryByID(t, admin, u.ID)
		assert.Equal(t, u.Kind, a.Kind, u.ID)
	}
}

func TestBuildIsPure(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	first := m.BuildUserMenu()
	firstAdmin := m.BuildAdminMenu()

	first[4].Submenu[0].Value = "mutated"
	first[4].Submenu = append(first[4].Submenu, SubEntry{Label: "x", Value: "x"})
	first[0].Label = "mutated"
	firstAdmin[len(firstAdmin)-1].Submenu[0].Label = "mutated"

	second := m.BuildUserMenu()
	secondAdmin := m.BuildAdminMenu()

	assert.Equal(t, []string{"Active", "Acknowledged", "Resolved", "Silenced / Snoozed"},
		submenuValues(entryByID(t, second, "alerts")))
	assert.Equal(t, "Overview", second[0].Label)
	assert.Equal(t, "Subscription Management", secondAdmin[len(secondAdmin)-1].Submenu[0].Label)
	assert.Equal(t, m.BuildUserMenu(), second)
	assert.Equal(t, m.BuildAdminMenu(), secondAdmin)
}

func TestBuildDoesNotShareConfig(t *testing.T) {
	t.Parallel()

	cfg, err := DefaultConfig()
	require.NoError(t, err)

	m, err := NewModel(cfg, WithLogger(logger.NewDiscardLogger()))
	require.NoError(t, err)

	cfg.Base[4].Submenu[0].Value = "changed"
	cfg.Enhancements["alerts"] = Enhancement{}

	assert.Equal(t, []string{"Active", "Acknowledged", "Resolved", "Silenced / Snoozed"},
		submenuValues(entryByID(t, m.BuildUserMenu(), "alerts")))
}

func TestBuildByRole(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	user, err := m.Build(RoleUser)
	require.NoError(t, err)
	assert.Len(t, user, 7)

	admin, err := m.Build(RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admin, 16)

	_, err = m.Build(Role("guest"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("Admin")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestNewModelRejectsNil(t *testing.T) {
	t.Parallel()

	_, err := NewModel(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
