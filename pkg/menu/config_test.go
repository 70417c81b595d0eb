package menu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	a, err := DefaultConfig()
	require.NoError(t, err)
	b, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotSame(t, a, b)
	assert.Equal(t, "Overview", a.DefaultSection)
	assert.Len(t, a.Base, 7)
	assert.Len(t, a.Admin, 9)
	assert.Equal(t, []string{"Assumptions & Confidence"}, a.Enhancements["predictions"].Exclude)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_section: Home
base:
  - id: home
    label: Home
    kind: single
  - id: fields
    label: Fields
    kind: expandable
    submenu:
      - { label: North, value: north }
enhancements:
  fields:
    add:
      - { label: South, value: south }
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Home", cfg.DefaultSection)

	m, err := NewModel(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"north", "south"}, submenuValues(entryByID(t, m.BuildUserMenu(), "fields")))
	assert.Len(t, m.BuildAdminMenu(), 2)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		doc    string
		errMsg string
	}{
		{
			name:   "missing default section",
			doc:    "base: [{id: a, label: A, kind: single}]",
			errMsg: "default_section is required",
		},
		{
			name:   "no base entries",
			doc:    "default_section: A",
			errMsg: "at least one base entry",
		},
		{
			name: "duplicate ids across base and admin",
			doc: `default_section: A
base: [{id: a, label: A, kind: single}]
admin: [{id: a, label: Again, kind: single}]`,
			errMsg: `duplicate entry id "a"`,
		},
		{
			name: "single with submenu",
			doc: `default_section: A
base: [{id: a, label: A, kind: single, submenu: [{label: x, value: x}]}]`,
			errMsg: "single entry",
		},
		{
			name: "expandable without submenu",
			doc: `default_section: A
base: [{id: a, label: A, kind: expandable}]`,
			errMsg: "has no submenu",
		},
		{
			name: "duplicate submenu values",
			doc: `default_section: A
base: [{id: a, label: A, kind: expandable, submenu: [{label: x, value: x}, {label: y, value: x}]}]`,
			errMsg: "duplicate submenu value",
		},
		{
			name: "unknown kind",
			doc: `default_section: A
base: [{id: a, label: A, kind: dropdown}]`,
			errMsg: "unknown kind",
		},
		{
			name: "enhancement for unknown entry",
			doc: `default_section: A
base: [{id: a, label: A, kind: single}]
enhancements: {b: {add: [{label: x, value: x}]}}`,
			errMsg: "unknown base entry",
		},
		{
			name: "enhancement for single entry",
			doc: `default_section: A
base: [{id: a, label: A, kind: single}]
enhancements: {a: {add: [{label: x, value: x}]}}`,
			errMsg: "enhancement for single entry",
		},
		{
			name: "enhancement adds duplicate value",
			doc: `default_section: A
base: [{id: a, label: A, kind: expandable, submenu: [{label: x, value: x}]}]
enhancements: {a: {add: [{label: x, value: x}]}}`,
			errMsg: "duplicate submenu value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseConfig(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseConfigUnknownField(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(strings.NewReader("default_section: A\ncolour: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode menu config")
}
