package menu

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultConfig []byte

var (
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid menu configuration")

	// ErrUnknownRole is returned for roles other than user and admin.
	ErrUnknownRole = errors.New("unknown role")

	// ErrUnknownEntry is returned when an entry id or submenu value is not in the menu.
	ErrUnknownEntry = errors.New("unknown menu entry")

	// ErrInvalidEntryKind is returned when an operation is applied to the wrong
	// kind of entry. It signals a caller bug and must not be retried.
	ErrInvalidEntryKind = errors.New("invalid entry kind")
)

// Enhancement adjusts one base entry's submenu for the dashboards.
type Enhancement struct {
	// Exclude lists submenu values removed from the base submenu.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// Add lists sub-entries appended after the retained base rows.
	Add []SubEntry `json:"add,omitempty" yaml:"add,omitempty"`
}

// Config is the static menu configuration data.
type Config struct {
	// DefaultSection is the active section of a freshly mounted menu.
	DefaultSection string `json:"default_section" yaml:"default_section"`

	// Base entries are shared by every role.
	Base []Entry `json:"base" yaml:"base"`

	// Enhancements are keyed by base entry id.
	Enhancements map[string]Enhancement `json:"enhancements,omitempty" yaml:"enhancements,omitempty"`

	// Admin entries are appended after the base entries on the admin dashboard.
	Admin []Entry `json:"admin,omitempty" yaml:"admin,omitempty"`
}

// DefaultConfig parses the embedded dashboard menu. Every call returns a new value.
func DefaultConfig() (*Config, error) {
	return ParseConfig(bytes.NewReader(defaultConfig))
}

// LoadConfig reads and validates a menu configuration file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open menu config: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ParseConfig(f)
}

// ParseConfig decodes and validates a YAML menu configuration.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode menu config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the structural invariants of the menu data.
func (c *Config) Validate() error {
	if c.DefaultSection == "" {
		return fmt.Errorf("%w: default_section is required", ErrInvalidConfig)
	}
	if len(c.Base) == 0 {
		return fmt.Errorf("%w: at least one base entry is required", ErrInvalidConfig)
	}

	ids := make(map[string]bool)
	for _, e := range slices.Concat(c.Base, c.Admin) {
		if err := validateEntry(e); err != nil {
			return err
		}
		if ids[e.ID] {
			return fmt.Errorf("%w: duplicate entry id %q", ErrInvalidConfig, e.ID)
		}
		ids[e.ID] = true
	}

	for id, enh := range c.Enhancements {
		base, ok := findEntry(c.Base, id)
		if !ok {
			return fmt.Errorf("%w: enhancement for unknown base entry %q", ErrInvalidConfig, id)
		}
		if base.Kind != KindExpandable {
			return fmt.Errorf("%w: enhancement for %s entry %q", ErrInvalidConfig, base.Kind, id)
		}
		enhanced := enhance(base, enh)
		if err := uniqueValues(enhanced); err != nil {
			return err
		}
	}

	return nil
}

func validateEntry(e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("%w: entry %q has no id", ErrInvalidConfig, e.Label)
	}
	if e.Label == "" {
		return fmt.Errorf("%w: entry %q has no label", ErrInvalidConfig, e.ID)
	}

	switch e.Kind {
	case KindSingle:
		if len(e.Submenu) > 0 {
			return fmt.Errorf("%w: single entry %q has a submenu", ErrInvalidConfig, e.ID)
		}
	case KindExpandable:
		if len(e.Submenu) == 0 {
			return fmt.Errorf("%w: expandable entry %q has no submenu", ErrInvalidConfig, e.ID)
		}
		return uniqueValues(e)
	default:
		return fmt.Errorf("%w: entry %q has unknown kind %q", ErrInvalidConfig, e.ID, e.Kind)
	}

	return nil
}

func uniqueValues(e Entry) error {
	seen := make(map[string]bool, len(e.Submenu))
	for _, s := range e.Submenu {
		if s.Value == "" {
			return fmt.Errorf("%w: entry %q has a submenu row without value", ErrInvalidConfig, e.ID)
		}
		if seen[s.Value] {
			return fmt.Errorf("%w: entry %q has duplicate submenu value %q", ErrInvalidConfig, e.ID, s.Value)
		}
		seen[s.Value] = true
	}
	return nil
}

func findEntry(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
