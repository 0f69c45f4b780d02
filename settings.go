package portfolio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleOptions is the per-rule user configuration. A zero Threshold means the
// rule's default applies.
type RuleOptions struct {
	IsActive  bool    `yaml:"isActive"`
	Threshold float64 `yaml:"threshold,omitempty"`
}

// Settings is the user configuration: the reporting currency plus the
// per-rule options, keyed by rule key.
type Settings struct {
	BaseCurrency string                 `yaml:"baseCurrency"`
	Rules        map[string]RuleOptions `yaml:"rules,omitempty"`
}

// DefaultSettings returns settings reporting in the reference currency with
// every rule active at its default threshold.
func DefaultSettings() Settings {
	return Settings{BaseCurrency: ReferenceCurrency}
}

// ParseSettings decodes settings from YAML. An absent base currency falls
// back to the reference currency.
func ParseSettings(data []byte) (Settings, error) {
	s := Settings{}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	if s.BaseCurrency == "" {
		s.BaseCurrency = ReferenceCurrency
	}
	return s, nil
}

// LoadSettings reads settings from a YAML file. A missing file yields the
// defaults, not an error.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("could not read settings %q: %w", path, err)
	}
	return ParseSettings(data)
}
