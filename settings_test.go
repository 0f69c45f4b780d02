package portfolio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings([]byte(`
baseCurrency: CHF
rules:
  feeRatioInitialInvestment:
    isActive: true
    threshold: 0.02
  currencyClusterRiskBaseCurrency:
    isActive: false
`))
	require.NoError(t, err)
	assert.Equal(t, "CHF", s.BaseCurrency)
	assert.Equal(t, RuleOptions{IsActive: true, Threshold: 0.02}, s.Rules["feeRatioInitialInvestment"])
	assert.Equal(t, RuleOptions{IsActive: false}, s.Rules["currencyClusterRiskBaseCurrency"])
}

func TestParseSettings_Defaults(t *testing.T) {
	s, err := ParseSettings([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, ReferenceCurrency, s.BaseCurrency)
	assert.Empty(t, s.Rules)
}

func TestParseSettings_InvalidYAML(t *testing.T) {
	_, err := ParseSettings([]byte("baseCurrency: [unterminated"))
	assert.Error(t, err)
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseCurrency: EUR\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", s.BaseCurrency)
}

func TestLoadSettings_MissingFileYieldsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}
