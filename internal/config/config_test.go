package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRIPTIM/nipsi"
)

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeScenario(t, `
scheme = "TwoClientCardinality"
secpar = 128
scenarios = [100, 1000]
`)

	scenario, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SchemeTwoClientCardinality, scenario.Scheme)
	assert.Equal(t, 10, scenario.Repeat)
	assert.Equal(t, 1, scenario.Number)
	assert.Equal(t, 0.001, scenario.ErrorRate)
	assert.Equal(t, []int{100, 1000}, scenario.Sizes)
}

func TestLoadRejectsUnknownScheme(t *testing.T) {
	path := writeScenario(t, `
scheme = "NotAScheme"
secpar = 128
scenarios = [100]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrInvalidArgument)
}

func TestLoadRequiresThresholdForScheme3(t *testing.T) {
	path := writeScenario(t, `
scheme = "TwoClientThreshold"
secpar = 128
scenarios = [100]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrInvalidArgument)
}

func TestLoadRequiresClientCountForMultiClient(t *testing.T) {
	path := writeScenario(t, `
scheme = "MultiClientCardinality"
secpar = 128
scenarios = [100]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrInvalidArgument)
}

func TestLoadRejectsBadSecpar(t *testing.T) {
	path := writeScenario(t, `
scheme = "TwoClientCardinality"
secpar = 127
scenarios = [100]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrInvalidArgument)
}
