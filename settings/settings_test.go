package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// check settings object is initialised
func TestInitialiseSettings(t *testing.T) {
	tSettings := NewSettings()

	require.NotNil(t, tSettings.ChainCfgParams)
	require.NotNil(t, tSettings.HeaderStore.StoreURL)

	assert.NotEmpty(t, tSettings.DataFolder)
	assert.NotEmpty(t, tSettings.Metrics.ListenAddress)
	assert.Positive(t, tSettings.Difficulty.ReplayConcurrency)
	assert.Contains(t, []string{"memory", "sqlite", "sqlitememory", "postgres"}, tSettings.HeaderStore.StoreURL.Scheme)
}

func TestGetURLFallsBackToDefault(t *testing.T) {
	u := getURL("headers_store_does_not_exist", "sqlitememory:///fallback")
	require.NotNil(t, u)
	assert.Equal(t, "sqlitememory", u.Scheme)
	assert.Equal(t, "/fallback", u.Path)
}

func TestGetDefaults(t *testing.T) {
	assert.Equal(t, "x", getString("settings_test_missing_string", "x"))
	assert.Equal(t, 42, getInt("settings_test_missing_int", 42))
	assert.True(t, getBool("settings_test_missing_bool", true))
}
