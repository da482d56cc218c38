package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	t.Setenv("NIMCHAT_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.False(t, cfg.IsValid())
	assert.Equal(t, "wss://api.liminal.cash/ws", cfg.GetWSURL())
	assert.Equal(t, "https://api.liminal.cash", cfg.GetAPIURL())
	assert.Empty(t, cfg.GetAccessToken())

	configPath := filepath.Join(os.Getenv("NIMCHAT_HOME"), ".nimchat", "config.json")
	_, err = os.Stat(configPath)
	require.NoError(t, err)
}

func TestLoadConfigExistingProfiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("NIMCHAT_HOME", home)

	raw := map[string]any{
		"active_profile": "staging",
		"profiles": map[string]any{
			"staging": map[string]any{
				"ws_url":       "wss://staging.liminal.cash/ws",
				"api_url":      "https://staging.liminal.cash",
				"access_token": "tok-123",
			},
		},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".nimchat"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".nimchat", "config.json"), data, 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsValid())
	assert.Equal(t, "tok-123", cfg.GetAccessToken())
	assert.Equal(t, "wss://staging.liminal.cash/ws", cfg.GetWSURL())
	assert.Equal(t, "https://staging.liminal.cash", cfg.GetAPIURL())
}

func TestLoadConfigFallsBackToFirstProfile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("NIMCHAT_HOME", home)

	raw := map[string]any{
		"active_profile": "missing",
		"profiles": map[string]any{
			"only": map[string]any{"access_token": "tok-only"},
		},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".nimchat"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".nimchat", "config.json"), data, 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "only", cfg.ActiveProfile)
	assert.Equal(t, "tok-only", cfg.GetAccessToken())
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("NIMCHAT_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.Profiles["work"] = Profile{AccessToken: "tok-work"}
	cfg.ActiveProfile = "work"
	require.NoError(t, cfg.Save())

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "work", reloaded.ActiveProfile)
	assert.Equal(t, "tok-work", reloaded.GetAccessToken())
}
