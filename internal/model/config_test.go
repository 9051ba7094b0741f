package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.False(t, cfg.Configured())
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
	assert.Equal(t, 60, cfg.Display.PollIntervalSec)
	assert.NotEmpty(t, cfg.Storage.Path)
}

func TestSaveThenLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Server.BaseURL = "http://mail.example.com/"
	cfg.Server.Username = "alice"
	cfg.Display.PollIntervalSec = 15
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, loaded.Configured())
	assert.Equal(t, "http://mail.example.com", loaded.Server.BaseURL)
	assert.Equal(t, "alice", loaded.Server.Username)
	assert.Equal(t, 15, loaded.Display.PollIntervalSec)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("WEBMAIL_SERVER_BASE_URL", "http://env.example.com")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.Server.BaseURL)
}
