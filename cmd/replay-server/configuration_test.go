package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compreplay/internal/common"
)

func TestParseConfiguration(t *testing.T) {
	t.Setenv("COMPREPLAY_TEST_BUILD_ROOT", "/srv/builds")
	fileName := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(fileName, []byte(`
ListenAddr = "0.0.0.0:43210"
SockPath = "/run/compreplay.sock"
BuildQueueSize = 3
BuildTimeout = 0

[[PathMappings]]
From = 'C:\agent'
To = "$COMPREPLAY_TEST_BUILD_ROOT/agent"
`), 0644))

	config, err := ParseConfiguration(fileName)
	require.NoError(t, err)
	require.NoError(t, config.validate())

	assert.Equal(t, "0.0.0.0:43210", config.ListenAddr)
	assert.Equal(t, "/run/compreplay.sock", config.SockPath)
	assert.EqualValues(t, 3, config.BuildQueueSize)
	assert.Equal(t, 0, config.BuildTimeout)
	assert.Equal(t, "stderr", config.LogFileName)
	assert.Equal(t, []common.PathMapping{{From: `C:\agent`, To: "/srv/builds/agent"}}, config.PathMappings)
}

func TestParseConfigurationDefaults(t *testing.T) {
	t.Parallel()
	config, err := ParseConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfiguration(), *config)
	assert.NoError(t, config.validate())

	_, err = ParseConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "an explicitly given config must exist")
}

func TestParseConfigurationUnknownKeys(t *testing.T) {
	t.Parallel()
	fileName := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(fileName, []byte(`
ListenAddr = "localhost:1"
BuildQueueSze = 3

[[PathMapings]]
From = "/a"
To = "/b"
`), 0644))

	_, err := ParseConfiguration(fileName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
	assert.Contains(t, err.Error(), "BuildQueueSze")
	assert.Contains(t, err.Error(), "PathMapings")
}

func TestConfigurationValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		modify func(*Configuration)
	}{
		{"nothing to listen", func(c *Configuration) { c.ListenAddr = "" }},
		{"zero queue", func(c *Configuration) { c.BuildQueueSize = 0 }},
		{"negative timeout", func(c *Configuration) { c.BuildTimeout = -1 }},
		{"unset variable", func(c *Configuration) {
			c.PathMappings = []common.PathMapping{{From: "/a", To: "${COMPREPLAY_TEST_SURELY_UNSET}"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfiguration()
			tt.modify(&config)
			assert.Error(t, config.validate())
		})
	}
}
