package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshproject/josh/config"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOverlaysFileOntoDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "josh.toml")
	content := "cache_dir = \"/tmp/cache\"\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cache", cfg.CacheDir)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
}

func TestLevelDefaultsToInfoOnUnrecognizedValue(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "not-a-level"
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLevelDefaultsToInfoOnEmptyValue(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = ""
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}
