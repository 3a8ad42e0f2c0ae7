package vmconfig_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/vmasm/vmconfig"
)

func TestDefaultConfig(t *testing.T) {
	cfg := vmconfig.DefaultConfig()
	assert.Equal(t, ".bin", cfg.Assemble.DefaultOutputExt)
	assert.False(t, cfg.Assemble.Verbose)
	assert.False(t, cfg.Assemble.Disassemble)
	assert.False(t, cfg.Listing.Enabled)
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := vmconfig.LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, vmconfig.DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := vmconfig.DefaultConfig()
	cfg.Assemble.Verbose = true
	cfg.Listing.Enabled = true
	cfg.Listing.Path = "out.lst"

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := vmconfig.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
