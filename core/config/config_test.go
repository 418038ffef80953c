package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, 18, cfg.Reconcile.MaxSlots)
	assert.Equal(t, "reconcile", cfg.Reconcile.Origin)
	assert.Equal(t, "catalog/options.json", cfg.Storage.CatalogObject)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RECONCILE_MAX_SLOTS", "24")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Reconcile.MaxSlots)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\n"), 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
}
