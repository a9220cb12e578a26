package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ponder", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:3001", cfg.HTTPAddr())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "data/ponder.db", cfg.SQLite.Path)
	// No addr means the catalog cache stays off.
	assert.Equal(t, "", cfg.Redis.Addr)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = 8080

[auth]
jwt_secret = "from-file"
`), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "ponder", cfg.App.Name)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = 8080
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	// Unparsable numeric overrides fall back instead of failing startup.
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}
