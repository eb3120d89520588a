package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsApplied(t *testing.T) {
	cfg, err := Parse([]byte("app:\n  name: daycare\n"))
	require.NoError(t, err)

	assert.Equal(t, "daycare", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Environment)
	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.Redis.Enabled())
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("DAYCARE_DSN", "postgres://daycare@localhost/daycare")

	cfg, err := Parse([]byte(`
database:
  driver: pgx
  dsn: ${DAYCARE_DSN}
http:
  port: 9000
  read_timeout: 2s
`))
	require.NoError(t, err)
	assert.Equal(t, "postgres://daycare@localhost/daycare", cfg.Database.DSN)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
}

func TestParse_DSNImpliesPgx(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  dsn: postgres://x\n"))
	require.NoError(t, err)
	assert.Equal(t, "pgx", cfg.Database.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown driver", "database:\n  driver: mongo\n"},
		{"sqlite without dsn", "database:\n  driver: sqlite3\n"},
		{"bad port", "http:\n  port: 70000\n"},
		{"file log without path", "logging:\n  output: file\n"},
		{"bad timezone", "app:\n  timezone: Mars/Olympus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  environment: production\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Environment)
	assert.False(t, cfg.App.IsDev())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
