package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.IsDev())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
addr: ":9000"
env: Production
data_dir: /var/lib/blog
log_level: debug
session:
  backend: redis
  secret: abc
  ttl: 1h
  secure: true
  redis_url: redis://localhost:6379/0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "production", cfg.Env)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/lib/blog", cfg.DataDir)
	assert.Equal(t, "static", cfg.StaticDir, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, "sessionid", cfg.Session.CookieName)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BLOG_ADDR", " :7000 ")
	t.Setenv("BLOG_SESSION_TTL", "30m")
	t.Setenv("BLOG_SESSION_SECURE", "true")

	cfg, err := Load(writeConfig(t, "addr: \":9000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.Secure)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "unknown key", content: "adress: \":1\"\n"},
		{name: "bad yaml", content: "addr: [\n"},
		{name: "unknown backend", content: "session:\n  backend: memcached\n"},
		{name: "redis without url", content: "session:\n  backend: redis\n"},
		{name: "production without secret", content: "env: production\n"},
		{name: "bad ttl env", env: map[string]string{"BLOG_SESSION_TTL": "soon"}},
		{name: "bad secure env", env: map[string]string{"BLOG_SESSION_SECURE": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnvs(t *testing.T) {
	dir := t.TempDir() + string(os.PathSeparator)
	require.NoError(t, os.WriteFile(dir+".env", []byte("BLOG_LOG_LEVEL=warn\nBLOG_MEDIA_DIR=shared\n"), 0o644))
	require.NoError(t, os.WriteFile(dir+".env.local", []byte("BLOG_MEDIA_DIR=local\n"), 0o644))
	t.Setenv("BLOG_LOG_LEVEL", "")
	os.Unsetenv("BLOG_LOG_LEVEL")
	t.Setenv("BLOG_MEDIA_DIR", "")
	os.Unsetenv("BLOG_MEDIA_DIR")

	LoadDotEnvs(dir)

	assert.Equal(t, "warn", os.Getenv("BLOG_LOG_LEVEL"))
	assert.Equal(t, "local", os.Getenv("BLOG_MEDIA_DIR"), ".env.local wins over .env")
}
