package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serverDefaults = Defaults{Name: "feedback-server", APIPrefix: "/api"}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, serverDefaults)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "database.sqlite", cfg.DBPath)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Debug)
	assert.Equal(t, ":5000", cfg.Addr())
}

func TestLoad_EdgeHasNoPrefix(t *testing.T) {
	cfg, err := Load(nil, Defaults{Name: "feedback-edge"})
	require.NoError(t, err)
	assert.Equal(t, "", cfg.APIPrefix)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/feedback")
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("CORS_ORIGINS", "https://a.example.org,https://b.example.org")
	t.Setenv("DEBUG", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("NOTIFY_TO", "a@example.org,b@example.org")

	cfg, err := Load(nil, serverDefaults)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "postgres://u:p@db:5432/feedback", cfg.DatabaseURL)
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORSOrigins)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"a@example.org", "b@example.org"}, cfg.NotifyTo)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := Load([]string{"--port=9090", "--db-path=/tmp/x.sqlite"}, serverDefaults)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/x.sqlite", cfg.DBPath)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load(nil, serverDefaults)
	assert.Error(t, err)
}

func TestNormalizePrefix(t *testing.T) {
	for in, want := range map[string]string{
		"":      "",
		"/":     "",
		"api":   "/api",
		"/api/": "/api",
		" /v2 ": "/v2",
		"/a/b/": "/a/b",
	} {
		assert.Equal(t, want, normalizePrefix(in), in)
	}
}
