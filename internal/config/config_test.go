package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	t.Setenv(FileEnv, "")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTP.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Empty(t, cfg.Graph.URI)
	assert.Empty(t, cfg.Graph.Database)
	assert.Equal(t, 10, cfg.Graph.MaxConnections)
	assert.Zero(t, cfg.Graph.QueryTimeout)
	assert.Zero(t, cfg.Graph.MaxRetryTime)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Logging.IncludeCaller)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "2s")
	t.Setenv("GRAPH_URI", "neo4j://localhost:7687")
	t.Setenv("GRAPH_DATABASE", "movies")
	t.Setenv("GRAPH_MAX_CONNECTIONS", "25")
	t.Setenv("GRAPH_QUERY_TIMEOUT", "5s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_INCLUDE_CALLER", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, "movies", cfg.Graph.Database)
	assert.Equal(t, 25, cfg.Graph.MaxConnections)
	assert.Equal(t, 5*time.Second, cfg.Graph.QueryTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.IncludeCaller)
}

func TestLoadFile_FileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "moviestore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
graph:
  uri: bolt://graph:7687
  database: catalog
log:
  level: debug
`), 0o600))
	t.Setenv("GRAPH_DATABASE", "movies")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, "bolt://graph:7687", cfg.Graph.URI)
	assert.Equal(t, "movies", cfg.Graph.Database)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_FileFromEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "moviestore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph:\n  database: films\n"), 0o600))
	t.Setenv(FileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "films", cfg.Graph.Database)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "non numeric port", env: map[string]string{"SERVER_PORT": "http"}, want: "invalid SERVER_PORT"},
		{name: "port out of range", env: map[string]string{"SERVER_PORT": "70000"}, want: "out of range"},
		{name: "bad duration", env: map[string]string{"SERVER_WRITE_TIMEOUT": "soon"}, want: "invalid SERVER_WRITE_TIMEOUT"},
		{name: "negative timeout", env: map[string]string{"GRAPH_QUERY_TIMEOUT": "-1s"}, want: "query timeout"},
		{name: "unknown log format", env: map[string]string{"LOG_FORMAT": "xml"}, want: "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
