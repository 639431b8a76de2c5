package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(&cfg))
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 40.0, cfg.Routing.BusVelocityKmh)
	assert.Equal(t, 6.0, cfg.Routing.BusWaitMinutes)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  addr: ":9090"
  request_timeout: 2s
  cors_origin: "https://example.org"
routing_settings:
  bus_velocity: 30
network:
  path: data/city.osm.pbf
  format: osmpbf
log:
  format: text
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout, "untouched keys keep defaults")
	assert.Equal(t, "https://example.org", cfg.Server.CORSOrigin)
	assert.Equal(t, 30.0, cfg.Routing.BusVelocityKmh)
	assert.Equal(t, 6.0, cfg.Routing.BusWaitMinutes)
	assert.Equal(t, "osmpbf", cfg.Network.Format)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"zero velocity", "routing_settings:\n  bus_velocity: 0\n"},
		{"negative wait", "routing_settings:\n  bus_wait_time: -1\n"},
		{"unknown format", "network:\n  format: csv\n"},
		{"empty path", "network:\n  path: \"\"\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"no concurrency", "server:\n  max_concurrent: 0\n"},
		{"bad duration", "server:\n  read_timeout: soon\n"},
		{"not yaml", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  route_cache_size: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Cache.RouteCacheSize)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
