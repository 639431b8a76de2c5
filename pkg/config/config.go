// Package config loads the server configuration file.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"transit_router/pkg/transit"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig     `yaml:"server"`
	Routing transit.Settings `yaml:"routing_settings"`
	Network NetworkConfig    `yaml:"network"`
	Cache   CacheConfig      `yaml:"cache"`
	Log     LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr" validate:"required"`
	ReadTimeout    time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `yaml:"write_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
	MaxConcurrent  int           `yaml:"max_concurrent" validate:"gte=1"`
	CORSOrigin     string        `yaml:"cors_origin"`
	GzipMinSize    int           `yaml:"gzip_min_size" validate:"gte=0"`
}

// NetworkConfig locates the network to serve. Format is one of yaml,
// osmpbf, osmxml or gtfs.
type NetworkConfig struct {
	Path   string `yaml:"path" validate:"required"`
	Format string `yaml:"format" validate:"oneof=yaml osmpbf osmxml gtfs"`
}

// CacheConfig sizes the route cache. Zero disables caching.
type CacheConfig struct {
	RouteCacheSize int `yaml:"route_cache_size" validate:"gte=0"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns the configuration used for keys a file leaves out.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			RequestTimeout: 5 * time.Second,
			MaxConcurrent:  runtime.NumCPU() * 2,
			GzipMinSize:    1024,
		},
		Routing: transit.Settings{BusVelocityKmh: 40, BusWaitMinutes: 6},
		Network: NetworkConfig{Path: "network.yaml", Format: "yaml"},
		Cache:   CacheConfig{RouteCacheSize: transit.DefaultCacheSize},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads and validates the configuration at path. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
