package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// GraphConfig describes connectivity to the Neo4j database.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
	FetchSize      int
	QueryTimeout   time.Duration
	MaxRetryTime   time.Duration
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// FileEnv names the environment variable pointing at an optional YAML config file.
const FileEnv = "MOVIESTORE_CONFIG"

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = "10s"
	defaultWriteTimeout     = "15s"
	defaultIdleTimeout      = "60s"
	defaultShutdownTimeout  = "10s"
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
)

// envBindings maps config keys onto the environment variables that override them.
var envBindings = map[string]string{
	"server.host":             "SERVER_HOST",
	"server.port":             "SERVER_PORT",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":     "SERVER_IDLE_TIMEOUT",
	"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",
	"server.allowed_origins":  "SERVER_ALLOWED_ORIGINS",
	"graph.uri":               "GRAPH_URI",
	"graph.database":          "GRAPH_DATABASE",
	"graph.username":          "GRAPH_USERNAME",
	"graph.password":          "GRAPH_PASSWORD",
	"graph.max_connections":   "GRAPH_MAX_CONNECTIONS",
	"graph.fetch_size":        "GRAPH_FETCH_SIZE",
	"graph.query_timeout":     "GRAPH_QUERY_TIMEOUT",
	"graph.max_retry_time":    "GRAPH_MAX_RETRY_TIME",
	"log.level":               "LOG_LEVEL",
	"log.format":              "LOG_FORMAT",
	"log.include_caller":      "LOG_INCLUDE_CALLER",
}

// Load reads configuration from defaults, the file named by MOVIESTORE_CONFIG
// (if any) and environment variables. Environment variables win.
func Load() (Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile is Load with an explicit config file path. An empty path skips the file.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Host:              v.GetString("server.host"),
			AllowedOriginsCSV: v.GetString("server.allowed_origins"),
		},
		Graph: GraphConfig{
			URI:            v.GetString("graph.uri"),
			Database:       v.GetString("graph.database"),
			Username:       v.GetString("graph.username"),
			Password:       v.GetString("graph.password"),
			MaxConnections: v.GetInt("graph.max_connections"),
			FetchSize:      v.GetInt("graph.fetch_size"),
		},
		Logging: LoggingConfig{
			Level:         v.GetString("log.level"),
			Format:        v.GetString("log.format"),
			IncludeCaller: v.GetBool("log.include_caller"),
		},
	}

	port, err := parsePort(v, "server.port")
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"server.read_timeout", &cfg.HTTP.ReadTimeout},
		{"server.write_timeout", &cfg.HTTP.WriteTimeout},
		{"server.idle_timeout", &cfg.HTTP.IdleTimeout},
		{"server.shutdown_timeout", &cfg.HTTP.ShutdownTimeout},
		{"graph.query_timeout", &cfg.Graph.QueryTimeout},
		{"graph.max_retry_time", &cfg.Graph.MaxRetryTime},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(v, d.key); err != nil {
			return Config{}, err
		}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every out-of-range value in cfg.
func Validate(cfg Config) error {
	var errs []error
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", cfg.HTTP.Port))
	}
	if cfg.Graph.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("graph max connections must not be negative, got %d", cfg.Graph.MaxConnections))
	}
	if cfg.Graph.QueryTimeout < 0 {
		errs = append(errs, errors.New("graph query timeout must not be negative"))
	}
	if cfg.Graph.MaxRetryTime < 0 {
		errs = append(errs, errors.New("graph max retry time must not be negative"))
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", cfg.Logging.Format))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", defaultHost)
	v.SetDefault("server.port", strconv.Itoa(defaultPort))
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.idle_timeout", defaultIdleTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("graph.max_connections", defaultGraphMaxSessions)
	v.SetDefault("graph.fetch_size", 0)
	v.SetDefault("graph.query_timeout", "0s")
	v.SetDefault("graph.max_retry_time", "0s")
	v.SetDefault("log.level", defaultLoggingLevel)
	v.SetDefault("log.format", defaultLoggingFormat)
	v.SetDefault("log.include_caller", false)
}

func parsePort(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", envBindings[key], raw, err)
	}
	return port, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", envBindings[key], err)
	}
	return d, nil
}
