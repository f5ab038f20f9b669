// Package config provides centralized configuration management for userreport.
// It loads configuration from environment variables with sensible defaults,
// optionally overlays a YAML file, and validates all settings on startup to
// fail fast on misconfiguration.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Record source kinds accepted by InputConfig.Source.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables or the YAML file.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Report   ReportConfig   `yaml:"report"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InputConfig selects where user records are loaded from.
type InputConfig struct {
	// Source is the record source kind: csv or postgres (default: csv)
	Source string `env:"USERREPORT_SOURCE" default:"csv" yaml:"source"`

	// CSVPath is the path of the input file for the csv source (default: users.csv)
	CSVPath string `env:"USERREPORT_CSV_PATH" default:"users.csv" yaml:"csv_path"`
}

// ReportConfig holds the report operation parameters.
type ReportConfig struct {
	// MinAge is the filter threshold (default: 30)
	MinAge int `env:"USERREPORT_MIN_AGE" default:"30" yaml:"min_age"`

	// TopN is how many records the top report lists (default: 3)
	TopN int `env:"USERREPORT_TOP_N" default:"3" yaml:"top_n"`
}

// DatabaseConfig holds the read-only Postgres source settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required for the postgres source)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" yaml:"url"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4" yaml:"max_conns"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0" yaml:"min_conns"`

	// UsersTable is the table holding name, age and country columns (default: users)
	UsersTable string `env:"DB_USERS_TABLE" default:"users" yaml:"users_table"`

	// QueryTimeout bounds the record query (default: 30s)
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" default:"30s" yaml:"query_timeout"`
}

// ServerConfig holds HTTP server settings for the serve operation.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0" yaml:"host"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080" yaml:"port"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s" yaml:"write_timeout"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s" yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s" yaml:"shutdown_timeout"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s" yaml:"request_timeout"`

	// TrustedProxies is a comma-separated list of proxy CIDRs or addresses
	// whose X-Real-IP / X-Forwarded-For headers are believed
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info" yaml:"level"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text" yaml:"format"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SetAddr sets Host and Port from a host:port string such as ":9090".
func (c *ServerConfig) SetAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	c.Host = host
	c.Port = p
	return nil
}
