// Package config handles loading and parsing application configuration.
// It supports two sources for the file path (in priority order):
//  1. A command-line flag:      --config=/path/to/config.yaml
//  2. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//
// A .env file in the working directory, when present, is loaded into the
// process environment first, so its values can override the YAML file.
//
// The parsed values are returned as a *Config pointer and passed down
// explicitly; nothing in the application reads configuration from
// package-level state.
package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true" validate:"oneof=dev staging prod"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Log        Log        `yaml:"log"`
}

// Storage holds the connection parameters of the relational database.
//
// The sqlite driver only needs Path. The postgres driver needs Host,
// User and Name; Port, Password and SSLMode are optional.
type Storage struct {
	Driver   string `yaml:"driver"   env:"STORAGE_DRIVER"   env-default:"sqlite" validate:"oneof=sqlite postgres"`
	Path     string `yaml:"path"     env:"STORAGE_PATH"     validate:"required_if=Driver sqlite"`
	Host     string `yaml:"host"     env:"STORAGE_HOST"     validate:"required_if=Driver postgres"`
	Port     int    `yaml:"port"     env:"STORAGE_PORT"     env-default:"5432"`
	User     string `yaml:"user"     env:"STORAGE_USER"     validate:"required_if=Driver postgres"`
	Password string `yaml:"password" env:"STORAGE_PASSWORD"`
	Name     string `yaml:"name"     env:"STORAGE_NAME"     validate:"required_if=Driver postgres"`
	SSLMode  string `yaml:"sslmode"  env:"STORAGE_SSLMODE"  env-default:"disable"`

	// ReuseConnections keeps idle connections around between operations.
	// When false every operation dials a fresh connection and closes it
	// on release.
	ReuseConnections bool `yaml:"reuse_connections" env:"STORAGE_REUSE_CONNECTIONS" env-default:"false"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr            string        `yaml:"address"          env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"HTTP_SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Log configures the optional rotating log file. Stdout logging is
// always on; File enables a second, rotated copy.
type Log struct {
	File       string `yaml:"file"         env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"  env-default:"50"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"  env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"30"`
	Compress   bool   `yaml:"compress"     env:"LOG_COMPRESS"     env-default:"true"`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return nil, fmt.Errorf("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad is Load for process startup: it loads an optional .env file
// and exits the process when the configuration cannot be used.
func MustLoad(path string) *Config {
	// A missing .env file is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("cannot read .env file: %s", err.Error())
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

// DSN returns the data source name for the configured driver.
func (s Storage) DSN() string {
	switch s.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(s.User, s.Password),
			Host:     net.JoinHostPort(s.Host, strconv.Itoa(s.Port)),
			Path:     s.Name,
			RawQuery: url.Values{"sslmode": {s.SSLMode}}.Encode(),
		}
		return u.String()
	default:
		return s.Path
	}
}
