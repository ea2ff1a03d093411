// Package config provides functionality for managing configuration options
// for the server and the client using command-line flags, environment
// variables and an optional JSON config file.
//
// Precedence, lowest first: defaults, config file, flags, environment.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// ServerOptions holds the configuration values for the backend.
type ServerOptions struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address"`

	// DatabaseDSN holds the Postgres connection string. Empty means the
	// server keeps its data in memory.
	DatabaseDSN string `json:"database_dsn"`

	// JWTSecret signs bearer tokens.
	JWTSecret string `json:"jwt_secret"`

	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration `json:"-"`

	// LoginRPS and LoginBurst limit register and login per client IP.
	LoginRPS   float64 `json:"login_rps"`
	LoginBurst int     `json:"login_burst"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// ClientOptions holds the configuration values for the interactive client.
type ClientOptions struct {
	// BaseURL is the backend origin; "/api" is appended by the client.
	BaseURL string `json:"url"`

	// Store selects the token store: file, sqlite or memory.
	Store string `json:"store"`

	// StorePath is the token store location for file and sqlite stores.
	StorePath string `json:"store_path"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `json:"-"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// ShowVersion prints build metadata and exits.
	ShowVersion bool `json:"-"`
}

// Store kinds accepted by ClientOptions.Store.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// ParseServer parses args (without the program name) and the environment.
func ParseServer(args []string) (*ServerOptions, error) {
	options := &ServerOptions{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.JWTSecret, "jwt-secret", "", "secret used to sign bearer tokens")
	fs.DurationVar(&options.TokenTTL, "token-ttl", 24*time.Hour, "bearer token lifetime")
	fs.Float64Var(&options.LoginRPS, "login-rps", 1, "login/register requests per second per IP")
	fs.IntVar(&options.LoginBurst, "login-burst", 5, "login/register burst per IP")
	fs.StringVar(&options.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&options.Config, "config", "", "path to config file")
	fs.StringVar(&options.Config, "c", "", "path to config file (shorthand)")

	if err := parseWithConfig(fs, args, &options.Config, options); err != nil {
		return nil, err
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_TTL: %w", err)
		}
		options.TokenTTL = d
	}
	if rps := os.Getenv("LOGIN_RPS"); rps != "" {
		v, err := strconv.ParseFloat(rps, 64)
		if err != nil {
			return nil, fmt.Errorf("LOGIN_RPS: %w", err)
		}
		options.LoginRPS = v
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	if options.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return options, nil
}

// ParseClient parses args (without the program name) and the environment.
func ParseClient(args []string) (*ClientOptions, error) {
	options := &ClientOptions{}
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&options.BaseURL, "url", "http://localhost:8080", "server base URL")
	fs.StringVar(&options.Store, "store", StoreFile, "token store: file | sqlite | memory")
	fs.StringVar(&options.StorePath, "store-path", "", "token store path")
	fs.DurationVar(&options.Timeout, "timeout", 10*time.Second, "per-request timeout")
	fs.StringVar(&options.LogLevel, "log-level", "warn", "log level")
	fs.StringVar(&options.Config, "config", "", "path to config file")
	fs.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
	fs.BoolVar(&options.ShowVersion, "version", false, "show build version and date")

	if err := parseWithConfig(fs, args, &options.Config, options); err != nil {
		return nil, err
	}

	if url := os.Getenv("TODO_URL"); url != "" {
		options.BaseURL = url
	}
	if store := os.Getenv("TODO_STORE"); store != "" {
		options.Store = store
	}

	switch options.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown store %q", options.Store)
	}
	if options.StorePath == "" {
		switch options.Store {
		case StoreFile:
			options.StorePath = "session.json"
		case StoreSQLite:
			options.StorePath = "session.db"
		}
	}
	return options, nil
}

// parseWithConfig parses fs, then loads the config file named by the flag or
// the CONFIG env var, then parses fs again so explicit flags win over the file.
func parseWithConfig(fs *flag.FlagSet, args []string, configPath *string, dst any) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if envPath := os.Getenv("CONFIG"); envPath != "" {
		*configPath = envPath
	}
	if *configPath == "" {
		return nil
	}
	data, err := os.ReadFile(*configPath)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	path := *configPath
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	*configPath = path
	return nil
}
