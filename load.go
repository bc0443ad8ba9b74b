package connpool

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of Config.
type fileConfig struct {
	Driver       string `yaml:"driver" toml:"driver"`
	URL          string `yaml:"url" toml:"url"`
	Username     string `yaml:"username" toml:"username"`
	Password     string `yaml:"password" toml:"password"`
	InitialSize  int    `yaml:"initial_size" toml:"initial_size"`
	MaxGrowths   int    `yaml:"max_growths" toml:"max_growths"`
	ProbeTimeout string `yaml:"probe_timeout" toml:"probe_timeout"`
}

// LoadConfig reads a configuration file. The format is chosen by extension:
// .yaml and .yml are decoded as YAML, .toml as TOML.
//
// Example YAML:
//
//	driver: pgx
//	url: postgres://localhost:5432/app?sslmode=disable
//	username: app
//	password: secret
//	initial_size: 10
//	max_growths: 5
//	probe_timeout: 10s
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "file", Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil {
			return nil, &ConfigError{Field: "file", Err: fmt.Errorf("failed to parse %s: %w", path, err)}
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return nil, &ConfigError{Field: "file", Err: fmt.Errorf("failed to parse %s: %w", path, err)}
		}
	default:
		return nil, &ConfigError{Field: "file", Err: fmt.Errorf("unsupported config format %q", ext)}
	}

	cfg := &Config{
		Driver:      fc.Driver,
		URL:         fc.URL,
		Username:    fc.Username,
		Password:    fc.Password,
		InitialSize: fc.InitialSize,
		MaxGrowths:  fc.MaxGrowths,
	}
	if fc.ProbeTimeout != "" {
		d, err := time.ParseDuration(fc.ProbeTimeout)
		if err != nil {
			return nil, &ConfigError{Field: "ProbeTimeout", Err: err}
		}
		cfg.ProbeTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFromEnv builds a configuration from environment variables only.
// See OverrideFromEnv for the variables read.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := cfg.OverrideFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OverrideFromEnv replaces fields of c with the values of the following
// environment variables when they are set:
//
//	CONNPOOL_DRIVER
//	CONNPOOL_URL (falls back to DATABASE_URL)
//	CONNPOOL_USERNAME
//	CONNPOOL_PASSWORD
//	CONNPOOL_INITIAL_SIZE
//	CONNPOOL_MAX_GROWTHS
//	CONNPOOL_PROBE_TIMEOUT (a time.Duration string such as "10s")
func (c *Config) OverrideFromEnv() error {
	if v := os.Getenv("CONNPOOL_DRIVER"); v != "" {
		c.Driver = v
	}
	if v := getEnvOrDefault("CONNPOOL_URL", os.Getenv("DATABASE_URL")); v != "" {
		c.URL = v
	}
	if v := os.Getenv("CONNPOOL_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("CONNPOOL_PASSWORD"); v != "" {
		c.Password = v
	}

	if v := os.Getenv("CONNPOOL_INITIAL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "InitialSize", Err: fmt.Errorf("invalid CONNPOOL_INITIAL_SIZE: %w", err)}
		}
		c.InitialSize = n
	}
	if v := os.Getenv("CONNPOOL_MAX_GROWTHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "MaxGrowths", Err: fmt.Errorf("invalid CONNPOOL_MAX_GROWTHS: %w", err)}
		}
		c.MaxGrowths = n
	}
	if v := os.Getenv("CONNPOOL_PROBE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: "ProbeTimeout", Err: fmt.Errorf("invalid CONNPOOL_PROBE_TIMEOUT: %w", err)}
		}
		c.ProbeTimeout = d
	}

	return c.Validate()
}

// getEnvOrDefault retrieves an environment variable or returns a default value
// if the variable is not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
