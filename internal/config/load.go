package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "fsgraph"
	configFileName = "config.yaml"

	EnvConfigPath = "FSGRAPH_CONFIG"
	EnvPort       = "PORT"
	EnvHome       = "FSGRAPH_HOME"
	EnvLogLevel   = "FSGRAPH_LOG_LEVEL"
	EnvAuthSecret = "FSGRAPH_AUTH_SECRET"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath returns the per-user config file location
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// Load reads the config file at path, or at $FSGRAPH_CONFIG, or at the
// per-user location. Only an explicitly named file must exist. Environment
// overrides are applied on top and the home directory is filled in.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.HomeDir = home
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(EnvHome); v != "" {
		cfg.HomeDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvAuthSecret); v != "" {
		cfg.Auth.SecretKey = v
	}
	return nil
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Origins returns security.allowed_origins, or when that is empty the
// origins of the server itself on its host, localhost and 127.0.0.1
func (c Config) Origins() []string {
	if len(c.Security.AllowedOrigins) > 0 {
		return c.Security.AllowedOrigins
	}
	scheme := "http"
	if c.Server.TLS.Enabled {
		scheme = "https"
	}
	port := strconv.Itoa(c.Server.Port)

	var origins []string
	seen := map[string]bool{}
	for _, host := range []string{c.Server.Host, "localhost", "127.0.0.1"} {
		if host == "" || host == "0.0.0.0" || host == "::" || seen[host] {
			continue
		}
		seen[host] = true
		origins = append(origins, scheme+"://"+net.JoinHostPort(host, port))
	}
	return origins
}

// Addr returns the listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
