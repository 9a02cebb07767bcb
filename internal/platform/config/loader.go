package config

import (
	"os"

	env "github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "kokorod/internal/platform/errors"
)

// Loader resolves configuration from defaults, an optional YAML file
// and KOKO_* environment overrides, in that order.
type Loader struct {
	useDotEnv bool
	path      string
}

func NewLoader() *Loader {
	return &Loader{useDotEnv: true}
}

// WithDotEnv toggles loading variables from a .env file first.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath pins the config file instead of probing the default locations.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// Result captures the loaded configuration and its origin path.
// Path is empty when only defaults and environment were used.
type Result struct {
	Config *Config
	Path   string
}

func (l *Loader) candidates() []string {
	if l.path != "" {
		return []string{l.path}
	}
	var paths []string
	if p := os.Getenv("KOKO_CONFIG"); p != "" {
		paths = append(paths, p)
	}
	return append(paths, "config.yaml", "data/config.yaml")
}

// Load builds the effective configuration.
func (l *Loader) Load() (*Result, error) {
	const op = "config.Load"

	if l.useDotEnv {
		// Missing .env just means plain process environment.
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()
	usedPath := ""
	for _, path := range l.candidates() {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "parse "+path, err)
		}
		usedPath = path
		break
	}

	if err := env.Parse(cfg); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "apply environment overrides", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Path: usedPath}, nil
}
