package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

const (
	EnvPrefix      = "CATALOG_"
	DefaultFile    = "catalog.yaml"
	DefaultEnvFile = ".env"
)

type Config struct {
	Data struct {
		File string `koanf:"file"`
	} `koanf:"data"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`

	Metrics struct {
		File string `koanf:"file"`
	} `koanf:"metrics"`
}

func (c Config) String() string {
	return fmt.Sprintf("data.file=%s, log.level=%s, metrics.file=%s",
		c.Data.File, c.Log.Level, orDisabled(c.Metrics.File))
}

func orDisabled(s string) string {
	if s == "" {
		return "<disabled>"
	}
	return s
}

func defaults() map[string]any {
	return map[string]any{
		"data.file":    "products.json",
		"log.level":    "info",
		"metrics.file": "",
	}
}

// Load layers, lowest priority first: defaults, the YAML file at configFile,
// CATALOG_* keys from envFile, then CATALOG_* process environment variables.
// Missing files are skipped.
func Load(configFile, envFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config file %q: %w", configFile, err)
		}
	}

	if envFile != "" {
		envFileMap, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			envMap := make(map[string]any)
			for key, value := range envFileMap {
				if strings.HasPrefix(key, EnvPrefix) {
					envMap[keyTransformer(key)] = value
				}
			}
			if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
				return nil, fmt.Errorf("load env file %q: %w", envFile, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read env file %q: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", keyTransformer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Data.File) == "" {
		return errors.New("data.file is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return nil
}

// keyTransformer maps CATALOG_DATA_FILE to data.file.
func keyTransformer(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "_", ".")
}
