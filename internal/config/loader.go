package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override file values,
// e.g. ZENIFY_TELEGRAM_TOKEN for telegram.token.
const EnvPrefix = "ZENIFY"

// secretKeys have no default, so they are bound to the environment explicitly.
var secretKeys = []string{"telegram.token", "gemini.api_key"}

// LoadConfig reads the YAML file at path over the defaults, applies ZENIFY_*
// environment overrides and validates the result. A missing file is not an
// error; the configuration then comes from defaults and the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range secretKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%w: failed to bind %s: %v", ErrConfiguration, key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read %s: %v", ErrConfiguration, path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// Location returns the configured time zone. It falls back to UTC, which
// cannot happen after Validate succeeded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Companion.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RetryDelay is the pause between retried Gemini calls.
func (c GeminiConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}
