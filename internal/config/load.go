package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, if present,
// a config.yaml in the working directory. Environment variables take
// precedence over values from the config file and use the TODO_ prefix
// with underscores for nesting (e.g. TODO_DATABASE_URL, TODO_AUTH_JWT_SECRET).
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")

	// Optional config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment variables override file values
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; environment variables may carry everything.
	}

	// Viper only "sees" env-backed keys that were bound or defaulted,
	// so bind the required ones explicitly.
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
