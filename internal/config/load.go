package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables, falling back to the
// defaults below. There is no required config file; every setting has a
// usable default so the server starts with zero configuration against a
// local ./wordflow.db.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("database.url", "./wordflow.db")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("app.import_batch_size", 500)
	v.SetDefault("app.import_worker_limit", 2)
	v.SetDefault("app.default_queue_limit", 30)
	v.SetDefault("app.default_new_limit", 10)
	v.SetDefault("app.max_row_errors", 100)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind the flat environment variable names used in practice
	// (PORT, LOG_LEVEL, DATABASE_URL, APP_ORIGINS, ...) onto the nested
	// mapstructure keys above.
	bindings := map[string]string{
		"server.port":             "PORT",
		"server.log_level":        "LOG_LEVEL",
		"server.log_format":       "LOG_FORMAT",
		"database.url":            "DATABASE_URL",
		"cors.allowed_origins":    "APP_ORIGINS",
		"app.import_batch_size":   "IMPORT_BATCH_SIZE",
		"app.import_worker_limit": "IMPORT_WORKER_LIMIT",
		"app.default_queue_limit": "QUEUE_DEFAULT_LIMIT",
		"app.default_new_limit":   "QUEUE_DEFAULT_NEW_LIMIT",
		"app.max_row_errors":      "IMPORT_MAX_ROW_ERRORS",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", env, err)
		}
	}

	// APP_ORIGINS is read raw because viper cannot cast a comma-separated
	// string onto a []string default the way it casts scalars.
	if origins, ok := os.LookupEnv("APP_ORIGINS"); ok {
		v.Set("cors.allowed_origins", splitAndTrim(origins))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
