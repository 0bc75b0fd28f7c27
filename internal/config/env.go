package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/nibzard/todo-go/internal/utils"
)

// loadDotEnv exports the variables of the dotenv file at path that are not
// already set, and returns the names it exported. A missing file is not an
// error.
func loadDotEnv(path string) (map[string]bool, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	exported := make(map[string]bool)
	for key, value := range values {
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return nil, err
		}
		exported[key] = true
	}
	return exported, nil
}

// loadFromEnv overrides config from TODO_* environment variables. Variables
// named in dotenvKeys are attributed to the .env file.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource, dotenvKeys map[string]bool) {
	setEnv := func(field, key string) {
		if sources == nil {
			return
		}
		if dotenvKeys[key] {
			sources[field] = SourceDotEnv
			return
		}
		sources[field] = SourceEnv
	}

	if v := os.Getenv("TODO_DB"); v != "" {
		cfg.DBFile = v
		setEnv("db_file", "TODO_DB")
	}
	if v := os.Getenv("TODO_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		setEnv("schema_file", "TODO_SCHEMA")
	}
	if v := os.Getenv("TODO_DATE_FORMAT"); v != "" {
		cfg.DateFormat = v
		setEnv("date_format", "TODO_DATE_FORMAT")
	}

	// Logging configuration
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level", "TODO_LOG_LEVEL")
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format", "TODO_LOG_FORMAT")
	}
	if v := os.Getenv("TODO_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps", "TODO_LOG_TIMESTAMPS")
	}
	if v := os.Getenv("TODO_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller", "TODO_LOG_CALLER")
	}
	if v := os.Getenv("TODO_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir", "TODO_LOG_DIR")
	}
}

// boolFromString accepts 1/true/yes/on in any case.
func boolFromString(s string) bool {
	switch utils.Normalize(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
