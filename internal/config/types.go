package config

import (
	"strconv"

	"github.com/nibzard/todo-go/internal/appdir"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = "dotenv file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string

	// Warnings holds non-fatal problems such as unknown keys in a config file.
	Warnings []string
}

// Default values.
const (
	DefaultDBFile     = appdir.DefaultDBFile
	DefaultDateFormat = "2006-01-02"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for todo.
type Config struct {
	// Paths
	DBFile     string `toml:"db_file"`
	SchemaFile string `toml:"schema_file"` // Empty means the bundled export schema

	// Output
	DateFormat string `toml:"date_format"` // Go time layout for printed due dates

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogDir        string `toml:"log_dir"` // Empty disables the run log file

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"db_file",
		"schema_file",
		"date_format",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_dir",
	}
}

// Entry is one configuration value with its origin.
type Entry struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Entries returns every configurable field in a stable order.
func (cws *ConfigWithSources) Entries() []Entry {
	cfg := cws.Config
	values := map[string]string{
		"db_file":        cfg.DBFile,
		"schema_file":    cfg.SchemaFile,
		"date_format":    cfg.DateFormat,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": strconv.FormatBool(cfg.LogTimestamps),
		"log_caller":     strconv.FormatBool(cfg.LogCaller),
		"log_dir":        cfg.LogDir,
	}

	entries := make([]Entry, 0, len(values))
	for _, key := range configFields() {
		source, ok := cws.Sources[key]
		if !ok {
			source = SourceDefault
		}
		entries = append(entries, Entry{Key: key, Value: values[key], Source: source})
	}
	return entries
}
