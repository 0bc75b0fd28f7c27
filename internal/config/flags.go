package config

import (
	"flag"

	"github.com/nibzard/todo-go/internal/appdir"
)

// flagToSource maps flag names to source field names.
var flagToSource = map[string]string{
	"db":             "db_file",
	"schema":         "schema_file",
	"date-format":    "date_format",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"log-dir":        "log_dir",
}

// parseFlags defines and parses CLI flags. Only flags present in args
// override cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appdir.Name, flag.ContinueOnError)
	}

	var (
		dbFile, schemaFile, dateFormat string
		logLevel, logFormat, logDir    string
		logTimestamps, logCaller       bool
	)

	// Paths
	fs.StringVar(&dbFile, "db", cfg.DBFile, "Path to the SQLite database file")
	fs.StringVar(&schemaFile, "schema", cfg.SchemaFile, "JSON Schema for import validation (default: bundled)")

	// Output
	fs.StringVar(&dateFormat, "date-format", cfg.DateFormat, "Go time layout for printed due dates")

	// Logging
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&logDir, "log-dir", cfg.LogDir, "Write JSON run logs to this directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Apply only the flags that were set
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DBFile = dbFile
		case "schema":
			cfg.SchemaFile = schemaFile
		case "date-format":
			cfg.DateFormat = dateFormat
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		case "log-dir":
			cfg.LogDir = logDir
		}
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})

	return nil
}
