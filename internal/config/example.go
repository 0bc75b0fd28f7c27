package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by TODO_* environment variables or CLI flags

# SQLite database (relative to the working directory; supports ~ and $VAR)
db_file = "todos.db"

# JSON Schema used to validate imports (empty: bundled schema)
# schema_file = "todos.schema.json"

# Go time layout for printed due dates
date_format = "2006-01-02"

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"

log_timestamps = false
log_caller = false

# Write one JSON lines log file per run to this directory (empty: stderr only)
# log_dir = "~/.todo/logs"
`
}
