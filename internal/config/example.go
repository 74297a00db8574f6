package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todos configuration file
# Values can be overridden by environment variables or CLI flags

# Task file (relative paths resolve against the working directory)
task_file = "todos.json"

# Schema file used to validate the task file (written by "todos init")
schema_file = "todos.schema.json"

# History log directory (supports ~ and $VAR expansion)
history_dir = "~/.todos"

# Record every mutation to the history log
history_enabled = true

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

# Show timestamps in logs
log_timestamps = false

# Show caller location in logs
log_caller = false
`
}
