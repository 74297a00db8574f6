package config

// Default values.
const (
	DefaultTaskFile   = "todos.json"
	DefaultSchemaFile = "todos.schema.json"
	DefaultHistoryDir = "~/.todos"
)

// Config holds the full configuration for todos.
type Config struct {
	// Paths
	TaskFile   string `toml:"task_file"`
	SchemaFile string `toml:"schema_file"`
	HistoryDir string `toml:"history_dir"`

	// History
	HistoryEnabled bool `toml:"history_enabled"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}
