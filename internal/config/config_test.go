// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TaskFile != DefaultTaskFile {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, DefaultTaskFile)
	}
	if cfg.SchemaFile != DefaultSchemaFile {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, DefaultSchemaFile)
	}
	if cfg.HistoryDir != DefaultHistoryDir {
		t.Errorf("HistoryDir: got %q, want %q", cfg.HistoryDir, DefaultHistoryDir)
	}
	if !cfg.HistoryEnabled {
		t.Error("HistoryEnabled: got false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %q, want text", cfg.LogFormat)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TODOS_FILE", "custom.json")
	t.Setenv("TODOS_LOG_LEVEL", "debug")
	t.Setenv("TODOS_HISTORY", "false")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.TaskFile != "custom.json" {
		t.Errorf("TaskFile: got %q, want custom.json", cfg.TaskFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.HistoryEnabled {
		t.Error("HistoryEnabled: got true, want false")
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TODOS_FILE", "from-env.json")

	fs := flag.NewFlagSet("todos", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-file", "from-flag.json"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if filepath.Base(cfg.TaskFile) != "from-flag.json" {
		t.Errorf("TaskFile: got %q, want from-flag.json", cfg.TaskFile)
	}
}

func TestLoadProjectConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "task_file = \"project.json\"\nlog_level = \"warn\"\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "todos.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("todos", flag.ContinueOnError)
	cfg, err := Load(fs, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if filepath.Base(cfg.TaskFile) != "project.json" {
		t.Errorf("TaskFile: got %q, want project.json", cfg.TaskFile)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
}

func TestFinalizeConfigMakesPathsAbsolute(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.ProjectRoot = string(filepath.Separator) + filepath.Join("some", "project")

	if err := finalizeConfig(cfg); err != nil {
		t.Fatalf("finalizeConfig failed: %v", err)
	}

	if !filepath.IsAbs(cfg.TaskFile) {
		t.Errorf("TaskFile not absolute: %q", cfg.TaskFile)
	}
	if !strings.HasPrefix(cfg.TaskFile, cfg.ProjectRoot) {
		t.Errorf("TaskFile not under project root: %q", cfg.TaskFile)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain path", "/tmp/todos", "/tmp/todos"},
		{"tilde only", "~", home},
		{"tilde prefix", "~/.todos", filepath.Join(home, ".todos")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigParses(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "todos.toml")
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, path); err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if cfg.TaskFile != DefaultTaskFile {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, DefaultTaskFile)
	}
}
