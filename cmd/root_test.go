// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkarpin/todos/internal/history"
	"github.com/mkarpin/todos/internal/task"
)

func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		if err := Run(context.Background(), []string{"--help"}); err != nil {
			t.Errorf("expected no error with --help, got %v", err)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		if err := Run(context.Background(), []string{"help"}); err != nil {
			t.Errorf("expected no error with help command, got %v", err)
		}
	})

	t.Run("shows version with --version flag", func(t *testing.T) {
		if err := Run(context.Background(), []string{"--version"}); err != nil {
			t.Errorf("expected no error with --version, got %v", err)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		err := Run(context.Background(), []string{"frobnicate"})
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("list on absent file reports zero tasks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "todos.json")
		if err := Run(context.Background(), []string{"list", "-file", path}); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestAddRequiresTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	err := Run(context.Background(), []string{"add", "-file", path})
	if err == nil {
		t.Fatal("expected error without -title")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("task file should not be created on usage error")
	}
}

func TestAddRejectsInvalidStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	err := Run(context.Background(), []string{"add", "-title", "x", "-status", "urgent", "-file", path})
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("task file should not be created on validation error")
	}
}

func TestAddRejectsInvalidDeadline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	err := Run(context.Background(), []string{"add", "-title", "x", "-deadline", "tomorrow", "-file", path})
	if err == nil {
		t.Fatal("expected error for invalid deadline")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("task file should not be created on validation error")
	}
}

func TestUpdateRejectsInvalidDeadline(t *testing.T) {
	t.Setenv("TODOS_HISTORY", "0")
	path := filepath.Join(t.TempDir(), "todos.json")
	ctx := context.Background()

	if err := Run(ctx, []string{"add", "-title", "x", "-file", path}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	tasks, err := task.Load(path)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("Load failed: %v (%d tasks)", err, len(tasks))
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	err = Run(ctx, []string{"update", "-id", tasks[0].ID, "-deadline", "31-12-2026", "-file", path})
	if err == nil {
		t.Fatal("expected error for invalid deadline")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("file changed by rejected update")
	}
}

func TestEndToEndLifecycle(t *testing.T) {
	historyDir := t.TempDir()
	t.Setenv("TODOS_HISTORY_DIR", historyDir)
	path := filepath.Join(t.TempDir(), "todos.json")
	ctx := context.Background()

	// add
	err := Run(ctx, []string{"add", "-title", "Buy milk", "-subtasks", "oat, whole", "-deadline", "2026-12-24", "-file", path})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	tasks, err := task.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("count after add: got %d, want 1", len(tasks))
	}
	added := tasks[0]
	if added.Title != "Buy milk" || added.Status != task.StatusPending {
		t.Errorf("unexpected task: %+v", added)
	}
	if len(added.Subtasks) != 2 || added.Subtasks[0] != "oat" {
		t.Errorf("subtasks: got %v", added.Subtasks)
	}

	// update status only
	err = Run(ctx, []string{"update", "-id", added.ID, "-status", "done", "-file", path})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, err := task.Get(path, added.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if updated.Status != task.StatusDone {
		t.Errorf("status: got %q, want done", updated.Status)
	}
	if updated.Title != added.Title || updated.Deadline != added.Deadline {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	// update with unknown id fails
	if err := Run(ctx, []string{"update", "-id", "ffffffff", "-status", "done", "-file", path}); !task.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	// delete
	if err := Run(ctx, []string{"delete", "-id", added.ID, "-file", path}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("file after delete: got %q, want []", data)
	}

	// delete again fails
	if err := Run(ctx, []string{"delete", "-id", added.ID, "-file", path}); !task.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	// history recorded one line per successful mutation
	logPath, err := history.LogPath(historyDir, path)
	if err != nil {
		t.Fatalf("LogPath failed: %v", err)
	}
	histData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("history log missing: %v", err)
	}
	if got := strings.Count(string(histData), "\n"); got != 3 {
		t.Errorf("history records: got %d, want 3", got)
	}
}

func TestUpdateClearsOptionalFields(t *testing.T) {
	t.Setenv("TODOS_HISTORY", "0")
	path := filepath.Join(t.TempDir(), "todos.json")
	ctx := context.Background()

	err := Run(ctx, []string{"add", "-title", "Tidy", "-desc", "the garage", "-deliverable", "photos", "-file", path})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	tasks, err := task.Load(path)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("Load failed: %v (%d tasks)", err, len(tasks))
	}

	err = Run(ctx, []string{"update", "-id", tasks[0].ID, "-desc", "", "-deliverable", "", "-file", path})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	updated, err := task.Get(path, tasks[0].ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if updated.Description != "" || updated.Deliverable != "" {
		t.Errorf("fields not cleared: %+v", updated)
	}
	if updated.Title != "Tidy" {
		t.Errorf("title changed: %q", updated.Title)
	}
}

func TestExportCommand(t *testing.T) {
	t.Setenv("TODOS_HISTORY", "0")
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.json")
	ctx := context.Background()

	if err := Run(ctx, []string{"add", "-title", "Export me", "-file", path}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out := filepath.Join(dir, "tasks.csv")
	if err := Run(ctx, []string{"export", "-format", "csv", "-o", out, "-file", path}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Export me") {
		t.Errorf("export missing task: %q", data)
	}

	t.Run("pdf requires output path", func(t *testing.T) {
		if err := Run(ctx, []string{"export", "-format", "pdf", "-file", path}); err == nil {
			t.Error("expected error for pdf without -o")
		}
	})
}

func TestInitCommandCreatesFiles(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	if err := Run(context.Background(), []string{"init"}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for _, name := range []string{"todos.json", "todos.schema.json", "todos.toml"} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	tasks, err := task.Load(filepath.Join(tmpDir, "todos.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("new task file should be empty, got %d tasks", len(tasks))
	}
}
