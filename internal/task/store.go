package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Load reads and parses the task file at path. A missing file is not
// an error; it yields an empty list.
func Load(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Task{}, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return tasks, nil
}

// Save writes the full task list to path with 2-space indentation.
// The write goes to a temp file in the same directory which is then
// renamed over the target, so a crash mid-write cannot corrupt the
// previous contents. Concurrent writers still race (last one wins).
func Save(path string, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp task file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close task file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod task file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename task file: %w", err)
	}

	return nil
}

// Add creates a new task from fields, appends it to the file at path,
// and returns the stored record. Title is required; status defaults to
// pending.
func Add(path string, fields Fields) (Task, error) {
	tasks, err := Load(path)
	if err != nil {
		return Task{}, err
	}

	title := ""
	if fields.Title != nil {
		title = strings.TrimSpace(*fields.Title)
	}
	if title == "" {
		return Task{}, &ValidationError{Path: "title", Err: fmt.Errorf("missing required field")}
	}

	now := time.Now().UTC()
	t := Task{
		ID:        newID(tasks),
		Title:     title,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.Subtasks != nil {
		t.Subtasks = append([]string(nil), (*fields.Subtasks)...)
	}
	if fields.Deliverable != nil {
		t.Deliverable = *fields.Deliverable
	}
	if fields.Deadline != nil {
		deadline, err := normalizeDeadline(*fields.Deadline)
		if err != nil {
			return Task{}, err
		}
		t.Deadline = deadline
	}
	if fields.Status != nil {
		if !fields.Status.Valid() {
			return Task{}, invalidStatus(*fields.Status)
		}
		t.Status = *fields.Status
	}

	tasks = append(tasks, t)
	if err := Save(path, tasks); err != nil {
		return Task{}, err
	}

	return t, nil
}

// List returns the tasks stored at path in insertion order. A non-empty
// status keeps only tasks with that status.
func List(path string, status Status) ([]Task, error) {
	tasks, err := Load(path)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return tasks, nil
	}
	if !status.Valid() {
		return nil, invalidStatus(status)
	}

	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// Update overwrites the supplied fields on the first task matching id,
// refreshes updated_at, and saves. Description, subtasks, deliverable,
// and deadline may be cleared by supplying an empty value; title and
// status may only be replaced with a valid non-empty value. The file is
// left untouched when the id is unknown or a field is invalid.
func Update(path, id string, fields Fields) (Task, error) {
	tasks, err := Load(path)
	if err != nil {
		return Task{}, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	t := &tasks[idx]

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return Task{}, &ValidationError{Path: "title", Err: fmt.Errorf("cannot be cleared")}
		}
		t.Title = title
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.Subtasks != nil {
		t.Subtasks = append([]string(nil), (*fields.Subtasks)...)
	}
	if fields.Deliverable != nil {
		t.Deliverable = *fields.Deliverable
	}
	if fields.Deadline != nil {
		deadline, err := normalizeDeadline(*fields.Deadline)
		if err != nil {
			return Task{}, err
		}
		t.Deadline = deadline
	}
	if fields.Status != nil {
		if !fields.Status.Valid() {
			return Task{}, invalidStatus(*fields.Status)
		}
		t.Status = *fields.Status
	}

	t.UpdatedAt = time.Now().UTC()
	if err := Save(path, tasks); err != nil {
		return Task{}, err
	}

	return *t, nil
}

// Delete removes the first task matching id and saves. The remaining
// tasks keep their order. The file is left untouched when the id is
// unknown.
func Delete(path, id string) error {
	tasks, err := Load(path)
	if err != nil {
		return err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return &NotFoundError{ID: id}
	}

	tasks = append(tasks[:idx], tasks[idx+1:]...)
	return Save(path, tasks)
}

// Get returns the first task matching id, or an error if absent.
func Get(path, id string) (Task, error) {
	tasks, err := Load(path)
	if err != nil {
		return Task{}, err
	}
	idx := indexOf(tasks, id)
	if idx < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return tasks[idx], nil
}

// indexOf returns the index of the first task with the given id, or -1.
// Duplicate ids should not occur, but matching stops at the first hit
// either way.
func indexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// newID generates a fresh 8-char hex id unique among tasks.
func newID(tasks []Task) string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		if indexOf(tasks, id) < 0 {
			return id
		}
	}
}

// normalizeDeadline validates a deadline value. Empty clears the field.
func normalizeDeadline(deadline string) (string, error) {
	deadline = strings.TrimSpace(deadline)
	if deadline == "" {
		return "", nil
	}
	if _, err := time.Parse(DeadlineLayout, deadline); err != nil {
		return "", &ValidationError{Path: "deadline", Err: fmt.Errorf("expected YYYY-MM-DD, got %q", deadline)}
	}
	return deadline, nil
}

func invalidStatus(s Status) error {
	return &ValidationError{
		Path: "status",
		Err:  fmt.Errorf("invalid status %q, must be one of: pending, in_progress, done", s),
	}
}
