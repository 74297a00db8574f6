package task

import (
	"errors"
	"fmt"
	"time"
)

// Status represents a task's workflow state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Statuses returns all known status values in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone}
}

// DeadlineLayout is the accepted deadline format (YYYY-MM-DD).
const DeadlineLayout = "2006-01-02"

// Task represents a single to-do record.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Subtasks    []string  `json:"subtasks,omitempty"`
	Deliverable string    `json:"deliverable,omitempty"`
	Deadline    string    `json:"deadline,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Overdue reports whether the task has a deadline strictly before now
// and is not done. Tasks with no or malformed deadlines are never
// overdue.
func (t *Task) Overdue(now time.Time) bool {
	if t.Deadline == "" || t.Status == StatusDone {
		return false
	}
	d, err := time.Parse(DeadlineLayout, t.Deadline)
	if err != nil {
		return false
	}
	return d.Before(now.UTC().Truncate(24 * time.Hour))
}

// Fields carries optional field values for Add and Update.
// A nil pointer means "not supplied"; a pointer to an empty value
// clears the field where clearing is allowed.
type Fields struct {
	Title       *string
	Description *string
	Subtasks    *[]string
	Deliverable *string
	Deadline    *string
	Status      *Status
}

// NotFoundError reports that no task matched the requested id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// IsNotFound returns true if err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ParseError reports that the task file exists but could not be
// decoded as a JSON task array.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse task file %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation returns true if err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
