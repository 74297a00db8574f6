// Package task loads, mutates, and saves the JSON task file.
//
// The task file (todos.json) is a JSON array of task objects:
//
//	[
//	  {
//	    "id": "a1b2c3d4",
//	    "title": "Task title",
//	    "description": "Optional description",
//	    "subtasks": ["first", "second"],
//	    "deliverable": "Optional deliverable",
//	    "deadline": "2026-01-31",
//	    "status": "pending",
//	    "created_at": "2026-01-01T00:00:00Z",
//	    "updated_at": "2026-01-01T00:00:00Z"
//	  }
//	]
//
// # Validation
//
// The package supports two validation modes:
//
// 1. JSON Schema validation (when a schema file is provided):
//   - Full validation against JSON Schema draft-2020-12
//
// 2. Minimal fallback validation (when no schema is available):
//   - id shape and uniqueness, non-empty title, status enum,
//     deadline format
//   - No external files required
//
// # Task Status Values
//
//   - "pending": not started yet (the default)
//   - "in_progress": currently being worked on
//   - "done": complete
//
// # File Format
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Write-to-temp-then-rename, so a crash mid-write leaves the
//     previous file intact
package task
