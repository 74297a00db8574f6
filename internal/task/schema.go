package task

import (
	"fmt"
	"os"
)

// DefaultSchema is the canonical JSON Schema for the task file.
// `todos init` writes it next to the task file so later runs can use
// full schema validation instead of the minimal fallback checks.
const DefaultSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "todos task file",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "status", "created_at", "updated_at"],
    "additionalProperties": false,
    "properties": {
      "id": {
        "type": "string",
        "pattern": "^[0-9a-f]{8}$"
      },
      "title": {
        "type": "string",
        "minLength": 1
      },
      "description": {
        "type": "string"
      },
      "subtasks": {
        "type": "array",
        "items": { "type": "string" }
      },
      "deliverable": {
        "type": "string"
      },
      "deadline": {
        "type": "string",
        "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"
      },
      "status": {
        "type": "string",
        "enum": ["pending", "in_progress", "done"]
      },
      "created_at": {
        "type": "string",
        "format": "date-time"
      },
      "updated_at": {
        "type": "string",
        "format": "date-time"
      }
    }
  }
}
`

// WriteDefaultSchema writes the default schema to path unless a file
// already exists there.
func WriteDefaultSchema(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat schema file: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultSchema), 0644); err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}
	return nil
}
