// Package export renders the task list as JSON, CSV, or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/mkarpin/todos/internal/task"
)

// Formats lists the supported export formats.
func Formats() []string {
	return []string{"json", "csv", "pdf"}
}

// Export renders tasks in the given format.
func Export(tasks []task.Task, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		return append(data, '\n'), nil
	case "csv":
		return exportCSV(tasks)
	case "pdf":
		return exportPDF(tasks)
	default:
		return nil, fmt.Errorf("unknown format %q, must be one of: %s", format, strings.Join(Formats(), ", "))
	}
}

func exportCSV(tasks []task.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	header := []string{"id", "title", "description", "subtasks", "deliverable", "deadline", "status", "created_at", "updated_at"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range tasks {
		row := []string{
			t.ID,
			t.Title,
			t.Description,
			strings.Join(t.Subtasks, "; "),
			t.Deliverable,
			t.Deadline,
			string(t.Status),
			t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return b.Bytes(), nil
}

func exportPDF(tasks []task.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)

	for _, t := range tasks {
		line := fmt.Sprintf("[%s] %s (%s)", t.ID, t.Title, t.Status)
		if t.Deadline != "" {
			line += " due " + t.Deadline
		}
		pdf.MultiCell(0, 6, line, "0", "L", false)
		if t.Description != "" {
			pdf.MultiCell(0, 5, "    "+t.Description, "0", "L", false)
		}
		for _, sub := range t.Subtasks {
			pdf.MultiCell(0, 5, "    - "+sub, "0", "L", false)
		}
		if t.Deliverable != "" {
			pdf.MultiCell(0, 5, "    deliverable: "+t.Deliverable, "0", "L", false)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
