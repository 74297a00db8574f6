// Package history appends JSONL mutation records and tail output.
package history

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Action names the mutation recorded in a history entry.
type Action string

const (
	ActionAdded   Action = "added"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Record is a single history entry. One JSON object per line.
type Record struct {
	Time   time.Time `json:"time"`
	Action Action    `json:"action"`
	TaskID string    `json:"task_id"`
	Title  string    `json:"title,omitempty"`
	Status string    `json:"status,omitempty"`
}

// Logger appends records to the history log of one task file.
type Logger struct {
	LogPath string
	file    *os.File
}

// Open creates or opens the history log for taskFile under baseDir.
// Each task file gets its own log named after a slug and a hash of its
// absolute path, so logs from different projects never collide.
func Open(baseDir, taskFile string) (*Logger, error) {
	logPath, err := LogPath(baseDir, taskFile)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open history log: %w", err)
	}

	return &Logger{LogPath: logPath, file: file}, nil
}

// Append writes one record as a JSON line.
func (l *Logger) Append(rec Record) error {
	if l == nil || l.file == nil {
		return nil
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}
	data = append(data, '\n')
	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("write history record: %w", err)
	}
	return nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// LogPath returns the history log path for taskFile under baseDir.
func LogPath(baseDir, taskFile string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("history base dir is empty")
	}

	abs := taskFile
	if a, err := filepath.Abs(taskFile); err == nil {
		abs = a
	}

	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	slug := slugify(name)
	hash := hashPath(abs)

	return filepath.Join(baseDir, fmt.Sprintf("%s-%s.jsonl", slug, hash)), nil
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "todos"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "todos"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// Tail writes a history log to w, optionally following like tail -f.
// In follow mode it runs until ctx is canceled.
func Tail(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open history log: %w", err)
	}
	defer file.Close()

	// If n > 0, seek to show only last n lines
	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if follow {
		return tailFollow(ctx, w, file)
	}

	// Just dump the rest of the file
	_, err = io.Copy(w, file)
	return err
}

// tailSeek seeks to a position that shows approximately the last n lines.
func tailSeek(file *os.File, n int) error {
	const avgLineLength = 120

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	size := stat.Size()
	if size < avgLineLength*int64(n) {
		// File is small enough, just read from start
		_, err = file.Seek(0, io.SeekStart)
		return err
	}

	// Seek back from end
	offset := size - int64(n*avgLineLength)
	if offset < 0 {
		offset = 0
	}
	_, err = file.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}

	// Discard partial first line
	buf := make([]byte, 1)
	_, err = file.Read(buf)
	if err != nil {
		return err
	}
	for {
		if buf[0] == '\n' {
			break
		}
		_, err := file.Read(buf)
		if err != nil {
			break
		}
	}

	return nil
}

// tailFollow follows a file like tail -f until ctx is canceled.
func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}
