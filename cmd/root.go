// Package cmd implements the CLI command structure for todos.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkarpin/todos/internal/config"
	"github.com/mkarpin/todos/internal/export"
	"github.com/mkarpin/todos/internal/history"
	"github.com/mkarpin/todos/internal/logging"
	"github.com/mkarpin/todos/internal/task"
	"github.com/mkarpin/todos/internal/ui"
	"github.com/mkarpin/todos/internal/utils"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todos CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todos", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: cfg.LogTimestamps,
		ReportCaller:    cfg.LogCaller,
		Prefix:          "todos",
	})

	// Determine the subcommand
	// If no args or first arg is a flag, use "list" as default
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "add":
		return addCommand(cfg, logger, remainingArgs)
	case "list", "ls":
		return listCommand(cfg, remainingArgs)
	case "update":
		return updateCommand(cfg, logger, remainingArgs)
	case "delete", "rm":
		return deleteCommand(cfg, logger, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "history":
		return historyCommand(ctx, cfg, remainingArgs)
	case "init":
		return initCommand(cfg, logger, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// taskFileFlag registers the per-command -file override.
func taskFileFlag(fs *flag.FlagSet, cfg *config.Config) *string {
	return fs.String("file", cfg.TaskFile, "Path to task file")
}

// resolveTaskFile makes the task file path absolute.
func resolveTaskFile(cfg *config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.ProjectRoot, path)
}

// checkDeadline rejects malformed deadlines before any file I/O.
// Empty is allowed (unset on add, clears on update).
func checkDeadline(deadline string) error {
	deadline = strings.TrimSpace(deadline)
	if deadline == "" {
		return nil
	}
	if _, err := time.Parse(task.DeadlineLayout, deadline); err != nil {
		return fmt.Errorf("invalid deadline %q, expected YYYY-MM-DD", deadline)
	}
	return nil
}

// subtasksFlag collects repeated or comma-separated -subtasks values.
type subtasksFlag struct {
	values []string
	set    bool
}

func (f *subtasksFlag) String() string {
	return strings.Join(f.values, ",")
}

func (f *subtasksFlag) Set(v string) error {
	f.set = true
	f.values = append(f.values, utils.SplitAndTrim(v, ",")...)
	return nil
}

// addCommand creates a new task.
func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("todos add", flag.ContinueOnError)
	title := fs.String("title", "", "Task title (required)")
	desc := fs.String("desc", "", "Task description")
	var subtasks subtasksFlag
	fs.Var(&subtasks, "subtasks", "Subtasks (comma-separated, may be repeated)")
	deliverable := fs.String("deliverable", "", "Deliverable")
	deadline := fs.String("deadline", "", "Deadline (YYYY-MM-DD)")
	status := fs.String("status", string(task.StatusPending), "Initial status (pending|in_progress|done)")
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if strings.TrimSpace(*title) == "" {
		fs.Usage()
		return fmt.Errorf("add: -title is required")
	}
	st := task.Status(*status)
	if !st.Valid() {
		return fmt.Errorf("add: invalid status %q, must be one of: pending, in_progress, done", *status)
	}
	if err := checkDeadline(*deadline); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	path := resolveTaskFile(cfg, *file)
	fields := task.Fields{
		Title:       title,
		Description: desc,
		Subtasks:    &subtasks.values,
		Deliverable: deliverable,
		Deadline:    deadline,
		Status:      &st,
	}

	t, err := task.Add(path, fields)
	if err != nil {
		return err
	}

	recordHistory(cfg, logger, path, history.Record{
		Action: history.ActionAdded,
		TaskID: t.ID,
		Title:  t.Title,
		Status: string(t.Status),
	})

	logger.Info("task added", "id", t.ID, "title", t.Title)
	printTask(t, true)
	return nil
}

// listCommand prints tasks, optionally filtered by status.
func listCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos list", flag.ContinueOnError)
	status := fs.String("status", "", "Filter by status (pending|in_progress|done)")
	verbose := fs.Bool("v", false, "Show more details")
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *status != "" && !task.Status(*status).Valid() {
		return fmt.Errorf("list: invalid status %q, must be one of: pending, in_progress, done", *status)
	}

	path := resolveTaskFile(cfg, *file)
	tasks, err := task.List(path, task.Status(*status))
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	fmt.Printf("%d task(s):\n", len(tasks))
	for _, t := range tasks {
		printTask(t, *verbose)
	}
	return nil
}

// updateCommand overwrites the supplied fields on one task.
func updateCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("todos update", flag.ContinueOnError)
	id := fs.String("id", "", "Task id (required)")
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description (empty clears)")
	var subtasks subtasksFlag
	fs.Var(&subtasks, "subtasks", "New subtasks (comma-separated, empty clears)")
	deliverable := fs.String("deliverable", "", "New deliverable (empty clears)")
	deadline := fs.String("deadline", "", "New deadline (YYYY-MM-DD, empty clears)")
	status := fs.String("status", "", "New status (pending|in_progress|done)")
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *id == "" {
		fs.Usage()
		return fmt.Errorf("update: -id is required")
	}

	// Only fields the user actually passed are applied; an empty value
	// clears the field where clearing is allowed.
	supplied := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { supplied[f.Name] = true })

	var fields task.Fields
	if supplied["title"] {
		fields.Title = title
	}
	if supplied["desc"] {
		fields.Description = desc
	}
	if subtasks.set {
		fields.Subtasks = &subtasks.values
	}
	if supplied["deliverable"] {
		fields.Deliverable = deliverable
	}
	if supplied["deadline"] {
		if err := checkDeadline(*deadline); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		fields.Deadline = deadline
	}
	if supplied["status"] {
		st := task.Status(*status)
		if !st.Valid() {
			return fmt.Errorf("update: invalid status %q, must be one of: pending, in_progress, done", *status)
		}
		fields.Status = &st
	}

	path := resolveTaskFile(cfg, *file)
	t, err := task.Update(path, *id, fields)
	if err != nil {
		return err
	}

	recordHistory(cfg, logger, path, history.Record{
		Action: history.ActionUpdated,
		TaskID: t.ID,
		Title:  t.Title,
		Status: string(t.Status),
	})

	logger.Info("task updated", "id", t.ID)
	printTask(t, true)
	return nil
}

// deleteCommand removes one task.
func deleteCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("todos delete", flag.ContinueOnError)
	id := fs.String("id", "", "Task id (required)")
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *id == "" {
		fs.Usage()
		return fmt.Errorf("delete: -id is required")
	}

	path := resolveTaskFile(cfg, *file)
	if err := task.Delete(path, *id); err != nil {
		return err
	}

	recordHistory(cfg, logger, path, history.Record{
		Action: history.ActionDeleted,
		TaskID: *id,
	})

	logger.Info("task deleted", "id", *id)
	return nil
}

// tuiCommand launches the terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos tui", flag.ContinueOnError)
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return ui.RunTUI(ctx, resolveTaskFile(cfg, *file))
}

// exportCommand renders the task list to json, csv, or pdf.
func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos export", flag.ContinueOnError)
	format := fs.String("format", "json", "Export format (json|csv|pdf)")
	out := fs.String("o", "", "Output path (default: stdout, required for pdf)")
	status := fs.String("status", "", "Filter by status (pending|in_progress|done)")
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *status != "" && !task.Status(*status).Valid() {
		return fmt.Errorf("export: invalid status %q, must be one of: pending, in_progress, done", *status)
	}
	if *format == "pdf" && *out == "" {
		return fmt.Errorf("export: pdf output requires -o")
	}

	path := resolveTaskFile(cfg, *file)
	tasks, err := task.List(path, task.Status(*status))
	if err != nil {
		return err
	}

	data, err := export.Export(tasks, *format)
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	fmt.Printf("Exported %d task(s) to %s\n", len(tasks), *out)
	return nil
}

// doctorCommand checks config, task file, and schema validity.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	taskPath := resolveTaskFile(cfg, *file)
	schemaPath := cfg.SchemaFile

	fmt.Println("Todos Doctor")
	fmt.Println("============")
	fmt.Println()

	allOK := true

	// Check task file
	fmt.Printf("Task file: %s\n", taskPath)
	info, err := os.Stat(taskPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on first add)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	} else {
		tasks, loadErr := task.Load(taskPath)
		if loadErr != nil {
			fmt.Printf("  ❌ Load error: %v\n", loadErr)
			allOK = false
		} else {
			fmt.Println("  ✅ OK")
			result := task.Validate(tasks, task.ValidationOptions{SchemaPath: schemaPath})
			for _, w := range result.Warnings {
				fmt.Printf("  ⚠️  %s\n", w)
			}
			if result.Valid {
				fmt.Println("  ✅ Valid")
			} else {
				fmt.Println("  ❌ Validation failed:")
				for _, e := range result.Errors {
					fmt.Printf("     - %v\n", e)
				}
				allOK = false
			}
			if *verbose {
				fmt.Printf("  Tasks: %d\n", len(tasks))
				for _, t := range tasks {
					fmt.Printf("    - [%s] %s: %s\n", t.Status, t.ID, t.Title)
				}
			}
		}
	}
	fmt.Println()

	// Check schema file
	fmt.Printf("Schema file: %s\n", schemaPath)
	if info, err := os.Stat(schemaPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (run \"todos init\" to create it)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Check history directory
	fmt.Printf("History directory: %s\n", cfg.HistoryDir)
	if !cfg.HistoryEnabled {
		fmt.Println("  ⚠️  History disabled")
	} else if _, err := os.Stat(cfg.HistoryDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on first mutation)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// historyCommand tails the mutation log for the task file.
func historyCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos history", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	taskPath := resolveTaskFile(cfg, *file)
	logPath, err := history.LogPath(cfg.HistoryDir, taskPath)
	if err != nil {
		return fmt.Errorf("finding history log: %w", err)
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Println("No history recorded yet.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return history.Tail(ctx, os.Stdout, logPath, *n, *follow)
}

// initCommand writes a starter task file, schema, and example config.
func initCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("todos init", flag.ContinueOnError)
	file := taskFileFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	taskPath := resolveTaskFile(cfg, *file)
	if _, err := os.Stat(taskPath); os.IsNotExist(err) {
		if err := task.Save(taskPath, []task.Task{}); err != nil {
			return err
		}
		logger.Info("created task file", "path", taskPath)
	} else {
		logger.Info("task file already exists", "path", taskPath)
	}

	if err := task.WriteDefaultSchema(cfg.SchemaFile); err != nil {
		return err
	}
	logger.Info("schema file ready", "path", cfg.SchemaFile)

	configPath := filepath.Join(cfg.ProjectRoot, "todos.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(config.ExampleConfig()), 0644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
		logger.Info("created config file", "path", configPath)
	}

	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("todos version %s\n", Version)
	return nil
}

// recordHistory appends a mutation record. History failures never fail
// the mutation itself.
func recordHistory(cfg *config.Config, logger *log.Logger, taskPath string, rec history.Record) {
	if !cfg.HistoryEnabled {
		return
	}
	h, err := history.Open(cfg.HistoryDir, taskPath)
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		return
	}
	defer h.Close()
	if err := h.Append(rec); err != nil {
		logger.Warn("history write failed", "err", err)
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todos - A file-backed to-do list manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todos [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add       Add a task (-title required)")
	fmt.Fprintln(w, "  list      List tasks (default command)")
	fmt.Fprintln(w, "  update    Update fields on a task (-id required)")
	fmt.Fprintln(w, "  delete    Delete a task (-id required)")
	fmt.Fprintln(w, "  tui       Launch terminal UI")
	fmt.Fprintln(w, "  export    Export tasks (json|csv|pdf)")
	fmt.Fprintln(w, "  doctor    Check config, task file, and schema validity")
	fmt.Fprintln(w, "  history   Tail the mutation log")
	fmt.Fprintln(w, "  init      Create task file, schema, and example config")
	fmt.Fprintln(w, "  version   Show version information")
	fmt.Fprintln(w, "  help      Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add/Update Options:")
	fmt.Fprintln(w, "  -title string")
	fmt.Fprintln(w, "        Task title")
	fmt.Fprintln(w, "  -desc string")
	fmt.Fprintln(w, "        Task description")
	fmt.Fprintln(w, "  -subtasks string")
	fmt.Fprintln(w, "        Subtasks (comma-separated, may be repeated)")
	fmt.Fprintln(w, "  -deliverable string")
	fmt.Fprintln(w, "        Deliverable")
	fmt.Fprintln(w, "  -deadline string")
	fmt.Fprintln(w, "        Deadline (YYYY-MM-DD)")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Status (pending|in_progress|done)")
	fmt.Fprintln(w, "  -id string")
	fmt.Fprintln(w, "        Task id (update/delete)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "History Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}

// printTask prints a single task.
func printTask(t task.Task, verbose bool) {
	fmt.Printf("  %s [%s] %s\n", statusIcon(t.Status), t.ID, t.Title)

	if !verbose {
		return
	}
	if t.Description != "" {
		fmt.Printf("      Description: %s\n", t.Description)
	}
	if len(t.Subtasks) > 0 {
		fmt.Printf("      Subtasks: %s\n", strings.Join(t.Subtasks, ", "))
	}
	if t.Deliverable != "" {
		fmt.Printf("      Deliverable: %s\n", t.Deliverable)
	}
	if t.Deadline != "" {
		fmt.Printf("      Deadline: %s\n", t.Deadline)
	}
	fmt.Printf("      Updated: %s\n", t.UpdatedAt.Format("2006-01-02 15:04:05"))
}

// statusIcon maps a status to its display icon.
func statusIcon(s task.Status) string {
	switch s {
	case task.StatusPending:
		return "📝"
	case task.StatusInProgress:
		return "🔄"
	case task.StatusDone:
		return "✅"
	}
	return "❓"
}
