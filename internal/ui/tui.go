// Package ui provides an optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkarpin/todos/internal/task"
	"github.com/mkarpin/todos/internal/utils"
)

// RunTUI starts the read-only task viewer for the file at taskPath.
func RunTUI(ctx context.Context, taskPath string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(taskPath)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	taskPath     string
	loadErr      error
	tasks        []task.Task
	filter       task.Status // Filter by status
	showHelp     bool        // Show help screen
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(taskPath string) *tuiModel {
	return &tuiModel{
		taskPath:     taskPath,
		tickInterval: time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			m.filter = task.StatusPending
			return m, nil
		case "2":
			m.filter = task.StatusInProgress
			return m, nil
		case "3":
			m.filter = task.StatusDone
			return m, nil
		case "0":
			m.filter = ""
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString("Error loading task file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.tasks)
	writeTasks(&b, m.visibleTasks())
	writeOverdue(&b, m.tasks)
	b.WriteString(fmt.Sprintf("File: %s\n\n", m.taskPath))
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	tasks, err := task.Load(m.taskPath)
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = tasks
}

// visibleTasks applies the status filter, keeping stored order.
func (m *tuiModel) visibleTasks() []task.Task {
	if m.filter == "" {
		return m.tasks
	}
	var filtered []task.Task
	for _, t := range m.tasks {
		if t.Status == m.filter {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func writeTitle(b *strings.Builder) {
	title := "todos"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, tasks []task.Task) {
	counts := map[task.Status]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	b.WriteString("Overview\n\n")
	b.WriteString(fmt.Sprintf("  Pending: %d  In Progress: %d  Done: %d\n\n",
		counts[task.StatusPending],
		counts[task.StatusInProgress],
		counts[task.StatusDone],
	))
}

func writeTasks(b *strings.Builder, tasks []task.Task) {
	b.WriteString("Tasks\n\n")
	if len(tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for i := range tasks {
		b.WriteString(formatTask(&tasks[i]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeOverdue(b *strings.Builder, tasks []task.Task) {
	now := time.Now()
	var overdue []task.Task
	for _, t := range tasks {
		if t.Overdue(now) {
			overdue = append(overdue, t)
		}
	}
	if len(overdue) == 0 {
		return
	}
	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].Deadline < overdue[j].Deadline
	})
	b.WriteString("Overdue\n\n")
	for i := range overdue {
		b.WriteString(fmt.Sprintf("  ! [%s] %s (due %s)\n", overdue[i].ID, overdue[i].Title, overdue[i].Deadline))
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by pending\n")
	b.WriteString("  2            Filter by in_progress\n")
	b.WriteString("  3            Filter by done\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

func formatTask(t *task.Task) string {
	statusIcon := " "
	switch t.Status {
	case task.StatusInProgress:
		statusIcon = ">"
	case task.StatusDone:
		statusIcon = "x"
	}

	line := fmt.Sprintf("  %s [%s] %s", statusIcon, t.ID, t.Title)
	if t.Deadline != "" {
		line += " (due " + t.Deadline + ")"
	}
	if t.Description == "" {
		return line
	}
	return line + "\n      " + utils.Truncate(t.Description, 60)
}

// IsTTY returns true if stdout is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
