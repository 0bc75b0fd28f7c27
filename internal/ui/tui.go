// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todo-go/internal/todo"
)

// Service is the part of the todo service the TUI drives.
type Service interface {
	Now() time.Time
	List(ctx context.Context) ([]todo.Todo, error)
	ListActive(ctx context.Context) ([]todo.Todo, error)
	ListOverdue(ctx context.Context, now time.Time) ([]todo.Todo, error)
	Complete(ctx context.Context, t *todo.Todo) error
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	dateFormat      string
	refreshInterval time.Duration
}

// WithDateFormat sets the Go time layout used for due dates.
func WithDateFormat(layout string) TUIOption {
	return func(c *tuiConfig) {
		if layout != "" {
			c.dateFormat = layout
		}
	}
}

// WithRefreshInterval sets how often the list is reloaded from the store.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.refreshInterval = d
		}
	}
}

// RunTUI starts the todo browser.
func RunTUI(ctx context.Context, svc Service, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctx, svc, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// view selects which todos are listed.
type view int

const (
	viewActive view = iota
	viewOverdue
	viewAll
)

func (v view) String() string {
	switch v {
	case viewActive:
		return "Active"
	case viewOverdue:
		return "Overdue"
	default:
		return "All"
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1)
	activeTab     = tabStyle.Bold(true).Reverse(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	doneStyle     = lipgloss.NewStyle().Faint(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
)

type tuiModel struct {
	ctx          context.Context
	svc          Service
	cfg          tuiConfig
	view         view
	todos        []todo.Todo
	cursor       int
	loadErr      error
	message      string
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(ctx context.Context, svc Service, opts ...TUIOption) *tuiModel {
	cfg := tuiConfig{
		dateFormat:      "2006-01-02",
		refreshInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &tuiModel{
		ctx:          ctx,
		svc:          svc,
		cfg:          cfg,
		view:         viewActive,
		tickInterval: cfg.refreshInterval,
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
			m.message = ""
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			m.setView(viewActive)
			return m, nil
		case "2":
			m.setView(viewOverdue)
			return m, nil
		case "0":
			m.setView(viewAll)
			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.todos)-1 {
				m.cursor++
			}
			return m, nil
		case "c", "enter":
			m.completeSelected()
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

	writeTabs(&b, m.view)

	if m.loadErr != nil {
		b.WriteString("Error loading todos:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeTodos(&b, m.todos, m.cursor, m.svc.Now(), m.cfg.dateFormat)
	if m.message != "" {
		b.WriteString(m.message + "\n\n")
	}
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) setView(v view) {
	m.view = v
	m.cursor = 0
	m.message = ""
	m.refresh()
}

func (m *tuiModel) refresh() {
	var (
		todos []todo.Todo
		err   error
	)
	switch m.view {
	case viewActive:
		todos, err = m.svc.ListActive(m.ctx)
	case viewOverdue:
		todos, err = m.svc.ListOverdue(m.ctx, m.svc.Now())
	default:
		todos, err = m.svc.List(m.ctx)
	}
	if err != nil {
		m.loadErr = err
		m.todos = nil
		return
	}
	m.loadErr = nil
	m.todos = todos
	if m.cursor >= len(m.todos) {
		m.cursor = max(len(m.todos)-1, 0)
	}
}

func (m *tuiModel) completeSelected() {
	if m.cursor >= len(m.todos) {
		return
	}
	selected := m.todos[m.cursor]
	if selected.IsCompleted {
		m.message = fmt.Sprintf("Todo %d is already completed.", selected.ID)
		return
	}
	if err := m.svc.Complete(m.ctx, &selected); err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	m.message = fmt.Sprintf("Todo '%s' (ID: %d) has been marked as completed.", selected.Title, selected.ID)
	m.refresh()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Todos") + "\n\n")
}

func writeTabs(b *strings.Builder, current view) {
	tabs := []struct {
		key string
		v   view
	}{
		{"1", viewActive},
		{"2", viewOverdue},
		{"0", viewAll},
	}
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := fmt.Sprintf("%s %s", tab.key, tab.v)
		if tab.v == current {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n\n")
}

func writeTodos(b *strings.Builder, todos []todo.Todo, cursor int, now time.Time, layout string) {
	if len(todos) == 0 {
		b.WriteString(mutedStyle.Render("  No todos.") + "\n\n")
		return
	}
	for i := range todos {
		line := formatTodo(&todos[i], now, layout)
		prefix := "  "
		if i == cursor {
			prefix = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  up/down, k/j Move selection\n")
	b.WriteString("  c, enter     Complete selected todo\n")
	b.WriteString("  1            Active todos\n")
	b.WriteString("  2            Overdue todos\n")
	b.WriteString("  0            All todos\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", interval)) + "\n")
}

func formatTodo(t *todo.Todo, now time.Time, layout string) string {
	statusIcon := " "
	switch {
	case t.IsCompleted:
		statusIcon = "x"
	case t.IsOverdue(now):
		statusIcon = "!"
	case t.ReminderOff:
		statusIcon = "-"
	}

	line := fmt.Sprintf("[%s] %d %s", statusIcon, t.ID, t.Title)
	if t.DueDate != nil {
		line += " (due " + t.DueDate.In(now.Location()).Format(layout) + ")"
	}
	if d := t.DescriptionText(); d != "" {
		if r := []rune(d); len(r) > 60 {
			d = string(r[:57]) + "..."
		}
		line += " - " + d
	}

	switch {
	case t.IsCompleted:
		return doneStyle.Render(line)
	case t.IsOverdue(now):
		return overdueStyle.Render(line)
	}
	return line
}

// IsTTY returns true if w is a terminal.
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
