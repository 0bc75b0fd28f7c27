// Package service implements the todo rules on top of a Store: adding,
// the overdue reminder sweep, the active and overdue views, resolving an
// identifier to todos, and completion.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/todo"
)

var (
	// ErrEmptyTitle is wrapped by AddInteractive when the title is blank.
	ErrEmptyTitle = errors.New("title is required")

	// ErrInvalidID is wrapped by Choose when the input is not a number.
	ErrInvalidID = errors.New("not a valid ID")

	// ErrNotCandidate is wrapped by Choose when the ID is not one of the candidates.
	ErrNotCandidate = errors.New("not one of the listed todos")
)

// Store is the persistence the service needs.
type Store interface {
	// AddTodo persists t and returns it with its assigned ID.
	AddTodo(ctx context.Context, t todo.Todo) (todo.Todo, error)

	// GetAllTodos returns every persisted todo.
	GetAllTodos(ctx context.Context) ([]todo.Todo, error)

	// UpdateTodo overwrites the stored todo with the same ID.
	UpdateTodo(ctx context.Context, t todo.Todo) error
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service applies the todo rules.
type Service struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

// New creates a Service backed by store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Now returns the current time from the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// AddResult is the outcome of AddInteractive.
type AddResult struct {
	Todo     todo.Todo
	Warnings []string
}

// AddInteractive creates a todo from user-entered text. A blank description
// is stored as absent. Due date text that cannot be parsed is reported in
// Warnings and the todo is created without a due date.
func (s *Service) AddInteractive(ctx context.Context, title, description, dueDateText string) (*AddResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &todo.ValidationError{Path: "title", Err: ErrEmptyTitle}
	}

	result := &AddResult{}
	now := s.now()

	dueDate, err := todo.ParseDueDate(dueDateText, now.Location())
	if err != nil {
		s.logger.Warn("ignoring due date", "input", dueDateText, "err", err)
		result.Warnings = append(result.Warnings, err.Error())
		dueDate = nil
	}

	var desc *string
	if d := strings.TrimSpace(description); d != "" {
		desc = &d
	}

	added, err := s.store.AddTodo(ctx, todo.Todo{
		Title:       title,
		Description: desc,
		IsCompleted: false,
		ReminderOff: false,
		CreatedAt:   now,
		DueDate:     dueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("add todo: %w", err)
	}

	s.logger.Info("added todo", "todo_id", added.ID)
	result.Todo = added
	return result, nil
}

// SweepOverdue silences the reminder of every todo that is overdue as of now
// and still has its reminder on. It returns how many todos were persisted.
// A failure to persist one todo does not stop the others; all failures are
// returned joined.
func (s *Service) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	todos, err := s.store.GetAllTodos(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep overdue: %w", err)
	}

	var (
		changed int
		errs    []error
	)
	for _, t := range todos {
		if !t.NeedsReminderOff(now) {
			continue
		}
		t.ReminderOff = true
		if err := s.store.UpdateTodo(ctx, t); err != nil {
			s.logger.Error("failed to silence overdue todo", "todo_id", t.ID, "err", err)
			errs = append(errs, fmt.Errorf("todo %d: %w", t.ID, err))
			continue
		}
		changed++
	}

	if changed > 0 {
		s.logger.Info("silenced overdue reminders", "count", changed)
	}
	if len(errs) > 0 {
		return changed, fmt.Errorf("sweep overdue: %w", errors.Join(errs...))
	}
	return changed, nil
}

// List returns every todo.
func (s *Service) List(ctx context.Context) ([]todo.Todo, error) {
	todos, err := s.store.GetAllTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// ListActive returns todos that are neither completed nor silenced.
func (s *Service) ListActive(ctx context.Context) ([]todo.Todo, error) {
	return s.filter(ctx, "list active", func(t *todo.Todo) bool {
		return t.IsActive()
	})
}

// ListOverdue returns incomplete todos due before now's date, whether or not
// their reminder has been silenced.
func (s *Service) ListOverdue(ctx context.Context, now time.Time) ([]todo.Todo, error) {
	return s.filter(ctx, "list overdue", func(t *todo.Todo) bool {
		return t.IsOverdue(now)
	})
}

func (s *Service) filter(ctx context.Context, op string, keep func(*todo.Todo) bool) ([]todo.Todo, error) {
	todos, err := s.store.GetAllTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]todo.Todo, 0, len(todos))
	for i := range todos {
		if keep(&todos[i]) {
			out = append(out, todos[i])
		}
	}
	return out, nil
}

// Resolve finds the todos an identifier refers to. An integer matches by ID;
// anything else matches titles case-insensitively. No match is not an error.
func (s *Service) Resolve(ctx context.Context, identifier string) ([]todo.Todo, error) {
	if id, err := strconv.ParseInt(strings.TrimSpace(identifier), 10, 64); err == nil {
		return s.filter(ctx, "resolve", func(t *todo.Todo) bool {
			return t.ID == id
		})
	}
	return s.filter(ctx, "resolve", func(t *todo.Todo) bool {
		return strings.EqualFold(t.Title, identifier)
	})
}

// Choose picks the candidate whose ID is typed in idText.
func (s *Service) Choose(candidates []todo.Todo, idText string) (todo.Todo, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
	if err != nil {
		return todo.Todo{}, &todo.ValidationError{
			Path: "id",
			Err:  fmt.Errorf("%q: %w", idText, ErrInvalidID),
		}
	}
	for _, c := range candidates {
		if c.ID == id {
			return c, nil
		}
	}
	return todo.Todo{}, &todo.ValidationError{
		Path: "id",
		Err:  fmt.Errorf("%d: %w", id, ErrNotCandidate),
	}
}

// Complete marks t done and silences its reminder. t is modified only after
// the change is persisted.
func (s *Service) Complete(ctx context.Context, t *todo.Todo) error {
	done := *t
	done.IsCompleted = true
	done.ReminderOff = true
	if err := s.store.UpdateTodo(ctx, done); err != nil {
		return fmt.Errorf("complete todo %d: %w", t.ID, err)
	}
	*t = done

	s.logger.Info("completed todo", "todo_id", t.ID)
	return nil
}
