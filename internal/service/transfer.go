package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/todo"
)

// Export snapshots every todo into an export file.
func (s *Service) Export(ctx context.Context) (*todo.File, error) {
	todos, err := s.store.GetAllTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return todo.NewFile(todos, s.now()), nil
}

// Import adds every todo in f as a new record. IDs in the file are not kept.
// Nothing is added when any title is blank. It returns how many todos were
// added before any failure.
func (s *Service) Import(ctx context.Context, f *todo.File) (int, error) {
	for i, t := range f.Todos {
		if strings.TrimSpace(t.Title) == "" {
			return 0, &todo.ValidationError{Path: fmt.Sprintf("todos[%d].title", i), Err: ErrEmptyTitle}
		}
	}

	added := 0
	for _, t := range f.Todos {
		t.ID = 0
		t.Title = strings.TrimSpace(t.Title)
		if t.IsCompleted {
			t.ReminderOff = true
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.now()
		}
		if _, err := s.store.AddTodo(ctx, t); err != nil {
			return added, fmt.Errorf("import %q: %w", t.Title, err)
		}
		added++
	}

	s.logger.Info("imported todos", "count", added)
	return added, nil
}
