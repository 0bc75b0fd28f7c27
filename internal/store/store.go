// Package store persists todos in a SQLite database file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nibzard/todo-go/internal/todo"
)

// ErrTodoNotFound is wrapped by UpdateTodo when no row has the todo's ID.
var ErrTodoNotFound = errors.New("todo not found")

// StorageError reports a failure of the backing database.
type StorageError struct {
	Op  string // operation that failed, e.g. "add", "update"
	Err error  // Underlying error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store is the SQLite-backed todo repository.
type Store struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// Open opens (creating if needed) the database at path and initializes its
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	if path == "" {
		return nil, storageErr("open", errors.New("database path is empty"))
	}
	if err := ensureDatabaseDirectory(path); err != nil {
		return nil, storageErr("open", err)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, storageErr("open", err)
	}

	// Single connection: SQLite has one writer and ":memory:" lives per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storageErr("open", err)
	}
	s.db = db

	if err := s.Initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("database opened", "path", path)
	return s, nil
}

// Path returns the database location the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialize applies pending schema migrations. It is safe to call repeatedly.
func (s *Store) Initialize(ctx context.Context) error {
	if err := runMigrations(ctx, s.db, s.logger); err != nil {
		return storageErr("initialize", err)
	}
	return nil
}

// AddTodo inserts t and returns it with the assigned ID. t.ID is ignored.
func (s *Store) AddTodo(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	const insertTodoQuery = `
INSERT INTO Todos (Title, Description, IsCompleted, ReminderOff, CreatedAt, DueDate)
VALUES (?, ?, ?, ?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, insertTodoQuery,
		t.Title,
		nullString(t.Description),
		boolToInt(t.IsCompleted),
		boolToInt(t.ReminderOff),
		encodeTime(t.CreatedAt),
		nullTime(t.DueDate),
	)
	if err != nil {
		s.logger.Error("failed to insert todo", "err", err)
		return todo.Todo{}, storageErr("add", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return todo.Todo{}, storageErr("add", err)
	}
	t.ID = id

	s.logger.Debug("inserted todo", "todo_id", id)
	return t, nil
}

// GetAllTodos returns every stored todo ordered by ID.
func (s *Store) GetAllTodos(ctx context.Context) ([]todo.Todo, error) {
	const selectTodosQuery = `
SELECT Id,
       Title,
       Description,
       IsCompleted,
       ReminderOff,
       CreatedAt,
       DueDate
FROM Todos
ORDER BY Id
`
	rows, err := s.db.QueryContext(ctx, selectTodosQuery)
	if err != nil {
		s.logger.Error("failed to select todos", "err", err)
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	todos := make([]todo.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			s.logger.Error("failed to scan todo", "err", err)
			return nil, storageErr("list", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}

	s.logger.Debug("selected todos", "count", len(todos))
	return todos, nil
}

// UpdateTodo overwrites every mutable column of the row with t.ID.
func (s *Store) UpdateTodo(ctx context.Context, t todo.Todo) error {
	const updateTodoQuery = `
UPDATE Todos
SET Title = ?,
    Description = ?,
    IsCompleted = ?,
    ReminderOff = ?,
    CreatedAt = ?,
    DueDate = ?
WHERE Id = ?
`
	res, err := s.db.ExecContext(ctx, updateTodoQuery,
		t.Title,
		nullString(t.Description),
		boolToInt(t.IsCompleted),
		boolToInt(t.ReminderOff),
		encodeTime(t.CreatedAt),
		nullTime(t.DueDate),
		t.ID,
	)
	if err != nil {
		s.logger.Error("failed to update todo", "todo_id", t.ID, "err", err)
		return storageErr("update", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("update", err)
	}
	if affected == 0 {
		return storageErr("update", fmt.Errorf("id %d: %w", t.ID, ErrTodoNotFound))
	}

	s.logger.Debug("updated todo", "todo_id", t.ID)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (todo.Todo, error) {
	var (
		t           todo.Todo
		description sql.NullString
		isCompleted int64
		reminderOff int64
		createdAt   string
		dueDate     sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &description, &isCompleted, &reminderOff, &createdAt, &dueDate); err != nil {
		return todo.Todo{}, err
	}

	if description.Valid {
		d := description.String
		t.Description = &d
	}
	t.IsCompleted = isCompleted == 1
	t.ReminderOff = reminderOff == 1

	created, err := decodeTime(createdAt)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("todo %d created_at: %w", t.ID, err)
	}
	t.CreatedAt = created

	if dueDate.Valid {
		due, err := decodeTime(dueDate.String)
		if err != nil {
			return todo.Todo{}, fmt.Errorf("todo %d due_date: %w", t.ID, err)
		}
		if !isLegacyNoDueDate(due) {
			t.DueDate = &due
		}
	}

	return t, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_busy_timeout=5000&_foreign_keys=1"
}

// ensureDatabaseDirectory creates the directory for the database file if it doesn't exist
func ensureDatabaseDirectory(path string) error {
	if path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
