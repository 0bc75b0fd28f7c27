// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/todo-go/internal/store"
	"github.com/nibzard/todo-go/internal/todo"
)

// isolate points every config source at an empty temp directory and
// returns it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("APPDATA", filepath.Join(dir, "AppData"))
	for _, key := range []string{
		"TODO_DB", "TODO_SCHEMA", "TODO_DATE_FORMAT", "TODO_LOG_LEVEL",
		"TODO_LOG_FORMAT", "TODO_LOG_TIMESTAMPS", "TODO_LOG_CALLER", "TODO_LOG_DIR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
	return dir
}

// runTodo runs the CLI with input as stdin and returns what it printed.
func runTodo(t *testing.T, input string, args ...string) string {
	t.Helper()
	out, err := runTodoErr(input, args...)
	if err != nil {
		t.Fatalf("todo %v: %v", args, err)
	}
	return out
}

func runTodoErr(input string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	con := Console{In: strings.NewReader(input), Out: &out, Err: &errOut}
	err := RunWithConsole(context.Background(), args, con)
	return out.String(), err
}

// seed stores todos directly in the database at path.
func seed(t *testing.T, path string, todos ...todo.Todo) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	for _, td := range todos {
		if td.CreatedAt.IsZero() {
			td.CreatedAt = time.Now()
		}
		if _, err := st.AddTodo(ctx, td); err != nil {
			t.Fatal(err)
		}
	}
}

func stored(t *testing.T, path string) []todo.Todo {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	todos, err := st.GetAllTodos(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return todos
}

func daysFromNow(n int) *time.Time {
	d := todo.DateOf(time.Now()).AddDate(0, 0, n)
	return &d
}

func strPtr(s string) *string { return &s }

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"help flag", []string{"--help"}, "Usage:"},
		{"short help flag", []string{"-h"}, "Usage:"},
		{"help command", []string{"help"}, "Commands:"},
		{"version flag", []string{"--version"}, "todo version dev"},
		{"short version flag", []string{"-v"}, "todo version dev"},
		{"version command", []string{"VERSION"}, "todo version dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertContains(t, runTodo(t, "", tt.args...), tt.want)
		})
	}

	if _, err := os.Stat("todos.db"); !os.IsNotExist(err) {
		t.Errorf("help and version should not create a database, stat err = %v", err)
	}
}

func TestRunUnknownFlag(t *testing.T) {
	isolate(t)
	if _, err := runTodoErr("", "-bogus"); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestListEmpty(t *testing.T) {
	dir := isolate(t)

	out := runTodo(t, "")
	assertContains(t, out, "No uncompleted todos with active reminders found.")
	if strings.Contains(out, "reminders turned off") {
		t.Errorf("nothing was swept, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "todos.db")); err != nil {
		t.Errorf("database not created in the working directory: %v", err)
	}
}

func TestAddCommand(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		isolate(t)

		out := runTodo(t, "Buy milk\n2 liters\n2030-01-02\n", "add")
		assertContains(t, out,
			"Adding a new todo",
			"Title: ",
			"Description (optional, press Enter to skip): ",
			"Due date (yyyy-MM-dd, press Enter to skip): ",
			"Todo added successfully with ID: 1",
		)

		out = runTodo(t, "")
		assertContains(t, out,
			"Uncompleted todos with active reminders:",
			"ID: 1, Title: Buy milk",
			"Description: 2 liters",
			"Due Date: 2030-01-02",
			"---",
		)
	})

	t.Run("optional fields skipped", func(t *testing.T) {
		isolate(t)

		runTodo(t, "Call mom\n\n\n", "add")
		todos := stored(t, "todos.db")
		if len(todos) != 1 {
			t.Fatalf("stored %d todos, want 1", len(todos))
		}
		if todos[0].Description != nil || todos[0].DueDate != nil {
			t.Errorf("expected absent description and due date, got %+v", todos[0])
		}
		assertContains(t, runTodo(t, ""), "Due Date: Not set")
	})

	t.Run("invalid due date", func(t *testing.T) {
		isolate(t)

		out := runTodo(t, "Water plants\n\nsoon\n", "add")
		assertContains(t, out, "Invalid date format.", "Todo added successfully with ID: 1")
		if todos := stored(t, "todos.db"); todos[0].DueDate != nil {
			t.Errorf("expected no due date, got %v", todos[0].DueDate)
		}
	})

	t.Run("empty title", func(t *testing.T) {
		isolate(t)

		out := runTodo(t, "   \n\n\n", "add")
		assertContains(t, out, "Invalid input: title: title is required")
		if todos := stored(t, "todos.db"); len(todos) != 0 {
			t.Errorf("nothing should be stored, got %d todos", len(todos))
		}
	})

	t.Run("input ends early", func(t *testing.T) {
		isolate(t)

		out := runTodo(t, "Only a title", "add")
		assertContains(t, out, "Todo added successfully with ID: 1")
	})
}

func TestOverdueSweep(t *testing.T) {
	isolate(t)
	seed(t, "todos.db",
		todo.Todo{Title: "Pay rent", DueDate: daysFromNow(-1)},
		todo.Todo{Title: "Plan trip", DueDate: daysFromNow(3)},
	)

	out := runTodo(t, "")
	assertContains(t, out,
		"Some overdue todos have had their reminders turned off.",
		"ID: 2, Title: Plan trip",
	)
	if strings.Contains(out, "Pay rent") {
		t.Errorf("silenced todo should not be listed:\n%s", out)
	}

	todos := stored(t, "todos.db")
	if !todos[0].ReminderOff || todos[0].IsCompleted {
		t.Errorf("overdue todo = %+v, want reminder off and not completed", todos[0])
	}
	if todos[1].ReminderOff {
		t.Error("future todo should keep its reminder")
	}

	out = runTodo(t, "", "over")
	if strings.Contains(out, "reminders turned off") {
		t.Errorf("second sweep should change nothing:\n%s", out)
	}
	assertContains(t, out,
		"Overdue todos:",
		"ID: 1, Title: Pay rent",
		"Reminder: Off",
	)
	if strings.Contains(out, "Plan trip") {
		t.Errorf("future todo listed as overdue:\n%s", out)
	}
}

func TestOverNone(t *testing.T) {
	isolate(t)
	seed(t, "todos.db", todo.Todo{Title: "Today", DueDate: daysFromNow(0)})

	assertContains(t, runTodo(t, "", "Over"), "No overdue todos found.")
}

func TestCompleteCommand(t *testing.T) {
	t.Run("by id", func(t *testing.T) {
		isolate(t)
		seed(t, "todos.db", todo.Todo{Title: "Buy milk"}, todo.Todo{Title: "Walk dog"})

		out := runTodo(t, "", "comp", "1")
		assertContains(t, out, "Todo 'Buy milk' (ID: 1) has been marked as completed.")

		todos := stored(t, "todos.db")
		if !todos[0].IsCompleted || !todos[0].ReminderOff {
			t.Errorf("todo 1 = %+v, want completed", todos[0])
		}
		if todos[1].IsCompleted {
			t.Error("todo 2 should be untouched")
		}

		out = runTodo(t, "")
		if strings.Contains(out, "Buy milk") {
			t.Errorf("completed todo still listed:\n%s", out)
		}
	})

	t.Run("by title ignoring case", func(t *testing.T) {
		isolate(t)
		seed(t, "todos.db", todo.Todo{Title: "Buy milk"})

		out := runTodo(t, "", "COMP", "buy", "MILK")
		assertContains(t, out, "Todo 'Buy milk' (ID: 1) has been marked as completed.")
	})

	t.Run("no match", func(t *testing.T) {
		isolate(t)
		seed(t, "todos.db", todo.Todo{Title: "Buy milk"})

		assertContains(t, runTodo(t, "", "comp", "99"), "No matching todo found.")
		assertContains(t, runTodo(t, "", "comp", "Buy"), "No matching todo found.")
	})

	t.Run("missing identifier", func(t *testing.T) {
		isolate(t)
		assertContains(t, runTodo(t, "", "comp"), "Please provide an ID or title to complete a todo.")
	})
}

func TestCompleteDisambiguation(t *testing.T) {
	setup := func(t *testing.T) {
		isolate(t)
		seed(t, "todos.db",
			todo.Todo{Title: "Call mom", Description: strPtr("birthday")},
			todo.Todo{Title: "call mom"},
		)
	}

	t.Run("valid choice", func(t *testing.T) {
		setup(t)

		out := runTodo(t, "2\n", "comp", "Call mom")
		assertContains(t, out,
			"Multiple todos found with the same title. Please choose by ID:",
			"ID: 1, Title: Call mom, Description: birthday",
			"ID: 2, Title: call mom, Description: ",
			"Enter the ID of the todo you want to complete: ",
			"Todo 'call mom' (ID: 2) has been marked as completed.",
		)

		todos := stored(t, "todos.db")
		if todos[0].IsCompleted || !todos[1].IsCompleted {
			t.Errorf("only todo 2 should be completed: %+v", todos)
		}
	})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not a number", "abc\n", "Invalid input. Please enter a valid ID."},
		{"no answer", "", "Invalid input. Please enter a valid ID."},
		{"not a candidate", "7\n", "Invalid ID entered."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)

			assertContains(t, runTodo(t, tt.input, "comp", "call mom"), tt.want)
			for _, td := range stored(t, "todos.db") {
				if td.IsCompleted {
					t.Errorf("todo %d should not be completed", td.ID)
				}
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	isolate(t)

	out, err := runTodoErr("", "frobnicate")
	if err != nil {
		t.Fatalf("unknown command should not fail, got %v", err)
	}
	assertContains(t, out, invalidCommandText)
}

func TestDateFormatAndDBFlags(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "data", "mine.db")
	seed(t, db, todo.Todo{Title: "Renew passport", DueDate: daysFromNow(10)})

	want := "Due Date: " + daysFromNow(10).Format("02/01/2006")
	assertContains(t, runTodo(t, "", "-db", db, "-date-format", "02/01/2006"), want)

	t.Setenv("TODO_DB", db)
	t.Setenv("TODO_DATE_FORMAT", "02/01/2006")
	assertContains(t, runTodo(t, ""), want)
}

func TestStorageErrorPropagates(t *testing.T) {
	dir := isolate(t)
	blocker := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runTodoErr("", "-db", filepath.Join(blocker, "todos.db"))
	if err == nil {
		t.Fatal("expected an error when the database cannot be opened")
	}
	var se *store.StorageError
	if !errors.As(err, &se) {
		t.Errorf("expected StorageError, got %T: %v", err, err)
	}
}

func TestExportImport(t *testing.T) {
	dir := isolate(t)
	seed(t, "todos.db",
		todo.Todo{Title: "Buy milk", Description: strPtr("2 liters")},
		todo.Todo{Title: "Old chore", IsCompleted: true, ReminderOff: true},
	)

	t.Run("stdout", func(t *testing.T) {
		out := runTodo(t, "", "export")
		var f todo.File
		if err := json.Unmarshal([]byte(out), &f); err != nil {
			t.Fatalf("export is not JSON: %v\n%s", err, out)
		}
		if f.SchemaVersion != todo.SchemaVersion || len(f.Todos) != 2 {
			t.Errorf("unexpected export: %+v", f)
		}
	})

	exportPath := filepath.Join(dir, "backup.json")
	assertContains(t, runTodo(t, "", "export", exportPath), "Exported 2 todos to "+exportPath)

	other := filepath.Join(dir, "other.db")
	seed(t, other, todo.Todo{Title: "Existing"})
	assertContains(t, runTodo(t, "", "-db", other, "import", exportPath), "Imported 2 todos from "+exportPath)

	todos := stored(t, other)
	if len(todos) != 3 {
		t.Fatalf("stored %d todos, want 3", len(todos))
	}
	if todos[1].ID != 2 || todos[1].Title != "Buy milk" || todos[1].DescriptionText() != "2 liters" {
		t.Errorf("imported todo = %+v", todos[1])
	}
	if !todos[2].IsCompleted || !todos[2].ReminderOff {
		t.Errorf("completed todo lost its state: %+v", todos[2])
	}
}

func TestImportRejectsInvalidFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.json")
	bad := `{"schema_version": 1, "exported_at": "2024-05-10T09:00:00Z", "todos": [{"id": 1, "title": "", "is_completed": false, "reminder_off": false, "created_at": "2024-05-01T09:00:00Z"}]}`
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	out := runTodo(t, "", "import", path)
	assertContains(t, out, "is not a valid export file", "todos[0].title")
	if todos := stored(t, "todos.db"); len(todos) != 0 {
		t.Errorf("invalid file should import nothing, got %d todos", len(todos))
	}

	assertContains(t, runTodo(t, "", "import"), "Please provide the export file to import.")
	assertContains(t, runTodo(t, "", "import", filepath.Join(dir, "missing.json")), "Cannot import")
}

func TestConfigCommand(t *testing.T) {
	isolate(t)

	out := runTodo(t, "", "-date-format", "02.01.2006", "config")
	assertContains(t, out, "KEY", "db_file", "date_format", "02.01.2006", "flag", "default")

	assertContains(t, runTodo(t, "", "config", "example"), "date_format = \"2006-01-02\"")

	if _, err := runTodoErr("", "config", "bogus"); err == nil {
		t.Error("expected error for unknown config argument")
	}
}

func TestLogsCommand(t *testing.T) {
	isolate(t)

	assertContains(t, runTodo(t, "", "logs"), "Run logs are disabled.")
	assertContains(t, runTodo(t, "", "-log-dir", "logs", "logs"), "No log files found.")

	runTodo(t, "", "-log-dir", "logs", "-log-level", "debug")
	out := runTodo(t, "", "-log-dir", "logs", "logs", "-n", "50")
	assertContains(t, out, "database opened", "using database", "todos.db")
}
