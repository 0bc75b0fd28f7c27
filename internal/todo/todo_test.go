package todo

import (
	"errors"
	"testing"
	"time"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestTodoPredicates(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		todo            Todo
		wantActive      bool
		wantOverdue     bool
		wantReminderOff bool
		wantHasDueDate  bool
	}{
		{
			name:       "no due date",
			todo:       Todo{Title: "a"},
			wantActive: true,
		},
		{
			name:            "due yesterday",
			todo:            Todo{Title: "b", DueDate: datePtr(2024, 5, 9)},
			wantActive:      true,
			wantOverdue:     true,
			wantReminderOff: true,
			wantHasDueDate:  true,
		},
		{
			name:           "due today is not overdue",
			todo:           Todo{Title: "c", DueDate: datePtr(2024, 5, 10)},
			wantActive:     true,
			wantHasDueDate: true,
		},
		{
			name:           "due later today is not overdue",
			todo:           Todo{Title: "c2", DueDate: ptrTime(time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC))},
			wantActive:     true,
			wantHasDueDate: true,
		},
		{
			name:           "due tomorrow",
			todo:           Todo{Title: "d", DueDate: datePtr(2024, 5, 11)},
			wantActive:     true,
			wantHasDueDate: true,
		},
		{
			name:           "completed and past due",
			todo:           Todo{Title: "e", IsCompleted: true, ReminderOff: true, DueDate: datePtr(2024, 1, 1)},
			wantHasDueDate: true,
		},
		{
			name:           "silenced and past due stays overdue",
			todo:           Todo{Title: "f", ReminderOff: true, DueDate: datePtr(2024, 1, 1)},
			wantOverdue:    true,
			wantHasDueDate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.todo.IsActive(); got != tt.wantActive {
				t.Errorf("IsActive() = %v, want %v", got, tt.wantActive)
			}
			if got := tt.todo.IsOverdue(now); got != tt.wantOverdue {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.wantOverdue)
			}
			if got := tt.todo.NeedsReminderOff(now); got != tt.wantReminderOff {
				t.Errorf("NeedsReminderOff() = %v, want %v", got, tt.wantReminderOff)
			}
			if got := tt.todo.HasDueDate(); got != tt.wantHasDueDate {
				t.Errorf("HasDueDate() = %v, want %v", got, tt.wantHasDueDate)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func TestIsOverdueUsesNowLocation(t *testing.T) {
	east := time.FixedZone("east", 10*60*60)
	// 2024-05-09 20:00 UTC is already 2024-05-10 in east.
	due := time.Date(2024, 5, 9, 20, 0, 0, 0, time.UTC)
	todo := Todo{Title: "zone", DueDate: &due}

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, east)
	if todo.IsOverdue(now) {
		t.Error("expected todo due on the same local day not to be overdue")
	}

	later := time.Date(2024, 5, 11, 0, 30, 0, 0, east)
	if !todo.IsOverdue(later) {
		t.Error("expected todo to be overdue the next local day")
	}
}

func TestDescriptionText(t *testing.T) {
	var todo Todo
	if got := todo.DescriptionText(); got != "" {
		t.Errorf("DescriptionText() = %q, want empty", got)
	}

	desc := "milk and eggs"
	todo.Description = &desc
	if got := todo.DescriptionText(); got != desc {
		t.Errorf("DescriptionText() = %q, want %q", got, desc)
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("x", -3*60*60)
	in := time.Date(2024, 2, 29, 23, 59, 59, 999, loc)
	got := DateOf(in)
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("DateOf() = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("DateOf() location = %v, want %v", got.Location(), loc)
	}
}

func TestParseDueDate(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)

	tests := []struct {
		name    string
		input   string
		want    *time.Time
		wantErr bool
	}{
		{name: "empty", input: ""},
		{name: "whitespace", input: "   "},
		{
			name:  "iso date",
			input: "2024-05-01",
			want:  ptrTime(time.Date(2024, 5, 1, 0, 0, 0, 0, loc)),
		},
		{
			name:  "surrounding whitespace",
			input: " 2024-05-01\n",
			want:  ptrTime(time.Date(2024, 5, 1, 0, 0, 0, 0, loc)),
		},
		{
			name:  "date and time",
			input: "2024-05-01 14:30",
			want:  ptrTime(time.Date(2024, 5, 1, 14, 30, 0, 0, loc)),
		},
		{
			name:  "rfc3339 keeps its offset",
			input: "2024-05-01T08:00:00Z",
			want:  ptrTime(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
		},
		{
			name:  "slashes",
			input: "2024/05/01",
			want:  ptrTime(time.Date(2024, 5, 1, 0, 0, 0, 0, loc)),
		},
		{name: "garbage", input: "tomorrow", wantErr: true},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.input, loc)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if ve.Path != "due_date" {
					t.Errorf("Path = %q, want %q", ve.Path, "due_date")
				}
				if got != nil {
					t.Errorf("expected nil date on error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("expected nil, got %v", got)
			case tt.want != nil && got == nil:
				t.Errorf("expected %v, got nil", tt.want)
			case tt.want != nil && !got.Equal(*tt.want):
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDueDateNilLocation(t *testing.T) {
	got, err := ParseDueDate("2024-05-01", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location() != time.Local {
		t.Errorf("location = %v, want Local", got.Location())
	}
}

func TestValidationError(t *testing.T) {
	base := errors.New("boom")

	withPath := &ValidationError{Path: "todos[0].title", Err: base}
	if got := withPath.Error(); got != "todos[0].title: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(withPath, base) {
		t.Error("expected errors.Is to find the wrapped error")
	}

	noPath := &ValidationError{Err: base}
	if got := noPath.Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}
