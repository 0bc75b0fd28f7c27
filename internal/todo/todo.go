package todo

import (
	"fmt"
	"strings"
	"time"
)

// Todo is a single task record.
type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	ReminderOff bool       `json:"reminder_off"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// HasDueDate reports whether the todo has a due date.
func (t *Todo) HasDueDate() bool {
	return t.DueDate != nil
}

// IsActive reports whether the todo is neither completed nor silenced.
func (t *Todo) IsActive() bool {
	return !t.IsCompleted && !t.ReminderOff
}

// IsOverdue reports whether the todo is not completed and its due date falls
// on a calendar day strictly before now's. The reminder flag is ignored.
func (t *Todo) IsOverdue(now time.Time) bool {
	if t.IsCompleted || t.DueDate == nil {
		return false
	}
	return DateOf(t.DueDate.In(now.Location())).Before(DateOf(now))
}

// NeedsReminderOff reports whether the overdue sweep should silence the todo.
func (t *Todo) NeedsReminderOff(now time.Time) bool {
	return !t.ReminderOff && t.IsOverdue(now)
}

// DescriptionText returns the description or an empty string when absent.
func (t *Todo) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dueDateLayouts are tried in order by ParseDueDate.
var dueDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// ParseDueDate parses user-entered due date text in loc.
// Blank text yields a nil date and no error.
func ParseDueDate(text string, loc *time.Location) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return &t, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return &t, nil
		}
	}

	return nil, &ValidationError{
		Path: "due_date",
		Err:  fmt.Errorf("invalid date %q, expected yyyy-MM-dd", text),
	}
}

// ValidationError represents invalid user or file input with context.
type ValidationError struct {
	Path string // field or JSON path of the offending value
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
