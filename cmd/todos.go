package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/todo-go/internal/service"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

// prompter reads answers line by line from the console.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func newPrompter(con Console) *prompter {
	return &prompter{r: bufio.NewReader(con.In), w: con.Out}
}

// ask prints label and returns the next input line without its line ending.
// End of input counts as an empty answer.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.w, label)
	line, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// addCommand prompts for the fields of a new todo and stores it.
func (a *app) addCommand(ctx context.Context) error {
	out := a.con.Out
	p := newPrompter(a.con)

	fmt.Fprintln(out, "Adding a new todo")
	title, err := p.ask("Title: ")
	if err != nil {
		return err
	}
	description, err := p.ask("Description (optional, press Enter to skip): ")
	if err != nil {
		return err
	}
	dueDate, err := p.ask("Due date (yyyy-MM-dd, press Enter to skip): ")
	if err != nil {
		return err
	}

	res, err := a.service.AddInteractive(ctx, title, description, dueDate)
	if err != nil {
		var ve *todo.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(out, "Invalid input: %v\n", ve)
			return nil
		}
		return err
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(out, "Invalid date format. The todo was added without a due date.")
	}
	fmt.Fprintf(out, "Todo added successfully with ID: %d\n", res.Todo.ID)
	return nil
}

// completeCommand completes the todo named by args, asking which one to
// complete when several todos share the title.
func (a *app) completeCommand(ctx context.Context, args []string) error {
	out := a.con.Out
	identifier := strings.TrimSpace(strings.Join(args, " "))
	if identifier == "" {
		fmt.Fprintln(out, "Please provide an ID or title to complete a todo.")
		return nil
	}

	matches, err := a.service.Resolve(ctx, identifier)
	if err != nil {
		return err
	}

	switch len(matches) {
	case 0:
		fmt.Fprintln(out, "No matching todo found.")
		return nil
	case 1:
		return a.complete(ctx, &matches[0])
	}

	fmt.Fprintln(out, "Multiple todos found with the same title. Please choose by ID:")
	for _, t := range matches {
		fmt.Fprintf(out, "ID: %d, Title: %s, Description: %s\n", t.ID, t.Title, t.DescriptionText())
	}

	answer, err := newPrompter(a.con).ask("Enter the ID of the todo you want to complete: ")
	if err != nil {
		return err
	}
	chosen, err := a.service.Choose(matches, answer)
	switch {
	case errors.Is(err, service.ErrInvalidID):
		fmt.Fprintln(out, "Invalid input. Please enter a valid ID.")
		return nil
	case errors.Is(err, service.ErrNotCandidate):
		fmt.Fprintln(out, "Invalid ID entered.")
		return nil
	case err != nil:
		return err
	}
	return a.complete(ctx, &chosen)
}

func (a *app) complete(ctx context.Context, t *todo.Todo) error {
	if err := a.service.Complete(ctx, t); err != nil {
		return err
	}
	fmt.Fprintf(a.con.Out, "Todo '%s' (ID: %d) has been marked as completed.\n", t.Title, t.ID)
	return nil
}

// listActive prints the todos that are neither completed nor silenced.
func (a *app) listActive(ctx context.Context) error {
	out := a.con.Out
	todos, err := a.service.ListActive(ctx)
	if err != nil {
		return err
	}

	if len(todos) == 0 {
		fmt.Fprintln(out, "No uncompleted todos with active reminders found.")
		return nil
	}

	fmt.Fprintln(out, "Uncompleted todos with active reminders:")
	for _, t := range todos {
		fmt.Fprintf(out, "ID: %d, Title: %s\n", t.ID, t.Title)
		fmt.Fprintf(out, "Description: %s\n", t.DescriptionText())
		fmt.Fprintf(out, "Due Date: %s\n", a.formatDueDate(&t))
		fmt.Fprintln(out, "---")
	}
	return nil
}

// listOverdue prints the incomplete todos whose due date has passed.
func (a *app) listOverdue(ctx context.Context) error {
	out := a.con.Out
	todos, err := a.service.ListOverdue(ctx, a.service.Now())
	if err != nil {
		return err
	}

	if len(todos) == 0 {
		fmt.Fprintln(out, "No overdue todos found.")
		return nil
	}

	fmt.Fprintln(out, "Overdue todos:")
	for _, t := range todos {
		reminder := "On"
		if t.ReminderOff {
			reminder = "Off"
		}
		fmt.Fprintf(out, "ID: %d, Title: %s\n", t.ID, t.Title)
		fmt.Fprintf(out, "Description: %s\n", t.DescriptionText())
		fmt.Fprintf(out, "Due Date: %s\n", a.formatDueDate(&t))
		fmt.Fprintf(out, "Reminder: %s\n", reminder)
		fmt.Fprintln(out, "---")
	}
	return nil
}

func (a *app) formatDueDate(t *todo.Todo) string {
	if !t.HasDueDate() {
		return "Not set"
	}
	return t.DueDate.In(a.service.Now().Location()).Format(a.cfg.DateFormat)
}

// tuiCommand opens the interactive browser.
func (a *app) tuiCommand(ctx context.Context) error {
	return ui.RunTUI(ctx, a.service, ui.WithDateFormat(a.cfg.DateFormat))
}
