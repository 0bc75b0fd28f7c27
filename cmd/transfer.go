package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/nibzard/todo-go/internal/todo"
)

// exportCommand writes every todo as a JSON export, to a file or stdout.
func (a *app) exportCommand(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	f, err := a.service.Export(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 || args[0] == "-" {
		return f.Encode(a.con.Out)
	}
	if err := f.Save(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.con.Out, "Exported %d todos to %s\n", len(f.Todos), args[0])
	return nil
}

// importCommand validates a JSON export and adds its todos as new records.
func (a *app) importCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todo import", flag.ContinueOnError)
	fs.SetOutput(a.con.Err)
	skipSchema := fs.Bool("skip-schema", false, "Only run the built-in structural checks")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		fmt.Fprintln(a.con.Out, "Please provide the export file to import.")
		return nil
	}
	path := remaining[0]

	f, err := todo.Load(path)
	if err != nil {
		fmt.Fprintf(a.con.Out, "Cannot import %s: %v\n", path, err)
		return nil
	}

	result := f.Validate(todo.ValidationOptions{
		SchemaPath: a.cfg.SchemaFile,
		SkipSchema: *skipSchema,
	})
	for _, w := range result.Warnings {
		a.logger.Warn(w, "file", path)
	}
	if !result.Valid {
		fmt.Fprintf(a.con.Out, "%s is not a valid export file:\n", path)
		for _, e := range result.Errors {
			fmt.Fprintf(a.con.Out, "  %v\n", e)
		}
		return nil
	}

	n, err := a.service.Import(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.con.Out, "Imported %d todos from %s\n", n, path)
	return nil
}
