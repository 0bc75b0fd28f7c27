// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/appdir"
	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/service"
	"github.com/nibzard/todo-go/internal/store"
	"github.com/nibzard/todo-go/internal/utils"
)

// Version is set via ldflags at build time.
var Version = "dev"

// invalidCommandText is printed for unrecognized commands.
const invalidCommandText = "Invalid command. Use 'add' to add a new todo, 'comp' to complete a todo, " +
	"'over' to list overdue todos, or run without parameters to list uncompleted todos."

// Console holds the streams commands read from and write to.
type Console struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdConsole returns the process standard streams.
func StdConsole() Console {
	return Console{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run executes the todo CLI on the process standard streams.
func Run(ctx context.Context, args []string) error {
	return RunWithConsole(ctx, args, StdConsole())
}

// RunWithConsole executes the todo CLI on the given streams.
func RunWithConsole(ctx context.Context, args []string, con Console) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet(appdir.Name, flag.ContinueOnError)
	fs.SetOutput(con.Err)
	fs.Usage = func() {
		printUsage(fs, con.Err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, con.Out)
		return nil
	}
	if *showVersion {
		return versionCommand(con.Out)
	}

	// Determine the subcommand; no arguments lists the active todos
	subcommand := ""
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = utils.Normalize(remainingArgs[0])
		remainingArgs = remainingArgs[1:]
	}

	// Commands that do not touch the database
	switch subcommand {
	case "version":
		return versionCommand(con.Out)
	case "help":
		printUsage(fs, con.Out)
		return nil
	case "config":
		return configCommand(cws, remainingArgs, con.Out)
	case "logs":
		return logsCommand(cws.Config, remainingArgs, con.Out)
	}

	a, err := openApp(ctx, cws.Config, con)
	if err != nil {
		return err
	}
	defer a.close()

	for _, w := range cws.Warnings {
		a.logger.Warn(w)
	}

	switch subcommand {
	case "":
		if err := a.sweep(ctx); err != nil {
			return err
		}
		return a.listActive(ctx)
	case "add":
		if err := a.sweep(ctx); err != nil {
			return err
		}
		return a.addCommand(ctx)
	case "comp":
		if err := a.sweep(ctx); err != nil {
			return err
		}
		return a.completeCommand(ctx, remainingArgs)
	case "over":
		if err := a.sweep(ctx); err != nil {
			return err
		}
		return a.listOverdue(ctx)
	case "tui":
		if err := a.sweep(ctx); err != nil {
			return err
		}
		return a.tuiCommand(ctx)
	case "export":
		return a.exportCommand(ctx, remainingArgs)
	case "import":
		return a.importCommand(ctx, remainingArgs)
	default:
		if err := a.sweep(ctx); err != nil {
			return err
		}
		a.logger.Debug("unknown command", "command", subcommand)
		fmt.Fprintln(con.Out, invalidCommandText)
		return nil
	}
}

// app bundles what the database commands share.
type app struct {
	cfg     *config.Config
	con     Console
	logger  *log.Logger
	runLog  *logging.RunLogger
	store   *store.Store
	service *service.Service
}

// openApp sets up logging, opens the database and builds the service.
func openApp(ctx context.Context, cfg *config.Config, con Console) (*app, error) {
	logger, runLog, err := logging.Setup(cfg, con.Err)
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	st, err := store.Open(ctx, cfg.DBFile, store.WithLogger(logger.WithPrefix("store")))
	if err != nil {
		runLog.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	logger.Debug("using database", "path", st.Path())

	svc := service.New(st, service.WithLogger(logger.WithPrefix("service")))
	return &app{
		cfg:     cfg,
		con:     con,
		logger:  logger,
		runLog:  runLog,
		store:   st,
		service: svc,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("closing database", "err", err)
	}
	a.runLog.Close()
}

// sweep silences overdue reminders and reports when anything changed.
func (a *app) sweep(ctx context.Context) error {
	n, err := a.service.SweepOverdue(ctx, a.service.Now())
	if n > 0 {
		fmt.Fprintln(a.con.Out, "Some overdue todos have had their reminders turned off.")
	}
	return err
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todo version %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todo - A personal todo list with overdue reminders")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  (none)         List uncompleted todos with active reminders")
	fmt.Fprintln(w, "  add            Add a new todo (prompts for the fields)")
	fmt.Fprintln(w, "  comp <id|title>  Complete a todo")
	fmt.Fprintln(w, "  over           List overdue todos")
	fmt.Fprintln(w, "  tui            Launch terminal UI")
	fmt.Fprintln(w, "  export [file]  Write all todos as JSON (stdout by default)")
	fmt.Fprintln(w, "  import <file>  Add the todos from a JSON export")
	fmt.Fprintln(w, "  config [example]  Show the effective configuration")
	fmt.Fprintln(w, "  logs           Print the latest run log")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w, "  help           Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options (use with 'logs' command):")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
