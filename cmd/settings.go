package cmd

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nibzard/todo-go/internal/appdir"
	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/utils"
)

// configCommand prints the effective configuration and where each value
// came from. "config example" prints a commented config file instead.
func configCommand(cws *config.ConfigWithSources, args []string, w io.Writer) error {
	if len(args) > 0 {
		if utils.Normalize(args[0]) != "example" || len(args) > 1 {
			return fmt.Errorf("unexpected arguments: %v", args)
		}
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	for _, e := range cws.Entries() {
		value := e.Value
		if value == "" {
			value = "(empty)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, value, e.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(cws.Files) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	if len(cws.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range cws.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}
	return nil
}

// logsCommand prints the latest run log for the working directory.
func logsCommand(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("todo logs", flag.ContinueOnError)
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if cfg.LogDir == "" {
		fmt.Fprintf(w, "Run logs are disabled. Set log_dir (e.g. %s) to enable them.\n", appdir.LogDirPath("~"))
		return nil
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.WorkDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(w, "No log files found.")
		return nil
	}

	return logging.TailLog(w, logPath, *n)
}
