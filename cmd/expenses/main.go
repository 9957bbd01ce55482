package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"expenses/internal/cache"
	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

var errUsage = errors.New("usage")

// app carries what every subcommand needs.
type app struct {
	cfg        *config.Config
	logger     *applog.Logger
	svc        *services.ExpenseService
	aggregates *cache.LRUCache[core.Summary]
	stdin      io.Reader
	stdout     io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"serve":   {"run the local JSON API until interrupted", runServe},
	"add":     {"record a new expense", runAdd},
	"list":    {"list every expense, most recent first", runList},
	"edit":    {"change an existing expense", runEdit},
	"delete":  {"permanently remove an expense", runDelete},
	"total":   {"print the sum of all expenses", runTotal},
	"summary": {"print totals per category", runSummary},
	"seed":    {"insert random demo expenses", runSeed},
}

func main() {
	cli.LoadEnvFile()

	err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		usage(stdout)
		return nil
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return errUsage
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	// Logs go to stderr so command output on stdout stays clean.
	logger := cli.SetupLogger(cfg.LogLevel, stderr).WithComponent(applog.ComponentCLI)

	svc, aggregates, err := cli.InitService(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logger.Error("Failed to close store", "error", cerr)
		}
	}()

	a := &app{
		cfg:        cfg,
		logger:     logger,
		svc:        svc,
		aggregates: aggregates,
		stdin:      stdin,
		stdout:     stdout,
	}
	return cmd.run(ctx, a, args[1:])
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: expenses <command> [flags]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-8s %s\n", name, commands[name].summary)
	}
	b.WriteString("\nRun 'expenses <command> -h' for command flags.\n")
	fmt.Fprint(w, b.String())
}
