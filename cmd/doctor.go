package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/dailyboard/internal/board"
	"github.com/nibzard/dailyboard/internal/config"
	"github.com/nibzard/dailyboard/internal/storage"
)

// ErrDoctorFailed is returned when doctor finds at least one problem.
var ErrDoctorFailed = errors.New("doctor checks failed")

func doctorCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailyboard doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Fprintln(stdout, "Dailyboard Doctor")
	fmt.Fprintln(stdout, "=================")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintf(stdout, "Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Config:")
	if !checkConfig(cfg) {
		allOK = false
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Storage:")
	backend, err := storage.Open(ctx, storageOptions(cfg))
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ %s: %v\n", cfg.Storage, err)
		fmt.Fprintln(stdout)
		return finishDoctor(false)
	}
	defer backend.Close()
	fmt.Fprintf(stdout, "  ✅ %s\n", backend.Describe())
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Snapshot:")
	if !checkSnapshot(ctx, backend, *verbose) {
		allOK = false
	}
	fmt.Fprintln(stdout)

	return finishDoctor(allOK)
}

func finishDoctor(allOK bool) error {
	if !allOK {
		fmt.Fprintln(stdout, "❌ Some checks failed.")
		return ErrDoctorFailed
	}
	fmt.Fprintln(stdout, "✅ All checks passed.")
	return nil
}

func checkConfig(cfg *config.Config) bool {
	ok := true
	if storage.NormalizeBackend(cfg.Storage) == "" {
		fmt.Fprintf(stdout, "  ❌ Storage: %s (expected %v)\n", cfg.Storage, storage.Backends())
		ok = false
	} else {
		fmt.Fprintf(stdout, "  ✅ Storage: %s\n", storage.NormalizeBackend(cfg.Storage))
	}
	fmt.Fprintf(stdout, "  ✅ Slot key: %s\n", cfg.SlotKey)

	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(stdout, "  ⚠️  Log level: %s (falling back to info)\n", cfg.LogLevel)
	} else {
		fmt.Fprintf(stdout, "  ✅ Log level: %s\n", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
		fmt.Fprintf(stdout, "  ✅ Log format: %s\n", cfg.LogFormat)
	default:
		fmt.Fprintf(stdout, "  ⚠️  Log format: %s (falling back to text)\n", cfg.LogFormat)
	}
	fmt.Fprintf(stdout, "  ✅ Log dir: %s\n", cfg.LogDir)
	return ok
}

// checkSnapshot reads the stored snapshot and validates it against the
// board schema and the unique-id rule.
func checkSnapshot(ctx context.Context, backend storage.Backend, verbose bool) bool {
	data, err := backend.Load(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Read failed: %v\n", err)
		return false
	}
	if data == nil {
		fmt.Fprintln(stdout, "  ⚠️  No snapshot stored yet (the board starts empty)")
		return true
	}

	if errs := board.ValidateSnapshot(data); len(errs) > 0 {
		fmt.Fprintf(stdout, "  ❌ Schema validation failed (%d problems)\n", len(errs))
		for _, err := range errs {
			fmt.Fprintf(stdout, "     - %v\n", err)
		}
		return false
	}
	state, err := board.DecodeSnapshot(data, false)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		return false
	}

	stats := board.ComputeStats(state)
	fmt.Fprintf(stdout, "  ✅ Valid (%d tasks, %d%% complete)\n", stats.Total, stats.CompletionRate)
	if verbose {
		for _, status := range board.Statuses() {
			fmt.Fprintf(stdout, "     %s: %d\n", status.Title(), len(state.List(status)))
		}
	}
	return true
}

func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("dailyboard config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	fmt.Fprintln(stdout, "Effective configuration:")
	fmt.Fprintln(stdout)
	for _, field := range config.Fields() {
		fmt.Fprintf(stdout, "  %-16s = %-40s (%s)\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	fmt.Fprintln(stdout)
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "No config files found.")
		return nil
	}
	fmt.Fprintln(stdout, "Config files:")
	for _, file := range cws.Files {
		fmt.Fprintf(stdout, "  %s\n", file)
	}
	return nil
}
