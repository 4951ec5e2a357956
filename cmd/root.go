// Package cmd implements the CLI command structure for dailyboard.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/dailyboard/internal/board"
	"github.com/nibzard/dailyboard/internal/config"
	"github.com/nibzard/dailyboard/internal/logging"
	"github.com/nibzard/dailyboard/internal/storage"
	"github.com/nibzard/dailyboard/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, swapped out in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the dailyboard CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dailyboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "rm", "remove":
		return rmCommand(ctx, cfg, remainingArgs)
	case "mv", "move":
		return mvCommand(ctx, cfg, remainingArgs)
	case "clear":
		return clearCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "stats":
		return statsCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session is an opened board with its storage backend and loggers.
type session struct {
	cfg     *config.Config
	backend storage.Backend
	store   *board.Store
	logger  *log.Logger
	runLog  *logging.RunLogger
}

// openSession opens the configured backend and hydrates the board from it.
// With console set, log lines also go to stderr.
func openSession(ctx context.Context, cfg *config.Config, console bool) (*session, error) {
	s := &session{cfg: cfg}

	var writers []io.Writer
	if console {
		writers = append(writers, stderr)
	}
	runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: run log disabled: %v\n", err)
	} else {
		s.runLog = runLog
		writers = append(writers, runLog.Writer())
	}
	s.logger = logging.New(logging.Options{
		Writer:     io.MultiWriter(writers...),
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
		Prefix:     logging.Prefix,
	})

	backend, err := storage.Open(ctx, storageOptions(cfg))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	s.backend = backend
	s.logger.Debug("storage opened", "backend", backend.Describe())

	s.store = board.NewStore(backend,
		board.WithLogger(s.logger),
		board.WithSchemaValidation(cfg.ValidateSchema),
	)
	if _, err := s.store.Hydrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the backend and the run log.
func (s *session) Close() {
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Warn("closing storage", "err", err)
		}
	}
	if s.runLog != nil {
		s.runLog.Close()
	}
}

func storageOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		Backend:       cfg.Storage,
		Key:           cfg.SlotKey,
		SnapshotFile:  cfg.SnapshotFile,
		DatabaseFile:  cfg.DatabaseFile,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	}
}

// tuiCommand launches the interactive board.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailyboard tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mouse := fs.Bool("mouse", cfg.Mouse, "Enable mouse drag-and-drop")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.RunBoard(ctx, s.store, ui.Options{
		Logger:       s.logger,
		Mouse:        *mouse,
		ConfirmClear: cfg.ConfirmClear,
	})
}

// tailCommand prints the latest run log.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailyboard tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

func versionCommand() error {
	fmt.Fprintf(stdout, "dailyboard version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Dailyboard - a three-column board for today's tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dailyboard [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                   Interactive board (default command)")
	fmt.Fprintln(w, "  add <text...>         Add a task to To Do")
	fmt.Fprintln(w, "  rm <id>               Remove a task")
	fmt.Fprintln(w, "  mv <id> <status>      Move a task (todo, in-progress, done)")
	fmt.Fprintln(w, "  clear [--yes]         Remove every task")
	fmt.Fprintln(w, "  ls [--json] [status]  List tasks by column")
	fmt.Fprintln(w, "  stats [--json]        Show board statistics")
	fmt.Fprintln(w, "  doctor                Check config, storage and the stored snapshot")
	fmt.Fprintln(w, "  tail [-n N] [-f]      Print the latest run log")
	fmt.Fprintln(w, "  config [--example]    Show effective configuration")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help                  Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every option can also be set in dailyboard.toml or with a DAILYBOARD_* environment variable.")
}
