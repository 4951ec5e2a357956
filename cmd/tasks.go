package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/dailyboard/internal/board"
	"github.com/nibzard/dailyboard/internal/config"
	"github.com/nibzard/dailyboard/internal/messages"
)

// ErrTaskNotFound is returned when an id matches no task on the board.
var ErrTaskNotFound = errors.New("task not found")

const clearQuestion = "Are you sure you want to clear all tasks? This cannot be undone."

func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	content := strings.Join(args, " ")

	s, err := openSession(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	task, added, err := s.store.Add(ctx, content)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintln(stdout, "nothing to add")
		return nil
	}
	fmt.Fprintf(stdout, "Added %s: %s\n", task.ID, task.Content)
	return nil
}

func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dailyboard rm <id>")
	}
	id := args[0]

	s, err := openSession(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	status, ok := s.store.Locate(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if _, err := s.store.Remove(ctx, id, status); err != nil {
		return fmt.Errorf("%s: %w", messages.RemoveFailed, err)
	}
	fmt.Fprintf(stdout, "Removed %s from %s\n", id, status.Title())
	return nil
}

func mvCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: dailyboard mv <id> <status>")
	}
	id := args[0]
	to, err := board.ParseStatus(args[1])
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	from, ok := s.store.Locate(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	moved, err := s.store.Move(ctx, id, from, to)
	if err != nil {
		return fmt.Errorf("%s: %w", messages.UpdateFailed, err)
	}
	if !moved {
		fmt.Fprintf(stdout, "%s is already in %s\n", id, to.Title())
		return nil
	}
	fmt.Fprintf(stdout, "Moved %s to %s\n", id, to.Title())
	if to == board.StatusDone {
		fmt.Fprintln(stdout, messages.Random(messages.Success))
	}
	return nil
}

func clearCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailyboard clear", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	fs.BoolVar(yes, "y", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if cfg.ConfirmClear && !*yes && !confirm(stdin, stdout, clearQuestion) {
		fmt.Fprintln(stdout, "Aborted.")
		return nil
	}

	s, err := openSession(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Cleared all tasks.")
	return nil
}

// confirm asks question on w and reports whether the answer read from r is yes.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N] ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(w)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailyboard ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print the board snapshot as JSON")
	showIDs := fs.Bool("ids", true, "Show task ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	statuses := board.Statuses()
	if fs.NArg() == 1 {
		status, err := board.ParseStatus(fs.Arg(0))
		if err != nil {
			return err
		}
		statuses = []board.Status{status}
	}

	s, err := openSession(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	state := s.store.Snapshot()
	if *asJSON {
		data, err := board.EncodeSnapshot(state)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	for i, status := range statuses {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		printColumn(stdout, status, state.List(status), *showIDs)
	}
	return nil
}

func printColumn(w io.Writer, status board.Status, tasks []board.Task, showIDs bool) {
	fmt.Fprintf(w, "%s (%d)\n", status.Title(), len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for _, task := range tasks {
		if showIDs {
			fmt.Fprintf(w, "  - %s  [%s]\n", task.Content, task.ID)
			continue
		}
		fmt.Fprintf(w, "  - %s\n", task.Content)
	}
}

func statsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailyboard stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print statistics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	stats := s.store.Stats()
	if *asJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		_, err = stdout.Write(append(data, '\n'))
		return err
	}

	fmt.Fprintf(stdout, "Total:           %d\n", stats.Total)
	fmt.Fprintf(stdout, "In Progress:     %d\n", stats.InProgress)
	fmt.Fprintf(stdout, "Completed:       %d\n", stats.Completed)
	fmt.Fprintf(stdout, "Pending:         %d\n", stats.Pending)
	fmt.Fprintf(stdout, "Completion Rate: %d%%\n", stats.CompletionRate)
	return nil
}
