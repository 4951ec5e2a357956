package board

import (
	"fmt"
	"strings"
)

// Status names a board column.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inProgress"
	StatusDone       Status = "done"
)

// Statuses returns the columns in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the three columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Title returns the column heading.
func (s Status) Title() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseStatus resolves user input to a Status. It is case-insensitive and
// ignores '-', '_' and spaces, so "in-progress" and "In Progress" both work.
func ParseStatus(input string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "todo":
		return StatusTodo, nil
	case "inprogress", "doing", "progress":
		return StatusInProgress, nil
	case "done", "completed":
		return StatusDone, nil
	}
	return "", fmt.Errorf("%w: %q (expected todo|inProgress|done)", ErrUnknownStatus, input)
}

// Task is a single card on the board.
type Task struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// State is the full board: three ordered lists of tasks.
type State struct {
	Todo       []Task `json:"todo"`
	InProgress []Task `json:"inProgress"`
	Done       []Task `json:"done"`
}

// List returns the tasks in the given column, or nil for an unknown status.
func (s State) List(status Status) []Task {
	switch status {
	case StatusTodo:
		return s.Todo
	case StatusInProgress:
		return s.InProgress
	case StatusDone:
		return s.Done
	}
	return nil
}

func (s *State) setList(status Status, tasks []Task) {
	switch status {
	case StatusTodo:
		s.Todo = tasks
	case StatusInProgress:
		s.InProgress = tasks
	case StatusDone:
		s.Done = tasks
	}
}

// Len returns the number of tasks across all columns.
func (s State) Len() int {
	return len(s.Todo) + len(s.InProgress) + len(s.Done)
}

// Find returns the column and index holding id.
func (s State) Find(id string) (Status, int, bool) {
	for _, status := range Statuses() {
		if i := indexOf(s.List(status), id); i >= 0 {
			return status, i, true
		}
	}
	return "", -1, false
}

// Clone returns a deep copy. Empty columns are non-nil so they encode as [].
func (s State) Clone() State {
	return State{
		Todo:       cloneTasks(s.Todo),
		InProgress: cloneTasks(s.InProgress),
		Done:       cloneTasks(s.Done),
	}
}

// Equal reports whether both states hold the same tasks in the same order.
func (s State) Equal(other State) bool {
	for _, status := range Statuses() {
		a, b := s.List(status), other.List(status)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// checkUnique verifies that every task id appears in at most one place.
func (s *State) checkUnique() error {
	seen := make(map[string]Status, s.Len())
	for _, status := range Statuses() {
		for i, task := range s.List(status) {
			if prev, ok := seen[task.ID]; ok {
				return &SnapshotError{
					Path: fmt.Sprintf("%s[%d].id", status, i),
					Err:  fmt.Errorf("duplicate task id %q (already in %s)", task.ID, prev),
				}
			}
			seen[task.ID] = status
		}
	}
	return nil
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

func indexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func removeAt(tasks []Task, i int) []Task {
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}
