package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Slot is the single key-value location a board snapshot lives in.
type Slot interface {
	// Load returns the stored snapshot, or nil with no error when the slot
	// is empty.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	// Delete empties the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
}

// ErrSlotUnread is returned by mutations while the last Hydrate could not
// read the slot. Writing then would overwrite a snapshot that was never seen.
var ErrSlotUnread = errors.New("board snapshot was not read")

// IDFunc generates task ids.
type IDFunc func() string

// maxIDAttempts bounds retries when the id generator returns an id already
// on the board.
const maxIDAttempts = 8

// Option configures a Store.
type Option func(*Store)

// WithIDFunc replaces the default UUID generator.
func WithIDFunc(fn IDFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the logger used for hydration and mutation events.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSchemaValidation toggles JSON Schema validation during Hydrate.
func WithSchemaValidation(enabled bool) Option {
	return func(s *Store) {
		s.validate = enabled
	}
}

// Store holds the board state and mirrors it to a Slot.
type Store struct {
	mu       sync.Mutex
	slot     Slot
	state    State
	newID    IDFunc
	logger   *log.Logger
	validate bool
	readErr  error
}

// NewStore creates an empty store backed by slot. Call Hydrate to load a
// previously persisted board.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:     slot,
		state:    State{}.Clone(),
		newID:    uuid.NewString,
		logger:   log.New(io.Discard),
		validate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate replaces the current state with the persisted snapshot. It reports
// whether a snapshot was restored. An empty slot or a snapshot that cannot be
// decoded leaves the board empty and is only logged. A slot read error is
// returned, and Add, Remove and Move fail with ErrSlotUnread until a later
// Hydrate or ClearAll succeeds.
func (s *Store) Hydrate(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}.Clone()

	data, err := s.slot.Load(ctx)
	if err != nil {
		s.readErr = err
		return false, fmt.Errorf("read board snapshot: %w", err)
	}
	s.readErr = nil
	if len(data) == 0 {
		s.logger.Debug("no board snapshot, starting empty")
		return false, nil
	}

	state, err := DecodeSnapshot(data, s.validate)
	if err != nil {
		s.logger.Warn("discarding board snapshot", "err", err)
		return false, nil
	}

	s.state = state
	s.logger.Debug("board hydrated", "tasks", state.Len())
	return true, nil
}

// Add appends a new task to "todo". Blank content is ignored and reported as
// not added.
func (s *Store) Add(ctx context.Context, content string) (Task, bool, error) {
	if strings.TrimSpace(content) == "" {
		return Task{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.nextID()
	if err != nil {
		return Task{}, false, err
	}
	task := Task{ID: id, Content: content}

	next := s.state.Clone()
	next.Todo = append(next.Todo, task)
	if err := s.commit(ctx, next); err != nil {
		return Task{}, false, err
	}

	s.logger.Debug("task added", "id", task.ID)
	return task, true, nil
}

// Remove deletes the task with id from the given column.
func (s *Store) Remove(ctx context.Context, id string, status Status) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.state.List(status), id)
	if idx < 0 {
		return false, nil
	}

	next := s.state.Clone()
	next.setList(status, removeAt(next.List(status), idx))
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}

	s.logger.Debug("task removed", "id", id, "status", status)
	return true, nil
}

// Move relocates a task from one column to the end of another. Moving onto
// the same column, or moving a task that is not in from, changes nothing.
func (s *Store) Move(ctx context.Context, id string, from, to Status) (bool, error) {
	if !from.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !to.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from == to {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	source := s.state.List(from)
	idx := indexOf(source, id)
	if idx < 0 {
		return false, nil
	}
	task := source[idx]

	next := s.state.Clone()
	next.setList(from, removeAt(next.List(from), idx))
	next.setList(to, append(next.List(to), task))
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}

	s.logger.Debug("task moved", "id", id, "from", from, "to", to)
	return true, nil
}

// ClearAll empties every column and deletes the persisted snapshot.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slot.Delete(ctx); err != nil {
		return fmt.Errorf("clear board: %w", err)
	}
	s.state = State{}.Clone()
	s.readErr = nil
	s.logger.Debug("board cleared")
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Locate returns the column holding id.
func (s *Store) Locate(id string) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, _, ok := s.state.Find(id)
	return status, ok
}

// Stats returns the derived statistics for the current state.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeStats(s.state)
}

// commit persists next and makes it the current state. The caller holds mu.
func (s *Store) commit(ctx context.Context, next State) error {
	if s.readErr != nil {
		return fmt.Errorf("%w: %v", ErrSlotUnread, s.readErr)
	}
	data, err := EncodeSnapshot(next)
	if err != nil {
		return err
	}
	if err := s.slot.Save(ctx, data); err != nil {
		return fmt.Errorf("persist board: %w", err)
	}
	s.state = next
	return nil
}

func (s *Store) nextID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, _, taken := s.state.Find(id); !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate task id: no unused id after %d attempts", maxIDAttempts)
}
