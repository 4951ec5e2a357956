// Package ui provides the interactive terminal board.
package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/dailyboard/internal/board"
	"github.com/nibzard/dailyboard/internal/dnd"
	"github.com/nibzard/dailyboard/internal/messages"
)

// ErrNotTTY is returned when the board is started without a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// flashTTL is how long a notice stays on screen.
const flashTTL = 3 * time.Second

// Options configures the board view.
type Options struct {
	Logger       *log.Logger
	Mouse        bool
	ConfirmClear bool
	// Picker chooses notices. Nil uses a time-seeded picker.
	Picker *messages.Picker
}

// RunBoard starts the interactive board on store until the user quits or
// ctx is cancelled.
func RunBoard(ctx context.Context, store *board.Store, opts Options) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}
	return runProgram(ctx, newBoardModel(ctx, store, opts), opts.Mouse)
}

func runProgram(ctx context.Context, model *boardModel, mouse bool) error {
	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	_, err := tea.NewProgram(model, programOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type boardModel struct {
	ctx    context.Context
	store  *board.Store
	drag   *dnd.Session
	picker *messages.Picker
	logger *log.Logger

	input        textinput.Model
	confirmClear bool
	confirming   bool
	showHelp     bool

	// Selection is a column index into board.Statuses and a row in it.
	col int
	row int

	// hovered is the column under the pointer during a mouse drag.
	hovered board.Status

	flash     string
	flashKind messages.Kind
	flashSeq  int

	width int
}

type flashExpiredMsg struct {
	seq int
}

func newBoardModel(ctx context.Context, store *board.Store, opts Options) *boardModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	picker := opts.Picker
	if picker == nil {
		picker = messages.NewPicker(nil)
	}

	input := textinput.New()
	input.Placeholder = "Add a new task for today"
	input.Prompt = "+ "
	input.CharLimit = 0
	input.Width = defaultColumnWidth*3 - 4

	return &boardModel{
		ctx:          ctx,
		store:        store,
		drag:         dnd.NewSession(store, logger),
		picker:       picker,
		logger:       logger,
		input:        input,
		confirmClear: opts.ConfirmClear,
	}
}

func (m *boardModel) Init() tea.Cmd {
	return nil
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(10, m.columnWidth()*3-4)
		return m, nil
	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.input.Focused():
			return m, m.handleInputKey(msg)
		case m.confirming:
			return m, m.handleConfirmKey(msg)
		case m.drag.Active():
			return m, m.handleDragKey(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return nil
	case "a", "i":
		m.showHelp = false
		return m.input.Focus()
	case "left", "h":
		m.moveSelection(-1, 0)
	case "right", "l":
		m.moveSelection(1, 0)
	case "up", "k":
		m.moveSelection(0, -1)
	case "down", "j":
		m.moveSelection(0, 1)
	case "x", "delete":
		return m.removeSelected()
	case "C":
		if !m.confirmClear {
			return m.clearAll()
		}
		m.confirming = true
	case " ":
		m.pickUp()
	}
	return nil
}

func (m *boardModel) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		return nil
	case tea.KeyEnter:
		return m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *boardModel) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	m.confirming = false
	if msg.String() == "y" || msg.String() == "Y" {
		return m.clearAll()
	}
	return nil
}

func (m *boardModel) handleDragKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.drag.DragEnd()
	case "left", "h":
		m.dragAcross(-1)
	case "right", "l":
		m.dragAcross(1)
	case " ", "enter":
		target := m.drag.Over()
		if target == "" {
			m.drag.DragEnd()
			return nil
		}
		return m.dropOn(target)
	case "q":
		m.drag.DragEnd()
		return tea.Quit
	}
	return nil
}

// pickUp starts a keyboard drag of the selected card.
func (m *boardModel) pickUp() {
	task, status, ok := m.selected()
	if !ok {
		return
	}
	if err := m.drag.DragStart(task.ID, status); err != nil {
		m.logger.Error("failed to start drag", "id", task.ID, "err", err)
		return
	}
	m.drag.DragOver(status)
}

// dragAcross moves the keyboard drop target one column left or right.
func (m *boardModel) dragAcross(delta int) {
	statuses := board.Statuses()
	current := m.drag.Over()
	idx := statusIndex(current)
	if idx < 0 {
		if src, ok := m.drag.Source(); ok {
			idx = statusIndex(src)
		}
	}
	next := clamp(idx+delta, 0, len(statuses)-1)
	if current != "" {
		m.drag.DragLeave(current)
	}
	m.drag.DragOver(statuses[next])
}

// dropOn drops the card in transfer onto target and ends the drag.
func (m *boardModel) dropOn(target board.Status) tea.Cmd {
	taskID := m.drag.Dragging()
	defer m.drag.DragEnd()

	moved, err := m.drag.Drop(m.ctx, target)
	if err != nil {
		m.logger.Error("failed to move task", "id", taskID, "to", target, "err", err)
		return m.setFlash(messages.Error, messages.UpdateFailed)
	}
	if !moved {
		return nil
	}
	m.selectTask(taskID)
	if target == board.StatusDone {
		return m.setFlash(messages.Success, m.picker.Pick(messages.Success))
	}
	return nil
}

func (m *boardModel) submit() tea.Cmd {
	task, added, err := m.store.Add(m.ctx, m.input.Value())
	if err != nil {
		m.logger.Error("failed to add task", "err", err)
		return m.setFlash(messages.Error, messages.UpdateFailed)
	}
	m.input.SetValue("")
	if !added {
		return nil
	}
	m.selectTask(task.ID)
	return nil
}

func (m *boardModel) removeSelected() tea.Cmd {
	task, status, ok := m.selected()
	if !ok {
		return nil
	}
	if _, err := m.store.Remove(m.ctx, task.ID, status); err != nil {
		m.logger.Error("failed to remove task", "id", task.ID, "err", err)
		return m.setFlash(messages.Error, messages.RemoveFailed)
	}
	m.clampSelection()
	return nil
}

func (m *boardModel) clearAll() tea.Cmd {
	if err := m.store.ClearAll(m.ctx); err != nil {
		m.logger.Error("failed to clear board", "err", err)
		return m.setFlash(messages.Error, messages.UpdateFailed)
	}
	m.row = 0
	return nil
}

func (m *boardModel) setFlash(kind messages.Kind, text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	m.flashKind = kind
	seq := m.flashSeq
	return tea.Tick(flashTTL, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

// handleMouse maps pointer events onto the drag session. A left press on a
// card starts a drag, motion tracks the column under the pointer, and the
// release drops onto it.
func (m *boardModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.showHelp || m.confirming {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		status, row, ok := m.cardAt(msg.X, msg.Y)
		if !ok {
			return nil
		}
		tasks := m.store.Snapshot().List(status)
		m.col, m.row = statusIndex(status), row
		if err := m.drag.DragStart(tasks[row].ID, status); err != nil {
			m.logger.Error("failed to start drag", "id", tasks[row].ID, "err", err)
			return nil
		}
		m.hover(status, true)
	case tea.MouseActionMotion:
		if !m.drag.Active() {
			return nil
		}
		status, ok := m.columnAt(msg.X, msg.Y)
		m.hover(status, ok)
	case tea.MouseActionRelease:
		if !m.drag.Active() {
			return nil
		}
		status, ok := m.columnAt(msg.X, msg.Y)
		m.hovered = ""
		if !ok {
			m.drag.DragEnd()
			return nil
		}
		return m.dropOn(status)
	}
	return nil
}

func (m *boardModel) hover(status board.Status, ok bool) {
	if m.hovered != "" && (!ok || m.hovered != status) {
		m.drag.DragLeave(m.hovered)
		m.hovered = ""
	}
	if ok && m.drag.DragOver(status) {
		m.hovered = status
	}
}

func (m *boardModel) selected() (board.Task, board.Status, bool) {
	status := board.Statuses()[m.col]
	tasks := m.store.Snapshot().List(status)
	if m.row < 0 || m.row >= len(tasks) {
		return board.Task{}, status, false
	}
	return tasks[m.row], status, true
}

func (m *boardModel) selectTask(id string) {
	state := m.store.Snapshot()
	if status, idx, ok := state.Find(id); ok {
		m.col, m.row = statusIndex(status), idx
	}
}

func (m *boardModel) moveSelection(dc, dr int) {
	m.col = clamp(m.col+dc, 0, len(board.Statuses())-1)
	m.row += dr
	m.clampSelection()
}

func (m *boardModel) clampSelection() {
	n := len(m.store.Snapshot().List(board.Statuses()[m.col]))
	m.row = clamp(m.row, 0, max(0, n-1))
}

func statusIndex(status board.Status) int {
	for i, s := range board.Statuses() {
		if s == status {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
