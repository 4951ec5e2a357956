package ui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/dailyboard/internal/board"
	"github.com/nibzard/dailyboard/internal/messages"
	"github.com/nibzard/dailyboard/internal/storage"
)

// flakySlot wraps a memory slot and fails writes on demand.
type flakySlot struct {
	*storage.MemorySlot
	fail bool
}

func (f *flakySlot) Save(ctx context.Context, data []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemorySlot.Save(ctx, data)
}

func (f *flakySlot) Delete(ctx context.Context) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemorySlot.Delete(ctx)
}

func sequentialIDs() board.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newTestModel(t *testing.T, opts Options, contents ...string) (*boardModel, *flakySlot) {
	t.Helper()
	slot := &flakySlot{MemorySlot: storage.NewMemorySlot()}
	store := board.NewStore(slot, board.WithIDFunc(sequentialIDs()))
	for _, c := range contents {
		if _, _, err := store.Add(context.Background(), c); err != nil {
			t.Fatalf("seed %q: %v", c, err)
		}
	}
	if opts.Picker == nil {
		opts.Picker = messages.NewPicker(rand.New(rand.NewSource(1)))
	}
	return newBoardModel(context.Background(), store, opts), slot
}

func send(m *boardModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

// Card j of column i sits at x inside [i*31, i*31+30) and y = 8+j with the
// default column width.
func cardPos(col, row int) (int, int) {
	return col*(defaultColumnWidth+columnGap) + 4, headerHeight + cardOffset + row
}

func ids(tasks []board.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestViewEmptyBoard(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	view := m.View()

	for _, want := range []string{
		boardTitle,
		"Total: 0",
		"Completion Rate: 0%",
		"dd a new task for today",
		"To Do (0)",
		"In Progress (0)",
		"Done (0)",
		tipLine,
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if got := strings.Count(view, emptyColumn); got != 3 {
		t.Errorf("empty placeholders: got %d, want 3", got)
	}
}

func TestViewLayoutMatchesHitTesting(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "first task", "second task")
	lines := strings.Split(m.View(), "\n")

	if !strings.HasPrefix(lines[headerHeight], "╭") {
		t.Fatalf("line %d should open the columns, got %q", headerHeight, lines[headerHeight])
	}
	if !strings.Contains(lines[headerHeight+cardOffset], "first task") {
		t.Errorf("first card line: got %q", lines[headerHeight+cardOffset])
	}
	if !strings.Contains(lines[headerHeight+cardOffset+1], "second task") {
		t.Errorf("second card line: got %q", lines[headerHeight+cardOffset+1])
	}
	if !strings.Contains(m.View(), "Total: 2") {
		t.Error("stats should count seeded tasks")
	}
}

func TestHitTesting(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "only")

	tests := []struct {
		name   string
		x, y   int
		status board.Status
		ok     bool
	}{
		{"header", 2, 1, "", false},
		{"todo border", 0, headerHeight, board.StatusTodo, true},
		{"todo card", 4, headerHeight + cardOffset, board.StatusTodo, true},
		{"gap", defaultColumnWidth, headerHeight + 2, "", false},
		{"in progress", defaultColumnWidth + columnGap + 1, headerHeight + 2, board.StatusInProgress, true},
		{"done right edge", 3*defaultColumnWidth + 2*columnGap - 1, headerHeight + 2, board.StatusDone, true},
		{"right of board", 3*defaultColumnWidth + 2*columnGap, headerHeight + 2, "", false},
		{"below board", 4, headerHeight + m.boardHeight(), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := m.columnAt(tt.x, tt.y)
			if ok != tt.ok || status != tt.status {
				t.Errorf("columnAt(%d, %d): got (%q, %v), want (%q, %v)", tt.x, tt.y, status, ok, tt.status, tt.ok)
			}
		})
	}

	x, y := cardPos(0, 0)
	if status, row, ok := m.cardAt(x, y); !ok || status != board.StatusTodo || row != 0 {
		t.Errorf("cardAt on card: got (%q, %d, %v)", status, row, ok)
	}
	if _, _, ok := m.cardAt(x, y+1); ok {
		t.Error("cardAt below the last card should miss")
	}
	if _, _, ok := m.cardAt(x, headerHeight+1); ok {
		t.Error("cardAt on the column title should miss")
	}
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	send(m, tea.WindowSizeMsg{Width: 122, Height: 40})
	if got := m.columnWidth(); got != 40 {
		t.Errorf("columnWidth: got %d, want 40", got)
	}
	send(m, tea.WindowSizeMsg{Width: 20, Height: 40})
	if got := m.columnWidth(); got != minColumnWidth {
		t.Errorf("columnWidth: got %d, want %d", got, minColumnWidth)
	}
}

func TestAddLongTaskThroughInput(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	long := strings.Repeat("plan the offsite ", 50)

	send(m, runes("a"), runes(long), key(tea.KeyEnter))

	todo := m.store.Snapshot().Todo
	if len(todo) != 1 || todo[0].Content != long {
		t.Fatalf("long content not kept intact: got %d tasks", len(todo))
	}
}

func TestAddThroughInput(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	send(m, runes("a"))
	if !m.input.Focused() {
		t.Fatal("a should focus the input")
	}
	send(m, runes("Buy milk"), key(tea.KeyEnter))

	todo := m.store.Snapshot().Todo
	if len(todo) != 1 || todo[0].Content != "Buy milk" {
		t.Fatalf("todo: got %+v", todo)
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	if !m.input.Focused() {
		t.Error("input should stay focused after submit")
	}

	// Keys that are commands elsewhere are plain text while typing.
	send(m, runes("q"), key(tea.KeyEnter))
	if got := len(m.store.Snapshot().Todo); got != 2 {
		t.Errorf("todo after typing q: got %d tasks, want 2", got)
	}

	send(m, runes("   "), key(tea.KeyEnter))
	if got := len(m.store.Snapshot().Todo); got != 2 {
		t.Errorf("blank input should not add, got %d tasks", got)
	}

	send(m, key(tea.KeyEsc))
	if m.input.Focused() {
		t.Error("esc should leave the input")
	}
}

func TestRemoveSelected(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "one", "two", "three")

	send(m, key(tea.KeyDown), runes("x"))
	if got := ids(m.store.Snapshot().Todo); !slices.Equal(got, []string{"t1", "t3"}) {
		t.Fatalf("todo after remove: got %v", got)
	}

	send(m, key(tea.KeyDown), key(tea.KeyDelete))
	if got := ids(m.store.Snapshot().Todo); !slices.Equal(got, []string{"t1"}) {
		t.Fatalf("todo after delete: got %v", got)
	}
	if m.row != 0 {
		t.Errorf("selection should clamp to the last card, got row %d", m.row)
	}

	// Removing from an empty column is a no-op.
	send(m, key(tea.KeyRight), runes("x"))
	if got := m.store.Snapshot().Len(); got != 1 {
		t.Errorf("tasks: got %d, want 1", got)
	}
}

func TestKeyboardDrag(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "ship it")

	send(m, key(tea.KeySpace))
	if !m.drag.InTransfer("t1") {
		t.Fatal("space should pick up the selected card")
	}
	if m.drag.Over() != board.StatusTodo {
		t.Errorf("initial target: got %q, want todo", m.drag.Over())
	}
	if !strings.Contains(m.View(), `Moving "ship it" to To Do`) {
		t.Errorf("footer should describe the drag:\n%s", m.View())
	}

	send(m, key(tea.KeyRight), key(tea.KeyRight), key(tea.KeyRight))
	if m.drag.Over() != board.StatusDone {
		t.Fatalf("target after right x3: got %q, want done", m.drag.Over())
	}

	cmd := send(m, key(tea.KeyEnter))
	state := m.store.Snapshot()
	if got := ids(state.Done); !slices.Equal(got, []string{"t1"}) {
		t.Fatalf("done: got %v", got)
	}
	if m.drag.Active() || m.drag.Over() != "" {
		t.Error("drag should end after drop")
	}
	if cmd == nil {
		t.Error("drop into done should schedule the notice expiry")
	}
	if !slices.Contains(messages.All(messages.Success), m.flash) {
		t.Errorf("flash %q should come from the success pool", m.flash)
	}
	if m.col != 2 || m.row != 0 {
		t.Errorf("selection should follow the card, got col %d row %d", m.col, m.row)
	}
}

func TestKeyboardDragCancel(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "stay")

	send(m, key(tea.KeySpace), key(tea.KeyRight), key(tea.KeyEsc))
	if m.drag.Active() {
		t.Error("esc should cancel the drag")
	}
	if got := ids(m.store.Snapshot().Todo); !slices.Equal(got, []string{"t1"}) {
		t.Errorf("todo after cancel: got %v", got)
	}

	// Dropping back on the source column changes nothing.
	send(m, key(tea.KeySpace), key(tea.KeySpace))
	if got := ids(m.store.Snapshot().Todo); !slices.Equal(got, []string{"t1"}) {
		t.Errorf("todo after same-column drop: got %v", got)
	}
	if m.flash != "" {
		t.Errorf("no-op drop should not flash, got %q", m.flash)
	}
}

func TestMouseDrag(t *testing.T) {
	m, _ := newTestModel(t, Options{Mouse: true}, "alpha", "beta")

	x, y := cardPos(0, 1)
	send(m, mouse(tea.MouseActionPress, x, y))
	if !m.drag.InTransfer("t2") {
		t.Fatalf("press should start dragging t2, dragging %q", m.drag.Dragging())
	}
	if m.col != 0 || m.row != 1 {
		t.Errorf("press should select the card, got col %d row %d", m.col, m.row)
	}

	ox, oy := cardPos(1, 0)
	send(m, mouse(tea.MouseActionMotion, ox, oy))
	if m.drag.Over() != board.StatusInProgress {
		t.Fatalf("motion target: got %q, want inProgress", m.drag.Over())
	}

	// Leaving the board clears the highlight.
	send(m, mouse(tea.MouseActionMotion, ox, 0))
	if m.drag.Over() != "" {
		t.Errorf("highlight after leaving: got %q", m.drag.Over())
	}

	send(m, mouse(tea.MouseActionMotion, ox, oy), mouse(tea.MouseActionRelease, ox, oy))
	state := m.store.Snapshot()
	if got := ids(state.InProgress); !slices.Equal(got, []string{"t2"}) {
		t.Fatalf("inProgress: got %v", got)
	}
	if got := ids(state.Todo); !slices.Equal(got, []string{"t1"}) {
		t.Errorf("todo: got %v", got)
	}
	if m.drag.Active() {
		t.Error("release should end the drag")
	}
	if m.flash != "" {
		t.Errorf("moving to in progress should not flash, got %q", m.flash)
	}
}

func TestMouseReleaseOutsideBoard(t *testing.T) {
	m, _ := newTestModel(t, Options{Mouse: true}, "alpha")

	x, y := cardPos(0, 0)
	send(m, mouse(tea.MouseActionPress, x, y), mouse(tea.MouseActionRelease, x, 1))

	if m.drag.Active() {
		t.Error("drag should end on release")
	}
	if got := ids(m.store.Snapshot().Todo); !slices.Equal(got, []string{"t1"}) {
		t.Errorf("todo: got %v", got)
	}
}

func TestMouseIgnoresEmptyAndOtherButtons(t *testing.T) {
	m, _ := newTestModel(t, Options{Mouse: true}, "alpha")

	x, y := cardPos(1, 0)
	send(m, mouse(tea.MouseActionPress, x, y))
	if m.drag.Active() {
		t.Error("press on an empty column should not start a drag")
	}

	x, y = cardPos(0, 0)
	send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if m.drag.Active() {
		t.Error("right button should not start a drag")
	}

	send(m, mouse(tea.MouseActionRelease, x, y))
	if got := m.store.Snapshot().Len(); got != 1 {
		t.Errorf("tasks: got %d", got)
	}
}

func TestClearAllConfirmation(t *testing.T) {
	m, _ := newTestModel(t, Options{ConfirmClear: true}, "one", "two")

	send(m, runes("C"))
	if !m.confirming {
		t.Fatal("C should ask for confirmation")
	}
	if !strings.Contains(m.View(), "Are you sure you want to clear all tasks?") {
		t.Error("view should show the confirmation prompt")
	}

	send(m, runes("n"))
	if m.confirming || m.store.Snapshot().Len() != 2 {
		t.Fatal("anything but y should cancel")
	}

	send(m, runes("C"), runes("y"))
	if got := m.store.Snapshot().Len(); got != 0 {
		t.Errorf("tasks after confirm: got %d, want 0", got)
	}
}

func TestClearAllWithoutConfirmation(t *testing.T) {
	m, _ := newTestModel(t, Options{ConfirmClear: false}, "one")

	send(m, runes("C"))
	if m.confirming {
		t.Error("confirmation disabled, C should clear directly")
	}
	if got := m.store.Snapshot().Len(); got != 0 {
		t.Errorf("tasks: got %d, want 0", got)
	}
}

func TestPersistFailureFlashes(t *testing.T) {
	t.Run("remove", func(t *testing.T) {
		m, slot := newTestModel(t, Options{}, "keep me")
		slot.fail = true

		send(m, runes("x"))
		if m.flash != messages.RemoveFailed {
			t.Errorf("flash: got %q, want %q", m.flash, messages.RemoveFailed)
		}
		if m.store.Snapshot().Len() != 1 {
			t.Error("failed remove should leave the board unchanged")
		}
	})

	t.Run("move", func(t *testing.T) {
		m, slot := newTestModel(t, Options{}, "stuck")
		slot.fail = true

		send(m, key(tea.KeySpace), key(tea.KeyRight), key(tea.KeyEnter))
		if m.flash != messages.UpdateFailed {
			t.Errorf("flash: got %q, want %q", m.flash, messages.UpdateFailed)
		}
		if got := ids(m.store.Snapshot().Todo); !slices.Equal(got, []string{"t1"}) {
			t.Errorf("todo: got %v", got)
		}
		if m.drag.Active() {
			t.Error("drag should end even when the move fails")
		}
	})

	t.Run("add", func(t *testing.T) {
		m, slot := newTestModel(t, Options{})
		slot.fail = true

		send(m, runes("a"), runes("lost"), key(tea.KeyEnter))
		if m.flash != messages.UpdateFailed {
			t.Errorf("flash: got %q, want %q", m.flash, messages.UpdateFailed)
		}
		if m.input.Value() != "lost" {
			t.Errorf("input should keep the text for a retry, got %q", m.input.Value())
		}
	})
}

func TestFlashExpiry(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m.setFlash(messages.Error, "first")
	stale := m.flashSeq
	m.setFlash(messages.Error, "second")

	send(m, flashExpiredMsg{seq: stale})
	if m.flash != "second" {
		t.Errorf("stale expiry should not clear a newer notice, got %q", m.flash)
	}
	send(m, flashExpiredMsg{seq: m.flashSeq})
	if m.flash != "" {
		t.Errorf("flash should clear, got %q", m.flash)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	send(m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("? should show help")
	}
	send(m, runes("?"))
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("second ? should hide help")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	for _, msg := range []tea.KeyMsg{runes("q"), key(tea.KeyCtrlC)} {
		cmd := send(m, msg)
		if cmd == nil {
			t.Fatalf("%s should quit", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", msg)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&strings.Builder{}) {
		t.Error("a builder is not a terminal")
	}
}
