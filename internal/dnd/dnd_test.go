package dnd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/dailyboard/internal/board"
)

type moveCall struct {
	id       string
	from, to board.Status
}

type stubMover struct {
	calls []moveCall
	err   error
}

func (m *stubMover) Move(ctx context.Context, id string, from, to board.Status) (bool, error) {
	m.calls = append(m.calls, moveCall{id, from, to})
	if m.err != nil {
		return false, m.err
	}
	return true, nil
}

func TestPayloadRoundTrip(t *testing.T) {
	p := Payload{TaskID: "abc", SourceStatus: board.StatusInProgress}
	data, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if data != `{"taskId":"abc","sourceStatus":"inProgress"}` {
		t.Errorf("Encode: got %s", data)
	}
	got, err := DecodePayload(data)
	if err != nil || got != p {
		t.Errorf("DecodePayload: got %+v, %v", got, err)
	}
}

func TestDecodePayloadRejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"not json",
		`{"sourceStatus":"todo"}`,
		`{"taskId":"a","sourceStatus":"archived"}`,
		`{"taskId":"a"}`,
	} {
		if _, err := DecodePayload(raw); err == nil {
			t.Errorf("DecodePayload(%q): expected error", raw)
		}
	}
}

func TestSessionDragAndDrop(t *testing.T) {
	ctx := context.Background()
	mover := &stubMover{}
	s := NewSession(mover, nil)

	if s.Active() {
		t.Fatal("new session should be idle")
	}
	if err := s.DragStart("t1", board.StatusTodo); err != nil {
		t.Fatal(err)
	}
	if !s.InTransfer("t1") || s.InTransfer("t2") {
		t.Error("InTransfer mismatch")
	}
	if src, ok := s.Source(); !ok || src != board.StatusTodo {
		t.Errorf("Source: got %q %v", src, ok)
	}

	if !s.DragOver(board.StatusInProgress) || s.Over() != board.StatusInProgress {
		t.Error("DragOver should highlight inProgress")
	}
	s.DragLeave(board.StatusDone)
	if s.Over() != board.StatusInProgress {
		t.Error("leaving another column should keep the highlight")
	}
	s.DragLeave(board.StatusInProgress)
	if s.Over() != "" {
		t.Error("DragLeave should clear the highlight")
	}

	s.DragOver(board.StatusDone)
	moved, err := s.Drop(ctx, board.StatusDone)
	if err != nil || !moved {
		t.Fatalf("Drop: moved=%v err=%v", moved, err)
	}
	if s.Over() != "" {
		t.Error("Drop should clear the highlight")
	}
	if len(mover.calls) != 1 || mover.calls[0] != (moveCall{"t1", board.StatusTodo, board.StatusDone}) {
		t.Errorf("calls: %+v", mover.calls)
	}

	s.DragEnd()
	if s.Active() || s.InTransfer("t1") {
		t.Error("DragEnd should clear the transfer mark")
	}
}

func TestSessionDropOntoSource(t *testing.T) {
	mover := &stubMover{}
	s := NewSession(mover, nil)
	s.DragStart("t1", board.StatusDone)
	moved, err := s.Drop(context.Background(), board.StatusDone)
	if err != nil || moved {
		t.Errorf("moved=%v err=%v", moved, err)
	}
	if len(mover.calls) != 0 {
		t.Errorf("mover should not be called: %+v", mover.calls)
	}
}

func TestSessionMalformedPayload(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	mover := &stubMover{}
	s := NewSession(mover, logger)

	moved, err := s.DropData(context.Background(), board.StatusDone, "{broken")
	if err != nil || moved {
		t.Errorf("moved=%v err=%v", moved, err)
	}
	if len(mover.calls) != 0 {
		t.Errorf("mover should not be called: %+v", mover.calls)
	}
	if !strings.Contains(buf.String(), "failed to process drop") {
		t.Errorf("expected drop failure to be logged, got %q", buf.String())
	}

	// Dropping with no active drag is the missing-payload case.
	moved, err = s.Drop(context.Background(), board.StatusDone)
	if err != nil || moved {
		t.Errorf("idle drop: moved=%v err=%v", moved, err)
	}
}

func TestSessionDragEndWithoutDrop(t *testing.T) {
	mover := &stubMover{}
	s := NewSession(mover, nil)
	s.DragStart("t1", board.StatusTodo)
	s.DragOver(board.StatusDone)
	s.DragEnd()

	if s.Active() || s.Over() != "" {
		t.Error("DragEnd should reset the session")
	}
	if _, ok := s.Source(); ok {
		t.Error("transfer data should be cleared")
	}
	if len(mover.calls) != 0 {
		t.Errorf("abandoned drag must not move: %+v", mover.calls)
	}
}

func TestSessionMoverError(t *testing.T) {
	mover := &stubMover{err: errors.New("persist failed")}
	s := NewSession(mover, nil)
	s.DragStart("t1", board.StatusTodo)
	if _, err := s.Drop(context.Background(), board.StatusDone); !errors.Is(err, mover.err) {
		t.Errorf("expected mover error, got %v", err)
	}
}

func TestSessionWithStore(t *testing.T) {
	ctx := context.Background()
	store := board.NewStore(&nopSlot{})
	task, _, err := store.Add(ctx, "Write report")
	if err != nil {
		t.Fatal(err)
	}

	s := NewSession(store, nil)
	s.DragStart(task.ID, board.StatusTodo)
	s.DragOver(board.StatusInProgress)
	if _, err := s.Drop(ctx, board.StatusInProgress); err != nil {
		t.Fatal(err)
	}
	s.DragEnd()

	if status, ok := store.Locate(task.ID); !ok || status != board.StatusInProgress {
		t.Errorf("task should be in progress, got %q %v", status, ok)
	}
}

type nopSlot struct{}

func (nopSlot) Load(ctx context.Context) ([]byte, error)   { return nil, nil }
func (nopSlot) Save(ctx context.Context, data []byte) error { return nil }
func (nopSlot) Delete(ctx context.Context) error            { return nil }
