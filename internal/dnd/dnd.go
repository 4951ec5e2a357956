// Package dnd implements the drag-and-drop transfer between board columns.
//
// A drag runs in two phases. DragStart records which task is moving and
// from where as an encoded transfer payload; DragOver and DragLeave track the
// highlighted drop target; Drop decodes the payload and asks a Mover to
// relocate the task; DragEnd clears the transient state whether or not a
// drop happened. None of this state is persisted.
package dnd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/dailyboard/internal/board"
)

// MIMEType is the format of the encoded transfer payload.
const MIMEType = "application/json"

// Payload identifies the task being dragged and its source column.
type Payload struct {
	TaskID       string       `json:"taskId"`
	SourceStatus board.Status `json:"sourceStatus"`
}

// Encode returns the payload as transfer data.
func (p Payload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode transfer payload: %w", err)
	}
	return string(data), nil
}

// DecodePayload parses transfer data produced by Encode.
func DecodePayload(data string) (Payload, error) {
	if data == "" {
		return Payload{}, errors.New("empty transfer payload")
	}
	var p Payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Payload{}, fmt.Errorf("decode transfer payload: %w", err)
	}
	if p.TaskID == "" {
		return Payload{}, errors.New("transfer payload has no taskId")
	}
	if !p.SourceStatus.Valid() {
		return Payload{}, fmt.Errorf("transfer payload: %w: %q", board.ErrUnknownStatus, p.SourceStatus)
	}
	return p, nil
}

// Mover relocates a task between columns.
type Mover interface {
	Move(ctx context.Context, id string, from, to board.Status) (bool, error)
}

// Session holds the state of the drag in progress.
type Session struct {
	mover  Mover
	logger *log.Logger

	data     string
	dragging string
	over     board.Status
}

// NewSession returns an idle session that drops onto mover.
func NewSession(mover Mover, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{mover: mover, logger: logger}
}

// DragStart begins a transfer of taskID out of source.
func (s *Session) DragStart(taskID string, source board.Status) error {
	data, err := Payload{TaskID: taskID, SourceStatus: source}.Encode()
	if err != nil {
		return err
	}
	s.data = data
	s.dragging = taskID
	return nil
}

// DragOver marks status as the current drop target and reports whether it
// accepts the drop.
func (s *Session) DragOver(status board.Status) bool {
	if !status.Valid() {
		return false
	}
	s.over = status
	return true
}

// DragLeave clears the highlight if status holds it.
func (s *Session) DragLeave(status board.Status) {
	if s.over == status {
		s.over = ""
	}
}

// Drop completes the active transfer onto to.
func (s *Session) Drop(ctx context.Context, to board.Status) (bool, error) {
	return s.DropData(ctx, to, s.data)
}

// DropData completes a transfer described by raw onto to. A payload that
// cannot be decoded aborts the drop without error.
func (s *Session) DropData(ctx context.Context, to board.Status, raw string) (bool, error) {
	s.over = ""

	p, err := DecodePayload(raw)
	if err != nil {
		s.logger.Error("failed to process drop", "err", err)
		return false, nil
	}
	if p.SourceStatus == to {
		return false, nil
	}
	return s.mover.Move(ctx, p.TaskID, p.SourceStatus, to)
}

// DragEnd clears the in-transfer mark and the transfer data.
func (s *Session) DragEnd() {
	s.data = ""
	s.dragging = ""
	s.over = ""
}

// Active reports whether a drag is in progress.
func (s *Session) Active() bool {
	return s.dragging != ""
}

// Dragging returns the id of the task in transfer, if any.
func (s *Session) Dragging() string {
	return s.dragging
}

// InTransfer reports whether taskID is the card being dragged.
func (s *Session) InTransfer(taskID string) bool {
	return s.dragging != "" && s.dragging == taskID
}

// Over returns the highlighted drop target, or "" if none.
func (s *Session) Over() board.Status {
	return s.over
}

// Source returns the source column of the active transfer.
func (s *Session) Source() (board.Status, bool) {
	if s.data == "" {
		return "", false
	}
	p, err := DecodePayload(s.data)
	if err != nil {
		return "", false
	}
	return p.SourceStatus, true
}
