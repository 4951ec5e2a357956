package board

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/dailyboard/internal/utils"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON []byte

const snapshotSchemaURL = "https://github.com/nibzard/dailyboard/snapshot.schema.json"

// ErrUnknownStatus is returned when a status is not one of the three columns.
var ErrUnknownStatus = errors.New("unknown status")

// SnapshotError describes why a persisted snapshot was rejected.
type SnapshotError struct {
	Path string // JSON path to the error location
	Err  error
}

func (e *SnapshotError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SnapshotError) Unwrap() error {
	return e.Err
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func snapshotSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(snapshotSchemaURL, bytes.NewReader(snapshotSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add snapshot schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(snapshotSchemaURL)
	})
	return schema, schemaErr
}

// EncodeSnapshot serializes the state with 2-space indentation and a
// trailing newline.
func EncodeSnapshot(state State) ([]byte, error) {
	data, err := json.MarshalIndent(state.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses a snapshot. With validate set, the document must
// satisfy the embedded schema; otherwise only ids and content are checked.
// Duplicate task ids are always rejected.
func DecodeSnapshot(data []byte, validate bool) (State, error) {
	if validate {
		if errs := ValidateSnapshot(data); len(errs) > 0 {
			return State{}, errs[0]
		}
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, &SnapshotError{Err: fmt.Errorf("parse snapshot: %w", err)}
	}

	if !validate {
		if err := validateMinimal(&state); err != nil {
			return State{}, err
		}
	}
	if err := state.checkUnique(); err != nil {
		return State{}, err
	}
	return state.Clone(), nil
}

// ValidateSnapshot checks raw snapshot bytes against the embedded schema and
// returns every violation found.
func ValidateSnapshot(data []byte) []error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{&SnapshotError{Err: fmt.Errorf("parse snapshot: %w", err)}}
	}

	sch, err := snapshotSchema()
	if err != nil {
		return []error{err}
	}

	var errs []error
	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return []error{err}
		}
		errs = collectSchemaErrors(errs, ve)
	}
	return errs
}

func collectSchemaErrors(errs []error, err *jsonschema.ValidationError) []error {
	if len(err.Causes) == 0 {
		return append(errs, &SnapshotError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
	}
	for _, cause := range err.Causes {
		errs = collectSchemaErrors(errs, cause)
	}
	return errs
}

// validateMinimal is the fallback when schema validation is disabled.
func validateMinimal(state *State) error {
	for _, status := range Statuses() {
		for i, task := range state.List(status) {
			path := fmt.Sprintf("%s[%d]", status, i)
			if task.ID == "" {
				return &SnapshotError{Path: path + ".id", Err: errors.New("missing required field")}
			}
			if strings.TrimSpace(task.Content) == "" {
				return &SnapshotError{Path: path + ".content", Err: errors.New("must not be blank")}
			}
		}
	}
	return nil
}
