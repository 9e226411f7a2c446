// Package dispatch interprets the command protocol the hosted UI sends
// to the host process.
package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// Command is the closed set of operations the UI may request. Decoding
// produces exactly one variant per message, so handling switches are
// exhaustive instead of falling through on strings.
type Command interface {
	// Operation returns the wire name of the command.
	Operation() string
}

// Quit terminates the application process with exit code 0.
type Quit struct{}

// NewWindow opens a window with optional launch arguments and shape.
type NewWindow struct {
	Argv   []string
	Width  *int
	Height *int
	Title  *string
}

// OpenGraphicalShell opens a window running the graphical shell.
type OpenGraphicalShell struct{}

// EnlargeWindow resizes the dispatching window to the fixed large size.
type EnlargeWindow struct{}

// ReduceWindow resizes the dispatching window to the fixed small size.
type ReduceWindow struct{}

// MaximizeWindow maximizes the dispatching window.
type MaximizeWindow struct{}

// UnmaximizeWindow restores the dispatching window from maximized.
type UnmaximizeWindow struct{}

func (Quit) Operation() string               { return "quit" }
func (NewWindow) Operation() string          { return "new-window" }
func (OpenGraphicalShell) Operation() string { return "open-graphical-shell" }
func (EnlargeWindow) Operation() string      { return "enlarge-window" }
func (ReduceWindow) Operation() string       { return "reduce-window" }
func (MaximizeWindow) Operation() string     { return "maximize-window" }
func (UnmaximizeWindow) Operation() string   { return "unmaximize-window" }

// InvalidMessageError reports an envelope that is not well-formed JSON
// or lacks an operation field.
type InvalidMessageError struct {
	Cause error
}

func (e *InvalidMessageError) Error() string { return fmt.Sprintf("Invalid message: %v", e.Cause) }
func (e *InvalidMessageError) Unwrap() error { return e.Cause }

// UnknownOperationError reports an operation name outside the supported
// set.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string { return "Unknown operation: " + e.Name }

// envelope is the raw command shape. Optional payload fields stay raw so
// a wrong-typed value can degrade to "absent" instead of failing the
// whole parse; UI-originated payloads are not schema-validated upstream
// and this leniency is deliberate.
type envelope struct {
	Operation *string         `json:"operation"`
	Argv      json.RawMessage `json:"argv"`
	Width     json.RawMessage `json:"width"`
	Height    json.RawMessage `json:"height"`
	Title     json.RawMessage `json:"title"`
}

// Decode parses a raw command envelope into its variant.
func Decode(raw string) (Command, error) {
	var env envelope
	if err := sonic.UnmarshalString(raw, &env); err != nil {
		return nil, &InvalidMessageError{Cause: err}
	}
	if env.Operation == nil {
		return nil, &InvalidMessageError{Cause: fmt.Errorf("missing field `operation`")}
	}

	switch *env.Operation {
	case "quit":
		return Quit{}, nil
	case "new-window":
		return NewWindow{
			Argv:   optStrings(env.Argv),
			Width:  optInt(env.Width),
			Height: optInt(env.Height),
			Title:  optString(env.Title),
		}, nil
	case "open-graphical-shell":
		return OpenGraphicalShell{}, nil
	case "enlarge-window":
		return EnlargeWindow{}, nil
	case "reduce-window":
		return ReduceWindow{}, nil
	case "maximize-window":
		return MaximizeWindow{}, nil
	case "unmaximize-window":
		return UnmaximizeWindow{}, nil
	default:
		return nil, &UnknownOperationError{Name: *env.Operation}
	}
}

func optStrings(raw json.RawMessage) []string {
	if absent(raw) {
		return nil
	}
	var v []string
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// optInt decodes an optional dimension. Values a window cannot have,
// negative or zero, read as "no preference" like any other wrong-typed
// field.
func optInt(raw json.RawMessage) *int {
	if absent(raw) {
		return nil
	}
	var v int
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil
	}
	if v <= 0 {
		return nil
	}
	return &v
}

func optString(raw json.RawMessage) *string {
	if absent(raw) {
		return nil
	}
	var v string
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// absent reports whether an optional field was omitted or set to JSON
// null. json.Unmarshal leaves the target untouched on null, which would
// otherwise read as a zero value rather than "no preference".
func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
