package sim

import (
	"fmt"
	"io"
)

// Command is one line of the generated stream, carrying the command kind,
// the acting student, the target (copy id or ISBN) and the simulated date.
type Command struct {
	Date    string
	Kind    ActionKind
	Student string
	Target  string
}

// String renders the external protocol line:
//
//	[2025-01-01] OPEN
//	[2025-01-01] 23370001 borrowed B-1234
func (c Command) String() string {
	switch c.Kind {
	case ActionOpen, ActionClose:
		return fmt.Sprintf("[%s] %s", c.Date, c.Kind.Verb())
	default:
		return fmt.Sprintf("[%s] %s %s %s", c.Date, c.Student, c.Kind.Verb(), c.Target)
	}
}

// Emitter consumes the generated command stream. The stream consumer owns
// the exact protocol; the generator only guarantees kind, student, target
// and date per command.
type Emitter interface {
	Emit(Command)
}

// StreamEmitter writes one rendered command per line.
type StreamEmitter struct {
	w io.Writer
}

// NewStreamEmitter creates a StreamEmitter on w.
func NewStreamEmitter(w io.Writer) *StreamEmitter {
	return &StreamEmitter{w: w}
}

func (e *StreamEmitter) Emit(c Command) {
	fmt.Fprintln(e.w, c.String())
}

// RecordingEmitter keeps every command in memory. Used by tests and
// reproducibility checks.
type RecordingEmitter struct {
	Commands []Command
}

func (e *RecordingEmitter) Emit(c Command) {
	e.Commands = append(e.Commands, c)
}

// Lines renders all recorded commands.
func (e *RecordingEmitter) Lines() []string {
	out := make([]string, len(e.Commands))
	for i, c := range e.Commands {
		out[i] = c.String()
	}
	return out
}
