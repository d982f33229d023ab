package model

import "fmt"

// ForkStep classifies a streamed block event.
type ForkStep int

const (
	StepUnknown ForkStep = iota
	StepNew
	StepUndo
	StepIrreversible
)

func (s ForkStep) String() string {
	switch s {
	case StepNew:
		return "new"
	case StepUndo:
		return "undo"
	case StepIrreversible:
		return "irreversible"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// BlockEnvelope is one message of the remote feed. Cursor is an opaque resume token.
type BlockEnvelope struct {
	Step    ForkStep
	Cursor  string
	Payload []byte
}
