package model

// EventKind discriminates the events delivered to a stream consumer.
type EventKind int

const (
	EventProcessBlock EventKind = iota + 1
	EventRevert
)

func (k EventKind) String() string {
	switch k {
	case EventProcessBlock:
		return "process_block"
	case EventRevert:
		return "revert"
	default:
		return "unknown"
	}
}

// Event is delivered to the consumer in order.
//
// For EventProcessBlock, Block holds the block and its triggers.
// For EventRevert, Reverted is the oldest block being undone and Parent the ancestor the
// consumer must roll back to.
type Event struct {
	Kind     EventKind
	Block    BlockWithTriggers
	Reverted BlockPointer
	Parent   BlockPointer
	Cursor   string
}

func ProcessBlockEvent(block BlockWithTriggers, cursor string) Event {
	return Event{Kind: EventProcessBlock, Block: block, Cursor: cursor}
}

func RevertEvent(reverted, parent BlockPointer, cursor string) Event {
	return Event{Kind: EventRevert, Reverted: reverted, Parent: parent, Cursor: cursor}
}

// Pointer is the consumer position after the event has been handled.
func (e Event) Pointer() BlockPointer {
	if e.Kind == EventRevert {
		return e.Parent
	}
	return e.Block.Ptr()
}
