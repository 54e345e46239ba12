package testing

import (
	"fmt"
	"strings"
)

// Op names a notification.
type Op string

const (
	OpInserted Op = "inserted"
	OpRemoved  Op = "removed"
	OpMoved    Op = "moved"
	OpChanged  Op = "changed"
)

// Event is one recorded notification. For moves Position is the source and
// To the destination; Count is unused.
type Event struct {
	Op       Op
	Position int
	Count    int
	To       int
	Payload  any
}

// Inserted returns the event OnInserted(position, count) records.
func Inserted(position, count int) Event {
	return Event{Op: OpInserted, Position: position, Count: count}
}

// Removed returns the event OnRemoved(position, count) records.
func Removed(position, count int) Event {
	return Event{Op: OpRemoved, Position: position, Count: count}
}

// Moved returns the event OnMoved(from, to) records.
func Moved(from, to int) Event {
	return Event{Op: OpMoved, Position: from, To: to}
}

// Changed returns the event OnChanged(position, count, payload) records.
func Changed(position, count int, payload any) Event {
	return Event{Op: OpChanged, Position: position, Count: count, Payload: payload}
}

func (e Event) String() string {
	switch e.Op {
	case OpMoved:
		return fmt.Sprintf("moved(%d, %d)", e.Position, e.To)
	case OpChanged:
		if e.Payload != nil {
			return fmt.Sprintf("changed(%d, %d, %v)", e.Position, e.Count, e.Payload)
		}
		return fmt.Sprintf("changed(%d, %d)", e.Position, e.Count)
	}
	return fmt.Sprintf("%s(%d, %d)", e.Op, e.Position, e.Count)
}

// Consumer is the notification interface a Recorder and a Shadow implement.
type Consumer interface {
	OnInserted(position, count int)
	OnRemoved(position, count int)
	OnMoved(fromPosition, toPosition int)
	OnChanged(position, count int, payload any)
}

// Replay delivers events to c in order.
func Replay(events []Event, c Consumer) {
	for _, e := range events {
		switch e.Op {
		case OpInserted:
			c.OnInserted(e.Position, e.Count)
		case OpRemoved:
			c.OnRemoved(e.Position, e.Count)
		case OpMoved:
			c.OnMoved(e.Position, e.To)
		case OpChanged:
			c.OnChanged(e.Position, e.Count, e.Payload)
		default:
			panic(fmt.Sprintf("testing.Replay: unknown op %q", e.Op))
		}
	}
}

// Recorder records every notification. The zero value is ready to use.
type Recorder struct {
	events []Event
}

func (r *Recorder) OnInserted(position, count int) {
	r.events = append(r.events, Inserted(position, count))
}

func (r *Recorder) OnRemoved(position, count int) {
	r.events = append(r.events, Removed(position, count))
}

func (r *Recorder) OnMoved(fromPosition, toPosition int) {
	r.events = append(r.events, Moved(fromPosition, toPosition))
}

func (r *Recorder) OnChanged(position, count int, payload any) {
	r.events = append(r.events, Changed(position, count, payload))
}

// Events returns the events recorded since the last Reset.
func (r *Recorder) Events() []Event {
	return r.events
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	return len(r.events)
}

// Reset forgets the recorded events and returns them.
func (r *Recorder) Reset() []Event {
	events := r.events
	r.events = nil
	return events
}

func (r *Recorder) String() string {
	parts := make([]string, len(r.events))
	for i, e := range r.events {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
