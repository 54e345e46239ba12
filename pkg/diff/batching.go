package diff

import "github.com/go-drift/delegapter/pkg/kind"

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingInsert
	pendingRemove
	pendingChange
)

// BatchingCallback coalesces consecutive notifications before forwarding
// them: adjacent inserts, removes at the same position, and overlapping or
// adjacent changes carrying the same payload. Moves are never merged. Call
// Flush after the last notification.
type BatchingCallback struct {
	target ListUpdateCallback

	pending  pendingKind
	position int
	count    int
	payload  any
}

// NewBatchingCallback wraps target.
func NewBatchingCallback(target ListUpdateCallback) *BatchingCallback {
	return &BatchingCallback{target: target}
}

// Flush forwards the pending notification, if any.
func (b *BatchingCallback) Flush() {
	switch b.pending {
	case pendingInsert:
		b.target.OnInserted(b.position, b.count)
	case pendingRemove:
		b.target.OnRemoved(b.position, b.count)
	case pendingChange:
		b.target.OnChanged(b.position, b.count, b.payload)
	}
	b.pending = pendingNone
	b.payload = nil
}

func (b *BatchingCallback) OnInserted(position, count int) {
	if b.pending == pendingInsert && position >= b.position && position <= b.position+b.count {
		b.count += count
		b.position = min(position, b.position)
		return
	}
	b.Flush()
	b.pending, b.position, b.count = pendingInsert, position, count
}

func (b *BatchingCallback) OnRemoved(position, count int) {
	if b.pending == pendingRemove && b.position >= position && b.position <= position+count {
		b.count += count
		b.position = position
		return
	}
	b.Flush()
	b.pending, b.position, b.count = pendingRemove, position, count
}

func (b *BatchingCallback) OnMoved(fromPosition, toPosition int) {
	b.Flush()
	b.target.OnMoved(fromPosition, toPosition)
}

func (b *BatchingCallback) OnChanged(position, count int, payload any) {
	if b.pending == pendingChange &&
		position <= b.position+b.count && position+count >= b.position &&
		kind.Identical(payload, b.payload) {
		end := max(b.position+b.count, position+count)
		b.position = min(position, b.position)
		b.count = end - b.position
		return
	}
	b.Flush()
	b.pending, b.position, b.count, b.payload = pendingChange, position, count, payload
}
