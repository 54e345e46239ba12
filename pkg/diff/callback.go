// Package diff computes edit scripts between two positional lists.
//
// The lists are never seen directly: a Callback answers size and identity
// questions by position, and the resulting script is delivered to a
// ListUpdateCallback whose positions are always valid in the list as it
// stands after every earlier notification.
package diff

// Callback describes the two lists being compared.
type Callback interface {
	OldSize() int
	NewSize() int
	// AreItemsTheSame reports whether the old and new entries represent the
	// same logical item.
	AreItemsTheSame(oldPos, newPos int) bool
	// AreContentsTheSame is only asked for pairs AreItemsTheSame accepted.
	AreContentsTheSame(oldPos, newPos int) bool
	// ChangePayload returns the partial-update payload for a pair whose
	// contents differ, or nil.
	ChangePayload(oldPos, newPos int) any
}

// ListUpdateCallback receives positional change notifications.
type ListUpdateCallback interface {
	OnInserted(position, count int)
	OnRemoved(position, count int)
	OnMoved(fromPosition, toPosition int)
	OnChanged(position, count int, payload any)
}

// NullCallback discards every notification.
type NullCallback struct{}

func (NullCallback) OnInserted(int, int)     {}
func (NullCallback) OnRemoved(int, int)      {}
func (NullCallback) OnMoved(int, int)        {}
func (NullCallback) OnChanged(int, int, any) {}

// CallbackFuncs adapts plain functions to a ListUpdateCallback. Nil fields
// ignore their notification.
type CallbackFuncs struct {
	Inserted func(position, count int)
	Removed  func(position, count int)
	Moved    func(fromPosition, toPosition int)
	Changed  func(position, count int, payload any)
}

func (f CallbackFuncs) OnInserted(position, count int) {
	if f.Inserted != nil {
		f.Inserted(position, count)
	}
}

func (f CallbackFuncs) OnRemoved(position, count int) {
	if f.Removed != nil {
		f.Removed(position, count)
	}
}

func (f CallbackFuncs) OnMoved(fromPosition, toPosition int) {
	if f.Moved != nil {
		f.Moved(fromPosition, toPosition)
	}
}

func (f CallbackFuncs) OnChanged(position, count int, payload any) {
	if f.Changed != nil {
		f.Changed(position, count, payload)
	}
}
