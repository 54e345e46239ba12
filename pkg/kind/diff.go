package kind

import "reflect"

// ItemsSame applies the matching rules for an old and a new entry:
// kinds must be Equal, and the new kind's differ decides. Without a differ
// only identical comparable payloads match.
func ItemsSame(oldKind, newKind *Kind, oldItem, newItem any) bool {
	if !Equal(oldKind, newKind) {
		return false
	}
	if d := newKind.differ; d != nil {
		return d.AreItemsTheSame(oldItem, newItem)
	}
	return Identical(oldItem, newItem)
}

// ContentsSame is only meaningful for a pair accepted by ItemsSame. It is
// false for differing kinds, and true without a differ.
func ContentsSame(oldKind, newKind *Kind, oldItem, newItem any) bool {
	if !Equal(oldKind, newKind) {
		return false
	}
	if d := newKind.differ; d != nil {
		return d.AreContentsTheSame(oldItem, newItem)
	}
	return true
}

// ChangePayload returns the new kind's change payload, or nil when the kinds
// differ or there is no differ.
func ChangePayload(oldKind, newKind *Kind, oldItem, newItem any) any {
	if !Equal(oldKind, newKind) {
		return nil
	}
	if d := newKind.differ; d != nil {
		return d.ChangePayload(oldItem, newItem)
	}
	return nil
}

// Identical reports a == b for comparable values. Values whose dynamic type
// cannot be compared are never identical.
func Identical(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	// structs and arrays may still hold incomparable values in interface fields
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

type equality struct{}

func (equality) AreItemsTheSame(_, _ any) bool { return true }

func (equality) AreContentsTheSame(oldItem, newItem any) bool {
	return reflect.DeepEqual(oldItem, newItem)
}

func (equality) ChangePayload(_, _ any) any { return nil }

func (equality) String() string { return "equality" }

// DiffFuncs is a typed ItemDiffer built from functions. Nil ItemsSame means
// every pair is the same item; nil ContentsSame compares with
// reflect.DeepEqual; nil Payload yields no change payload.
//
// Payloads that are not of type T never match.
type DiffFuncs[T any] struct {
	ItemsSame    func(oldItem, newItem T) bool
	ContentsSame func(oldItem, newItem T) bool
	Payload      func(oldItem, newItem T) any
}

func typed[T any](oldItem, newItem any) (T, T, bool) {
	o, ok1 := oldItem.(T)
	n, ok2 := newItem.(T)
	return o, n, ok1 && ok2
}

// AreItemsTheSame implements ItemDiffer.
func (f DiffFuncs[T]) AreItemsTheSame(oldItem, newItem any) bool {
	o, n, ok := typed[T](oldItem, newItem)
	if !ok {
		return false
	}
	if f.ItemsSame == nil {
		return true
	}
	return f.ItemsSame(o, n)
}

// AreContentsTheSame implements ItemDiffer.
func (f DiffFuncs[T]) AreContentsTheSame(oldItem, newItem any) bool {
	o, n, ok := typed[T](oldItem, newItem)
	if !ok {
		return false
	}
	if f.ContentsSame == nil {
		return reflect.DeepEqual(o, n)
	}
	return f.ContentsSame(o, n)
}

// ChangePayload implements ItemDiffer.
func (f DiffFuncs[T]) ChangePayload(oldItem, newItem any) any {
	o, n, ok := typed[T](oldItem, newItem)
	if !ok || f.Payload == nil {
		return nil
	}
	return f.Payload(o, n)
}

// Equate compares two values with ==.
func Equate[T comparable](a, b T) bool {
	return a == b
}

// EquateBy returns a predicate comparing the keys selected from both values.
func EquateBy[T any, K comparable](selector func(T) K) func(a, b T) bool {
	return func(a, b T) bool {
		return selector(a) == selector(b)
	}
}
