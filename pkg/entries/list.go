// Package entries implements the ordered (kind, payload) store backing a
// virtualized list.
//
// A List keeps two parallel slices, one of kinds and one of payloads, that
// always have the same length. It never notifies anybody: the live list in
// package delegapter wraps it and emits one notification per mutation, and
// replace transactions build a scratch List silently.
//
// Every mutating method validates all of its arguments before the first
// write, so a failed call leaves the list untouched.
package entries

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/delegapter/pkg/errors"
	"github.com/go-drift/delegapter/pkg/kind"
)

// Run is a contiguous block of removed entries. Position is expressed in the
// index space left after all earlier runs of the same batch were removed.
type Run struct {
	Position int
	Count    int
}

// removal sentinels, never visible outside of RemoveIf
type tombstone struct{ _ byte }

var (
	removedKind     = kind.New("removed", nil)
	removedItem any = new(tombstone)
)

// List is an ordered store of (kind, payload) entries.
// The zero value is an empty list ready to use.
type List struct {
	kinds []*kind.Kind
	items []any
}

// New returns an empty list. A negative capacity selects the default.
func New(capacity int) *List {
	if capacity < 0 {
		return &List{}
	}
	return &List{
		kinds: make([]*kind.Kind, 0, capacity),
		items: make([]any, 0, capacity),
	}
}

func indexError(op string, i, size int) error {
	return errors.CheckIndex(op, i, size)
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.items)
}

// IsEmpty reports whether the list has no entries.
func (l *List) IsEmpty() bool {
	return len(l.items) == 0
}

// LastIndex returns Len()-1.
func (l *List) LastIndex() int {
	return len(l.items) - 1
}

// ItemAt returns the payload at i. It panics with an *errors.IndexError
// unless 0 <= i < Len().
func (l *List) ItemAt(i int) any {
	if err := indexError("entries.ItemAt", i, len(l.items)); err != nil {
		panic(err)
	}
	return l.items[i]
}

// KindAt returns the kind at i. It panics with an *errors.IndexError
// unless 0 <= i < Len().
func (l *List) KindAt(i int) *kind.Kind {
	if err := indexError("entries.KindAt", i, len(l.kinds)); err != nil {
		panic(err)
	}
	return l.kinds[i]
}

// Each calls visitor for every entry in order until it returns false.
func (l *List) Each(visitor func(i int, k *kind.Kind, item any) bool) {
	for i := range l.items {
		if !visitor(i, l.kinds[i], l.items[i]) {
			return
		}
	}
}

func checkKind(op string, k *kind.Kind) error {
	if k == nil {
		return errors.Argument(op, "nil kind")
	}
	return nil
}

// Insert adds one entry at position at, 0 <= at <= Len().
func (l *List) Insert(at int, k *kind.Kind, item any) error {
	const op = "entries.Insert"
	if err := checkKind(op, k); err != nil {
		return err
	}
	if err := errors.CheckPosition(op, at, len(l.items)); err != nil {
		return err
	}
	l.kinds = slices.Insert(l.kinds, at, k)
	l.items = slices.Insert(l.items, at, item)
	return nil
}

// Set replaces the entry at position at.
func (l *List) Set(at int, k *kind.Kind, item any) error {
	const op = "entries.Set"
	if err := checkKind(op, k); err != nil {
		return err
	}
	if err := errors.CheckIndex(op, at, len(l.items)); err != nil {
		return err
	}
	l.kinds[at] = k
	l.items[at] = item
	return nil
}

// InsertRepeated adds all items under the single kind k at position at.
func (l *List) InsertRepeated(at int, k *kind.Kind, items []any) error {
	const op = "entries.InsertRepeated"
	if err := checkKind(op, k); err != nil {
		return err
	}
	if err := errors.CheckPosition(op, at, len(l.items)); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	l.items = slices.Insert(l.items, at, items...)
	l.kinds = RepeatOf(k, len(items)).InsertInto(l.kinds, at)
	return nil
}

// InsertFrom copies the entries src[from:to] into l at position at.
// src may be l itself.
func (l *List) InsertFrom(at int, src *List, from, to int) error {
	const op = "entries.InsertFrom"
	if src == nil {
		return errors.Argument(op, "nil source list")
	}
	if err := errors.CheckRange(op, from, to, src.Len()); err != nil {
		return err
	}
	if err := errors.CheckPosition(op, at, len(l.items)); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	kinds, items := src.kinds[from:to], src.items[from:to]
	if src == l {
		kinds, items = slices.Clone(kinds), slices.Clone(items)
	}
	l.kinds = slices.Insert(l.kinds, at, kinds...)
	l.items = slices.Insert(l.items, at, items...)
	return nil
}

// RemoveAt removes the entry at i.
func (l *List) RemoveAt(i int) error {
	if err := errors.CheckIndex("entries.RemoveAt", i, len(l.items)); err != nil {
		return err
	}
	l.kinds = slices.Delete(l.kinds, i, i+1)
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

// RemoveRange removes the entries in [from, to).
func (l *List) RemoveRange(from, to int) error {
	if err := errors.CheckRange("entries.RemoveRange", from, to, len(l.items)); err != nil {
		return err
	}
	l.kinds = slices.Delete(l.kinds, from, to)
	l.items = slices.Delete(l.items, from, to)
	return nil
}

// RemoveIf removes every entry whose original index satisfies pred, in one
// linear pass, and returns the removed runs in ascending order.
//
// pred is called once per index, in ascending order, before anything is
// compacted; it may inspect the entry at the index it receives but not at
// earlier indices, which may already hold removal sentinels.
func (l *List) RemoveIf(pred func(i int) bool) []Run {
	var runs []Run
	removed := 0
	for i := range l.items {
		if !pred(i) {
			continue
		}
		l.kinds[i] = removedKind
		l.items[i] = removedItem
		pos := i - removed
		if n := len(runs); n > 0 && runs[n-1].Position == pos {
			runs[n-1].Count++
		} else {
			runs = append(runs, Run{Position: pos, Count: 1})
		}
		removed++
	}
	if removed == 0 {
		return nil
	}
	l.kinds = slices.DeleteFunc(l.kinds, func(k *kind.Kind) bool { return k == removedKind })
	l.items = slices.DeleteFunc(l.items, func(v any) bool { return v == removedItem })
	return runs
}

// Clear removes all entries and returns how many there were.
func (l *List) Clear() int {
	n := len(l.items)
	clear(l.kinds)
	clear(l.items)
	l.kinds = l.kinds[:0]
	l.items = l.items[:0]
	return n
}

// Swap exchanges the backing stores of l and other.
func (l *List) Swap(other *List) {
	l.kinds, other.kinds = other.kinds, l.kinds
	l.items, other.items = other.items, l.items
}

// Contains reports whether any payload is identical to item.
// Payload comparison uses kind.Identical.
func (l *List) Contains(item any) bool {
	for _, v := range l.items {
		if kind.Identical(v, item) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every one of items is contained.
func (l *List) ContainsAll(items []any) bool {
	for _, item := range items {
		if !l.Contains(item) {
			return false
		}
	}
	return true
}

// ContainsKind reports whether any entry has a kind equal to k.
func (l *List) ContainsKind(k *kind.Kind) bool {
	for _, v := range l.kinds {
		if kind.Equal(v, k) {
			return true
		}
	}
	return false
}

// IndexOf searches for an entry of kind k holding item, starting at start
// and advancing by step until the index leaves [0, Len()). It returns -1
// when nothing matches. A zero step panics with a KindArgument error.
func (l *List) IndexOf(k *kind.Kind, item any, start, step int) int {
	return l.indexFunc("entries.IndexOf", func(v *kind.Kind) bool { return kind.Equal(v, k) },
		func(v any) bool { return kind.Identical(v, item) }, start, step)
}

// IndexFunc is like IndexOf with arbitrary predicates. A nil predicate
// accepts everything.
func (l *List) IndexFunc(kindPred func(*kind.Kind) bool, itemPred func(any) bool, start, step int) int {
	return l.indexFunc("entries.IndexFunc", kindPred, itemPred, start, step)
}

func (l *List) indexFunc(op string, kindPred func(*kind.Kind) bool, itemPred func(any) bool, start, step int) int {
	if step == 0 {
		panic(errors.Argument(op, "step must not be 0"))
	}
	for i := start; i >= 0 && i < len(l.items); i += step {
		if (kindPred == nil || kindPred(l.kinds[i])) && (itemPred == nil || itemPred(l.items[i])) {
			return i
		}
	}
	return -1
}

func (l *List) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "List(%d): [\n", len(l.items))
	for i, item := range l.items {
		fmt.Fprintf(&sb, "#%d %v: %v\n", i, l.kinds[i], item)
	}
	sb.WriteString("]")
	return sb.String()
}
