package delegapter

import (
	"github.com/go-drift/delegapter/pkg/entries"
	"github.com/go-drift/delegapter/pkg/kind"
)

// view holds the read-only queries shared by Delegapter and Builder.
type view struct {
	list *entries.List
}

// Len returns the number of entries.
func (v *view) Len() int {
	return v.list.Len()
}

// IsEmpty reports whether there are no entries.
func (v *view) IsEmpty() bool {
	return v.list.IsEmpty()
}

// LastIndex returns Len()-1.
func (v *view) LastIndex() int {
	return v.list.LastIndex()
}

// ItemAt returns the payload at i. It panics if i is out of range.
func (v *view) ItemAt(i int) any {
	return v.list.ItemAt(i)
}

// KindAt returns the kind at i. It panics if i is out of range.
func (v *view) KindAt(i int) *kind.Kind {
	return v.list.KindAt(i)
}

// Contains reports whether any payload is identical to item.
func (v *view) Contains(item any) bool {
	return v.list.Contains(item)
}

// ContainsAll reports whether every one of items is contained.
func (v *view) ContainsAll(items []any) bool {
	return v.list.ContainsAll(items)
}

// ContainsKind reports whether any entry's kind is equal to k.
func (v *view) ContainsKind(k *kind.Kind) bool {
	return v.list.ContainsKind(k)
}

// IndexOf returns the first position reached from start in steps of step
// holding item under a kind equal to k, or -1. Pass step -1 to search
// backwards. A zero step panics.
func (v *view) IndexOf(k *kind.Kind, item any, start, step int) int {
	return v.list.IndexOf(k, item, start, step)
}

// IndexFunc is IndexOf with predicates; nil predicates match everything.
func (v *view) IndexFunc(kindPred func(*kind.Kind) bool, itemPred func(any) bool, start, step int) int {
	return v.list.IndexFunc(kindPred, itemPred, start, step)
}
