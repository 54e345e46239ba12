package delegapter

import (
	"github.com/go-drift/delegapter/pkg/entries"
	"github.com/go-drift/delegapter/pkg/kind"
)

// Add appends an entry. It panics if k is nil.
func (d *Delegapter) Add(k *kind.Kind, item any) {
	if err := d.AddAt(d.list.Len(), k, item); err != nil {
		panic(err)
	}
}

// AddAt inserts an entry at position at, 0 <= at <= Len().
func (d *Delegapter) AddAt(at int, k *kind.Kind, item any) error {
	if err := d.list.Insert(at, k, item); err != nil {
		return err
	}
	d.codes.ForceCode(k)
	d.target.OnInserted(at, 1)
	return nil
}

// Set replaces the entry at position at and notifies a full rebind.
func (d *Delegapter) Set(at int, k *kind.Kind, item any) error {
	return d.SetWithPayload(at, k, item, nil)
}

// SetWithPayload replaces the entry at position at and notifies a partial
// rebind carrying payload.
func (d *Delegapter) SetWithPayload(at int, k *kind.Kind, item, payload any) error {
	if err := d.list.Set(at, k, item); err != nil {
		return err
	}
	d.codes.ForceCode(k)
	d.target.OnChanged(at, 1, payload)
	return nil
}

// AddAll appends items under the single kind k. It panics if k is nil.
func (d *Delegapter) AddAll(k *kind.Kind, items []any) {
	if err := d.AddAllAt(d.list.Len(), k, items); err != nil {
		panic(err)
	}
}

// AddAllAt inserts items under the single kind k at position at. Nothing is
// notified for an empty items.
func (d *Delegapter) AddAllAt(at int, k *kind.Kind, items []any) error {
	if err := d.list.InsertRepeated(at, k, items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	d.codes.ForceCode(k)
	d.target.OnInserted(at, len(items))
	return nil
}

// AddAllFrom inserts the entries src[from:to] at position at. src may be d.
func (d *Delegapter) AddAllFrom(src *Delegapter, from, to, at int) error {
	var list *entries.List
	if src != nil {
		list = src.list
	}
	if err := d.list.InsertFrom(at, list, from, to); err != nil {
		return err
	}
	if to == from {
		return nil
	}
	registerRange(d.codes.ForceCode, d.list, at, at+to-from)
	d.target.OnInserted(at, to-from)
	return nil
}

func registerRange(force func(*kind.Kind) int, l *entries.List, from, to int) {
	var last *kind.Kind
	for i := from; i < to; i++ {
		if k := l.KindAt(i); k != last {
			force(k)
			last = k
		}
	}
}

// Remove removes the first entry whose payload is identical to item and
// reports whether there was one.
func (d *Delegapter) Remove(item any) bool {
	i := d.list.IndexFunc(nil, func(v any) bool { return kind.Identical(v, item) }, 0, 1)
	if i < 0 {
		return false
	}
	d.list.RemoveAt(i)
	d.target.OnRemoved(i, 1)
	return true
}

// RemoveAt removes the entry at i.
func (d *Delegapter) RemoveAt(i int) error {
	if err := d.list.RemoveAt(i); err != nil {
		return err
	}
	d.target.OnRemoved(i, 1)
	return nil
}

// RemoveRange removes the entries in [from, to).
func (d *Delegapter) RemoveRange(from, to int) error {
	if err := d.list.RemoveRange(from, to); err != nil {
		return err
	}
	if to > from {
		d.target.OnRemoved(from, to-from)
	}
	return nil
}

// removeIf removes every entry matching pred and notifies each removed run
// at its position after the earlier runs were applied.
func (d *Delegapter) removeIf(pred func(k *kind.Kind, item any) bool) bool {
	runs := d.list.RemoveIf(func(i int) bool { return pred(d.list.KindAt(i), d.list.ItemAt(i)) })
	for _, r := range runs {
		d.target.OnRemoved(r.Position, r.Count)
	}
	return len(runs) > 0
}

func containsItem(items []any, item any) bool {
	for _, v := range items {
		if kind.Identical(v, item) {
			return true
		}
	}
	return false
}

func containsKind(kinds []*kind.Kind, k *kind.Kind) bool {
	for _, v := range kinds {
		if kind.Equal(v, k) {
			return true
		}
	}
	return false
}

// RemoveAll removes every entry whose payload is identical to one of items.
// It reports whether anything was removed.
func (d *Delegapter) RemoveAll(items []any) bool {
	return d.removeIf(func(_ *kind.Kind, item any) bool { return containsItem(items, item) })
}

// RetainAll removes every entry whose payload is not one of items.
func (d *Delegapter) RetainAll(items []any) bool {
	return d.removeIf(func(_ *kind.Kind, item any) bool { return !containsItem(items, item) })
}

// RemoveAllOfKind removes every entry whose kind is equal to one of kinds.
func (d *Delegapter) RemoveAllOfKind(kinds ...*kind.Kind) bool {
	return d.removeIf(func(k *kind.Kind, _ any) bool { return containsKind(kinds, k) })
}

// RetainAllOfKind removes every entry whose kind is not one of kinds.
func (d *Delegapter) RetainAllOfKind(kinds ...*kind.Kind) bool {
	return d.removeIf(func(k *kind.Kind, _ any) bool { return !containsKind(kinds, k) })
}

// Clear removes every entry.
func (d *Delegapter) Clear() {
	if n := d.list.Clear(); n > 0 {
		d.target.OnRemoved(0, n)
	}
}
