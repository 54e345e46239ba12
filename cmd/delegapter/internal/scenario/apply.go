package scenario

import (
	"github.com/go-drift/delegapter/pkg/delegapter"
	"github.com/go-drift/delegapter/pkg/kind"
)

// Build adds entries to b.
func (s *Scenario) Build(b *delegapter.Builder, entries []Entry) {
	for _, e := range entries {
		b.Add(s.kinds[e.Kind], e.Item)
	}
}

// Fill appends entries to the live list d.
func (s *Scenario) Fill(d *delegapter.Delegapter, entries []Entry) {
	for _, e := range entries {
		d.Add(s.kinds[e.Kind], e.Item)
	}
}

// Apply performs one step on d. Replace steps without an explicit moves
// flag use detectMoves.
func (s *Scenario) Apply(d *delegapter.Delegapter, st Step, detectMoves bool) error {
	k := s.kinds[st.Kind]
	at := d.Len()
	if st.At != nil {
		at = *st.At
	}
	switch st.Op {
	case OpAdd:
		return d.AddAt(at, k, st.Item)
	case OpAddAll:
		return d.AddAllAt(at, k, st.Items)
	case OpSet:
		return d.SetWithPayload(at, k, st.Item, st.Payload)
	case OpRemove:
		return d.RemoveAt(at)
	case OpRemoveItem:
		d.Remove(st.Item)
	case OpRemoveRange:
		return d.RemoveRange(st.From, st.To)
	case OpRemoveAll:
		d.RemoveAll(st.Items)
	case OpRemoveKind:
		kinds := make([]*kind.Kind, len(st.Kinds))
		for i, name := range st.Kinds {
			kinds[i] = s.kinds[name]
		}
		d.RemoveAllOfKind(kinds...)
	case OpClear:
		d.Clear()
	case OpReplace:
		moves := detectMoves
		if st.Moves != nil {
			moves = *st.Moves
		}
		return d.Replace(moves, func(b *delegapter.Builder) error {
			s.Build(b, st.Entries)
			return nil
		})
	}
	return nil
}
