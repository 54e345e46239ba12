package diff

import (
	"fmt"

	zdiff "znkr.io/diff"

	"github.com/go-drift/delegapter/pkg/errors"
)

// OpKind identifies a script operation.
type OpKind int

const (
	OpInsert OpKind = iota
	OpRemove
	OpMove
	OpChange
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "inserted"
	case OpRemove:
		return "removed"
	case OpMove:
		return "moved"
	case OpChange:
		return "changed"
	default:
		return "unknown"
	}
}

// Op is one operation of an edit script. For moves Position is the source,
// To the destination and Count is 1.
type Op struct {
	Kind     OpKind
	Position int
	Count    int
	To       int
	Payload  any
}

func (o Op) String() string {
	switch o.Kind {
	case OpMove:
		return fmt.Sprintf("moved(%d, %d)", o.Position, o.To)
	case OpChange:
		return fmt.Sprintf("changed(%d, %d, %v)", o.Position, o.Count, o.Payload)
	}
	return fmt.Sprintf("%s(%d, %d)", o.Kind, o.Position, o.Count)
}

// Result is a computed edit script. It can be dispatched any number of
// times.
type Result struct {
	ops      []Op
	oldToNew []int
	newToOld []int
}

// Ops returns the batched script.
func (r *Result) Ops() []Op {
	return r.ops
}

// DispatchUpdatesTo delivers the script to target.
func (r *Result) DispatchUpdatesTo(target ListUpdateCallback) {
	for _, op := range r.ops {
		switch op.Kind {
		case OpInsert:
			target.OnInserted(op.Position, op.Count)
		case OpRemove:
			target.OnRemoved(op.Position, op.Count)
		case OpMove:
			target.OnMoved(op.Position, op.To)
		case OpChange:
			target.OnChanged(op.Position, op.Count, op.Payload)
		}
	}
}

// ConvertOldPositionToNew returns the new position of the item at old
// position i, or -1 if it was removed.
func (r *Result) ConvertOldPositionToNew(i int) int {
	if err := errors.CheckIndex("diff.ConvertOldPositionToNew", i, len(r.oldToNew)); err != nil {
		panic(err)
	}
	return r.oldToNew[i]
}

// ConvertNewPositionToOld returns the old position of the item at new
// position j, or -1 if it was inserted.
func (r *Result) ConvertNewPositionToOld(j int) int {
	if err := errors.CheckIndex("diff.ConvertNewPositionToOld", j, len(r.newToOld)); err != nil {
		panic(err)
	}
	return r.newToOld[j]
}

type stepKind int

const (
	stepMatch stepKind = iota
	stepDelete
	stepInsert
)

type step struct {
	kind     stepKind
	old, new int
}

// token is an old item still present in the simulated list, or a new one
// inserted into it (old == -1).
type token struct {
	old    int
	parked bool
}

// Calculate computes the script turning cb's old list into its new list.
//
// Matching follows the longest common subsequence of AreItemsTheSame. With
// detectMoves, every unmatched new item is paired with the first unmatched
// old item it is the same as, and the pair becomes a move instead of a
// removal and an insertion. Matched pairs whose contents differ produce a
// change carrying ChangePayload.
func Calculate(cb Callback, detectMoves bool) *Result {
	if cb == nil {
		panic(errors.Precondition("diff.Calculate", "nil callback"))
	}
	oldSize, newSize := cb.OldSize(), cb.NewSize()
	steps := align(cb, oldSize, newSize)

	r := &Result{oldToNew: filled(oldSize), newToOld: filled(newSize)}
	for _, s := range steps {
		if s.kind == stepMatch {
			r.oldToNew[s.old] = s.new
			r.newToOld[s.new] = s.old
		}
	}
	if detectMoves {
		pairMoves(cb, steps, r)
	}

	rec := &opRecorder{}
	batch := NewBatchingCallback(rec)
	simulate(cb, steps, r, oldSize, batch)
	batch.Flush()
	r.ops = rec.ops
	return r
}

func filled(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = -1
	}
	return s
}

func indexes(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// align runs the LCS over positions and orders every gap between two
// matches as its deletions followed by its insertions.
func align(cb Callback, oldSize, newSize int) []step {
	edits := zdiff.EditsFunc(indexes(oldSize), indexes(newSize), cb.AreItemsTheSame)

	steps := make([]step, 0, len(edits))
	var inserts []step
	oi, ni := 0, 0
	for _, e := range edits {
		switch e.Op {
		case zdiff.Match:
			steps = append(steps, inserts...)
			inserts = inserts[:0]
			steps = append(steps, step{kind: stepMatch, old: oi, new: ni})
			oi++
			ni++
		case zdiff.Delete:
			steps = append(steps, step{kind: stepDelete, old: oi, new: -1})
			oi++
		case zdiff.Insert:
			inserts = append(inserts, step{kind: stepInsert, old: -1, new: ni})
			ni++
		}
	}
	return append(steps, inserts...)
}

func pairMoves(cb Callback, steps []step, r *Result) {
	var deleted []int
	for _, s := range steps {
		if s.kind == stepDelete {
			deleted = append(deleted, s.old)
		}
	}
	if len(deleted) == 0 {
		return
	}
	for _, s := range steps {
		if s.kind != stepInsert {
			continue
		}
		for _, i := range deleted {
			if r.oldToNew[i] < 0 && cb.AreItemsTheSame(i, s.new) {
				r.oldToNew[i] = s.new
				r.newToOld[s.new] = i
				break
			}
		}
	}
}

// simulate replays the steps over a token list so every emitted position is
// valid after the notifications before it. Placed items form the prefix
// up to last, except for parked move sources waiting for their target.
func simulate(cb Callback, steps []step, r *Result, oldSize int, out ListUpdateCallback) {
	tokens := make([]token, oldSize)
	for i := range tokens {
		tokens[i] = token{old: i, parked: r.oldToNew[i] >= 0}
	}
	for _, s := range steps {
		if s.kind == stepMatch {
			tokens[s.old].parked = false
		}
	}

	last := -1
	find := func(old, from int) int {
		for p := from; p < len(tokens); p++ {
			if tokens[p].old == old {
				return p
			}
		}
		for p := 0; p < from; p++ {
			if tokens[p].old == old {
				return p
			}
		}
		panic(errors.Precondition("diff.Calculate", "old position %d lost", old))
	}
	parkedBetween := func(from, to int) bool {
		for p := from; p < to; p++ {
			if !tokens[p].parked {
				return false
			}
		}
		return true
	}
	changed := func(p, old, new int) {
		if !cb.AreContentsTheSame(old, new) {
			out.OnChanged(p, 1, cb.ChangePayload(old, new))
		}
	}

	for _, s := range steps {
		switch s.kind {
		case stepMatch:
			p := find(s.old, last+1)
			last = p
			changed(p, s.old, s.new)

		case stepDelete:
			if r.oldToNew[s.old] >= 0 {
				continue
			}
			p := find(s.old, last+1)
			tokens = append(tokens[:p], tokens[p+1:]...)
			out.OnRemoved(p, 1)

		case stepInsert:
			old := r.newToOld[s.new]
			if old < 0 {
				q := last + 1
				tokens = append(tokens, token{})
				copy(tokens[q+1:], tokens[q:])
				tokens[q] = token{old: -1}
				last = q
				out.OnInserted(q, 1)
				continue
			}
			p := find(old, last+1)
			t := tokens[p]
			t.parked = false
			if p > last && parkedBetween(last+1, p) {
				tokens[p] = t
				last = p
			} else {
				tokens = append(tokens[:p], tokens[p+1:]...)
				if p < last {
					last--
				}
				q := last + 1
				tokens = append(tokens, token{})
				copy(tokens[q+1:], tokens[q:])
				tokens[q] = t
				last = q
				out.OnMoved(p, q)
			}
			changed(last, old, s.new)
		}
	}
}

type opRecorder struct {
	ops []Op
}

func (r *opRecorder) OnInserted(position, count int) {
	r.ops = append(r.ops, Op{Kind: OpInsert, Position: position, Count: count})
}

func (r *opRecorder) OnRemoved(position, count int) {
	r.ops = append(r.ops, Op{Kind: OpRemove, Position: position, Count: count})
}

func (r *opRecorder) OnMoved(fromPosition, toPosition int) {
	r.ops = append(r.ops, Op{Kind: OpMove, Position: fromPosition, Count: 1, To: toPosition})
}

func (r *opRecorder) OnChanged(position, count int, payload any) {
	r.ops = append(r.ops, Op{Kind: OpChange, Position: position, Count: count, Payload: payload})
}
