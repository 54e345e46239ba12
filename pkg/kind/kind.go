// Package kind defines the descriptor classifying list entries into
// rendering types.
//
// A Kind is compared by pointer identity. Decorating a kind with
// [Kind.WithDiff], [Kind.WithEquality], [Kind.MaxRecycled] or [Kind.Named]
// returns a new *Kind that is still [Equal] to the original, because every
// decorator points back at the same canonical kind:
//
//	row := kind.New("row", newRowHolder)
//	diffed := row.WithDiff(kind.DiffFuncs[Row]{
//	    ItemsSame:    kind.EquateBy(func(r Row) int { return r.ID }),
//	    ContentsSame: kind.Equate[Row],
//	})
//	kind.Equal(row, diffed) // true
//	diffed.Canonical() == row // true
//
// Payloads are stored as any. The typed helpers in this package perform the
// type assertion so callers never handle an erased payload directly.
package kind

import "fmt"

// Holder is a rendering handle produced by a kind's factory. Binding
// receives the payload, its position, and the change payloads collected for
// a partial rebind (empty for a full rebind).
type Holder interface {
	Bind(payload any, position int, payloads []any)
}

// Factory instantiates holders for a kind.
type Factory func() Holder

// ItemDiffer is the optional diff contract of a kind.
type ItemDiffer interface {
	// AreItemsTheSame reports whether both payloads denote the same logical entry.
	AreItemsTheSame(oldItem, newItem any) bool
	// AreContentsTheSame reports whether a matched entry renders identically.
	AreContentsTheSame(oldItem, newItem any) bool
	// ChangePayload returns an opaque payload describing the change, or nil.
	ChangePayload(oldItem, newItem any) any
}

// Kind classifies entries. The zero value is not usable; use New.
type Kind struct {
	name        string
	factory     Factory
	base        *Kind
	differ      ItemDiffer
	maxRecycled int
}

// New creates a canonical kind. The factory may be nil for kinds that are
// never rendered (e.g. in tests or headless tools).
func New(name string, factory Factory) *Kind {
	return &Kind{name: name, factory: factory, maxRecycled: -1}
}

// Canonical returns the innermost kind this one decorates, or k itself.
func (k *Kind) Canonical() *Kind {
	if k == nil || k.base == nil {
		return k
	}
	return k.base
}

// Equal reports whether a and b decorate the same canonical kind.
func Equal(a, b *Kind) bool {
	return a.Canonical() == b.Canonical()
}

// Name returns the display name.
func (k *Kind) Name() string {
	return k.name
}

// Differ returns the diff contract, or nil.
func (k *Kind) Differ() ItemDiffer {
	return k.differ
}

// MaxRecycledHint returns the recycled holder capacity requested through
// MaxRecycled, or -1 when none was set.
func (k *Kind) MaxRecycledHint() int {
	return k.maxRecycled
}

// NewHolder instantiates a holder. It returns nil when the kind has no factory.
func (k *Kind) NewHolder() Holder {
	if k.factory == nil {
		return nil
	}
	return k.factory()
}

func (k *Kind) decorate() *Kind {
	c := *k
	c.base = k.Canonical()
	return &c
}

// WithDiff returns a kind equal to k that diffs with d.
func (k *Kind) WithDiff(d ItemDiffer) *Kind {
	c := k.decorate()
	c.differ = d
	return c
}

// WithEquality returns a kind equal to k whose entries are always the same
// item, and whose contents compare with reflect.DeepEqual.
func (k *Kind) WithEquality() *Kind {
	return k.WithDiff(equality{})
}

// MaxRecycled returns a kind equal to k that asks the resource pool to keep
// at most count recycled holders.
func (k *Kind) MaxRecycled(count int) *Kind {
	if k.maxRecycled == count {
		return k
	}
	c := k.decorate()
	c.maxRecycled = count
	return c
}

// Named returns a kind equal to k with a different display name.
func (k *Kind) Named(name string) *Kind {
	c := k.decorate()
	c.name = name
	return c
}

func (k *Kind) String() string {
	if k == nil {
		return "<nil kind>"
	}
	s := k.name
	if s == "" {
		s = fmt.Sprintf("kind@%p", k.Canonical())
	}
	if k.differ != nil {
		s += "+diff"
	}
	if k.maxRecycled >= 0 {
		s += fmt.Sprintf(".maxRecycled(%d)", k.maxRecycled)
	}
	return s
}
