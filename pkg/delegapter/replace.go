package delegapter

import (
	"log/slog"
	"time"

	"github.com/go-drift/delegapter/pkg/entries"
	"github.com/go-drift/delegapter/pkg/errors"
	"github.com/go-drift/delegapter/pkg/kind"
	"github.com/go-drift/delegapter/pkg/viewtype"
)

// ReplaceOption configures a replace transaction.
type ReplaceOption func(*replaceOptions)

type replaceOptions struct {
	capacity int
}

// ScratchCapacity presizes the list the transaction builds.
func ScratchCapacity(n int) ReplaceOption {
	return func(o *replaceOptions) { o.capacity = n }
}

// Builder describes the new contents of a list during Replace. It emits no
// notifications; kinds are registered as they are added. A Builder must not
// be used after its build function returns.
type Builder struct {
	view
	codes viewtype.Codes
}

// Add appends an entry. It panics if k is nil.
func (b *Builder) Add(k *kind.Kind, item any) {
	if err := b.AddAt(b.list.Len(), k, item); err != nil {
		panic(err)
	}
}

// AddAt inserts an entry at position at.
func (b *Builder) AddAt(at int, k *kind.Kind, item any) error {
	if err := b.list.Insert(at, k, item); err != nil {
		return err
	}
	b.codes.ForceCode(k)
	return nil
}

// Set replaces the entry at position at.
func (b *Builder) Set(at int, k *kind.Kind, item any) error {
	if err := b.list.Set(at, k, item); err != nil {
		return err
	}
	b.codes.ForceCode(k)
	return nil
}

// AddAll appends items under the single kind k. It panics if k is nil.
func (b *Builder) AddAll(k *kind.Kind, items []any) {
	if err := b.AddAllAt(b.list.Len(), k, items); err != nil {
		panic(err)
	}
}

// AddAllAt inserts items under the single kind k at position at.
func (b *Builder) AddAllAt(at int, k *kind.Kind, items []any) error {
	if err := b.list.InsertRepeated(at, k, items); err != nil {
		return err
	}
	if len(items) > 0 {
		b.codes.ForceCode(k)
	}
	return nil
}

// AddAllFrom inserts the entries src[from:to] at position at. Copying from
// the list being replaced is how a transaction keeps existing entries.
func (b *Builder) AddAllFrom(src *Delegapter, from, to, at int) error {
	var list *entries.List
	if src != nil {
		list = src.list
	}
	if err := b.list.InsertFrom(at, list, from, to); err != nil {
		return err
	}
	registerRange(b.codes.ForceCode, b.list, at, at+to-from)
	return nil
}

// Replace rebuilds the list in one transaction. build describes the new
// contents on an empty Builder; the consumer then receives the edit script
// from the current contents to the new ones, and the new contents become
// live. With detectMoves, entries that changed position are reported as
// moves instead of removals and insertions.
//
// If build returns an error or panics, nothing is notified and the list is
// unchanged. Kinds added by build stay registered either way.
func (d *Delegapter) Replace(detectMoves bool, build func(b *Builder) error, opts ...ReplaceOption) error {
	if build == nil {
		return errors.Argument("delegapter.Replace", "nil build function")
	}
	o := replaceOptions{capacity: max(d.capacity, d.list.Len())}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Builder{view: view{list: entries.New(o.capacity)}, codes: d.codes}
	if err := build(b); err != nil {
		return err
	}

	start := time.Now()
	oldLen := d.list.Len()
	r := d.differ.run(d.list, b.list, detectMoves, d.target)
	d.list.Swap(b.list)
	b.list = nil

	elapsed := time.Since(start)
	d.metrics.DiffApplied(elapsed)
	d.logger.Debug("replace applied",
		slog.String("id", d.id.String()),
		slog.Int("old", oldLen),
		slog.Int("new", d.list.Len()),
		slog.Int("ops", len(r.Ops())),
		slog.Bool("moves", detectMoves),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}
