// Package delegapter manages the ordered (kind, payload) entries behind a
// virtualized list and keeps a rendering consumer informed of every change.
//
// A Delegapter can be edited in two ways. Direct mutations (Add, Set,
// RemoveAt, ...) change the live list and notify the consumer once per call.
// A replace transaction builds the complete desired list silently and then
// delivers only the edit script between the live list and the new one:
//
//	err := d.Replace(true, func(b *delegapter.Builder) error {
//	    b.Add(header, title)
//	    b.AddAll(row, rows)
//	    return nil
//	})
//
// Every kind that enters a list is registered with the type registry, which
// assigns it the code resource pools are keyed by. Lists created WithParent
// share their parent's registry, pool and differ.
//
// A Delegapter is not safe for concurrent use, and consumers must not mutate
// the list that is notifying them.
package delegapter

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/go-drift/delegapter/pkg/config"
	"github.com/go-drift/delegapter/pkg/diff"
	"github.com/go-drift/delegapter/pkg/entries"
	"github.com/go-drift/delegapter/pkg/errors"
	"github.com/go-drift/delegapter/pkg/kind"
	"github.com/go-drift/delegapter/pkg/metrics"
	"github.com/go-drift/delegapter/pkg/pool"
	"github.com/go-drift/delegapter/pkg/viewtype"
)

// Option configures a Delegapter.
type Option func(*options)

type options struct {
	parent       *Delegapter
	itemCapacity int
	kindCapacity int
	maxRecycled  int
	pool         viewtype.Pool
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// WithParent shares parent's type registry, resource pool and differ.
// Logger and metrics are inherited unless set explicitly.
func WithParent(parent *Delegapter) Option {
	return func(o *options) { o.parent = parent }
}

// WithItemCapacity presizes the entry store.
func WithItemCapacity(n int) Option {
	return func(o *options) { o.itemCapacity = n }
}

// WithKindCapacity presizes the type registry. Ignored for children.
func WithKindCapacity(n int) Option {
	return func(o *options) { o.kindCapacity = n }
}

// WithPool sets the resource pool. Defaults to a pool.RecycledPool.
// Ignored for children.
func WithPool(p viewtype.Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics counts registrations, evictions, diffs and notifications.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithConfig applies the capacities of cfg. Options after it override it.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.itemCapacity = cfg.Items.InitialCapacity
		o.kindCapacity = cfg.Kinds.InitialCapacity
		o.maxRecycled = cfg.Kinds.DefaultMaxRecycled
	}
}

// Delegapter is a live entry list bound to a notification consumer.
type Delegapter struct {
	view

	id       uuid.UUID
	target   diff.ListUpdateCallback
	codes    viewtype.Codes
	registry *viewtype.Registry
	pool     viewtype.Pool
	differ   *differ
	logger   *slog.Logger
	metrics  *metrics.Metrics
	capacity int
}

// New creates an empty list notifying target. A nil target discards
// notifications.
func New(target diff.ListUpdateCallback, opts ...Option) *Delegapter {
	o := options{itemCapacity: -1, kindCapacity: 16, maxRecycled: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if target == nil {
		target = diff.NullCallback{}
	}

	d := &Delegapter{id: uuid.New(), capacity: o.itemCapacity}
	if p := o.parent; p != nil {
		d.codes = viewtype.NewChild(p.codes)
		d.pool = p.pool
		d.differ = p.differ
		d.logger = p.logger
		d.metrics = p.metrics
	} else {
		d.pool = o.pool
		if d.pool == nil {
			d.pool = pool.New(o.maxRecycled)
		}
		d.differ = &differ{}
	}
	if o.logger != nil {
		d.logger = o.logger
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if o.metrics != nil {
		d.metrics = o.metrics
	}
	if o.parent == nil {
		regOpts := []viewtype.Option{
			viewtype.WithPool(d.pool),
			viewtype.WithLogger(d.logger),
			viewtype.WithCapacity(o.kindCapacity),
		}
		if d.metrics != nil {
			regOpts = append(regOpts, viewtype.WithObserver(d.metrics))
		}
		d.registry = viewtype.NewRegistry(regOpts...)
		d.codes = d.registry
	}

	d.list = entries.New(o.itemCapacity)
	d.target = d.metrics.Counting(target)
	return d
}

// ID identifies the list in log records.
func (d *Delegapter) ID() uuid.UUID {
	return d.id
}

func (d *Delegapter) String() string {
	return fmt.Sprintf("Delegapter(%s) %s", d.id, d.list)
}

// CodeAt returns the type code of the entry at pos, registering its kind if
// needed.
func (d *Delegapter) CodeAt(pos int) int {
	return d.codes.ForceCode(d.list.KindAt(pos))
}

// PeekCode returns the code of k, or -1 if k was never registered.
func (d *Delegapter) PeekCode(k *kind.Kind) int {
	return d.codes.PeekCode(k)
}

// ForceCode returns the code of k, registering it if needed.
func (d *Delegapter) ForceCode(k *kind.Kind) int {
	return d.codes.ForceCode(k)
}

// KindFor returns the kind registered under code, or nil.
func (d *Delegapter) KindFor(code int) *kind.Kind {
	return d.codes.KindFor(code)
}

// Codes returns the type registry shared by this list.
func (d *Delegapter) Codes() viewtype.Codes {
	return d.codes
}

// Pool returns the resource pool shared by this list.
func (d *Delegapter) Pool() viewtype.Pool {
	return d.pool
}

type holderCache interface {
	Get(code int) (kind.Holder, bool)
	Put(code int, h kind.Holder) bool
}

// CreateHolder returns a recycled holder for code if the pool has one, and
// a new one from the kind's factory otherwise.
func (d *Delegapter) CreateHolder(code int) (kind.Holder, error) {
	const op = "delegapter.CreateHolder"
	if c, ok := d.pool.(holderCache); ok {
		if h, ok := c.Get(code); ok {
			return h, nil
		}
	}
	k := d.codes.KindFor(code)
	if k == nil {
		return nil, errors.Argument(op, "unknown view type code %d", code)
	}
	h := k.NewHolder()
	if h == nil {
		return nil, errors.Argument(op, "kind %s has no holder factory", k)
	}
	return h, nil
}

// Recycle offers a holder back to the pool. It reports false when the pool
// does not cache holders or has no room for this code.
func (d *Delegapter) Recycle(code int, h kind.Holder) bool {
	if c, ok := d.pool.(holderCache); ok {
		return c.Put(code, h)
	}
	return false
}

// Bind binds the payload at pos into h. payloads are the change payloads of
// a partial rebind, empty for a full one.
func (d *Delegapter) Bind(h kind.Holder, pos int, payloads []any) {
	h.Bind(d.list.ItemAt(pos), pos, payloads)
}
