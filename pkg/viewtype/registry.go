// Package viewtype assigns stable small integer codes to kinds.
//
// Codes identify rendering types for resource pooling. A root Registry
// hands them out densely, 0, 1, 2, ..., in first-seen order, keyed by the
// canonical kind so decorated kinds share the code of the kind they wrap.
// The registry holds kinds weakly: once the garbage collector reclaims a
// kind, the next registry call reports its code through the eviction hooks,
// telling the resource pool to drop holders cached for it. Codes are never
// reused.
//
// Child registries own nothing and forward every call to their parent, so
// several lists can share one code space and one resource pool.
package viewtype

import (
	"log/slog"
	"weak"

	"github.com/go-drift/delegapter/pkg/errors"
	"github.com/go-drift/delegapter/pkg/kind"
	"github.com/go-drift/delegapter/pkg/viewtype/internal/weakmap"
)

// Codes is the capability shared by root and child registries.
type Codes interface {
	// PeekCode returns the code of k, or -1 if k was never registered.
	PeekCode(k *kind.Kind) int
	// ForceCode returns the code of k, registering k first if needed.
	ForceCode(k *kind.Kind) int
	// KindFor returns the canonical kind registered under code, or nil if
	// the code is unknown or its kind was reclaimed.
	KindFor(code int) *kind.Kind
}

// Pool is the resource pool collaborator keyed by code.
type Pool interface {
	// OnCodeEvicted drops everything cached for code.
	OnCodeEvicted(code int)
	// SetMaxRecycled caps the number of holders cached for code.
	SetMaxRecycled(code, max int)
}

// Observer is notified of registrations and evictions.
type Observer interface {
	CodeRegistered(code int)
	CodeEvicted(code int)
}

// Option configures a root Registry.
type Option func(*Registry)

// WithPool sets the resource pool receiving capacity hints and evictions.
func WithPool(p Pool) Option {
	return func(r *Registry) { r.pool = p }
}

// WithEvictionHook sets a function called with every evicted code.
func WithEvictionHook(fn func(code int)) Option {
	return func(r *Registry) { r.onEvict = fn }
}

// WithObserver sets an observer, typically metrics.
func WithObserver(o Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// WithLogger sets the logger for debug records. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithCapacity presizes the registry for n kinds.
func WithCapacity(n int) Option {
	return func(r *Registry) { r.capacity = n }
}

// Registry is a root registry. It is not safe for concurrent use.
type Registry struct {
	codes    *weakmap.Map[kind.Kind, int]
	kinds    []weak.Pointer[kind.Kind]
	pool     Pool
	onEvict  func(code int)
	observer Observer
	logger   *slog.Logger
	capacity int
}

// NewRegistry creates a root registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{capacity: 16}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.codes = weakmap.New[kind.Kind, int](r.capacity, r.evicted)
	r.kinds = make([]weak.Pointer[kind.Kind], 0, max(r.capacity, 0))
	return r
}

func (r *Registry) evicted(code int) {
	if r.pool != nil {
		r.pool.OnCodeEvicted(code)
	}
	if r.onEvict != nil {
		r.onEvict(code)
	}
	if r.observer != nil {
		r.observer.CodeEvicted(code)
	}
	r.logger.Debug("view type evicted", slog.Int("code", code))
}

func canonical(op string, k *kind.Kind) *kind.Kind {
	if k == nil {
		panic(errors.Argument(op, "nil kind"))
	}
	return k.Canonical()
}

// PeekCode implements Codes.
func (r *Registry) PeekCode(k *kind.Kind) int {
	if code, ok := r.codes.Get(canonical("viewtype.PeekCode", k)); ok {
		return code
	}
	return -1
}

// ForceCode implements Codes. A kind decorated with kind.MaxRecycled passes
// its hint to the pool when it is the first to register its canonical kind.
func (r *Registry) ForceCode(k *kind.Kind) int {
	c := canonical("viewtype.ForceCode", k)
	if code, ok := r.codes.Get(c); ok {
		return code
	}
	code := len(r.kinds)
	r.kinds = append(r.kinds, r.codes.Put(c, code))
	if hint := k.MaxRecycledHint(); hint >= 0 && r.pool != nil {
		r.pool.SetMaxRecycled(code, hint)
	}
	if r.observer != nil {
		r.observer.CodeRegistered(code)
	}
	r.logger.Debug("view type registered", slog.Int("code", code), slog.String("kind", c.String()))
	return code
}

// KindFor implements Codes.
func (r *Registry) KindFor(code int) *kind.Kind {
	r.codes.Expunge()
	if code < 0 || code >= len(r.kinds) {
		return nil
	}
	return r.kinds[code].Value()
}

// Len returns the number of kinds still registered.
func (r *Registry) Len() int {
	return r.codes.Len()
}

// Issued returns how many codes were ever handed out. The next new kind
// receives code Issued().
func (r *Registry) Issued() int {
	return len(r.kinds)
}

// Expunge reports the codes of reclaimed kinds now instead of on the next
// lookup, and returns how many were reported.
func (r *Registry) Expunge() int {
	return r.codes.Expunge()
}

// Child forwards every call to its parent.
type Child struct {
	parent Codes
}

// NewChild creates a registry sharing parent's code space. parent may itself
// be a child.
func NewChild(parent Codes) *Child {
	if parent == nil {
		panic(errors.Argument("viewtype.NewChild", "nil parent"))
	}
	return &Child{parent: parent}
}

// PeekCode implements Codes.
func (c *Child) PeekCode(k *kind.Kind) int { return c.parent.PeekCode(k) }

// ForceCode implements Codes.
func (c *Child) ForceCode(k *kind.Kind) int { return c.parent.ForceCode(k) }

// KindFor implements Codes.
func (c *Child) KindFor(code int) *kind.Kind { return c.parent.KindFor(code) }

// Root follows the parent chain up to the registry owning the storage. It
// returns nil if the chain ends in a foreign Codes implementation.
func (c *Child) Root() *Registry {
	switch p := c.parent.(type) {
	case *Registry:
		return p
	case *Child:
		return p.Root()
	}
	return nil
}
