// Package pool caches recyclable holders by view type code.
//
// RecycledPool is the reference resource pool for a viewtype.Registry: the
// registry tells it how many holders to keep per code and when a code's kind
// is gone for good, at which point everything cached for that code is
// dropped.
package pool

import "github.com/go-drift/delegapter/pkg/kind"

// DefaultMaxRecycled is the capacity of a code nobody configured.
const DefaultMaxRecycled = 5

type scrap struct {
	holders []kind.Holder
	max     int
}

// RecycledPool keeps recycled holders per code. It is not safe for
// concurrent use.
type RecycledPool struct {
	scraps     map[int]*scrap
	defaultMax int
}

// New creates an empty pool. A negative defaultMax selects
// DefaultMaxRecycled.
func New(defaultMax int) *RecycledPool {
	if defaultMax < 0 {
		defaultMax = DefaultMaxRecycled
	}
	return &RecycledPool{scraps: make(map[int]*scrap), defaultMax: defaultMax}
}

func (p *RecycledPool) scrapFor(code int) *scrap {
	s := p.scraps[code]
	if s == nil {
		s = &scrap{max: p.defaultMax}
		p.scraps[code] = s
	}
	return s
}

// SetMaxRecycled caps the holders kept for code, dropping the excess.
func (p *RecycledPool) SetMaxRecycled(code, max int) {
	s := p.scrapFor(code)
	s.max = max
	for len(s.holders) > max {
		s.holders[len(s.holders)-1] = nil
		s.holders = s.holders[:len(s.holders)-1]
	}
}

// MaxRecycled returns the capacity for code.
func (p *RecycledPool) MaxRecycled(code int) int {
	if s := p.scraps[code]; s != nil {
		return s.max
	}
	return p.defaultMax
}

// OnCodeEvicted drops every holder of code and stops caching new ones.
func (p *RecycledPool) OnCodeEvicted(code int) {
	p.SetMaxRecycled(code, 0)
}

// Put offers a holder for reuse. It reports false when the code is full and
// the holder was dropped.
func (p *RecycledPool) Put(code int, h kind.Holder) bool {
	s := p.scrapFor(code)
	if len(s.holders) >= s.max {
		return false
	}
	s.holders = append(s.holders, h)
	return true
}

// Get takes a holder for code, if one is cached.
func (p *RecycledPool) Get(code int) (kind.Holder, bool) {
	s := p.scraps[code]
	if s == nil || len(s.holders) == 0 {
		return nil, false
	}
	h := s.holders[len(s.holders)-1]
	s.holders[len(s.holders)-1] = nil
	s.holders = s.holders[:len(s.holders)-1]
	return h, true
}

// Count returns how many holders are cached for code.
func (p *RecycledPool) Count(code int) int {
	if s := p.scraps[code]; s != nil {
		return len(s.holders)
	}
	return 0
}

// Clear drops every cached holder and keeps the capacities.
func (p *RecycledPool) Clear() {
	for _, s := range p.scraps {
		clear(s.holders)
		s.holders = s.holders[:0]
	}
}
