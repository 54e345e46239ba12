package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-drift/delegapter/pkg/kind"
	"github.com/go-drift/delegapter/pkg/viewtype"
)

var _ viewtype.Pool = (*RecycledPool)(nil)

type holder struct{ id int }

func (holder) Bind(any, int, []any) {}

func TestPutGet(t *testing.T) {
	p := New(2)
	assert.True(t, p.Put(0, holder{1}))
	assert.True(t, p.Put(0, holder{2}))
	assert.False(t, p.Put(0, holder{3}), "third holder exceeds capacity")
	assert.Equal(t, 2, p.Count(0))

	h, ok := p.Get(0)
	assert.True(t, ok)
	assert.Equal(t, holder{2}, h)
	_, ok = p.Get(7)
	assert.False(t, ok)
}

func TestDefaults(t *testing.T) {
	p := New(-1)
	assert.Equal(t, DefaultMaxRecycled, p.MaxRecycled(3))
	for i := 0; i < DefaultMaxRecycled+1; i++ {
		p.Put(3, holder{i})
	}
	assert.Equal(t, DefaultMaxRecycled, p.Count(3))
}

func TestSetMaxRecycledTrims(t *testing.T) {
	p := New(-1)
	for i := 0; i < 4; i++ {
		p.Put(1, holder{i})
	}
	p.SetMaxRecycled(1, 1)
	assert.Equal(t, 1, p.Count(1))
	assert.Equal(t, 1, p.MaxRecycled(1))
}

func TestOnCodeEvicted(t *testing.T) {
	p := New(-1)
	p.Put(4, holder{1})
	p.OnCodeEvicted(4)
	assert.Equal(t, 0, p.Count(4))
	assert.False(t, p.Put(4, holder{2}), "evicted codes cache nothing")
}

func TestClearKeepsCapacities(t *testing.T) {
	p := New(-1)
	p.SetMaxRecycled(0, 1)
	p.Put(0, holder{1})
	p.Put(1, holder{2})
	p.Clear()
	assert.Equal(t, 0, p.Count(0))
	assert.Equal(t, 0, p.Count(1))
	assert.Equal(t, 1, p.MaxRecycled(0))
}

func TestRegistryDrivesPool(t *testing.T) {
	p := New(-1)
	r := viewtype.NewRegistry(viewtype.WithPool(p))
	k := kind.New("row", nil).MaxRecycled(1)
	code := r.ForceCode(k)
	assert.Equal(t, 1, p.MaxRecycled(code))
}
