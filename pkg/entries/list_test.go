package entries

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/delegapter/pkg/errors"
	"github.com/go-drift/delegapter/pkg/kind"
)

var (
	header = kind.New("header", nil)
	row    = kind.New("row", nil)
)

func items(l *List) []any {
	out := make([]any, 0, l.Len())
	l.Each(func(_ int, _ *kind.Kind, item any) bool {
		out = append(out, item)
		return true
	})
	return out
}

func fill(t *testing.T, values ...any) *List {
	t.Helper()
	l := New(-1)
	for _, v := range values {
		require.NoError(t, l.Insert(l.Len(), row, v))
	}
	return l
}

func TestInsertAndSet(t *testing.T) {
	l := New(4)
	require.NoError(t, l.Insert(0, row, "b"))
	require.NoError(t, l.Insert(0, header, "a"))
	require.NoError(t, l.Insert(2, row, "c"))
	assert.Equal(t, []any{"a", "b", "c"}, items(l))
	assert.Same(t, header, l.KindAt(0))

	require.NoError(t, l.Set(1, header, "B"))
	assert.Equal(t, "B", l.ItemAt(1))
	assert.Same(t, header, l.KindAt(1))
	assert.Equal(t, 2, l.LastIndex())
}

func TestInvalidArgumentsLeaveListUntouched(t *testing.T) {
	l := fill(t, "a", "b")

	err := l.Insert(3, row, "x")
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Insert(0, nil, "x"), errors.ErrInvalidArgument)
	assert.ErrorIs(t, l.Set(2, row, "x"), errors.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.InsertRepeated(-1, row, []any{"x"}), errors.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.RemoveAt(2), errors.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.RemoveRange(2, 1), errors.ErrInvalidArgument)
	assert.ErrorIs(t, l.RemoveRange(0, 3), errors.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.InsertFrom(0, l, 1, 0), errors.ErrInvalidArgument)

	assert.Equal(t, []any{"a", "b"}, items(l))
}

func TestAccessorsPanicOutOfRange(t *testing.T) {
	l := fill(t, "a")
	assert.Panics(t, func() { l.ItemAt(1) })
	assert.Panics(t, func() { l.KindAt(-1) })

	defer func() {
		r := recover()
		ie, ok := r.(*errors.IndexError)
		require.True(t, ok, "expected *errors.IndexError, got %T", r)
		assert.Equal(t, 5, ie.Index)
		assert.Equal(t, 1, ie.Size)
	}()
	l.ItemAt(5)
}

func TestInsertRepeated(t *testing.T) {
	l := fill(t, "first", "last")
	payloads := make([]any, 1000)
	for i := range payloads {
		payloads[i] = i
	}
	require.NoError(t, l.InsertRepeated(1, header, payloads))

	require.Equal(t, 1002, l.Len())
	assert.Same(t, row, l.KindAt(0))
	assert.Same(t, row, l.KindAt(1001))
	for i := 0; i < 1000; i++ {
		assert.Same(t, header, l.KindAt(i+1))
		assert.Equal(t, i, l.ItemAt(i+1))
	}
	assert.Equal(t, "last", l.ItemAt(1001))

	require.NoError(t, l.InsertRepeated(0, header, nil))
	assert.Equal(t, 1002, l.Len())
}

func TestInsertFrom(t *testing.T) {
	src := New(-1)
	require.NoError(t, src.Insert(0, header, "h"))
	require.NoError(t, src.Insert(1, row, "r1"))
	require.NoError(t, src.Insert(2, row, "r2"))

	dst := fill(t, "x")
	require.NoError(t, dst.InsertFrom(0, src, 1, 3))
	assert.Equal(t, []any{"r1", "r2", "x"}, items(dst))

	require.NoError(t, dst.InsertFrom(1, dst, 0, 3))
	assert.Equal(t, []any{"r1", "r1", "r2", "x", "r2", "x"}, items(dst))
}

func TestRemoveIfReportsRunsInShiftedIndexSpace(t *testing.T) {
	l := fill(t, 0, 1, 2, 3, 4)
	runs := l.RemoveIf(func(i int) bool { return i == 1 || i == 3 })

	assert.Equal(t, []Run{{Position: 1, Count: 1}, {Position: 2, Count: 1}}, runs)
	assert.Equal(t, []any{0, 2, 4}, items(l))
}

func TestRemoveIfMergesContiguousRuns(t *testing.T) {
	l := fill(t, 0, 1, 2, 3, 4, 5, 6, 7)
	remove := map[int]bool{0: true, 1: true, 3: true, 4: true, 5: true, 7: true}
	runs := l.RemoveIf(func(i int) bool { return remove[i] })

	assert.Equal(t, []Run{{0, 2}, {1, 3}, {2, 1}}, runs)
	assert.Equal(t, []any{2, 6}, items(l))
	assert.Nil(t, l.RemoveIf(func(int) bool { return false }))
}

func TestRemoveIfKeepsSentinelLookalikes(t *testing.T) {
	l := fill(t, &tombstone{}, []int{1}, nil)
	runs := l.RemoveIf(func(i int) bool { return i == 1 })
	assert.Equal(t, []Run{{1, 1}}, runs)
	assert.Equal(t, 2, l.Len())
	assert.Nil(t, l.ItemAt(1))
}

func TestRemoveAtAndRange(t *testing.T) {
	l := fill(t, "a", "b", "c", "d", "e")
	require.NoError(t, l.RemoveAt(0))
	require.NoError(t, l.RemoveRange(1, 3))
	assert.Equal(t, []any{"b", "e"}, items(l))
	require.NoError(t, l.RemoveRange(1, 1))
	assert.Equal(t, 2, l.Clear())
	assert.True(t, l.IsEmpty())
}

func TestQueries(t *testing.T) {
	l := New(-1)
	require.NoError(t, l.InsertRepeated(0, row, []any{"a", "b", "a"}))
	require.NoError(t, l.Insert(3, header.Named("title"), "a"))

	assert.True(t, l.Contains("b"))
	assert.False(t, l.Contains("z"))
	assert.True(t, l.ContainsAll([]any{"a", "b"}))
	assert.False(t, l.ContainsAll([]any{"a", "z"}))
	assert.True(t, l.ContainsKind(header), "decorated kinds match their canonical kind")
	assert.False(t, l.ContainsKind(kind.New("other", nil)))

	assert.Equal(t, 0, l.IndexOf(row, "a", 0, 1))
	assert.Equal(t, 2, l.IndexOf(row, "a", 1, 1))
	assert.Equal(t, 2, l.IndexOf(row, "a", l.LastIndex(), -1))
	assert.Equal(t, 3, l.IndexOf(header, "a", 0, 1))
	assert.Equal(t, -1, l.IndexOf(header, "b", 0, 1))
	assert.Equal(t, -1, l.IndexOf(row, "a", 10, 1))
	assert.Equal(t, 0, l.IndexOf(row, "a", 0, 2))

	assert.Equal(t, 1, l.IndexFunc(nil, func(v any) bool { return v == "b" }, 0, 1))
	assert.Equal(t, 3, l.IndexFunc(func(k *kind.Kind) bool { return kind.Equal(k, header) }, nil, 3, -1))

	assert.Panics(t, func() { l.IndexOf(row, "a", 0, 0) })
}

func TestSwap(t *testing.T) {
	a := fill(t, "a")
	b := fill(t, "b", "c")
	a.Swap(b)
	assert.Equal(t, []any{"b", "c"}, items(a))
	assert.Equal(t, []any{"a"}, items(b))
}

func TestString(t *testing.T) {
	l := New(-1)
	require.NoError(t, l.Insert(0, header, "Title"))
	assert.Equal(t, "List(1): [\n#0 header: Title\n]", l.String())
}

// TestParallelStoresStayAligned drives random mutations against a reference
// model and checks both stores after every call.
func TestParallelStoresStayAligned(t *testing.T) {
	type entry struct {
		k    *kind.Kind
		item any
	}
	rng := rand.New(rand.NewSource(42))
	kinds := []*kind.Kind{header, row, row.MaxRecycled(1)}
	l := New(-1)
	var model []entry

	for step := 0; step < 2000; step++ {
		k := kinds[rng.Intn(len(kinds))]
		n := len(model)
		switch rng.Intn(6) {
		case 0:
			at := rng.Intn(n + 1)
			require.NoError(t, l.Insert(at, k, step))
			model = slices.Insert(model, at, entry{k, step})
		case 1:
			at := rng.Intn(n + 1)
			batch := []any{step, step + 1, step + 2}
			require.NoError(t, l.InsertRepeated(at, k, batch))
			model = slices.Insert(model, at, entry{k, step}, entry{k, step + 1}, entry{k, step + 2})
		case 2:
			if n == 0 {
				continue
			}
			at := rng.Intn(n)
			require.NoError(t, l.Set(at, k, -step))
			model[at] = entry{k, -step}
		case 3:
			if n == 0 {
				continue
			}
			from := rng.Intn(n)
			to := from + rng.Intn(n-from+1)
			require.NoError(t, l.RemoveRange(from, to))
			model = slices.Delete(model, from, to)
		case 4:
			mod := rng.Intn(4) + 2
			l.RemoveIf(func(i int) bool { return i%mod == 0 })
			var kept []entry
			for i, e := range model {
				if i%mod != 0 {
					kept = append(kept, e)
				}
			}
			model = kept
		case 5:
			if n > 50 {
				l.Clear()
				model = nil
			}
		}

		require.Equal(t, len(model), l.Len())
		require.Equal(t, len(l.kinds), len(l.items))
		for i, e := range model {
			require.Same(t, e.k, l.KindAt(i))
			require.Equal(t, e.item, l.ItemAt(i))
		}
	}
}
