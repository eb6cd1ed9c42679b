package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertGetRemove(t *testing.T) {
	a := New[string]()

	r := a.Insert("first")
	require.False(t, r.IsZero())
	require.Equal(t, 1, a.Len())

	v, ok := a.Get(r)
	require.True(t, ok)
	require.Equal(t, "first", v)

	old, ok := a.Remove(r)
	require.True(t, ok)
	require.Equal(t, "first", old)
	require.Zero(t, a.Len())

	_, ok = a.Get(r)
	require.False(t, ok)
	_, ok = a.Remove(r)
	require.False(t, ok)
}

func TestStaleRefDoesNotResolveReusedSlot(t *testing.T) {
	a := New[int]()

	stale := a.Insert(1)
	_, ok := a.Remove(stale)
	require.True(t, ok)

	fresh := a.Insert(2)
	require.Equal(t, stale.Index, fresh.Index, "slot should be reused")
	require.NotEqual(t, stale.Gen, fresh.Gen)

	_, ok = a.Get(stale)
	require.False(t, ok)
	_, ok = a.Swap(stale, 3)
	require.False(t, ok)

	v, ok := a.Get(fresh)
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestSwapKeepsRef(t *testing.T) {
	a := New[string]()
	r := a.Insert("tree")

	old, ok := a.Swap(r, "placeholder")
	require.True(t, ok)
	assert.Equal(t, "tree", old)

	v, ok := a.Get(r)
	require.True(t, ok)
	assert.Equal(t, "placeholder", v)
	assert.Equal(t, 1, a.Len())
}

func TestZeroRefNeverResolves(t *testing.T) {
	a := New[int]()
	a.Insert(5)
	_, ok := a.Get(Ref{})
	require.False(t, ok)
	_, ok = a.Get(Ref{Index: 99, Gen: 1})
	require.False(t, ok)
}

func TestPackRoundTrip(t *testing.T) {
	r := Ref{Index: 0xdeadbeef, Gen: 7}
	require.Equal(t, r, Unpack(r.Pack()))
	require.Zero(t, Ref{}.Pack())
}

func TestConcurrentInsertRemove(t *testing.T) {
	a := New[int]()
	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				r := a.Insert(w*perWorker + i)
				v, ok := a.Get(r)
				if !ok || v != w*perWorker+i {
					t.Errorf("worker %d: lost value %d", w, i)
					return
				}
				if _, ok := a.Remove(r); !ok {
					t.Errorf("worker %d: remove failed", w)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	require.Zero(t, a.Len())
}
