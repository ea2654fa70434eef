package hamt

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/npillmayer/pcoll/persistent"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransientAssocPersistent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tm := Empty[int, int](withIdentityHash()).AsTransient()
	for i := 0; i < 1000; i++ {
		require.NoError(t, tm.Assoc(i, -i))
	}
	n, err := tm.Len()
	require.NoError(t, err)
	assert.Equal(t, 1000, n)
	v, ok, err := tm.Get(999)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -999, v)
	m, err := tm.Persistent()
	require.NoError(t, err)
	assert.Equal(t, 1000, m.Len())
	for i := 0; i < 1000; i++ {
		if x := m.GetOr(i, 1); x != -i {
			t.Fatalf("expected m[%d] to be %d, is %d", i, -i, x)
		}
	}
}

func TestTransientSealed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	tm := Empty[string, int]().AsTransient()
	require.NoError(t, tm.Assoc("a", 1))
	_, err := tm.Persistent()
	require.NoError(t, err)
	assert.ErrorIs(t, tm.Assoc("b", 2), persistent.ErrTransientSealed)
	assert.ErrorIs(t, tm.Dissoc("a"), persistent.ErrTransientSealed)
	_, _, err = tm.Get("a")
	assert.ErrorIs(t, err, persistent.ErrTransientSealed)
	_, err = tm.Len()
	assert.ErrorIs(t, err, persistent.ErrTransientSealed)
	_, err = tm.Persistent()
	assert.ErrorIs(t, err, persistent.ErrTransientSealed)
}

func TestTransientLeavesSourceUntouched(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := Empty[int, int](withIdentityHash())
	for i := 0; i < 100; i++ {
		m = m.Assoc(i, i)
	}
	tm := m.AsTransient()
	for i := 0; i < 100; i += 2 {
		require.NoError(t, tm.Dissoc(i))
		require.NoError(t, tm.Assoc(i+1, 0))
	}
	require.NoError(t, tm.Assoc(500, 500))
	changed, err := tm.Persistent()
	require.NoError(t, err)
	assert.Equal(t, 51, changed.Len())
	assert.Equal(t, 100, m.Len())
	for i := 0; i < 100; i++ {
		assert.Equal(t, i, m.GetOr(i, -1))
	}
	// nodes of a sealed transient are frozen for later transients
	again := changed.AsTransient()
	require.NoError(t, again.Assoc(1, 111))
	require.NoError(t, again.Dissoc(3))
	assert.Equal(t, 0, changed.GetOr(1, -1))
	assert.True(t, changed.ContainsKey(3))
}

func TestTransientNilKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	tm := Empty[any, int]().AsTransient()
	require.NoError(t, tm.Assoc(nil, 1))
	require.NoError(t, tm.Assoc(nil, 2))
	require.NoError(t, tm.Assoc("x", 3))
	n, _ := tm.Len()
	assert.Equal(t, 2, n)
	v, ok, _ := tm.Get(nil)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	require.NoError(t, tm.Dissoc(nil))
	require.NoError(t, tm.Dissoc(nil))
	n, _ = tm.Len()
	assert.Equal(t, 1, n)
	m, err := tm.Persistent()
	require.NoError(t, err)
	assert.False(t, m.ContainsKey(nil))
	assert.Equal(t, 3, m.GetOr("x", 0))
}

// A transient must end up with the same entries as the equivalent sequence of
// persistent operations.
func TestTransientEquivalence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	weak := WithHasher[int](HasherFunc[int](func(k int) uint32 { return uint32(k % 250) }))
	for _, opts := range [][]Option{nil, {weak}, {weak, PromoteAt(3), DemoteAt(2)}} {
		rnd := rand.New(rand.NewSource(4711))
		m := Empty[int, int](opts...)
		tm := m.AsTransient()
		for step := 0; step < 5000; step++ {
			k := rnd.Intn(800)
			if rnd.Intn(3) == 0 {
				m = m.Dissoc(k)
				require.NoError(t, tm.Dissoc(k))
			} else {
				m = m.Assoc(k, step)
				require.NoError(t, tm.Assoc(k, step))
			}
			n, err := tm.Len()
			require.NoError(t, err)
			if n != m.Len() {
				t.Fatalf("step %d: expected transient to have %d entries, has %d", step, m.Len(), n)
			}
		}
		result, err := tm.Persistent()
		require.NoError(t, err)
		assert.Equal(t, m.GoMap(), result.GoMap())
	}
}

func TestTransientConcurrentUse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tm := Empty[int, int]().AsTransient()
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				err := tm.Assoc(g*2000+i, i)
				mu.Lock()
				if err == nil {
					accepted++
				} else {
					assert.ErrorIs(t, err, persistent.ErrConcurrentEdit)
					rejected++
				}
				mu.Unlock()
			}
		}(g)
	}
	wg.Wait()
	m, err := tm.Persistent()
	require.NoError(t, err)
	assert.Equal(t, accepted, m.Len(), "every accepted assoc must be visible")
	assert.Equal(t, 8000, accepted+rejected)
}
