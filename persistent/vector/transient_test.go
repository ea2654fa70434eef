package vector

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

func TestTransientPushPersistent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.vector")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tv := Empty[int]().AsTransient()
	for i := 0; i < 1500; i++ {
		require.NoError(t, tv.Push(i))
	}
	n, err := tv.Len()
	require.NoError(t, err)
	assert.Equal(t, 1500, n)
	v, err := tv.Persistent()
	require.NoError(t, err)
	checkContents(t, v, 1500)
	assert.Equal(t, cap(v.tail), len(v.tail), "expected tail to be trimmed")
}

func TestTransientSealed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.vector")
	defer teardown()
	//
	tv := pushN(Empty[int](), 40).AsTransient()
	_, err := tv.Persistent()
	require.NoError(t, err)
	assert.ErrorIs(t, tv.Push(1), persistent.ErrTransientSealed)
	assert.ErrorIs(t, tv.Pop(), persistent.ErrTransientSealed)
	assert.ErrorIs(t, tv.Set(0, 1), persistent.ErrTransientSealed)
	_, err = tv.Get(0)
	assert.ErrorIs(t, err, persistent.ErrTransientSealed)
	_, err = tv.Len()
	assert.ErrorIs(t, err, persistent.ErrTransientSealed)
	_, err = tv.Persistent()
	assert.ErrorIs(t, err, persistent.ErrTransientSealed)
}

func TestTransientDoesNotTouchSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.vector")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	v := pushN(Empty[int](), 1100)
	tv := v.AsTransient()
	for i := 0; i < 1100; i += 7 {
		require.NoError(t, tv.Set(i, -1))
	}
	for i := 0; i < 500; i++ {
		require.NoError(t, tv.Pop())
	}
	for i := 0; i < 300; i++ {
		require.NoError(t, tv.Push(-2))
	}
	w, err := tv.Persistent()
	require.NoError(t, err)
	checkContents(t, v, 1100)
	assert.Equal(t, 900, w.Len())
	x, _ := w.Get(7)
	assert.Equal(t, -1, x)
	x, _ = w.Get(899)
	assert.Equal(t, -2, x)
}

func TestTransientFrozenAfterSeal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.vector")
	defer teardown()
	//
	tv := Empty[int]().AsTransient()
	for i := 0; i < 100; i++ {
		require.NoError(t, tv.Push(i))
	}
	v, err := tv.Persistent()
	require.NoError(t, err)
	// a second transient must not edit nodes of the first one
	tw := v.AsTransient()
	for i := 0; i < 100; i++ {
		require.NoError(t, tw.Set(i, 0))
	}
	_, err = tw.Persistent()
	require.NoError(t, err)
	checkContents(t, v, 100)
}

func TestTransientPopAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.vector")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tv := pushN(Empty[int](), 1200).AsTransient()
	for i := 1200; i > 0; i-- {
		require.NoError(t, tv.Pop())
		if i%101 == 0 {
			x, err := tv.Get(i - 2)
			require.NoError(t, err)
			require.Equal(t, i-2, x)
		}
	}
	assert.ErrorIs(t, tv.Pop(), persistent.ErrEmptyVector)
	v, err := tv.Persistent()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
	assert.Nil(t, v.root)
}

// Applying the same random operations through a transient and through the
// persistent API must yield observationally identical vectors.
func TestTransientEquivalence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.vector")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(4711))
	v := pushN(Empty[int](), 50)
	tv := v.AsTransient()
	for step := 0; step < 5000; step++ {
		switch op := rnd.Intn(10); {
		case op < 6:
			v = v.Push(step)
			require.NoError(t, tv.Push(step))
		case op < 8:
			if v.Len() == 0 {
				continue
			}
			var err error
			v, err = v.Pop()
			require.NoError(t, err)
			require.NoError(t, tv.Pop())
		default:
			i := rnd.Intn(v.Len() + 1)
			var err error
			v, err = v.Set(i, -step)
			require.NoError(t, err)
			require.NoError(t, tv.Set(i, -step))
		}
	}
	w, err := tv.Persistent()
	require.NoError(t, err)
	require.Equal(t, v.Len(), w.Len())
	assert.Equal(t, v.shift, w.shift)
	assert.Equal(t, v.Slice(), w.Slice())
}

func TestTransientConcurrentUse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.vector")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tv := Empty[int]().AsTransient()
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				err := tv.Push(i)
				mu.Lock()
				if err == nil {
					accepted++
				} else {
					assert.ErrorIs(t, err, persistent.ErrConcurrentEdit)
					rejected++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	v, err := tv.Persistent()
	require.NoError(t, err)
	assert.Equal(t, accepted, v.Len(), "every accepted push must be visible")
	assert.Equal(t, 8000, accepted+rejected)
}
