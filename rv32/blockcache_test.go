package rv32

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockCache_PutGet(t *testing.T) {
	c := newBlockCache(2, 3)
	b := &Block{EntryPC: 10}
	c.Put(b)

	got, ok := c.Get(10)
	require.True(t, ok)
	require.Same(t, b, got)
}

func TestBlockCache_HotThreshold(t *testing.T) {
	c := newBlockCache(4, 3)
	b := &Block{EntryPC: 10}
	c.Put(b) // freq=1

	require.False(t, c.Hot(10))
	c.Get(10) // freq=2
	require.False(t, c.Hot(10))
	c.Get(10) // freq=3
	require.True(t, c.Hot(10))
}

func TestBlockCache_EvictsColdBeforeHot(t *testing.T) {
	c := newBlockCache(2, 2)
	hot := &Block{EntryPC: 1}
	cold := &Block{EntryPC: 2}
	c.Put(hot)
	c.Put(cold)
	c.Get(hot.EntryPC) // freq=2, now hot

	// cache is full; inserting a third entry must evict the cold one, not
	// the hot one.
	third := &Block{EntryPC: 3}
	c.Put(third)

	_, hotStillThere := c.Get(1)
	_, coldStillThere := c.Get(2)
	_, thirdThere := c.Get(3)
	require.True(t, hotStillThere)
	require.False(t, coldStillThere)
	require.True(t, thirdThere)
}

func TestBlockCache_FlushClearsEverything(t *testing.T) {
	c := newBlockCache(4, 3)
	c.Put(&Block{EntryPC: 10})
	c.flush()

	_, ok := c.Get(10)
	require.False(t, ok)
	require.False(t, c.Hot(10))
}
