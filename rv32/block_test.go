package rv32

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildBlock_WellFormed(t *testing.T) {
	mem := newTestMem()
	mem.loadWords(0,
		0x00500093, // addi x1, x0, 5
		0x00108093, // addi x1, x1, 1
		0x00000073, // ecall
	)
	h := NewHart(DefaultConfig(), mem, 0)

	b, err := buildBlock(h, 0)
	require.NoError(t, err)
	require.Len(t, b.Ops, 3)
	require.Equal(t, TermSyscall, b.Terminator)

	// every op but the last points to its successor; the last is the
	// terminator and has no Next.
	for i, op := range b.Ops {
		if i == len(b.Ops)-1 {
			require.Nil(t, op.Next)
			require.True(t, op.IsTerminator())
		} else {
			require.Same(t, b.Ops[i+1], op.Next)
			require.False(t, op.IsTerminator())
		}
	}
	require.Equal(t, uint32(12), b.EndPC)
}

func TestBuildBlock_StraightLineCapFallsThroughAtLimit(t *testing.T) {
	mem := newTestMem()
	// maxBlockOps ADDI x0,x0,0 (nop) in a row, never a terminator: the
	// builder must stop at the cap and mark TermStraight.
	for i := 0; i < maxBlockOps+4; i++ {
		mem.loadWords(uint32(i)*4, 0x00000013) // addi x0, x0, 0
	}
	h := NewHart(DefaultConfig(), mem, 0)

	b, err := buildBlock(h, 0)
	require.NoError(t, err)
	require.Equal(t, TermStraight, b.Terminator)
	require.Len(t, b.Ops, maxBlockOps)
}

func TestBlockMap_AtMostOneBuildPerPC(t *testing.T) {
	mem := newTestMem()
	mem.loadWords(0, 0x00000073) // ecall
	h := NewHart(DefaultConfig(), mem, 0)

	b1, err := h.blockMap.getOrBuild(0)
	require.NoError(t, err)
	b2, err := h.blockMap.getOrBuild(0)
	require.NoError(t, err)
	require.Same(t, b1, b2)
}

func TestHart_FlushBlocksInvalidatesCacheAndMap(t *testing.T) {
	mem := newTestMem()
	mem.loadWords(0, 0x00000073) // ecall
	h := NewHart(DefaultConfig(), mem, 0)

	b1, err := h.blockFor(0)
	require.NoError(t, err)

	h.FlushBlocks()

	_, ok := h.cache.Get(0)
	require.False(t, ok)
	_, ok = h.blockMap.lookup(0)
	require.False(t, ok)

	b2, err := h.blockFor(0)
	require.NoError(t, err)
	require.NotSame(t, b1, b2, "a fresh block must be rebuilt after a flush")
}
