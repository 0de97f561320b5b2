package rv32

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBHT_LookupMiss(t *testing.T) {
	bht := newBHT(4)
	_, ok := bht.lookup(100)
	require.False(t, ok)
}

func TestBHT_RecordAndLookup(t *testing.T) {
	bht := newBHT(4)
	op := &Operation{PC: 200}
	bht.record(100, op)

	got, ok := bht.lookup(100)
	require.True(t, ok)
	require.Same(t, op, got)
}

func TestBHT_RoundRobinReplacement(t *testing.T) {
	bht := newBHT(2)
	op1 := &Operation{PC: 1}
	op2 := &Operation{PC: 2}
	op3 := &Operation{PC: 3}

	bht.record(10, op1)
	bht.record(20, op2)
	// table is full (size 2); the next record wraps around and evicts slot 0
	bht.record(30, op3)

	_, ok := bht.lookup(10)
	require.False(t, ok, "slot for pc=10 should have been overwritten")

	got, ok := bht.lookup(20)
	require.True(t, ok)
	require.Same(t, op2, got)

	got, ok = bht.lookup(30)
	require.True(t, ok)
	require.Same(t, op3, got)
}
