package rv32

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riscvgo/rv32emu/rv32/riscv"
)

func f32bits(f float32) uint32 { return math.Float32bits(f) }

func newFloatHart() *Hart {
	cfg := DefaultConfig()
	cfg.ExtF = true
	cfg.FPBackend = NewNativeFPBackend()
	return NewHart(cfg, newTestMem(), 0)
}

func TestFBin_Add(t *testing.T) {
	h := newFloatHart()
	h.WriteF(1, f32bits(1.5))
	h.WriteF(2, f32bits(2.5))

	op := &Operation{Op: OpFADDS, Rd: 3, Rs1: 1, Rs2: 2, InsnLen: 4}
	_, outcome, err := hFBin(h, op)
	require.NoError(t, err)
	require.Equal(t, outcomeContinue, outcome)
	require.Equal(t, f32bits(4.0), h.ReadF(3))
}

func TestFFma_AllFourSignCombinations(t *testing.T) {
	h := newFloatHart()
	h.WriteF(1, f32bits(2.0))
	h.WriteF(2, f32bits(3.0))
	h.WriteF(3, f32bits(1.0))

	cases := []struct {
		op   Op
		want float32
	}{
		{OpFMADDS, 2*3 + 1},
		{OpFMSUBS, 2*3 - 1},
		{OpFNMSUBS, -(2 * 3) + 1},
		{OpFNMADDS, -(2*3 + 1)},
	}
	for _, c := range cases {
		op := &Operation{Op: c.op, Rd: 4, Rs1: 1, Rs2: 2, Rs3: 3, InsnLen: 4}
		_, _, err := hFFma(h, op)
		require.NoError(t, err)
		require.Equal(t, f32bits(c.want), h.ReadF(4), "op %v", c.op)
	}
}

func TestFCompare_WritesIntegerRegister(t *testing.T) {
	h := newFloatHart()
	h.WriteF(1, f32bits(1.0))
	h.WriteF(2, f32bits(2.0))

	op := &Operation{Op: OpFLTS, Rd: 5, Rs1: 1, Rs2: 2, InsnLen: 4}
	_, _, err := hFCompare(h, op)
	require.NoError(t, err)
	require.Equal(t, uint32(1), h.ReadX(5))
}

func TestFClass_Bits(t *testing.T) {
	require.Equal(t, uint32(riscv.FClassPosZero), classifyF32(f32bits(0.0)))
	require.Equal(t, uint32(riscv.FClassNegZero), classifyF32(f32bits(float32(math.Copysign(0, -1)))))
	require.Equal(t, uint32(riscv.FClassPosInf), classifyF32(f32bits(float32(math.Inf(1)))))
	require.Equal(t, uint32(riscv.FClassQNaN), classifyF32(f32bits(float32(math.NaN()))))
}

func TestFMinMax_NaNPropagation(t *testing.T) {
	h := newFloatHart()
	nan := f32bits(float32(math.NaN()))
	h.WriteF(1, nan)
	h.WriteF(2, f32bits(5.0))

	op := &Operation{Op: OpFMINS, Rd: 3, Rs1: 1, Rs2: 2, InsnLen: 4}
	_, _, err := hFMinMax(h, op)
	require.NoError(t, err)
	require.Equal(t, f32bits(5.0), h.ReadF(3), "minNum ignores a quiet NaN operand")
}

func TestFMvXW_FMvWX_AreRawBitMoves(t *testing.T) {
	h := newFloatHart()
	h.WriteX(1, 0xDEADBEEF)
	op := &Operation{Op: OpFMVWX, Rd: 2, Rs1: 1, InsnLen: 4}
	_, _, err := hFMvWX(h, op)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), h.ReadF(2))

	op2 := &Operation{Op: OpFMVXW, Rd: 3, Rs1: 2, InsnLen: 4}
	_, _, err = hFMvXW(h, op2)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), h.ReadX(3))
}

func TestFBackend_NilBackendErrors(t *testing.T) {
	h := NewHart(DefaultConfig(), newTestMem(), 0) // no FPBackend configured
	op := &Operation{Op: OpFADDS, Rd: 1, Rs1: 2, Rs2: 3, InsnLen: 4}
	_, outcome, err := hFBin(h, op)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoFPBackend)
	require.Equal(t, OutcomeFatal, outcome)
}
