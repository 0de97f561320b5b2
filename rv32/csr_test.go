package rv32

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riscvgo/rv32emu/rv32/riscv"
)

func TestCSR_ReadWriteRoundTrip(t *testing.T) {
	h := NewHart(DefaultConfig(), newTestMem(), 0)

	h.writeCSR(riscv.CSRMtval, 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), h.readCSR(riscv.CSRMtval))
}

func TestCSR_CycleIsReadOnly(t *testing.T) {
	h := NewHart(DefaultConfig(), newTestMem(), 0)
	h.Cycle = 42

	h.writeCSR(riscv.CSRCycle, 999)
	require.Equal(t, uint32(42), h.readCSR(riscv.CSRCycle))
}

func TestCSR_FFlagsAndFrmShareFcsr(t *testing.T) {
	h := NewHart(DefaultConfig(), newTestMem(), 0)

	h.writeCSR(riscv.CSRFrm, 0x3) // RDN
	h.accumulateFFlags(riscv.FFlagNX)

	require.Equal(t, uint32(0x3), h.readCSR(riscv.CSRFrm))
	require.Equal(t, uint32(riscv.FFlagNX), h.readCSR(riscv.CSRFFlags))
	// fcsr's low byte packs frm (bits 7:5) and fflags (bits 4:0) together.
	require.Equal(t, uint32(0x3<<riscv.FRMShift)|uint32(riscv.FFlagNX), h.readCSR(riscv.CSRFcsr))
}

func TestCSR_CSRRS_RS1ZeroIsReadOnlyProbe(t *testing.T) {
	mem := newTestMem()
	h := NewHart(DefaultConfig(), mem, 0)
	h.writeCSR(riscv.CSRMtval, 7)

	op := &Operation{Op: OpCSRRS, Rd: 1, Rs1: 0, CSR: riscv.CSRMtval}
	_, _, err := hCSR(h, op)
	require.NoError(t, err)
	require.Equal(t, uint32(7), h.ReadX(1))
	require.Equal(t, uint32(7), h.readCSR(riscv.CSRMtval), "rs1=x0 must not write back")
}

func TestNanBoxRoundTrip(t *testing.T) {
	h := NewHart(DefaultConfig(), newTestMem(), 0)
	h.WriteF(1, 0x3F800000) // 1.0f
	require.Equal(t, uint32(0x3F800000), h.ReadF(1))
}

func TestUnbox32_InvalidBoxSubstitutesCanonicalQNaN(t *testing.T) {
	h := NewHart(DefaultConfig(), newTestMem(), 0)
	h.F[2] = 0x0000000000000001 // not NaN-boxed (high bits aren't all 1s)
	require.Equal(t, uint32(canonicalQNaN32), h.ReadF(2))
}
