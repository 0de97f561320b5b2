package rv32

import "github.com/riscvgo/rv32emu/rv32/riscv"

// readCSR and writeCSR implement the small CSR set the spec calls out:
// cycle[h], mstatus, mepc, mcause, mtval, fcsr (+ its fflags/frm views), and
// mhartid, plus mtvec (backed by Config.Mtvec). Any other address reads/writes as zero — Zicsr's read-then-write
// discipline still holds, it just has nothing backing it.
func (h *Hart) readCSR(addr uint32) uint32 {
	switch addr {
	case riscv.CSRCycle:
		return uint32(h.Cycle)
	case riscv.CSRCycleH:
		return uint32(h.Cycle >> 32)
	case riscv.CSRMstatus:
		return h.Mstatus
	case riscv.CSRMepc:
		return h.Mepc
	case riscv.CSRMcause:
		return h.Mcause
	case riscv.CSRMtval:
		return h.Mtval
	case riscv.CSRMtvec:
		return h.Config.Mtvec
	case riscv.CSRFcsr:
		return h.Fcsr & 0xFF
	case riscv.CSRFFlags:
		return h.Fcsr & riscv.FFlagsMask
	case riscv.CSRFrm:
		return (h.Fcsr >> riscv.FRMShift) & riscv.FRMMask
	case riscv.CSRMhartID:
		return 0
	default:
		return 0
	}
}

func (h *Hart) writeCSR(addr uint32, v uint32) {
	switch addr {
	case riscv.CSRMstatus:
		h.Mstatus = v
	case riscv.CSRMepc:
		h.Mepc = v &^ 1
	case riscv.CSRMcause:
		h.Mcause = v
	case riscv.CSRMtval:
		h.Mtval = v
	case riscv.CSRMtvec:
		h.Config.Mtvec = v
	case riscv.CSRFcsr:
		h.Fcsr = v & 0xFF
	case riscv.CSRFFlags:
		h.Fcsr = (h.Fcsr &^ riscv.FFlagsMask) | (v & riscv.FFlagsMask)
	case riscv.CSRFrm:
		h.Fcsr = (h.Fcsr &^ (riscv.FRMMask << riscv.FRMShift)) | ((v & riscv.FRMMask) << riscv.FRMShift)
	case riscv.CSRCycle, riscv.CSRCycleH, riscv.CSRMhartID:
		// read-only in this model
	default:
		// unbacked CSR: writes are discarded
	}
}

// accumulateFFlags folds softfloat exception flags into fcsr. Flags persist
// until software clears them, per the F-extension design note.
func (h *Hart) accumulateFFlags(flags uint8) {
	h.Fcsr |= uint32(flags) & riscv.FFlagsMask
}

// currentRM resolves an instruction's rm field to an effective rounding
// mode, falling back to fcsr's frm when rm == 0x7 (DYN).
func (h *Hart) currentRM(rm uint8) uint8 {
	if rm == 0x7 {
		return uint8((h.Fcsr >> riscv.FRMShift) & riscv.FRMMask)
	}
	return rm
}

const nanBoxHigh = 0xFFFFFFFF00000000

// nanBox widens a 32-bit float bit pattern into a NaN-boxed 64-bit F
// register value, per the F-extension design note on FMV.W.X.
func nanBox(bits uint32) uint64 {
	return nanBoxHigh | uint64(bits)
}

// canonicalQNaN32 is the bit pattern FCVT/unbox substitutes for an
// improperly-boxed (or narrower-than-expected) value.
const canonicalQNaN32 = 0x7FC00000

// unbox32 narrows a NaN-boxed F register value back to its 32-bit payload,
// substituting the canonical quiet NaN if the box is invalid.
func unbox32(v uint64) uint32 {
	if v>>32 != 0xFFFFFFFF {
		return canonicalQNaN32
	}
	return uint32(v)
}
