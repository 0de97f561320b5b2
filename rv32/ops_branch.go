package rv32

import "github.com/riscvgo/rv32emu/rv32/riscv"

// hBranch implements all six conditional branches. A taken/untaken
// successor is consulted from the static link the Branch Linker installed;
// if that link is still nil (this is the first traversal, or linking found
// nothing resident yet), it resolves through the block map/cache and caches
// the result in the same field so every later traversal is a direct pointer
// chase.
func hBranch(h *Hart, op *Operation) (*Operation, Outcome, error) {
	a, b := h.ReadX(op.Rs1), h.ReadX(op.Rs2)
	var taken bool

	switch op.Op {
	case OpBEQ:
		taken = a == b
	case OpBNE:
		taken = a != b
	case OpBLT:
		taken = int32(a) < int32(b)
	case OpBGE:
		taken = int32(a) >= int32(b)
	case OpBLTU:
		taken = a < b
	case OpBGEU:
		taken = a >= b
	}

	if taken {
		target := uint32(int32(op.PC) + op.Imm)
		h.PC = target
		if !h.Config.ExtC && target&0x3 != 0 {
			return h.raiseTrap(riscv.CauseInstrMisaligned, target, op.PC)
		}
		if op.BranchTaken != nil {
			return op.BranchTaken, outcomeContinue, nil
		}
		next, outcome, err := h.resolveTransfer(target)
		if err == nil {
			op.BranchTaken = next
		}
		return next, outcome, err
	}

	fallthroughPC := op.PC + uint32(op.InsnLen)
	h.PC = fallthroughPC
	if op.BranchUntaken != nil {
		return op.BranchUntaken, outcomeContinue, nil
	}
	next, outcome, err := h.resolveTransfer(fallthroughPC)
	if err == nil {
		op.BranchUntaken = next
	}
	return next, outcome, err
}

// hJAL implements JAL (and, via the decoder's canonicalization, C.J/C.JAL).
func hJAL(h *Hart, op *Operation) (*Operation, Outcome, error) {
	linkPC := op.PC + uint32(op.InsnLen)
	target := uint32(int32(op.PC) + op.Imm)

	h.WriteX(op.Rd, linkPC)
	h.PC = target

	if !h.Config.ExtC && target&0x3 != 0 {
		return h.raiseTrap(riscv.CauseInstrMisaligned, target, op.PC)
	}

	if op.BranchTaken != nil {
		return op.BranchTaken, outcomeContinue, nil
	}
	next, outcome, err := h.resolveTransfer(target)
	if err == nil {
		op.BranchTaken = next
	}
	return next, outcome, err
}

// hJALR implements JALR (and, via canonicalization, C.JR/C.JALR). Its
// target is runtime-computed, so it is never statically linked by the
// Branch Linker; instead it consults its own per-instruction BHT, which
// remembers the handful of targets this particular indirect jump has
// actually taken.
func hJALR(h *Hart, op *Operation) (*Operation, Outcome, error) {
	linkPC := op.PC + uint32(op.InsnLen)
	target := (uint32(int32(h.ReadX(op.Rs1)) + op.Imm)) &^ 1

	h.WriteX(op.Rd, linkPC)
	h.PC = target

	if !h.Config.ExtC && target&0x3 != 0 {
		return h.raiseTrap(riscv.CauseInstrMisaligned, target, op.PC)
	}

	if op.BranchTable == nil {
		op.BranchTable = newBHT(h.Config.HistorySize)
	}
	if next, ok := op.BranchTable.lookup(target); ok {
		return next, outcomeContinue, nil
	}

	next, outcome, err := h.resolveTransfer(target)
	if err == nil {
		op.BranchTable.record(target, next)
	}
	return next, outcome, err
}
