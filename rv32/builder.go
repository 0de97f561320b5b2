package rv32

// maxBlockOps defensively caps a block's length so a pathological straight-
// line run (no branch, no system op) can't grow a block without bound. A
// block that hits the cap behaves as if it falls through to EndPC.
const maxBlockOps = 512

// buildBlock decodes instructions starting at entryPC until it hits a
// terminator or the op-count cap, producing one immutable Block. It is
// called at most once per PC for the life of the block map (see
// BlockMap.getOrBuild's at-most-one-build rule); buildBlock itself never
// checks the map or cache.
func buildBlock(h *Hart, entryPC uint32) (*Block, error) {
	b := &Block{EntryPC: entryPC}
	pc := entryPC

	for i := 0; i < maxBlockOps; i++ {
		op, size, err := fetchAndDecode(h, pc)
		if err != nil {
			return nil, err
		}

		if i > 0 {
			b.Ops[i-1].Next = op
		}
		b.Ops = append(b.Ops, op)
		pc += size

		if term := terminatorClass(op.Op); term != TermNone {
			b.Terminator = term
			b.EndPC = pc
			if term == TermIndirectBranch {
				op.BranchTable = newBHT(h.Config.HistorySize)
			}
			return b, nil
		}
	}

	b.Terminator = TermStraight
	b.EndPC = pc
	last := b.Ops[len(b.Ops)-1]
	last.Handler = wrapStraightFallthrough(last.Handler)
	return b, nil
}

// wrapStraightFallthrough adapts an ordinary op's handler (ADDI, LW, ...)
// for use as a TermStraight block's final op. The cap is not a real
// control-transfer instruction, so its handler has no BranchTaken/
// BranchUntaken awareness of its own; this wraps it the same way
// hBranch/hJAL resolve a taken target — consult the static link the
// Branch Linker may already have installed, or fall back to resolveTransfer
// at the PC the inner handler just committed (which is always the block's
// EndPC, since that's where the cap op's own PC+InsnLen lands) — instead of
// handing the dispatcher a nil op.Next and letting it dereference nothing.
func wrapStraightFallthrough(inner Handler) Handler {
	return func(h *Hart, op *Operation) (*Operation, Outcome, error) {
		next, outcome, err := inner(h, op)
		if err != nil || outcome != outcomeContinue {
			return next, outcome, err
		}

		if op.BranchTaken != nil {
			return op.BranchTaken, outcomeContinue, nil
		}
		succ, o, err := h.resolveTransfer(h.PC)
		if err == nil {
			op.BranchTaken = succ
		}
		return succ, o, err
	}
}

// fetchAndDecode reads one instruction at pc, deciding between the 16-bit
// and 32-bit encodings the way hardware does: by inspecting the low two
// bits of the first halfword, never by consulting Config.ExtC first (a
// 32-bit-only core still needs to recognize "this is a compressed encoding"
// in order to raise illegal-instruction rather than misdecode it as half of
// a 32-bit word).
func fetchAndDecode(h *Hart, pc uint32) (*Operation, uint32, error) {
	lo, err := h.IO.ReadH(pc)
	if err != nil {
		return nil, 0, err
	}

	if lo&0x3 == 0x3 {
		hi, err := h.IO.ReadH(pc + 2)
		if err != nil {
			return nil, 0, err
		}
		instr := uint32(lo) | uint32(hi)<<16
		return decode32(&h.Config, instr, pc), 4, nil
	}

	if !h.Config.ExtC {
		return illegalOp(pc), 2, nil
	}
	return decode16(&h.Config, lo, pc), 2, nil
}

// terminatorClass reports which Terminator category op belongs to, and thus
// whether the builder must stop the block here.
func terminatorClass(op Op) Terminator {
	switch op {
	case OpIllegal, OpURET, OpSRET, OpMRET:
		return TermTrap
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU, OpJAL:
		return TermDirectBranch
	case OpJALR:
		return TermIndirectBranch
	case OpECALL, OpEBREAK, OpFENCEI, OpWFI,
		OpCSRRW, OpCSRRS, OpCSRRC, OpCSRRWI, OpCSRRSI, OpCSRRCI:
		return TermSyscall
	default:
		return TermNone
	}
}
