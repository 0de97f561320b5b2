package rv32

// linkBlock resolves a freshly built block's terminator to its successors'
// first ops, when those successors are already resident in the cache or
// map. Unresolved links stay nil and are patched lazily by the terminator's
// own handler on first traversal (see the branch/jump handlers in
// ops_branch.go).
//
// Only statically-known targets are linked here: direct branches and direct
// jumps. Indirect jumps resolve exclusively through the BHT at run time;
// syscalls, traps, and illegal ops have no successor to link.
func linkBlock(h *Hart, b *Block) {
	op := b.terminatorOp()

	switch b.Terminator {
	case TermDirectBranch:
		targetPC := uint32(int32(op.PC) + op.Imm)
		if succ, ok := h.cache.Get(targetPC); ok {
			op.BranchTaken = succ.Ops[0]
		} else if succ, ok := h.blockMap.lookup(targetPC); ok {
			op.BranchTaken = succ.Ops[0]
		}
		if isConditionalBranch(op.Op) {
			fallthroughPC := op.PC + uint32(op.InsnLen)
			if succ, ok := h.cache.Get(fallthroughPC); ok {
				op.BranchUntaken = succ.Ops[0]
			} else if succ, ok := h.blockMap.lookup(fallthroughPC); ok {
				op.BranchUntaken = succ.Ops[0]
			}
		}
	case TermStraight:
		if succ, ok := h.cache.Get(b.EndPC); ok {
			op.BranchTaken = succ.Ops[0]
		} else if succ, ok := h.blockMap.lookup(b.EndPC); ok {
			op.BranchTaken = succ.Ops[0]
		}
	}
}

func isConditionalBranch(op Op) bool {
	switch op {
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return true
	default:
		return false
	}
}
