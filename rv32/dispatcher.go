package rv32

// Step runs the tail-chained dispatch loop starting from h.currentOp (or
// from the block resolved at h.PC if this is the first Step call, or the
// first call after an outcome that invalidated the cached position). It
// keeps "tail-chaining" — calling one handler after another without
// returning to its own caller — until a handler reports anything other
// than outcomeContinue.
//
// Go gives no tail-call guarantee, so this loop is the trampoline that
// stands in for the reference engine's MUST_TAIL return: every handler
// returns instead of recursing, and this loop is what actually keeps the
// stack flat.
func (h *Hart) Step() (Outcome, error) {
	op := h.currentOp
	if op == nil {
		blk, err := h.blockFor(h.PC)
		if err != nil {
			h.Halted = true
			return OutcomeFatal, err
		}
		op = blk.Ops[0]
	}

	for {
		h.Cycle++
		if h.Trace != nil {
			h.Trace(h, op)
		}

		next, outcome, err := op.Handler(h, op)
		if err != nil {
			h.currentOp = nil
			h.Halted = true
			return OutcomeFatal, err
		}

		if outcome == outcomeContinue {
			op = next
			continue
		}

		h.currentOp = next
		return outcome, nil
	}
}

// RunUntil calls Step repeatedly until it returns an outcome other than one
// that should simply resume (ECall/EBreak notwithstanding — the IOFacade
// callback decides whether those halt the guest), the hart halts, a fatal
// error occurs, or maxCycles total cycles have elapsed. It is a convenience
// driver for the demo binary and for tests; the engine itself never calls
// it.
func (h *Hart) RunUntil(maxCycles uint64) (Outcome, error) {
	for h.Cycle < maxCycles {
		outcome, err := h.Step()
		if err != nil {
			return outcome, err
		}
		switch outcome {
		case OutcomeHalted, OutcomeFatal:
			return outcome, nil
		case OutcomeTrap:
			if h.Halted {
				return OutcomeHalted, nil
			}
		case OutcomeECall, OutcomeEBreak:
			if h.Halted {
				return OutcomeHalted, nil
			}
		}
	}
	return OutcomeBudgetExhausted, nil
}

// resolveTransfer consults the block map/cache for pc, building the block
// if it has never been seen, and reports OutcomeHotBlock instead of
// continuing the tail-chain the first time it lands on a block the cache
// considers hot — the signal a real JIT backend (out of scope for this
// module) would use to trigger compilation, surfaced here purely as an
// Outcome a host can observe via Trace or by inspecting Step's return.
//
// Only transfers that reach resolveTransfer are checked for hotness. A
// branch or jump whose successor is already linked, and an indirect jump
// that hits its BHT, continue the chain without consulting Hot, and such
// traversals do not raise the successor's access count.
func (h *Hart) resolveTransfer(pc uint32) (*Operation, Outcome, error) {
	hot := h.cache.Hot(pc)

	blk, err := h.blockFor(pc)
	if err != nil {
		h.Halted = true
		return nil, OutcomeFatal, err
	}

	if hot {
		return blk.Ops[0], OutcomeHotBlock, nil
	}
	return blk.Ops[0], outcomeContinue, nil
}
