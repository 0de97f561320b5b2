package rv32

import "github.com/riscvgo/rv32emu/rv32/riscv"

// hFence is a pure no-op: a single-hart engine with no concurrent observer
// has nothing for a memory-ordering fence to order.
func hFence(h *Hart, op *Operation) (*Operation, Outcome, error) {
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

// hFenceI flushes the block map and cache — the guest may have just
// overwritten the instructions the engine has already decoded and cached —
// then resolves the instruction that follows through the now-empty map,
// same as a fresh Step would.
func hFenceI(h *Hart, op *Operation) (*Operation, Outcome, error) {
	nextPC := op.PC + uint32(op.InsnLen)
	h.FlushBlocks()
	h.PC = nextPC

	blk, err := h.blockFor(nextPC)
	if err != nil {
		h.Halted = true
		return nil, OutcomeFatal, err
	}
	return blk.Ops[0], outcomeContinue, nil
}

// hWFI treats wait-for-interrupt as an immediate no-op: this model never
// raises an asynchronous interrupt, so there is nothing to usefully wait
// for. It still ends its block and yields to the driver with OutcomeWFI,
// since a real host may want the chance to service something (a time
// slice, a pending signal) at the one point the guest has declared it has
// nothing better to do.
func hWFI(h *Hart, op *Operation) (*Operation, Outcome, error) {
	return h.advancePast(op, OutcomeWFI)
}

// hECall and hEBreak hand control to the host via the IOFacade, then
// resolve and cache the instruction that follows so the next Step call
// resumes exactly there.
func hECall(h *Hart, op *Operation) (*Operation, Outcome, error) {
	if err := h.IO.OnECall(h); err != nil {
		h.Halted = true
		return nil, OutcomeFatal, err
	}
	if h.Halted {
		h.currentOp = nil
		return nil, OutcomeHalted, nil
	}
	return h.advancePast(op, OutcomeECall)
}

func hEBreak(h *Hart, op *Operation) (*Operation, Outcome, error) {
	if err := h.IO.OnEBreak(h); err != nil {
		h.Halted = true
		return nil, OutcomeFatal, err
	}
	if h.Halted {
		h.currentOp = nil
		return nil, OutcomeHalted, nil
	}
	return h.advancePast(op, OutcomeEBreak)
}

// advancePast resolves the block following op and installs it as
// h.currentOp, for handlers that always return control to Step's caller
// rather than continuing the tail-chain.
func (h *Hart) advancePast(op *Operation, outcome Outcome) (*Operation, Outcome, error) {
	nextPC := op.PC + uint32(op.InsnLen)
	h.PC = nextPC
	blk, err := h.blockFor(nextPC)
	if err != nil {
		h.Halted = true
		return nil, OutcomeFatal, err
	}
	h.currentOp = blk.Ops[0]
	return h.currentOp, outcome, nil
}

// hIllegal and hPrivIllegal both raise an illegal-instruction trap with the
// faulting instruction word (16 or 32 bits, re-read from memory) in mtval;
// URET/SRET/HRET have no privilege levels below M to return from in this
// model, so each one is indistinguishable from executing garbage.
func hIllegal(h *Hart, op *Operation) (*Operation, Outcome, error) {
	var tval uint32
	if lo, err := h.IO.ReadH(op.PC); err == nil {
		tval = uint32(lo)
		if lo&0x3 == 0x3 {
			if hi, err := h.IO.ReadH(op.PC + 2); err == nil {
				tval |= uint32(hi) << 16
			}
		}
	}
	return h.raiseTrap(riscv.CauseIllegalInstr, tval, op.PC)
}

func hPrivIllegal(h *Hart, op *Operation) (*Operation, Outcome, error) {
	return hIllegal(h, op)
}

// hCSR implements the six Zicsr ops. CSRRWI/CSRRSI/CSRRCI carry their 5-bit
// unsigned immediate in op.Rs1 — the decoder extracts that field the same
// way for every System-opcode encoding, so no separate path is needed here.
//
// A CSR access ends its block and yields with OutcomeCSR rather than
// tail-chaining straight through: a write can change host-visible hart
// state (mstatus, mtvec, fcsr) between one committed instruction and the
// next, and the driver is given the chance to observe that at the same
// granularity it observes ecall/ebreak.
func hCSR(h *Hart, op *Operation) (*Operation, Outcome, error) {
	old := h.readCSR(op.CSR)

	switch op.Op {
	case OpCSRRW:
		h.writeCSR(op.CSR, h.ReadX(op.Rs1))
	case OpCSRRS:
		if op.Rs1 != 0 {
			h.writeCSR(op.CSR, old|h.ReadX(op.Rs1))
		}
	case OpCSRRC:
		if op.Rs1 != 0 {
			h.writeCSR(op.CSR, old&^h.ReadX(op.Rs1))
		}
	case OpCSRRWI:
		h.writeCSR(op.CSR, uint32(op.Rs1))
	case OpCSRRSI:
		if op.Rs1 != 0 {
			h.writeCSR(op.CSR, old|uint32(op.Rs1))
		}
	case OpCSRRCI:
		if op.Rs1 != 0 {
			h.writeCSR(op.CSR, old&^uint32(op.Rs1))
		}
	}

	h.WriteX(op.Rd, old)
	return h.advancePast(op, OutcomeCSR)
}
