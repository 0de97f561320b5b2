package rv32

import "github.com/riscvgo/rv32emu/rv32/riscv"

// hLoad covers LB/LH/LW/LBU/LHU. Byte loads can never be misaligned; half-
// and full-word loads trap on the host's behalf rather than silently
// forwarding an unaligned address to the IOFacade.
func hLoad(h *Hart, op *Operation) (*Operation, Outcome, error) {
	addr := uint32(int32(h.ReadX(op.Rs1)) + op.Imm)
	var v uint32

	switch op.Op {
	case OpLB:
		b, err := h.IO.ReadB(addr)
		if err != nil {
			return nil, OutcomeFatal, err
		}
		v = uint32(int32(int8(b)))
	case OpLBU:
		b, err := h.IO.ReadB(addr)
		if err != nil {
			return nil, OutcomeFatal, err
		}
		v = uint32(b)
	case OpLH:
		if addr&0x1 != 0 {
			return h.raiseTrap(riscv.CauseLoadMisaligned, addr, op.PC)
		}
		hw, err := h.IO.ReadH(addr)
		if err != nil {
			return nil, OutcomeFatal, err
		}
		v = uint32(int32(int16(hw)))
	case OpLHU:
		if addr&0x1 != 0 {
			return h.raiseTrap(riscv.CauseLoadMisaligned, addr, op.PC)
		}
		hw, err := h.IO.ReadH(addr)
		if err != nil {
			return nil, OutcomeFatal, err
		}
		v = uint32(hw)
	case OpLW:
		if addr&0x3 != 0 {
			return h.raiseTrap(riscv.CauseLoadMisaligned, addr, op.PC)
		}
		w, err := h.IO.ReadW(addr)
		if err != nil {
			return nil, OutcomeFatal, err
		}
		v = w
	}

	h.WriteX(op.Rd, v)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

// hStore covers SB/SH/SW.
func hStore(h *Hart, op *Operation) (*Operation, Outcome, error) {
	addr := uint32(int32(h.ReadX(op.Rs1)) + op.Imm)
	v := h.ReadX(op.Rs2)

	switch op.Op {
	case OpSB:
		if err := h.IO.WriteB(addr, uint8(v)); err != nil {
			return nil, OutcomeFatal, err
		}
	case OpSH:
		if addr&0x1 != 0 {
			return h.raiseTrap(riscv.CauseStoreMisaligned, addr, op.PC)
		}
		if err := h.IO.WriteH(addr, uint16(v)); err != nil {
			return nil, OutcomeFatal, err
		}
	case OpSW:
		if addr&0x3 != 0 {
			return h.raiseTrap(riscv.CauseStoreMisaligned, addr, op.PC)
		}
		if err := h.IO.WriteW(addr, v); err != nil {
			return nil, OutcomeFatal, err
		}
	}

	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}
