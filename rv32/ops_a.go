package rv32

import "github.com/riscvgo/rv32emu/rv32/riscv"

// hAMO implements LR.W, SC.W, and the nine AMO*.W read-modify-write ops. A
// single-hart model needs no host-side atomic primitive to make these
// atomic — nothing else can observe memory between the read and the write —
// so the reservation is just a remembered address, SC.W always stores and
// reports success (0), and the RMW ops are plain sequential
// read-compute-write.
func hAMO(h *Hart, op *Operation) (*Operation, Outcome, error) {
	addr := h.ReadX(op.Rs1)
	if addr&0x3 != 0 {
		return h.raiseTrap(riscv.CauseLoadMisaligned, addr, op.PC)
	}

	switch op.Op {
	case OpLRW:
		w, err := h.IO.ReadW(addr)
		if err != nil {
			return nil, OutcomeFatal, err
		}
		h.Reservation, h.ReservationValid = addr, true
		h.WriteX(op.Rd, w)

	case OpSCW:
		if err := h.IO.WriteW(addr, h.ReadX(op.Rs2)); err != nil {
			return nil, OutcomeFatal, err
		}
		h.WriteX(op.Rd, 0)
		h.ReservationValid = false

	default:
		old, err := h.IO.ReadW(addr)
		if err != nil {
			return nil, OutcomeFatal, err
		}
		rs2v := h.ReadX(op.Rs2)
		newV := amoCompute(op.Op, old, rs2v)
		if err := h.IO.WriteW(addr, newV); err != nil {
			return nil, OutcomeFatal, err
		}
		h.WriteX(op.Rd, old)
	}

	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func amoCompute(op Op, old, rs2v uint32) uint32 {
	switch op {
	case OpAMOSWAPW:
		return rs2v
	case OpAMOADDW:
		return old + rs2v
	case OpAMOXORW:
		return old ^ rs2v
	case OpAMOANDW:
		return old & rs2v
	case OpAMOORW:
		return old | rs2v
	case OpAMOMINW:
		if int32(old) < int32(rs2v) {
			return old
		}
		return rs2v
	case OpAMOMAXW:
		if int32(old) > int32(rs2v) {
			return old
		}
		return rs2v
	case OpAMOMINUW:
		if old < rs2v {
			return old
		}
		return rs2v
	case OpAMOMAXUW:
		if old > rs2v {
			return old
		}
		return rs2v
	default:
		return old
	}
}
