package rv32

// minInt32 is RV32's signed overflow corner: dividing it by -1 would
// overflow a 32-bit signed result, so DIV/REM special-case it per the
// unprivileged spec's table rather than letting it wrap silently.
const minInt32 = -1 << 31

// hMulDiv implements the M extension. Division and remainder follow the
// spec's table of special cases verbatim: division by zero never traps,
// and the signed-overflow case (MININT / -1) returns the dividend
// unchanged rather than overflowing.
func hMulDiv(h *Hart, op *Operation) (*Operation, Outcome, error) {
	a, b := h.ReadX(op.Rs1), h.ReadX(op.Rs2)
	var result uint32

	switch op.Op {
	case OpMUL:
		result = a * b
	case OpMULH:
		result = uint32((int64(int32(a)) * int64(int32(b))) >> 32)
	case OpMULHSU:
		result = uint32((int64(int32(a)) * int64(b)) >> 32)
	case OpMULHU:
		result = uint32((uint64(a) * uint64(b)) >> 32)
	case OpDIV:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			result = 0xFFFFFFFF
		case sa == minInt32 && sb == -1:
			result = uint32(sa)
		default:
			result = uint32(sa / sb)
		}
	case OpDIVU:
		if b == 0 {
			result = 0xFFFFFFFF
		} else {
			result = a / b
		}
	case OpREM:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			result = a
		case sa == minInt32 && sb == -1:
			result = 0
		default:
			result = uint32(sa % sb)
		}
	case OpREMU:
		if b == 0 {
			result = a
		} else {
			result = a % b
		}
	}

	h.WriteX(op.Rd, result)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}
