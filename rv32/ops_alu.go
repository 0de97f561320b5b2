package rv32

// hLUI and hAUIPC implement the two upper-immediate ops. Imm already holds
// the operand shifted into bits [31:12] by the decoder.
func hLUI(h *Hart, op *Operation) (*Operation, Outcome, error) {
	h.WriteX(op.Rd, uint32(op.Imm))
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hAUIPC(h *Hart, op *Operation) (*Operation, Outcome, error) {
	h.WriteX(op.Rd, op.PC+uint32(op.Imm))
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

// hALUImm covers the OP-IMM opcode: every immediate-operand integer ALU op,
// including the shifts (which carry their 5-bit shamt in op.Shamt rather
// than op.Imm).
func hALUImm(h *Hart, op *Operation) (*Operation, Outcome, error) {
	a := h.ReadX(op.Rs1)
	var result uint32

	switch op.Op {
	case OpADDI:
		result = a + uint32(op.Imm)
	case OpSLTI:
		result = boolToWord(int32(a) < op.Imm)
	case OpSLTIU:
		result = boolToWord(a < uint32(op.Imm))
	case OpXORI:
		result = a ^ uint32(op.Imm)
	case OpORI:
		result = a | uint32(op.Imm)
	case OpANDI:
		result = a & uint32(op.Imm)
	case OpSLLI:
		result = a << op.Shamt
	case OpSRLI:
		result = a >> op.Shamt
	case OpSRAI:
		result = uint32(int32(a) >> op.Shamt)
	}

	h.WriteX(op.Rd, result)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

// hALUReg covers the OP opcode's register-register integer ALU ops.
func hALUReg(h *Hart, op *Operation) (*Operation, Outcome, error) {
	a, b := h.ReadX(op.Rs1), h.ReadX(op.Rs2)
	var result uint32

	switch op.Op {
	case OpADD:
		result = a + b
	case OpSUB:
		result = a - b
	case OpSLL:
		result = a << (b & 0x1F)
	case OpSLT:
		result = boolToWord(int32(a) < int32(b))
	case OpSLTU:
		result = boolToWord(a < b)
	case OpXOR:
		result = a ^ b
	case OpSRL:
		result = a >> (b & 0x1F)
	case OpSRA:
		result = uint32(int32(a) >> (b & 0x1F))
	case OpOR:
		result = a | b
	case OpAND:
		result = a & b
	}

	h.WriteX(op.Rd, result)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func boolToWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
