package rv32

import "github.com/riscvgo/rv32emu/rv32/riscv"

// decodeF fills in op for the seven F-extension opcodes, given the fields
// decode32 has already pulled out of the raw word. Only the single-
// precision format (fmt == 0) is implemented; any other fmt (double,
// quad, half) decodes to illegal, since this module carries no D/Q/Zfh
// extension. op.Handler is left nil on any unrecognized encoding, which
// decode32 turns into OpIllegal for its caller.
func decodeF(op *Operation, cfg *Config, instr uint32, opcode uint8, funct3 uint8, funct7 uint8, rs2 uint8) {
	switch opcode {
	case riscv.OpLoadFP:
		if funct3 != 0x2 {
			return
		}
		op.Op, op.Handler = OpFLW, hFLoad
		op.Imm = immI(instr)

	case riscv.OpStoreFP:
		if funct3 != 0x2 {
			return
		}
		op.Op, op.Handler = OpFSW, hFStore
		op.Imm = immS(instr)

	case riscv.OpMAdd, riscv.OpMSub, riscv.OpNMSub, riscv.OpNMAdd:
		if (instr>>25)&0x3 != 0 {
			return
		}
		op.Rs3 = uint8((instr >> 27) & 0x1F)
		op.RM = funct3
		op.Handler = hFFma
		switch opcode {
		case riscv.OpMAdd:
			op.Op = OpFMADDS
		case riscv.OpMSub:
			op.Op = OpFMSUBS
		case riscv.OpNMSub:
			op.Op = OpFNMSUBS
		case riscv.OpNMAdd:
			op.Op = OpFNMADDS
		}

	case riscv.OpOpFP:
		fmt := funct7 & 0x3
		if fmt != 0 {
			return
		}
		funct5 := funct7 >> 2
		op.RM = funct3

		switch funct5 {
		case 0x00:
			op.Op, op.Handler = OpFADDS, hFBin
		case 0x01:
			op.Op, op.Handler = OpFSUBS, hFBin
		case 0x02:
			op.Op, op.Handler = OpFMULS, hFBin
		case 0x03:
			op.Op, op.Handler = OpFDIVS, hFBin
		case 0x0B:
			if rs2 != 0 {
				return
			}
			op.Op, op.Handler = OpFSQRTS, hFSqrt
		case 0x04:
			op.Handler = hFSgnj
			switch funct3 {
			case 0x0:
				op.Op = OpFSGNJS
			case 0x1:
				op.Op = OpFSGNJNS
			case 0x2:
				op.Op = OpFSGNJXS
			default:
				op.Handler = nil
			}
		case 0x05:
			op.Handler = hFMinMax
			switch funct3 {
			case 0x0:
				op.Op = OpFMINS
			case 0x1:
				op.Op = OpFMAXS
			default:
				op.Handler = nil
			}
		case 0x14:
			op.Handler = hFCompare
			switch funct3 {
			case 0x0:
				op.Op = OpFLES
			case 0x1:
				op.Op = OpFLTS
			case 0x2:
				op.Op = OpFEQS
			default:
				op.Handler = nil
			}
		case 0x18:
			op.Handler = hFToInt
			switch rs2 {
			case 0x0:
				op.Op = OpFCVTWS
			case 0x1:
				op.Op = OpFCVTWUS
			default:
				op.Handler = nil
			}
		case 0x1A:
			op.Handler = hFFromInt
			switch rs2 {
			case 0x0:
				op.Op = OpFCVTSW
			case 0x1:
				op.Op = OpFCVTSWU
			default:
				op.Handler = nil
			}
		case 0x1C:
			if rs2 != 0 {
				return
			}
			switch funct3 {
			case 0x0:
				op.Op, op.Handler = OpFMVXW, hFMvXW
			case 0x1:
				op.Op, op.Handler = OpFCLASSS, hFClass
			}
		case 0x1E:
			if rs2 != 0 || funct3 != 0 {
				return
			}
			op.Op, op.Handler = OpFMVWX, hFMvWX
		}
	}
}

func hFLoad(h *Hart, op *Operation) (*Operation, Outcome, error) {
	addr := uint32(int32(h.ReadX(op.Rs1)) + op.Imm)
	if addr&0x3 != 0 {
		return h.raiseTrap(riscv.CauseLoadMisaligned, addr, op.PC)
	}
	w, err := h.IO.ReadW(addr)
	if err != nil {
		return nil, OutcomeFatal, err
	}
	h.WriteF(op.Rd, w)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hFStore(h *Hart, op *Operation) (*Operation, Outcome, error) {
	addr := uint32(int32(h.ReadX(op.Rs1)) + op.Imm)
	if addr&0x3 != 0 {
		return h.raiseTrap(riscv.CauseStoreMisaligned, addr, op.PC)
	}
	if err := h.IO.WriteW(addr, h.ReadF(op.Rs2)); err != nil {
		return nil, OutcomeFatal, err
	}
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func (h *Hart) fp() (FPBackend, error) {
	if h.Config.FPBackend == nil {
		return nil, ErrNoFPBackend
	}
	return h.Config.FPBackend, nil
}

func hFBin(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	a, b := h.ReadF(op.Rs1), h.ReadF(op.Rs2)
	rm := h.currentRM(op.RM)

	var res uint32
	var flags uint8
	switch op.Op {
	case OpFADDS:
		res, flags = fp.Add(a, b, rm)
	case OpFSUBS:
		res, flags = fp.Sub(a, b, rm)
	case OpFMULS:
		res, flags = fp.Mul(a, b, rm)
	case OpFDIVS:
		res, flags = fp.Div(a, b, rm)
	}

	h.accumulateFFlags(flags)
	h.WriteF(op.Rd, res)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hFSqrt(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	res, flags := fp.Sqrt(h.ReadF(op.Rs1), h.currentRM(op.RM))
	h.accumulateFFlags(flags)
	h.WriteF(op.Rd, res)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

// hFFma handles all four fused multiply-add forms from one entry point,
// distinguishing them by which operand FPBackend.FMA negates.
func hFFma(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	a, b, c := h.ReadF(op.Rs1), h.ReadF(op.Rs2), h.ReadF(op.Rs3)

	var negMul, negAdd bool
	switch op.Op {
	case OpFMADDS:
		negMul, negAdd = false, false
	case OpFMSUBS:
		negMul, negAdd = false, true
	case OpFNMSUBS:
		negMul, negAdd = true, false
	case OpFNMADDS:
		negMul, negAdd = true, true
	}

	res, flags := fp.FMA(a, b, c, negMul, negAdd, h.currentRM(op.RM))
	h.accumulateFFlags(flags)
	h.WriteF(op.Rd, res)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

// hFSgnj never touches fcsr: sign injection is defined to be exact and
// exception-free even when its operands are NaN.
func hFSgnj(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	a, b := h.ReadF(op.Rs1), h.ReadF(op.Rs2)
	var negate, xor bool
	switch op.Op {
	case OpFSGNJNS:
		negate = true
	case OpFSGNJXS:
		xor = true
	}
	h.WriteF(op.Rd, fp.Sgnj(a, b, negate, xor))
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hFMinMax(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	a, b := h.ReadF(op.Rs1), h.ReadF(op.Rs2)
	var res uint32
	var flags uint8
	if op.Op == OpFMINS {
		res, flags = fp.MinNum(a, b)
	} else {
		res, flags = fp.MaxNum(a, b)
	}
	h.accumulateFFlags(flags)
	h.WriteF(op.Rd, res)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hFCompare(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	a, b := h.ReadF(op.Rs1), h.ReadF(op.Rs2)
	var cmp CompareOp
	switch op.Op {
	case OpFEQS:
		cmp = CompareEQ
	case OpFLTS:
		cmp = CompareLT
	case OpFLES:
		cmp = CompareLE
	}
	res, flags := fp.Compare(a, b, cmp)
	h.accumulateFFlags(flags)
	h.WriteX(op.Rd, res)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hFToInt(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	res, flags := fp.ToInt(h.ReadF(op.Rs1), op.Op == OpFCVTWS, h.currentRM(op.RM))
	h.accumulateFFlags(flags)
	h.WriteX(op.Rd, res)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hFFromInt(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	res, flags := fp.FromInt(h.ReadX(op.Rs1), op.Op == OpFCVTSW, h.currentRM(op.RM))
	h.accumulateFFlags(flags)
	h.WriteF(op.Rd, res)
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

// hFMvXW/hFMvWX move raw bits between register files with no rounding and
// no exception flags — they are not arithmetic.
func hFMvXW(h *Hart, op *Operation) (*Operation, Outcome, error) {
	h.WriteX(op.Rd, h.ReadF(op.Rs1))
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hFMvWX(h *Hart, op *Operation) (*Operation, Outcome, error) {
	h.WriteF(op.Rd, h.ReadX(op.Rs1))
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}

func hFClass(h *Hart, op *Operation) (*Operation, Outcome, error) {
	fp, err := h.fp()
	if err != nil {
		return nil, OutcomeFatal, err
	}
	h.WriteX(op.Rd, fp.Class(h.ReadF(op.Rs1)))
	h.PC = op.PC + uint32(op.InsnLen)
	return op.Next, outcomeContinue, nil
}
