package rv32

import "github.com/riscvgo/rv32emu/rv32/riscv"

// decode32 turns a raw 32-bit instruction word into an Operation. It never
// consults the Hart beyond its Config (to decide whether a disabled
// extension's opcode should decode to OpIllegal) and never touches memory;
// the Block Builder is the only caller, and only it advances PC.
func decode32(cfg *Config, instr uint32, pc uint32) *Operation {
	op := &Operation{PC: pc, InsnLen: 4}

	opcode := instr & 0x7F
	rd := uint8((instr >> 7) & 0x1F)
	funct3 := uint8((instr >> 12) & 0x7)
	rs1 := uint8((instr >> 15) & 0x1F)
	rs2 := uint8((instr >> 20) & 0x1F)
	funct7 := uint8((instr >> 25) & 0x7F)

	op.Rd, op.Rs1, op.Rs2 = rd, rs1, rs2

	switch opcode {
	case riscv.OpLUI:
		op.Op = OpLUI
		op.Imm = immU(instr)
		op.Handler = hLUI

	case riscv.OpAUIPC:
		op.Op = OpAUIPC
		op.Imm = immU(instr)
		op.Handler = hAUIPC

	case riscv.OpJAL:
		op.Op = OpJAL
		op.Imm = immJ(instr)
		op.Handler = hJAL

	case riscv.OpJALR:
		if funct3 != 0 {
			return illegalOp(pc)
		}
		op.Op = OpJALR
		op.Imm = immI(instr)
		op.Handler = hJALR
		op.BranchTable = nil // attached by the Block Builder once size is known

	case riscv.OpBranch:
		op.Imm = immB(instr)
		switch funct3 {
		case 0x0:
			op.Op, op.Handler = OpBEQ, hBranch
		case 0x1:
			op.Op, op.Handler = OpBNE, hBranch
		case 0x4:
			op.Op, op.Handler = OpBLT, hBranch
		case 0x5:
			op.Op, op.Handler = OpBGE, hBranch
		case 0x6:
			op.Op, op.Handler = OpBLTU, hBranch
		case 0x7:
			op.Op, op.Handler = OpBGEU, hBranch
		default:
			return illegalOp(pc)
		}

	case riscv.OpLoad:
		op.Imm = immI(instr)
		switch funct3 {
		case 0x0:
			op.Op, op.Handler = OpLB, hLoad
		case 0x1:
			op.Op, op.Handler = OpLH, hLoad
		case 0x2:
			op.Op, op.Handler = OpLW, hLoad
		case 0x4:
			op.Op, op.Handler = OpLBU, hLoad
		case 0x5:
			op.Op, op.Handler = OpLHU, hLoad
		default:
			return illegalOp(pc)
		}

	case riscv.OpStore:
		op.Imm = immS(instr)
		switch funct3 {
		case 0x0:
			op.Op, op.Handler = OpSB, hStore
		case 0x1:
			op.Op, op.Handler = OpSH, hStore
		case 0x2:
			op.Op, op.Handler = OpSW, hStore
		default:
			return illegalOp(pc)
		}

	case riscv.OpOpImm:
		op.Imm = immI(instr)
		switch funct3 {
		case 0x0:
			op.Op, op.Handler = OpADDI, hALUImm
		case 0x2:
			op.Op, op.Handler = OpSLTI, hALUImm
		case 0x3:
			op.Op, op.Handler = OpSLTIU, hALUImm
		case 0x4:
			op.Op, op.Handler = OpXORI, hALUImm
		case 0x6:
			op.Op, op.Handler = OpORI, hALUImm
		case 0x7:
			op.Op, op.Handler = OpANDI, hALUImm
		case 0x1:
			if funct7 != 0x00 {
				return illegalOp(pc)
			}
			op.Op, op.Handler = OpSLLI, hALUImm
			op.Shamt = uint32(rs2)
		case 0x5:
			switch funct7 {
			case 0x00:
				op.Op, op.Handler = OpSRLI, hALUImm
			case 0x20:
				op.Op, op.Handler = OpSRAI, hALUImm
			default:
				return illegalOp(pc)
			}
			op.Shamt = uint32(rs2)
		default:
			return illegalOp(pc)
		}

	case riscv.OpOp:
		switch {
		case funct7 == 0x00 && funct3 == 0x0:
			op.Op, op.Handler = OpADD, hALUReg
		case funct7 == 0x20 && funct3 == 0x0:
			op.Op, op.Handler = OpSUB, hALUReg
		case funct7 == 0x00 && funct3 == 0x1:
			op.Op, op.Handler = OpSLL, hALUReg
		case funct7 == 0x00 && funct3 == 0x2:
			op.Op, op.Handler = OpSLT, hALUReg
		case funct7 == 0x00 && funct3 == 0x3:
			op.Op, op.Handler = OpSLTU, hALUReg
		case funct7 == 0x00 && funct3 == 0x4:
			op.Op, op.Handler = OpXOR, hALUReg
		case funct7 == 0x00 && funct3 == 0x5:
			op.Op, op.Handler = OpSRL, hALUReg
		case funct7 == 0x20 && funct3 == 0x5:
			op.Op, op.Handler = OpSRA, hALUReg
		case funct7 == 0x00 && funct3 == 0x6:
			op.Op, op.Handler = OpOR, hALUReg
		case funct7 == 0x00 && funct3 == 0x7:
			op.Op, op.Handler = OpAND, hALUReg
		case funct7 == 0x01 && cfg.ExtM:
			op.Handler = hMulDiv
			switch funct3 {
			case 0x0:
				op.Op = OpMUL
			case 0x1:
				op.Op = OpMULH
			case 0x2:
				op.Op = OpMULHSU
			case 0x3:
				op.Op = OpMULHU
			case 0x4:
				op.Op = OpDIV
			case 0x5:
				op.Op = OpDIVU
			case 0x6:
				op.Op = OpREM
			case 0x7:
				op.Op = OpREMU
			}
		default:
			return illegalOp(pc)
		}

	case riscv.OpMiscMem:
		switch funct3 {
		case 0x0:
			op.Op, op.Handler = OpFENCE, hFence
		case 0x1:
			if !cfg.ExtZifencei {
				return illegalOp(pc)
			}
			op.Op, op.Handler = OpFENCEI, hFenceI
		default:
			return illegalOp(pc)
		}

	case riscv.OpSystem:
		switch funct3 {
		case 0x0:
			switch instr >> 20 {
			case 0x0:
				op.Op, op.Handler = OpECALL, hECall
			case 0x1:
				op.Op, op.Handler = OpEBREAK, hEBreak
			case 0x002:
				op.Op, op.Handler = OpURET, hPrivIllegal
			case 0x102:
				op.Op, op.Handler = OpSRET, hPrivIllegal
			case 0x302:
				op.Op, op.Handler = OpMRET, hPrivIllegal
			case 0x105:
				op.Op, op.Handler = OpWFI, hWFI
			default:
				return illegalOp(pc)
			}
		case 0x1, 0x2, 0x3, 0x5, 0x6, 0x7:
			if !cfg.ExtZicsr {
				return illegalOp(pc)
			}
			op.CSR = instr >> 20
			switch funct3 {
			case 0x1:
				op.Op, op.Handler = OpCSRRW, hCSR
			case 0x2:
				op.Op, op.Handler = OpCSRRS, hCSR
			case 0x3:
				op.Op, op.Handler = OpCSRRC, hCSR
			case 0x5:
				op.Op, op.Handler = OpCSRRWI, hCSR
			case 0x6:
				op.Op, op.Handler = OpCSRRSI, hCSR
			case 0x7:
				op.Op, op.Handler = OpCSRRCI, hCSR
			}
		default:
			return illegalOp(pc)
		}

	case riscv.OpAMO:
		if !cfg.ExtA || funct3 != 0x2 {
			return illegalOp(pc)
		}
		op.Handler = hAMO
		switch funct7 >> 2 {
		case 0x00:
			op.Op = OpAMOADDW
		case 0x01:
			op.Op = OpAMOSWAPW
		case 0x02:
			op.Op = OpLRW
		case 0x03:
			op.Op = OpSCW
		case 0x04:
			op.Op = OpAMOXORW
		case 0x08:
			op.Op = OpAMOORW
		case 0x0C:
			op.Op = OpAMOANDW
		case 0x10:
			op.Op = OpAMOMINW
		case 0x14:
			op.Op = OpAMOMAXW
		case 0x18:
			op.Op = OpAMOMINUW
		case 0x1C:
			op.Op = OpAMOMAXUW
		default:
			return illegalOp(pc)
		}
		// aq/rl bits (instr[26:25]) are accepted and ignored: the engine is
		// single-hart, so every AMO is already atomic with respect to
		// everything else that could observe it.

	case riscv.OpLoadFP, riscv.OpStoreFP, riscv.OpOpFP,
		riscv.OpMAdd, riscv.OpMSub, riscv.OpNMSub, riscv.OpNMAdd:
		if !cfg.ExtF {
			return illegalOp(pc)
		}
		decodeF(op, cfg, instr, uint8(opcode), funct3, funct7, rs2)
		if op.Handler == nil {
			return illegalOp(pc)
		}

	default:
		return illegalOp(pc)
	}

	if op.Handler == nil {
		return illegalOp(pc)
	}
	return op
}

func illegalOp(pc uint32) *Operation {
	return &Operation{Op: OpIllegal, PC: pc, InsnLen: 4, Handler: hIllegal}
}

// Sign-extending immediate extractors for the I/S/B/U/J encodings (RISC-V
// unprivileged spec v20191213 §2.6).

func immI(instr uint32) int32 {
	return int32(instr) >> 20
}

func immS(instr uint32) int32 {
	imm := ((instr >> 25) << 5) | ((instr >> 7) & 0x1F)
	return signExtend(imm, 12)
}

func immB(instr uint32) int32 {
	imm := (((instr >> 31) & 1) << 12) |
		(((instr >> 7) & 1) << 11) |
		(((instr >> 25) & 0x3F) << 5) |
		(((instr >> 8) & 0xF) << 1)
	return signExtend(imm, 13)
}

func immU(instr uint32) int32 {
	return int32(instr &^ 0xFFF)
}

func immJ(instr uint32) int32 {
	imm := (((instr >> 31) & 1) << 20) |
		(((instr >> 12) & 0xFF) << 12) |
		(((instr >> 20) & 1) << 11) |
		(((instr >> 21) & 0x3FF) << 1)
	return signExtend(imm, 21)
}

// signExtend sign-extends the low width bits of v (already shifted into
// place) to a full int32.
func signExtend(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}
