package rv32

// decode16 decodes a 16-bit RVC instruction into the same canonical
// Operation shape decode32 produces, reusing decode32's handlers wherever
// the expanded semantics are identical (C.ADDI and ADDI are the same
// handler, for instance) — the dispatcher and every handler are written
// once, against canonical Op tags, never against "is this compressed".
//
// Bit-field layouts follow the RISC-V unprivileged spec's RVC chapter.
// Grounded on a from-scratch port of the reference decoder in the example
// pack (an Apache-2.0 RVC decoder), restricted here to the RV32 subset: the
// RV64/128-only forms (C.LD/C.SD/C.ADDIW/C.SUBW/C.ADDW, and the double-wide
// C.FLD/C.FSD/C.LQ/C.SQ this module has no D extension for) are reserved
// encodings on RV32 and decode to illegal.
func decode16(cfg *Config, instr uint16, pc uint32) *Operation {
	op := &Operation{PC: pc, InsnLen: 2}

	quadrant := instr & 0x3
	funct3 := uint8((instr >> 13) & 0x7)

	switch quadrant {
	case 0x0:
		rdP := rvcReg(instr, 2)
		rs1P := rvcReg(instr, 7)
		switch funct3 {
		case 0x0: // C.ADDI4SPN
			imm := cIWImm(instr)
			if imm == 0 {
				return illegalOp(pc) // reserved
			}
			op.Op, op.Handler = OpADDI, hALUImm
			op.Rd, op.Rs1, op.Imm = rdP, 2, int32(imm)
		case 0x2: // C.LW
			op.Op, op.Handler = OpLW, hLoad
			op.Rd, op.Rs1, op.Imm = rdP, rs1P, cLWImm(instr)
		case 0x3: // C.FLW
			if !cfg.ExtF {
				return illegalOp(pc)
			}
			op.Op, op.Handler = OpFLW, hFLoad
			op.Rd, op.Rs1, op.Imm = rdP, rs1P, cLWImm(instr)
		case 0x6: // C.SW
			op.Op, op.Handler = OpSW, hStore
			op.Rs1, op.Rs2, op.Imm = rs1P, rdP, cLWImm(instr)
		case 0x7: // C.FSW
			if !cfg.ExtF {
				return illegalOp(pc)
			}
			op.Op, op.Handler = OpFSW, hFStore
			op.Rs1, op.Rs2, op.Imm = rs1P, rdP, cLWImm(instr)
		default:
			return illegalOp(pc)
		}

	case 0x1:
		rd := uint8((instr >> 7) & 0x1F)
		switch funct3 {
		case 0x0: // C.NOP / C.ADDI
			op.Op, op.Handler = OpADDI, hALUImm
			op.Rd, op.Rs1, op.Imm = rd, rd, cIImm(instr)
		case 0x1: // C.JAL (RV32: rd is implicitly x1)
			op.Op, op.Handler = OpJAL, hJAL
			op.Rd, op.Imm = 1, cJImm(instr)
		case 0x2: // C.LI
			op.Op, op.Handler = OpADDI, hALUImm
			op.Rd, op.Rs1, op.Imm = rd, 0, cIImm(instr)
		case 0x3:
			if rd == 2 { // C.ADDI16SP
				imm := cAddi16spImm(instr)
				if imm == 0 {
					return illegalOp(pc)
				}
				op.Op, op.Handler = OpADDI, hALUImm
				op.Rd, op.Rs1, op.Imm = 2, 2, imm
			} else { // C.LUI
				imm := cLuiImm(instr)
				if imm == 0 {
					return illegalOp(pc)
				}
				op.Op, op.Handler = OpLUI, hLUI
				op.Rd, op.Imm = rd, imm
			}
		case 0x4:
			rdP := rvcReg(instr, 7)
			funct2 := (instr >> 10) & 0x3
			switch funct2 {
			case 0x0: // C.SRLI
				if (instr>>12)&1 != 0 {
					return illegalOp(pc)
				}
				op.Op, op.Handler = OpSRLI, hALUImm
				op.Rd, op.Rs1, op.Shamt = rdP, rdP, uint32((instr>>2)&0x1F)
			case 0x1: // C.SRAI
				if (instr>>12)&1 != 0 {
					return illegalOp(pc)
				}
				op.Op, op.Handler = OpSRAI, hALUImm
				op.Rd, op.Rs1, op.Shamt = rdP, rdP, uint32((instr>>2)&0x1F)
			case 0x2: // C.ANDI
				op.Op, op.Handler = OpANDI, hALUImm
				op.Rd, op.Rs1, op.Imm = rdP, rdP, cIImm(instr)
			case 0x3:
				if (instr>>12)&1 != 0 {
					return illegalOp(pc) // C.SUBW/ADDW family: RV64/128 only
				}
				rs2P := rvcReg(instr, 2)
				switch (instr >> 5) & 0x3 {
				case 0x0:
					op.Op, op.Handler = OpSUB, hALUReg
				case 0x1:
					op.Op, op.Handler = OpXOR, hALUReg
				case 0x2:
					op.Op, op.Handler = OpOR, hALUReg
				case 0x3:
					op.Op, op.Handler = OpAND, hALUReg
				}
				op.Rd, op.Rs1, op.Rs2 = rdP, rdP, rs2P
			}
		case 0x5: // C.J
			op.Op, op.Handler = OpJAL, hJAL
			op.Rd, op.Imm = 0, cJImm(instr)
		case 0x6: // C.BEQZ
			op.Op, op.Handler = OpBEQ, hBranch
			op.Rs1, op.Rs2, op.Imm = rvcReg(instr, 7), 0, cBImm(instr)
		case 0x7: // C.BNEZ
			op.Op, op.Handler = OpBNE, hBranch
			op.Rs1, op.Rs2, op.Imm = rvcReg(instr, 7), 0, cBImm(instr)
		}

	case 0x2:
		rd := uint8((instr >> 7) & 0x1F)
		switch funct3 {
		case 0x0: // C.SLLI
			if (instr>>12)&1 != 0 {
				return illegalOp(pc)
			}
			op.Op, op.Handler = OpSLLI, hALUImm
			op.Rd, op.Rs1, op.Shamt = rd, rd, uint32((instr>>2)&0x1F)
		case 0x2: // C.LWSP
			if rd == 0 {
				return illegalOp(pc)
			}
			op.Op, op.Handler = OpLW, hLoad
			op.Rd, op.Rs1, op.Imm = rd, 2, cLwspImm(instr)
		case 0x3: // C.FLWSP
			if !cfg.ExtF {
				return illegalOp(pc)
			}
			op.Op, op.Handler = OpFLW, hFLoad
			op.Rd, op.Rs1, op.Imm = rd, 2, cLwspImm(instr)
		case 0x4:
			rs2 := uint8((instr >> 2) & 0x1F)
			if (instr>>12)&1 == 0 {
				if rs2 == 0 { // C.JR
					op.Op, op.Handler = OpJALR, hJALR
					op.Rd, op.Rs1, op.Imm = 0, rd, 0
				} else { // C.MV
					op.Op, op.Handler = OpADD, hALUReg
					op.Rd, op.Rs1, op.Rs2 = rd, 0, rs2
				}
			} else {
				switch {
				case rd == 0 && rs2 == 0: // C.EBREAK
					op.Op, op.Handler = OpEBREAK, hEBreak
				case rs2 == 0: // C.JALR
					op.Op, op.Handler = OpJALR, hJALR
					op.Rd, op.Rs1, op.Imm = 1, rd, 0
				default: // C.ADD
					op.Op, op.Handler = OpADD, hALUReg
					op.Rd, op.Rs1, op.Rs2 = rd, rd, rs2
				}
			}
		case 0x6: // C.SWSP
			op.Op, op.Handler = OpSW, hStore
			op.Rs1, op.Rs2, op.Imm = 2, uint8((instr>>2)&0x1F), cSwspImm(instr)
		case 0x7: // C.FSWSP
			if !cfg.ExtF {
				return illegalOp(pc)
			}
			op.Op, op.Handler = OpFSW, hFStore
			op.Rs1, op.Rs2, op.Imm = 2, uint8((instr>>2)&0x1F), cSwspImm(instr)
		default:
			return illegalOp(pc)
		}

	default: // quadrant 0x3 means this is not a 16-bit instruction at all
		return illegalOp(pc)
	}

	if op.Handler == nil {
		return illegalOp(pc)
	}
	return op
}

// rvcReg widens a 3-bit compressed register field at bit offset shift (x8-x15).
func rvcReg(instr uint16, shift uint) uint8 {
	return uint8((instr>>shift)&0x7) + 8
}

func cIWImm(instr uint16) uint32 {
	return (uint32(instr>>7)&0xF)<<6 | (uint32(instr>>11)&0x3)<<4 |
		(uint32(instr>>5)&0x1)<<3 | (uint32(instr>>6)&0x1)<<2
}

func cLWImm(instr uint16) int32 {
	imm := (uint32(instr>>10)&0x7)<<3 | (uint32(instr>>6)&0x1)<<2 | (uint32(instr>>5)&0x1)<<6
	return int32(imm)
}

func cIImm(instr uint16) int32 {
	imm := (uint32(instr>>12)&0x1)<<5 | uint32(instr>>2)&0x1F
	return signExtend(imm, 6)
}

func cJImm(instr uint16) int32 {
	imm := (uint32(instr>>12)&0x1)<<11 | (uint32(instr>>11)&0x1)<<4 |
		(uint32(instr>>9)&0x3)<<8 | (uint32(instr>>8)&0x1)<<10 |
		(uint32(instr>>7)&0x1)<<6 | (uint32(instr>>6)&0x1)<<7 |
		(uint32(instr>>3)&0x7)<<1 | (uint32(instr>>2)&0x1)<<5
	return signExtend(imm, 12)
}

func cBImm(instr uint16) int32 {
	imm := (uint32(instr>>12)&0x1)<<8 | (uint32(instr>>10)&0x3)<<3 |
		(uint32(instr>>5)&0x3)<<6 | (uint32(instr>>3)&0x3)<<1 |
		(uint32(instr>>2)&0x1)<<5
	return signExtend(imm, 9)
}

func cAddi16spImm(instr uint16) int32 {
	imm := (uint32(instr>>12)&0x1)<<9 | (uint32(instr>>6)&0x1)<<4 |
		(uint32(instr>>5)&0x1)<<6 | (uint32(instr>>3)&0x3)<<7 |
		(uint32(instr>>2)&0x1)<<5
	return signExtend(imm, 10)
}

func cLuiImm(instr uint16) int32 {
	imm := (uint32(instr>>12)&0x1)<<17 | (uint32(instr>>2)&0x1F)<<12
	return signExtend(imm, 18)
}

func cLwspImm(instr uint16) int32 {
	imm := (uint32(instr>>12)&0x1)<<5 | (uint32(instr>>4)&0x7)<<2 | (uint32(instr>>2)&0x3)<<6
	return int32(imm)
}

func cSwspImm(instr uint16) int32 {
	imm := (uint32(instr>>9)&0xF)<<2 | (uint32(instr>>7)&0x3)<<6
	return int32(imm)
}
