package rv32

// Op is the engine-internal opcode tag attached to a decoded Operation. It
// names the RISC-V mnemonic (or, for Nop and Illegal, an engine-internal
// pseudo-op) rather than the raw encoding, so the rest of the engine never
// has to re-derive a mnemonic from opcode/funct3/funct7 bit patterns.
type Op uint8

const (
	OpIllegal Op = iota
	OpNop

	OpLUI
	OpAUIPC
	OpJAL
	OpJALR

	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW

	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	OpFENCE
	OpFENCEI
	OpECALL
	OpEBREAK

	// Zicsr
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI

	// M extension
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU

	// A extension (32-bit words only; RV32A has no .D variants)
	OpLRW
	OpSCW
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMINW
	OpAMOMAXW
	OpAMOMINUW
	OpAMOMAXUW

	// F extension (single precision only; no D)
	OpFLW
	OpFSW
	OpFMADDS
	OpFMSUBS
	OpFNMSUBS
	OpFNMADDS
	OpFADDS
	OpFSUBS
	OpFMULS
	OpFDIVS
	OpFSQRTS
	OpFSGNJS
	OpFSGNJNS
	OpFSGNJXS
	OpFMINS
	OpFMAXS
	OpFCVTWS
	OpFCVTWUS
	OpFCVTSW
	OpFCVTSWU
	OpFMVXW
	OpFMVWX
	OpFEQS
	OpFLTS
	OpFLES
	OpFCLASSS

	// Privileged return instructions: never silently succeed (see DESIGN.md).
	OpURET
	OpSRET
	OpMRET
	OpWFI

	opCount
)

// Terminator classifies why a Block ends where it does, mirroring the
// builder's terminator categories in the spec.
type Terminator uint8

const (
	TermNone Terminator = iota
	// TermStraight marks a block whose last op is not itself a control
	// transfer: the builder hit its defensive op-count cap (maxBlockOps)
	// before encountering a real terminator. The block behaves as if it
	// unconditionally falls through to end_pc.
	TermStraight
	TermDirectBranch
	TermIndirectBranch
	TermSyscall
	TermTrap
)

// Outcome is the tri-state signal a Handler (and Hart.Step) uses to tell the
// dispatcher what to do next: keep tail-chaining inline, or return control to
// the caller.
type Outcome uint8

const (
	outcomeContinue Outcome = iota // internal only: never escapes Step
	OutcomeECall
	OutcomeEBreak
	OutcomeWFI
	OutcomeCSR
	OutcomeTrap
	OutcomeHotBlock
	OutcomeBudgetExhausted
	OutcomeHalted
	OutcomeFatal
)

// Handler is the semantic body of one Op: it reads operands, computes the
// RISC-V-defined result, writes it back, advances PC, and returns either the
// next Operation to tail-chain into (outcome == outcomeContinue) or a reason
// to return control to Step's caller.
//
// Handler also doubles as half of the Operation Table's JIT contract: a
// conforming x86-64 backend (out of scope for this module — see DESIGN.md)
// would supply a parallel Emit function keyed by the same Op. No emitter or
// emitter vocabulary is defined in this module.
type Handler func(h *Hart, op *Operation) (next *Operation, outcome Outcome, err error)

// Operation is a fully decoded instruction, immutable after the Block
// Builder appends it. Immediates are already sign-extended to int32 and
// shift amounts already masked to 5 bits, per the decoder's contract.
type Operation struct {
	Op      Op
	PC      uint32
	InsnLen uint8 // 2 (compressed) or 4

	Rd, Rs1, Rs2, Rs3 uint8 // 5-bit register indices; Rs3 only meaningful for fused float ops
	Imm               int32
	Shamt             uint32
	CSR               uint32 // CSR address, only meaningful for Zicsr ops
	RM                uint8  // rounding mode field, only meaningful for F ops

	Handler Handler

	// Next is the following operation within the same block, or nil if this
	// op is the block's terminator.
	Next *Operation

	// BranchTaken/BranchUntaken are populated by the Branch Linker once the
	// target block's first op is known; nil means "not yet linked", resolved
	// lazily by the handler itself on first traversal.
	BranchTaken   *Operation
	BranchUntaken *Operation

	// BranchTable is attached only to indirect-jump ops (JALR, C.JR, C.JALR).
	BranchTable *BHT
}

// IsTerminator reports whether op ends its containing block.
func (op *Operation) IsTerminator() bool {
	return op.Next == nil
}
