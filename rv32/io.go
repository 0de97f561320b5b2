package rv32

// IOFacade is the host-provided contract the engine depends on for all
// memory access and for the two instructions that must hand control to the
// host: ECALL and EBREAK. The engine never touches a byte array directly;
// everything goes through this interface. ELF loading, MMIO routing, device
// models, and the physical backing store are the host's concern (see
// SPEC_FULL.md §1) — the hostmem package ships a minimal flat-array
// implementation for tests and the demo driver, but it is not part of the
// engine.
type IOFacade interface {
	ReadB(addr uint32) (uint8, error)
	ReadH(addr uint32) (uint16, error)
	ReadW(addr uint32) (uint32, error)

	WriteB(addr uint32, v uint8) error
	WriteH(addr uint32, v uint16) error
	WriteW(addr uint32, v uint32) error

	// OnECall/OnEBreak are invoked with hart state fully committed (PC points
	// at the ecall/ebreak instruction itself, cycle counter up to date). An
	// error here becomes a fatal engine error; to simply request the guest
	// stop running, the callback should set h.Halted.
	OnECall(h *Hart) error
	OnEBreak(h *Hart) error
}

// CompareOp selects which of FEQ/FLT/FLE a FPBackend.Compare call performs.
type CompareOp uint8

const (
	CompareEQ CompareOp = iota
	CompareLT
	CompareLE
)

// FPBackend is the IEEE-754 softfloat oracle contract for the F extension.
// The engine never performs native float arithmetic itself: every F-op
// handler drives this interface with raw uint32 bit patterns and folds the
// returned exception flags into fcsr. This mirrors the spec's treatment of
// the softfloat library as a black-box, swappable oracle (§1, §6) — the
// engine ships a default backend (see softfloat.go) built on Go's native
// float32 ops, documented there as a stand-in, not as "the" oracle.
type FPBackend interface {
	Add(a, b uint32, rm uint8) (result uint32, flags uint8)
	Sub(a, b uint32, rm uint8) (result uint32, flags uint8)
	Mul(a, b uint32, rm uint8) (result uint32, flags uint8)
	Div(a, b uint32, rm uint8) (result uint32, flags uint8)
	Sqrt(a uint32, rm uint8) (result uint32, flags uint8)
	// FMA computes (a*b)+c, optionally negating the product and/or the
	// addend first, covering FMADD/FMSUB/FNMSUB/FNMADD.S from one entry
	// point.
	FMA(a, b, c uint32, negMul, negAdd bool, rm uint8) (result uint32, flags uint8)

	MinNum(a, b uint32) (result uint32, flags uint8)
	MaxNum(a, b uint32) (result uint32, flags uint8)

	Compare(a, b uint32, op CompareOp) (result uint32, flags uint8)
	Class(a uint32) uint32

	ToInt(a uint32, signed bool, rm uint8) (result uint32, flags uint8)
	FromInt(v uint32, signed bool, rm uint8) (result uint32, flags uint8)

	Sgnj(a, b uint32, negate, xor bool) uint32
}
