package rv32

import "github.com/riscvgo/rv32emu/rv32/riscv"

// Hart is the exclusive owner of one emulated CPU context: the integer and
// float register files, CSRs, PC, cycle counter, and the block map/cache
// that back the execution engine. All mutation happens synchronously from
// Step's call chain; nothing here is safe for concurrent use, by design (see
// SPEC_FULL.md §5).
type Hart struct {
	X [32]uint32 // integer registers; X[0] is always read back as zero
	F [32]uint64 // NaN-boxed float registers (FLEN=64 container, FLEN=32 value)

	PC uint32

	Cycle uint64

	Mstatus uint32
	Mepc    uint32
	Mcause  uint32
	Mtval   uint32
	Fcsr    uint32

	Halted bool

	// Reservation/ReservationValid record the address the last LR.W reserved;
	// SC.W clears it. SC.W does not consult it: with no other hart to steal
	// the cache line, every SC.W in this single-hart model succeeds.
	Reservation      uint32
	ReservationValid bool

	Config Config
	IO     IOFacade

	blockMap *BlockMap
	cache    *BlockCache

	// currentOp is where Step resumes: the operation to execute next. nil
	// means "resolve from PC", which happens on first Step, after
	// FlushBlocks, and after the hart halts (exit, unvectored trap, fatal
	// error).
	currentOp *Operation

	// Trace, if set, is called once per committed instruction boundary —
	// i.e. whenever Step or the dispatcher loop inside it is about to move
	// to a new Operation. Used by the demo driver's --trace flag; nil by
	// default so the hot path pays nothing for it.
	Trace func(h *Hart, op *Operation)
}

// NewHart constructs a Hart with the given configuration and IO facade. The
// entry PC is the first instruction the first Step call will decode.
func NewHart(cfg Config, io IOFacade, entryPC uint32) *Hart {
	cfg.normalize()
	h := &Hart{
		PC:     entryPC,
		Config: cfg,
		IO:     io,
	}
	h.blockMap = newBlockMap(h)
	h.cache = newBlockCache(cfg.BlockCacheCapacity, cfg.HotThreshold)
	return h
}

// WriteX writes an integer register, discarding writes to x0 so that the
// x0-invariance property holds unconditionally rather than relying on every
// handler to check rd != 0 first.
func (h *Hart) WriteX(reg uint8, v uint32) {
	if reg == 0 {
		return
	}
	h.X[reg] = v
}

// ReadX reads an integer register; x0 always reads as zero regardless of
// what, if anything, was ever stored there.
func (h *Hart) ReadX(reg uint8) uint32 {
	if reg == 0 {
		return 0
	}
	return h.X[reg]
}

// WriteF writes a float register with its 32-bit payload NaN-boxed.
func (h *Hart) WriteF(reg uint8, bits uint32) {
	h.F[reg] = nanBox(bits)
}

// ReadF reads a float register's 32-bit payload, unboxing (or substituting
// the canonical quiet NaN for an invalid box).
func (h *Hart) ReadF(reg uint8) uint32 {
	return unbox32(h.F[reg])
}

// FlushBlocks invalidates every cached and mapped block. Used by FENCE.I
// when the guest may have modified its own instruction memory (see the
// Zifencei design note in SPEC_FULL.md §9) and by hosts that mutate guest
// memory out of band.
func (h *Hart) FlushBlocks() {
	h.blockMap.flush()
	h.cache.flush()
	h.currentOp = nil
}

// blockFor returns the resident block entered at pc, building it if
// necessary. This is the engine's "consult the block map" path referenced
// throughout SPEC_FULL.md §4.
func (h *Hart) blockFor(pc uint32) (*Block, error) {
	if b, ok := h.cache.Get(pc); ok {
		return b, nil
	}
	b, err := h.blockMap.getOrBuild(pc)
	if err != nil {
		return nil, err
	}
	h.cache.Put(b)
	return b, nil
}

// raiseTrap commits mepc/mcause/mtval and either vectors to Config.Mtvec or
// halts, per the Trap Unit's design (SPEC_FULL.md §4.8). It returns
// OutcomeTrap so Step unwinds to the caller, or OutcomeFatal if the block at
// the trap vector cannot be built.
func (h *Hart) raiseTrap(cause uint32, tval uint32, pc uint32) (*Operation, Outcome, error) {
	h.Mepc = pc
	h.Mcause = cause
	h.Mtval = tval

	mpie := (h.Mstatus >> riscv.MstatusMIEBit) & 1
	h.Mstatus = (h.Mstatus &^ (1 << riscv.MstatusMPIEBit)) | (mpie << riscv.MstatusMPIEBit)
	h.Mstatus &^= 1 << riscv.MstatusMIEBit

	if h.Config.Mtvec != 0 {
		h.PC = h.Config.Mtvec
		blk, err := h.blockFor(h.PC)
		if err != nil {
			h.Halted = true
			return nil, OutcomeFatal, err
		}
		h.currentOp = blk.Ops[0]
		return h.currentOp, OutcomeTrap, nil
	}

	h.Halted = true
	h.currentOp = nil
	return nil, OutcomeTrap, nil
}
