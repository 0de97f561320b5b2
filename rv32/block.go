package rv32

// Block is a maximal straight-line sequence of decoded operations ending in
// exactly one terminator. Once built, a Block is immutable except for the
// terminator's BranchTaken/BranchUntaken fields, which the Branch Linker (or
// a handler's own lazy-link step) may populate after construction.
type Block struct {
	EntryPC    uint32
	EndPC      uint32 // PC of the instruction after the last op
	Ops        []*Operation
	Terminator Terminator
}

func (b *Block) terminatorOp() *Operation {
	return b.Ops[len(b.Ops)-1]
}

// BlockMap is the authoritative, unbounded, entry-PC-indexed store of every
// block ever decoded for the current program image. Blocks live here for
// the lifetime of the run; they are never evicted, because other blocks'
// ops may hold BranchTaken/BranchUntaken pointers into them.
type BlockMap struct {
	h      *Hart
	blocks map[uint32]*Block
}

func newBlockMap(h *Hart) *BlockMap {
	return &BlockMap{h: h, blocks: make(map[uint32]*Block)}
}

// getOrBuild returns the block resident at pc, building and installing it
// first if absent. If a block is already present, that existing block is
// returned unconditionally (the at-most-one-build-per-PC rule).
func (bm *BlockMap) getOrBuild(pc uint32) (*Block, error) {
	if b, ok := bm.blocks[pc]; ok {
		return b, nil
	}
	b, err := buildBlock(bm.h, pc)
	if err != nil {
		return nil, err
	}
	bm.blocks[pc] = b
	linkBlock(bm.h, b)
	return b, nil
}

func (bm *BlockMap) lookup(pc uint32) (*Block, bool) {
	b, ok := bm.blocks[pc]
	return b, ok
}

func (bm *BlockMap) flush() {
	bm.blocks = make(map[uint32]*Block)
}
