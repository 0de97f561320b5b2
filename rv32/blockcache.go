package rv32

// BlockCache is a bounded, frequency-promoted linking hint on top of
// BlockMap. It never owns a block's lifetime — eviction only forgets the
// cache's fast-path entry, it never frees the block itself, since other
// blocks may still hold op pointers into it via BranchTaken/BranchUntaken.
//
// The eviction policy is a small access-frequency heuristic, not a generic
// LRU: on overflow it evicts the least-frequently-accessed entry that is
// not yet "hot", falling back to the global least-frequently-accessed entry
// if every resident entry has crossed the hot threshold. A generic
// container/list-based LRU (or an imported LRU cache package) doesn't model
// "hot" pinning, so this is hand-rolled — see DESIGN.md.
type BlockCache struct {
	capacity     int
	hotThreshold uint32
	entries      map[uint32]*cacheEntry
}

type cacheEntry struct {
	block *Block
	freq  uint32
}

func newBlockCache(capacity int, hotThreshold uint32) *BlockCache {
	return &BlockCache{
		capacity:     capacity,
		hotThreshold: hotThreshold,
		entries:      make(map[uint32]*cacheEntry, capacity),
	}
}

// Get returns the block cached at pc, bumping its access frequency. A miss
// here does not consult the block map; callers fall back to that
// themselves (see Hart.blockFor).
func (c *BlockCache) Get(pc uint32) (*Block, bool) {
	e, ok := c.entries[pc]
	if !ok {
		return nil, false
	}
	e.freq++
	return e.block, true
}

// Put inserts or refreshes the cache entry for block.EntryPC, evicting one
// entry first if the cache is already at capacity and block.EntryPC is not
// already resident.
func (c *BlockCache) Put(block *Block) {
	if e, ok := c.entries[block.EntryPC]; ok {
		e.block = block
		return
	}
	if len(c.entries) >= c.capacity {
		c.evictOne()
	}
	c.entries[block.EntryPC] = &cacheEntry{block: block, freq: 1}
}

// Hot reports whether pc's access counter has crossed hotThreshold. A pc
// not resident in the cache is never hot.
func (c *BlockCache) Hot(pc uint32) bool {
	e, ok := c.entries[pc]
	return ok && e.freq >= c.hotThreshold
}

func (c *BlockCache) evictOne() {
	var victim uint32
	var victimFreq uint32
	found := false
	for pc, e := range c.entries {
		if e.freq >= c.hotThreshold {
			continue
		}
		if !found || e.freq < victimFreq {
			victim, victimFreq = pc, e.freq
			found = true
		}
	}
	if !found {
		// everything is hot: fall back to the globally least-accessed entry
		for pc, e := range c.entries {
			if !found || e.freq < victimFreq {
				victim, victimFreq = pc, e.freq
				found = true
			}
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

func (c *BlockCache) flush() {
	c.entries = make(map[uint32]*cacheEntry, c.capacity)
}
