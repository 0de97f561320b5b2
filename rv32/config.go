package rv32

// Config enumerates the engine's compile-time-in-spirit options: which
// optional extensions are active, and the three tuning knobs for the block
// cache / BHT subsystem. Disabled extensions make their opcodes decode to
// OpIllegal rather than simply being unreachable, so a guest that executes
// one gets the same illegal-instruction trap a real hart without that
// extension would raise.
type Config struct {
	ExtM        bool
	ExtA        bool
	ExtF        bool
	ExtC        bool
	ExtZicsr    bool
	ExtZifencei bool

	// BlockCacheCapacity bounds the block cache (not the block map, which is
	// unbounded for the life of the program). Zero means DefaultConfig's
	// value.
	BlockCacheCapacity int
	// HotThreshold is the access count at or above which BlockCache.Hot(pc)
	// reports true.
	HotThreshold uint32
	// HistorySize is the per-indirect-jump BHT size.
	HistorySize int

	// Mtvec, if nonzero, is the trap vector the Trap Unit jumps to instead
	// of halting. U-mode emulation defaults to surfacing traps to the host.
	Mtvec uint32

	// FPBackend supplies the IEEE-754 oracle for the F extension. Required
	// only when ExtF is true; DefaultConfig leaves it nil.
	FPBackend FPBackend
}

// DefaultConfig returns the engine's standard extension set (everything but
// F, since F needs an explicit FPBackend) and cache tuning.
func DefaultConfig() Config {
	return Config{
		ExtM:               true,
		ExtA:                true,
		ExtC:                true,
		ExtZicsr:            true,
		ExtZifencei:         true,
		BlockCacheCapacity:  256,
		HotThreshold:        64,
		HistorySize:         4,
	}
}

func (c *Config) normalize() {
	if c.BlockCacheCapacity <= 0 {
		c.BlockCacheCapacity = 256
	}
	if c.HotThreshold == 0 {
		c.HotThreshold = 64
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 4
	}
}
