package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/riscvgo/rv32emu/hostmem"
	"github.com/riscvgo/rv32emu/rv32"
)

var (
	ImageFlag = &cli.PathFlag{
		Name:     "image",
		Usage:    "path to a raw RV32 binary image to load at --load-addr",
		Required: true,
	}
	LoadAddrFlag = &cli.Uint64Flag{
		Name:  "load-addr",
		Usage: "guest physical address the image is loaded at",
		Value: 0,
	}
	EntryFlag = &cli.Uint64Flag{
		Name:  "entry",
		Usage: "initial PC; defaults to --load-addr",
	}
	MemSizeFlag = &cli.Uint64Flag{
		Name:  "mem-size",
		Usage: "size in bytes of the flat guest memory backing hostmem.Memory",
		Value: 64 << 20,
	}
	MaxCyclesFlag = &cli.Uint64Flag{
		Name:  "max-cycles",
		Usage: "stop after this many retired instructions even if the guest has not exited",
		Value: 100_000_000,
	}
	ExtMFlag        = &cli.BoolFlag{Name: "ext-m", Value: true, Usage: "enable the M (integer multiply/divide) extension"}
	ExtAFlag        = &cli.BoolFlag{Name: "ext-a", Value: true, Usage: "enable the A (atomics) extension"}
	ExtFFlag        = &cli.BoolFlag{Name: "ext-f", Value: false, Usage: "enable the F (single-precision float) extension"}
	ExtCFlag        = &cli.BoolFlag{Name: "ext-c", Value: true, Usage: "enable the C (compressed instruction) extension"}
	ExtZicsrFlag    = &cli.BoolFlag{Name: "ext-zicsr", Value: true, Usage: "enable the Zicsr extension"}
	ExtZifenceiFlag = &cli.BoolFlag{Name: "ext-zifencei", Value: true, Usage: "enable the Zifencei extension"}

	BlockCacheCapacityFlag = &cli.IntFlag{Name: "block-cache-capacity", Value: 256, Usage: "bounded block cache size"}
	HotThresholdFlag       = &cli.Uint64Flag{Name: "hot-threshold", Value: 64, Usage: "access count at or above which a cached block is considered hot"}
	HistorySizeFlag        = &cli.IntFlag{Name: "history-size", Value: 4, Usage: "per-indirect-jump branch history table size"}

	TraceFlag     = &cli.BoolFlag{Name: "trace", Usage: "log every committed instruction boundary"}
	CPUProfileFlag = &cli.BoolFlag{Name: "cpuprofile", Usage: "write a pprof CPU profile for this run to the working directory"}
)

// RunCommand executes a raw RV32 image against the engine until it exits,
// traps with no trap vector configured, or exhausts --max-cycles.
var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run an RV32 image against the emulator.",
	Description: "Run an RV32 image against the emulator until it exits, halts on an unvectored trap, or exhausts --max-cycles.",
	Action:      Run,
	Flags: []cli.Flag{
		ImageFlag, LoadAddrFlag, EntryFlag, MemSizeFlag, MaxCyclesFlag,
		ExtMFlag, ExtAFlag, ExtFFlag, ExtCFlag, ExtZicsrFlag, ExtZifenceiFlag,
		BlockCacheCapacityFlag, HotThresholdFlag, HistorySizeFlag,
		TraceFlag, CPUProfileFlag,
	},
}

func Run(ctx *cli.Context) error {
	if ctx.Bool(CPUProfileFlag.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	lvl := log.LevelInfo
	if ctx.Bool(TraceFlag.Name) {
		lvl = log.LevelDebug
	}
	l := Logger(os.Stderr, lvl)

	image, err := os.ReadFile(ctx.Path(ImageFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	loadAddr := uint32(ctx.Uint64(LoadAddrFlag.Name))
	entry := uint32(ctx.Uint64(EntryFlag.Name))
	if !ctx.IsSet(EntryFlag.Name) {
		entry = loadAddr
	}

	mem := hostmem.New(uint32(ctx.Uint64(MemSizeFlag.Name)))
	mem.LoadAt(loadAddr, image)

	outLog := &LoggingWriter{Name: "guest stdout", Log: l}
	errLog := &LoggingWriter{Name: "guest stderr", Log: l}
	mem.OnECallFunc = func(h *rv32.Hart) error {
		return handleECall(h, mem, outLog, errLog)
	}

	cfg := rv32.Config{
		ExtM:               ctx.Bool(ExtMFlag.Name),
		ExtA:                ctx.Bool(ExtAFlag.Name),
		ExtF:                ctx.Bool(ExtFFlag.Name),
		ExtC:                ctx.Bool(ExtCFlag.Name),
		ExtZicsr:            ctx.Bool(ExtZicsrFlag.Name),
		ExtZifencei:         ctx.Bool(ExtZifenceiFlag.Name),
		BlockCacheCapacity:  ctx.Int(BlockCacheCapacityFlag.Name),
		HotThreshold:        uint32(ctx.Uint64(HotThresholdFlag.Name)),
		HistorySize:         ctx.Int(HistorySizeFlag.Name),
	}
	if cfg.ExtF {
		cfg.FPBackend = rv32.NewNativeFPBackend()
	}

	h := rv32.NewHart(cfg, mem, entry)
	if ctx.Bool(TraceFlag.Name) {
		h.Trace = func(h *rv32.Hart, op *rv32.Operation) {
			l.Debug("step", "cycle", h.Cycle, "pc", HexU32(op.PC))
		}
	}

	start := time.Now()
	outcome, err := h.RunUntil(ctx.Uint64(MaxCyclesFlag.Name))
	if err != nil {
		return fmt.Errorf("run failed at pc %s: %w", HexU32(h.PC), err)
	}

	l.Info("run finished",
		"outcome", outcome,
		"cycles", h.Cycle,
		"elapsed", time.Since(start),
		"pc", HexU32(h.PC),
		"exited", h.Halted,
	)
	if outcome == rv32.OutcomeTrap {
		l.Info("trap detail", "mcause", CauseName(h.Mcause), "mtval", HexU32(h.Mtval), "mepc", HexU32(h.Mepc))
	}
	l.Debug("final register file", "regs", Registers(h.X))
	return nil
}

// handleECall is the demo driver's syscall ABI: it understands exactly
// enough of the Linux RV32 calling convention to let a freestanding test
// program exit and print, which is all the image fixtures this driver ships
// with need. a7 selects the syscall, following the standard RISC-V Linux
// numbering.
func handleECall(h *rv32.Hart, mem *hostmem.Memory, stdout, stderr *LoggingWriter) error {
	const (
		sysWrite    = 64
		sysExit     = 93
		sysExitGrp  = 94
	)
	switch h.ReadX(17) { // a7
	case sysWrite:
		fd, addr, count := h.ReadX(10), h.ReadX(11), h.ReadX(12)
		buf := make([]byte, 0, count)
		for i := uint32(0); i < count; i++ {
			b, err := mem.ReadB(addr + i)
			if err != nil {
				return err
			}
			buf = append(buf, b)
		}
		switch fd {
		case 2:
			_, _ = stderr.Write(buf)
		default:
			_, _ = stdout.Write(buf)
		}
		h.WriteX(10, uint32(len(buf)))
	case sysExit, sysExitGrp:
		h.Halted = true
	default:
		h.Halted = true
	}
	return nil
}
