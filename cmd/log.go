package cmd

import (
	"fmt"
	"io"
	"strings"

	"log/slog"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/riscvgo/rv32emu/rv32/riscv"
)

// Logger builds a logfmt logger writing to w at the given level, matching
// the driver's ambient logging idiom: structured, human-readable on a
// terminal, grep-able in a file.
func Logger(w io.Writer, lvl slog.Level) log.Logger {
	return log.NewLogger(log.LogfmtHandlerWithLevel(w, lvl))
}

// LoggingWriter wraps a logger behind an io.Writer, for the guest program's
// stdout/stderr to be routed through structured logging instead of being
// written to the host's own stdout/stderr directly.
type LoggingWriter struct {
	Name string
	Log  log.Logger
}

func logAsText(b string) bool {
	for _, c := range b {
		if (c < 0x20 || c >= 0x7F) && (c != '\n' && c != '\t') {
			return false
		}
	}
	return true
}

func (lw *LoggingWriter) Write(b []byte) (int, error) {
	t := string(b)
	if logAsText(t) {
		lw.Log.Info("", "stream", lw.Name, "text", t)
	} else {
		lw.Log.Info("", "stream", lw.Name, "data", hexutil.Bytes(b))
	}
	return len(b), nil
}

// HexU32 lazy-formats a register or address for logging, only paying the
// formatting cost when the log line is actually emitted.
type HexU32 uint32

func (v HexU32) String() string {
	return fmt.Sprintf("%08x", uint32(v))
}

func (v HexU32) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// abiRegNames is the calling-convention name for each of the 32 integer
// registers, in x0..x31 order — what a disassembly or a debugger prints
// instead of the bare index.
var abiRegNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Registers lazy-formats a hart's integer register file as a single
// logfmt-friendly attribute, named by ABI register rather than by raw
// index (x0/x2/x10 reads far less usefully in a log line than
// zero/sp/a0). Only registers holding a nonzero value are printed, since a
// freshly-trapped hart mid-run typically has most of the file still at
// its reset value and a full 32-register dump would drown the line that
// matters.
type Registers [32]uint32

func (r Registers) String() string {
	var b strings.Builder
	for i, v := range r {
		if v == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", abiRegNames[i], HexU32(v))
	}
	if b.Len() == 0 {
		return "(all zero)"
	}
	return b.String()
}

// causeNames maps the trap cause codes declared in package riscv to the
// mnemonic the privileged spec gives them, for the run summary's "mcause"
// field.
var causeNames = map[uint32]string{
	riscv.CauseInstrMisaligned: "instruction-address-misaligned",
	riscv.CauseInstrFault:      "instruction-access-fault",
	riscv.CauseIllegalInstr:    "illegal-instruction",
	riscv.CauseBreakpoint:      "breakpoint",
	riscv.CauseLoadMisaligned:  "load-address-misaligned",
	riscv.CauseLoadFault:       "load-access-fault",
	riscv.CauseStoreMisaligned: "store/amo-address-misaligned",
	riscv.CauseStoreFault:      "store/amo-access-fault",
	riscv.CauseECallFromU:      "ecall-from-u-mode",
	riscv.CauseECallFromM:      "ecall-from-m-mode",
}

// CauseName renders an mcause value the way the run summary logs it:
// the architectural mnemonic where one is known, the raw value otherwise
// (a reserved or custom cause code is not a logging bug).
func CauseName(cause uint32) string {
	if name, ok := causeNames[cause]; ok {
		return name
	}
	return fmt.Sprintf("reserved(%d)", cause)
}
