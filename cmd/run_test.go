package cmd

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/riscvgo/rv32emu/hostmem"
	"github.com/riscvgo/rv32emu/rv32"
)

func TestHandleECall_WriteSyscallRoutesToStdout(t *testing.T) {
	mem := hostmem.New(64)
	mem.LoadAt(0, []byte("hi\n"))

	var buf bytes.Buffer
	out := &LoggingWriter{Name: "stdout", Log: Logger(&buf, log.LevelInfo)}
	errOut := &LoggingWriter{Name: "stderr", Log: Logger(&buf, log.LevelInfo)}

	h := rv32.NewHart(rv32.DefaultConfig(), mem, 0)
	h.WriteX(17, 64) // a7 = sys_write
	h.WriteX(10, 1)  // a0 = fd (stdout)
	h.WriteX(11, 0)  // a1 = buf addr
	h.WriteX(12, 3)  // a2 = count

	require.NoError(t, handleECall(h, mem, out, errOut))
	require.Contains(t, buf.String(), "hi")
	require.Equal(t, uint32(3), h.ReadX(10), "a0 must be set to the written byte count")
}

func TestHandleECall_ExitHaltsHart(t *testing.T) {
	mem := hostmem.New(64)
	var buf bytes.Buffer
	out := &LoggingWriter{Name: "stdout", Log: Logger(&buf, log.LevelInfo)}

	h := rv32.NewHart(rv32.DefaultConfig(), mem, 0)
	h.WriteX(17, 93) // a7 = sys_exit

	require.NoError(t, handleECall(h, mem, out, out))
	require.True(t, h.Halted)
}
