package cmd

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/riscvgo/rv32emu/rv32/riscv"
)

func TestHexU32_String(t *testing.T) {
	require.Equal(t, "0000002a", HexU32(42).String())
	require.Equal(t, "deadbeef", HexU32(0xDEADBEEF).String())
}

func TestHexU32_MarshalText(t *testing.T) {
	b, err := HexU32(255).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "000000ff", string(b))
}

func TestLogAsText(t *testing.T) {
	require.True(t, logAsText("hello world\n"))
	require.False(t, logAsText(string([]byte{0x00, 0x01, 0xFF})))
}

func TestLoggingWriter_WriteRoutesThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	lw := &LoggingWriter{Name: "test", Log: Logger(&buf, log.LevelInfo)}

	n, err := lw.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "test")
}

func TestLoggingWriter_BinaryDataIsHexEncoded(t *testing.T) {
	var buf bytes.Buffer
	lw := &LoggingWriter{Name: "test", Log: Logger(&buf, log.LevelInfo)}

	_, err := lw.Write([]byte{0x00, 0xFF, 0x10})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "0x00ff10")
}

func TestRegisters_StringNamesByABIAndSkipsZero(t *testing.T) {
	var r Registers
	r[2] = 0x7FFFF000  // sp
	r[10] = 42         // a0
	r[31] = 0xDEADBEEF // t6

	s := r.String()
	require.Contains(t, s, "sp=7ffff000")
	require.Contains(t, s, "a0=0000002a")
	require.Contains(t, s, "t6=deadbeef")
	require.NotContains(t, s, "zero=")
}

func TestRegisters_StringAllZero(t *testing.T) {
	require.Equal(t, "(all zero)", Registers{}.String())
}

func TestCauseName_KnownAndReserved(t *testing.T) {
	require.Equal(t, "illegal-instruction", CauseName(riscv.CauseIllegalInstr))
	require.Equal(t, "load-address-misaligned", CauseName(riscv.CauseLoadMisaligned))
	require.Equal(t, "reserved(99)", CauseName(99))
}
