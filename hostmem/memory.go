// Package hostmem provides a minimal flat-array rv32.IOFacade: a single
// contiguous byte slice addressed directly by guest physical address, with
// no paging, no MMIO routing, and no device models. It exists for the demo
// driver and for tests that need something that implements rv32.IOFacade
// without pulling in a real memory subsystem; it is not part of the engine
// and makes no attempt at the engine's own performance or safety
// properties (an out-of-range access returns an error, which the engine
// treats as fatal, rather than reading zero or being ignored).
package hostmem

import (
	"fmt"

	"github.com/riscvgo/rv32emu/rv32"
)

// Memory is a flat byte array, little-endian, with ECALL/EBREAK handled by
// caller-supplied callbacks so the same Memory value can back both a bare
// test harness and a driver with a real syscall ABI.
type Memory struct {
	bytes []byte

	OnECallFunc  func(h *rv32.Hart) error
	OnEBreakFunc func(h *rv32.Hart) error
}

// New allocates a Memory of the given size. size should be a multiple of 4;
// it is rounded up if not.
func New(size uint32) *Memory {
	if rem := size % 4; rem != 0 {
		size += 4 - rem
	}
	return &Memory{bytes: make([]byte, size)}
}

// LoadAt copies data into the backing array starting at addr, growing the
// backing array if addr+len(data) exceeds its current size. Used by the
// demo driver to place a raw binary image before the first Step.
func (m *Memory) LoadAt(addr uint32, data []byte) {
	need := addr + uint32(len(data))
	if need > uint32(len(m.bytes)) {
		grown := make([]byte, need)
		copy(grown, m.bytes)
		m.bytes = grown
	}
	copy(m.bytes[addr:], data)
}

func (m *Memory) bounds(addr uint32, width uint32) error {
	if uint64(addr)+uint64(width) > uint64(len(m.bytes)) {
		return fmt.Errorf("hostmem: access at 0x%08x width %d out of bounds (size 0x%x)", addr, width, len(m.bytes))
	}
	return nil
}

func (m *Memory) ReadB(addr uint32) (uint8, error) {
	if err := m.bounds(addr, 1); err != nil {
		return 0, err
	}
	return m.bytes[addr], nil
}

func (m *Memory) ReadH(addr uint32) (uint16, error) {
	if err := m.bounds(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.bytes[addr]) | uint16(m.bytes[addr+1])<<8, nil
}

func (m *Memory) ReadW(addr uint32) (uint32, error) {
	if err := m.bounds(addr, 4); err != nil {
		return 0, err
	}
	return uint32(m.bytes[addr]) | uint32(m.bytes[addr+1])<<8 |
		uint32(m.bytes[addr+2])<<16 | uint32(m.bytes[addr+3])<<24, nil
}

func (m *Memory) WriteB(addr uint32, v uint8) error {
	if err := m.bounds(addr, 1); err != nil {
		return err
	}
	m.bytes[addr] = v
	return nil
}

func (m *Memory) WriteH(addr uint32, v uint16) error {
	if err := m.bounds(addr, 2); err != nil {
		return err
	}
	m.bytes[addr] = uint8(v)
	m.bytes[addr+1] = uint8(v >> 8)
	return nil
}

func (m *Memory) WriteW(addr uint32, v uint32) error {
	if err := m.bounds(addr, 4); err != nil {
		return err
	}
	m.bytes[addr] = uint8(v)
	m.bytes[addr+1] = uint8(v >> 8)
	m.bytes[addr+2] = uint8(v >> 16)
	m.bytes[addr+3] = uint8(v >> 24)
	return nil
}

func (m *Memory) OnECall(h *rv32.Hart) error {
	if m.OnECallFunc != nil {
		return m.OnECallFunc(h)
	}
	h.Halted = true
	return nil
}

func (m *Memory) OnEBreak(h *rv32.Hart) error {
	if m.OnEBreakFunc != nil {
		return m.OnEBreakFunc(h)
	}
	h.Halted = true
	return nil
}
