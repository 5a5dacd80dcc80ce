// Package eeprom models word-addressed non-volatile memory.
package eeprom

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Size is the capacity of the emulated part in bytes.
const Size = 1024

// Erased is the value an unwritten cell reads back as.
const Erased byte = 0xFF

// Device reads and writes 16-bit little-endian words at byte offsets.
type Device interface {
	ReadWord(addr uint16) (uint16, error)
	WriteWord(addr uint16, v uint16) error
}

// CheckAddr rejects word accesses that would run past the end of the part.
func CheckAddr(addr uint16) error {
	if int(addr)+2 > Size {
		return fmt.Errorf("eeprom address %d out of range", addr)
	}
	return nil
}

// Memory is an in-memory image, erased on creation.
type Memory struct {
	mu     sync.Mutex
	cells  [Size]byte
	writes int
}

// NewMemory returns an erased image.
func NewMemory() *Memory {
	m := &Memory{}
	m.Erase()
	return m
}

// Erase sets every cell to Erased.
func (m *Memory) Erase() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cells {
		m.cells[i] = Erased
	}
}

// ReadWord implements Device.
func (m *Memory) ReadWord(addr uint16) (uint16, error) {
	if err := CheckAddr(addr); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return binary.LittleEndian.Uint16(m.cells[addr:]), nil
}

// WriteWord implements Device.
func (m *Memory) WriteWord(addr uint16, v uint16) error {
	if err := CheckAddr(addr); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	binary.LittleEndian.PutUint16(m.cells[addr:], v)
	m.writes++
	return nil
}

// Writes returns the number of word writes performed.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
