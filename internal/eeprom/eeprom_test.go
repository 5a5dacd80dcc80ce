package eeprom

import "testing"

func TestMemoryStartsErased(t *testing.T) {
	m := NewMemory()
	v, err := m.ReadWord(10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0xFFFF {
		t.Fatalf("expected erased word, got %#x", v)
	}
}

func TestMemoryWordRoundTrip(t *testing.T) {
	m := NewMemory()
	if err := m.WriteWord(100, 0x4142); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := m.ReadWord(100)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0x4142 {
		t.Fatalf("expected 0x4142, got %#x", v)
	}
	if m.Writes() != 1 {
		t.Fatalf("expected 1 write, got %d", m.Writes())
	}
}

func TestMemoryRejectsOutOfRange(t *testing.T) {
	m := NewMemory()
	if err := m.WriteWord(Size-1, 1); err == nil {
		t.Fatalf("expected out of range write to fail")
	}
	if _, err := m.ReadWord(Size); err == nil {
		t.Fatalf("expected out of range read to fail")
	}
}
