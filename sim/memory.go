package sim

import (
	"remora/emu/gdb"
)

// memory is one committed, readable region at HeapBase. Anything outside it
// is unmapped.
type memory struct {
	data []byte
}

func newMemory() *memory {
	m := &memory{data: make([]byte, HeapSize)}
	// Recognizable, position-dependent contents.
	for i := range m.data {
		m.data[i] = byte(i >> 2)
	}
	return m
}

func (m *memory) contains(addr uint32) bool {
	return addr >= HeapBase && addr < HeapBase+HeapSize
}

func (m *memory) LookupHeap(addr uint32) gdb.Heap {
	if !m.contains(addr) {
		return nil
	}
	return m
}

func (m *memory) QueryProtect(addr uint32) (gdb.Protect, bool) {
	if !m.contains(addr) {
		return 0, false
	}
	return gdb.ProtectRead | gdb.ProtectExecute, true
}

func (m *memory) TranslateVirtual(addr uint32) []byte {
	if !m.contains(addr) {
		return nil
	}
	return m.data[addr-HeapBase:]
}
