package gdb

import "remora/hw/ppc"

//go:generate go tool stringer -type=ExecutionState

// ExecutionState reports what the guest processor is doing.
type ExecutionState int32

const (
	Running ExecutionState = iota
	Paused
	Ended
)

// Frame is one guest call frame. Frames produced by host-side code have a
// zero GuestPC.
type Frame struct {
	GuestPC uint32
}

// ThreadInfo is a snapshot of one guest thread, taken while execution is
// paused.
type ThreadInfo struct {
	ID     int
	Name   string
	Ctx    ppc.Context
	Frames []Frame
}

// Breakpoint is a handle on a code breakpoint built by the Processor. A
// single guest address may be realised by several host patches when the
// instruction has been compiled into more than one native region.
type Breakpoint interface {
	GuestAddress() uint32
	HostAddresses() []uintptr
}

// HitFunc is invoked on one of the processor's threads when a breakpoint
// fires.
type HitFunc func(bp Breakpoint, thread *ThreadInfo)

// Processor is the execution engine the stub drives. Pause, Continue and
// StepGuestInstruction are asynchronous: completion is reported through the
// stub's On* callbacks.
type Processor interface {
	ExecutionState() ExecutionState
	Pause()
	Continue()
	StepGuestInstruction(threadID int)

	// QueryThreadDebugInfos returns a snapshot of all guest threads. Only
	// meaningful while paused.
	QueryThreadDebugInfos() []*ThreadInfo

	// NewBreakpoint builds, but does not install, a breakpoint at a guest
	// address. AddBreakpoint installs it into translated code.
	NewBreakpoint(guestAddr uint32, hit HitFunc) Breakpoint
	AddBreakpoint(bp Breakpoint)
	RemoveBreakpoint(bp Breakpoint)

	Memory() Memory
}

// Protect is a page protection bitmask.
type Protect uint32

const (
	ProtectRead Protect = 1 << iota
	ProtectWrite
	ProtectExecute
)

// Heap is one region of the guest address space.
type Heap interface {
	// QueryProtect reports the protection of the page holding addr. ok is
	// false when the address is not committed.
	QueryProtect(addr uint32) (prot Protect, ok bool)
}

// Memory gives the stub read access to guest memory.
type Memory interface {
	// LookupHeap returns the heap containing addr, or nil if unmapped.
	LookupHeap(addr uint32) Heap

	// TranslateVirtual returns the host bytes backing the guest address,
	// starting at addr and running to the end of the region.
	TranslateVirtual(addr uint32) []byte
}

// Module is a loaded guest executable module.
type Module interface {
	Name() string
	Path() string
}

// Kernel enumerates guest kernel objects. The session cache keeps the
// returned modules referenced so none unload while a debugger is looking.
type Kernel interface {
	LoadedModules() []Module
}
