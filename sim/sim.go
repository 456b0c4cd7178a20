// Package sim is an in-process stand-in for a real emulator core: a few
// guest threads with PowerPC contexts, a flat readable heap and host-slot
// breakpoints. It implements the collaborator interfaces of emu/gdb so a
// debugger can attach to something that behaves like a paused console,
// which is all the protocol work ever needs.
package sim

import (
	"sync"

	"remora/emu/gdb"
	"remora/emu/log"
	"remora/hw/ppc"
)

// Events is the callback surface the core reports execution transitions to.
// *gdb.Stub satisfies it.
type Events interface {
	OnExecutionPaused()
	OnExecutionContinued()
	OnExecutionEnded()
	OnStepCompleted(*gdb.ThreadInfo)
}

// Guest layout: one committed region standing in for the main heap, and a
// fake host code area breakpoint patches land in.
const (
	HeapBase = 0x82000000
	HeapSize = 64 << 10

	hostCodeBase = 0x7f4200000000
)

type Core struct {
	mu        sync.Mutex
	state     gdb.ExecutionState
	threads   []*gdb.ThreadInfo
	mem       *memory
	modules   []gdb.Module
	installed map[uint32]*breakpoint
	events    Events
}

func New() *Core {
	c := &Core{
		state:     gdb.Running,
		mem:       newMemory(),
		installed: make(map[uint32]*breakpoint),
		modules: []gdb.Module{
			module{name: "boot.bin", path: "sim:/boot.bin"},
			module{name: "app.bin", path: "sim:/app.bin"},
		},
	}
	c.threads = defaultThreads()
	return c
}

// AttachEvents wires the debug stub's callbacks. Must be called before
// execution transitions are triggered.
func (c *Core) AttachEvents(ev Events) {
	c.mu.Lock()
	c.events = ev
	c.mu.Unlock()
}

func defaultThreads() []*gdb.ThreadInfo {
	mkctx := func(seed uint64) ppc.Context {
		var ctx ppc.Context
		for i := range ctx.R {
			ctx.R[i] = seed + uint64(i)
		}
		for i := range ctx.F {
			ctx.F[i] = float64(i) / 2
		}
		ctx.LR = HeapBase + 0x40*seed
		ctx.CTR = seed
		ctx.CR = uint32(0x20000000 + seed)
		return ctx
	}

	return []*gdb.ThreadInfo{
		{
			ID:   1,
			Name: "main",
			Ctx:  mkctx(0x1000),
			// Topmost frame is host-side, the way a thread blocked in an
			// import thunk looks.
			Frames: []gdb.Frame{{GuestPC: 0}, {GuestPC: HeapBase + 0x100}},
		},
		{
			ID:     2,
			Name:   "renderer",
			Ctx:    mkctx(0x2000),
			Frames: []gdb.Frame{{GuestPC: HeapBase + 0x200}},
		},
		{
			ID:     3,
			Name:   "audio",
			Ctx:    mkctx(0x3000),
			Frames: []gdb.Frame{{GuestPC: HeapBase + 0x300}},
		},
	}
}

// setState swaps the execution state and returns the events sink to notify,
// outside the core lock: the sink calls straight back into the core to
// refresh its cache.
func (c *Core) setState(s gdb.ExecutionState) Events {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == s {
		return nil
	}
	c.state = s
	return c.events
}

func (c *Core) ExecutionState() gdb.ExecutionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Core) Pause() {
	if ev := c.setState(gdb.Paused); ev != nil {
		ev.OnExecutionPaused()
	}
}

func (c *Core) Continue() {
	if ev := c.setState(gdb.Running); ev != nil {
		ev.OnExecutionContinued()
	}
}

// Stop ends execution for good.
func (c *Core) Stop() {
	if ev := c.setState(gdb.Ended); ev != nil {
		ev.OnExecutionEnded()
	}
}

// StepGuestInstruction advances the thread's reported position by one
// instruction and completes synchronously.
func (c *Core) StepGuestInstruction(threadID int) {
	c.mu.Lock()
	th := c.lookupThread(threadID)
	if th != nil {
		for i := range th.Frames {
			if th.Frames[i].GuestPC != 0 {
				th.Frames[i].GuestPC += 4
				break
			}
		}
	}
	ev := c.events
	c.mu.Unlock()

	if th != nil && ev != nil {
		ev.OnStepCompleted(th)
	}
}

func (c *Core) lookupThread(id int) *gdb.ThreadInfo {
	for _, th := range c.threads {
		if th.ID == id {
			return th
		}
	}
	return nil
}

func (c *Core) QueryThreadDebugInfos() []*gdb.ThreadInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	infos := make([]*gdb.ThreadInfo, len(c.threads))
	for i, th := range c.threads {
		snap := *th
		snap.Frames = append([]gdb.Frame(nil), th.Frames...)
		infos[i] = &snap
	}
	return infos
}

func (c *Core) Memory() gdb.Memory { return c.mem }

func (c *Core) LoadedModules() []gdb.Module {
	return append([]gdb.Module(nil), c.modules...)
}

// HitBreakpoint simulates guest execution reaching an installed breakpoint
// on the given thread: the core pauses and the breakpoint's hit callback
// fires, exactly like a trap taken in translated code. Reports false when no
// breakpoint is installed at addr or the thread is unknown.
func (c *Core) HitBreakpoint(addr uint32, threadID int) bool {
	c.mu.Lock()
	bp := c.installed[addr]
	th := c.lookupThread(threadID)
	c.mu.Unlock()

	if bp == nil || th == nil {
		return false
	}

	log.ModSim.DebugZ("trap").Hex32("guest", addr).Int("thread", threadID).End()
	c.Pause()
	if bp.hit != nil {
		bp.hit(bp, th)
	}
	return true
}
