package sim

import (
	"remora/emu/gdb"
)

// breakpoint is a simulated code breakpoint. The guest instruction is
// "translated" at exactly one host slot, at a fixed offset from the guest
// address; real cores may produce several.
type breakpoint struct {
	guest uint32
	hosts []uintptr
	hit   gdb.HitFunc
}

func (bp *breakpoint) GuestAddress() uint32     { return bp.guest }
func (bp *breakpoint) HostAddresses() []uintptr { return bp.hosts }

func (c *Core) NewBreakpoint(guestAddr uint32, hit gdb.HitFunc) gdb.Breakpoint {
	return &breakpoint{
		guest: guestAddr,
		hosts: []uintptr{uintptr(hostCodeBase) + uintptr(guestAddr-HeapBase)},
		hit:   hit,
	}
}

func (c *Core) AddBreakpoint(bp gdb.Breakpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.installed[bp.GuestAddress()] = bp.(*breakpoint)
}

func (c *Core) RemoveBreakpoint(bp gdb.Breakpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.installed, bp.GuestAddress())
}

// module is a fake loaded guest executable.
type module struct {
	name string
	path string
}

func (m module) Name() string { return m.name }
func (m module) Path() string { return m.path }
