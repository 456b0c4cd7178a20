package gdb

// registry is the set of active code breakpoints, keyed by guest address,
// with a secondary index of host patch addresses for O(1) collision checks.
//
// Invariants: one breakpoint per guest address, and no two breakpoints share
// a host address. On a would-be collision the existing breakpoint wins.
//
// The registry is plain data. Locking and the ordering of Processor calls
// (install after recording, uninstall before dropping) are the stub's
// responsibility.
type registry struct {
	byGuest map[uint32]Breakpoint
	byHost  map[uintptr]uint32 // host patch -> owning guest address
}

func newRegistry() *registry {
	return &registry{
		byGuest: make(map[uint32]Breakpoint),
		byHost:  make(map[uintptr]uint32),
	}
}

// record registers bp, or reports a collision on either address space.
func (rg *registry) record(bp Breakpoint) bool {
	if _, ok := rg.byGuest[bp.GuestAddress()]; ok {
		return false
	}
	hosts := bp.HostAddresses()
	for _, h := range hosts {
		if _, ok := rg.byHost[h]; ok {
			return false
		}
	}

	rg.byGuest[bp.GuestAddress()] = bp
	for _, h := range hosts {
		rg.byHost[h] = bp.GuestAddress()
	}
	return true
}

// lookup returns the breakpoint at a guest address, or nil.
func (rg *registry) lookup(addr uint32) Breakpoint {
	return rg.byGuest[addr]
}

// drop removes bp from both indexes. No-op if absent.
func (rg *registry) drop(bp Breakpoint) {
	if _, ok := rg.byGuest[bp.GuestAddress()]; !ok {
		return
	}
	delete(rg.byGuest, bp.GuestAddress())
	for _, h := range bp.HostAddresses() {
		delete(rg.byHost, h)
	}
}

// all returns every registered breakpoint.
func (rg *registry) all() []Breakpoint {
	bps := make([]Breakpoint, 0, len(rg.byGuest))
	for _, bp := range rg.byGuest {
		bps = append(bps, bp)
	}
	return bps
}

func (rg *registry) len() int { return len(rg.byGuest) }
