package gdb

import (
	"sync"
	"sync/atomic"

	"remora/emu/log"
)

// Stub exposes a guest processor to debugger clients speaking the GDB Remote
// Serial Protocol. One Stub serves one processor; sessions attach to it
// through a Server.
//
// A single mutex guards the session cache and breakpoint registry. It is
// taken by the session goroutine when dispatching and by processor threads
// in the On* callbacks; critical sections copy out what they need and never
// span a socket operation or a Processor call that may re-enter the stub.
type Stub struct {
	proc   Processor
	kernel Kernel

	mu    sync.Mutex
	cache sessionCache
	bps   *registry

	closing atomic.Bool
}

func NewStub(proc Processor, kernel Kernel) *Stub {
	s := &Stub{
		proc:   proc,
		kernel: kernel,
		bps:    newRegistry(),
	}
	s.cache.curThreadID = noThread
	s.cache.lastBPThreadID = noThread
	s.cache.notifyThreadID = noThread
	s.updateCache()
	return s
}

// Stop makes every running session loop exit at its next iteration.
func (s *Stub) Stop() {
	s.closing.Store(true)
}

// updateCache refreshes the snapshot of the debuggee. If the guest is
// running the refresh short-circuits and the stale fields are left alone.
func (s *Stub) updateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.isStopped = s.proc.ExecutionState() != Running
	s.cache.notifyStopped = s.cache.isStopped
	if !s.cache.isStopped {
		return
	}

	s.cache.modules = s.kernel.LoadedModules()
	s.cache.threads = s.proc.QueryThreadDebugInfos()

	// Keep the client's focus if the thread still exists, else reset it to
	// the first thread of the listing.
	if s.cache.curThread() == nil {
		s.cache.curThreadID = noThread
		if len(s.cache.threads) > 0 {
			s.cache.curThreadID = s.cache.threads[0].ID
		}
	}
}

// insertBreakpoint builds and installs a breakpoint at a guest address.
// It reports false when the address, or any host address backing it, is
// already claimed: the existing breakpoint wins.
func (s *Stub) insertBreakpoint(addr uint32) bool {
	bp := s.proc.NewBreakpoint(addr, s.OnBreakpointHit)

	s.mu.Lock()
	ok := s.bps.record(bp)
	s.mu.Unlock()
	if !ok {
		return false
	}

	log.ModGdb.DebugZ("breakpoint added").Hex32("guest", addr).End()
	s.proc.AddBreakpoint(bp)
	return true
}

// removeBreakpoint deletes the breakpoint at a guest address. Idempotent.
// The processor uninstalls before the registry forgets, so a concurrent fire
// never observes a registered breakpoint without a live installation.
func (s *Stub) removeBreakpoint(addr uint32) {
	s.mu.Lock()
	bp := s.bps.lookup(addr)
	s.mu.Unlock()
	if bp == nil {
		return
	}

	log.ModGdb.DebugZ("breakpoint removed").Hex32("guest", addr).End()
	s.proc.RemoveBreakpoint(bp)

	s.mu.Lock()
	s.bps.drop(bp)
	s.mu.Unlock()
}

func (s *Stub) removeAllBreakpoints() {
	s.mu.Lock()
	bps := s.bps.all()
	s.mu.Unlock()

	for _, bp := range bps {
		s.removeBreakpoint(bp.GuestAddress())
	}
}

// detach releases everything installed on behalf of the client and lets the
// guest run again. Used for the D command and on disconnect; the debugger
// may reconnect later.
func (s *Stub) detach() {
	s.removeAllBreakpoints()
	if s.proc.ExecutionState() == Paused {
		s.proc.Continue()
	}
}

// Processor event callbacks. These run on the processor's own threads.

func (s *Stub) OnExecutionPaused() {
	log.ModGdb.DebugZ("execution paused").End()
	s.updateCache()
}

func (s *Stub) OnExecutionContinued() {
	log.ModGdb.DebugZ("execution continued").End()
	s.updateCache()
}

func (s *Stub) OnExecutionEnded() {
	log.ModGdb.DebugZ("execution ended").End()
	s.updateCache()
}

// OnStepCompleted arms a stop notification for the stepped thread. Some
// debuggers remove the current breakpoint, step past it, and only re-add it
// once told about the step.
func (s *Stub) OnStepCompleted(thread *ThreadInfo) {
	log.ModGdb.DebugZ("step completed").Int("thread", thread.ID).End()

	s.mu.Lock()
	s.cache.notifyThreadID = thread.ID
	s.cache.lastBPThreadID = thread.ID
	s.mu.Unlock()

	s.updateCache()
}

// OnBreakpointHit arms a stop notification carrying the breakpoint site,
// which is reported as the stopped thread's PC until consumed.
func (s *Stub) OnBreakpointHit(bp Breakpoint, thread *ThreadInfo) {
	log.ModGdb.DebugZ("breakpoint hit").
		Hex32("guest", bp.GuestAddress()).
		Int("thread", thread.ID).
		End()

	s.mu.Lock()
	s.cache.notifyAddr = bp.GuestAddress()
	s.cache.notifyAddrSet = true
	s.cache.notifyThreadID = thread.ID
	s.cache.lastBPThreadID = thread.ID
	s.mu.Unlock()

	s.updateCache()
}

func (s *Stub) OnDetached() {
	s.updateCache()
	s.removeAllBreakpoints()
}
