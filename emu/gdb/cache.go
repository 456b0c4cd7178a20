package gdb

// noThread is the explicit "no such thread" value used everywhere a thread
// id may be absent.
const noThread = -1

// sessionCache is a snapshot of the debuggee observed while execution is
// paused. While the guest runs the thread and module fields are stale: the
// refresh leaves them untouched, and the command handlers do not check
// isStopped, so they answer from the last snapshot taken while paused.
//
// The notify* fields are one-shot: the session loop flushes notifyStopped
// and notifyThreadID as a stop reply, and the first PC read consumes
// notifyAddr. Guarded by the stub mutex.
type sessionCache struct {
	isStopped bool

	threads []*ThreadInfo
	// Loaded modules, held so none unload while the debugger is looking.
	modules []Module

	curThreadID    int // client focus, set by the H command
	lastBPThreadID int // most recently stopped thread, target of 's'

	notifyStopped  bool
	notifyThreadID int
	// Breakpoint address to report as PC after a stop. The processor's PC
	// does not always match the breakpoint site, and debuggers match stops
	// against their own breakpoint list by address.
	notifyAddr    uint32
	notifyAddrSet bool
}

func (c *sessionCache) threadInfo(id int) *ThreadInfo {
	if id == noThread {
		return nil
	}
	for _, th := range c.threads {
		if th.ID == id {
			return th
		}
	}
	return nil
}

func (c *sessionCache) curThread() *ThreadInfo {
	return c.threadInfo(c.curThreadID)
}
