package gdb

import (
	"fmt"
	"math"
)

// Register ids, from gdb/features/rs6000/powerpc-64.c: r0..r31 are 0..31,
// f0..f31 are 32..63, then the special registers.
const (
	regPC    = 64
	regMSR   = 65
	regCR    = 66
	regLR    = 67
	regCTR   = 68
	regXER   = 69
	regFPSCR = 70
)

const signalTrap = 5 // SIGTRAP

func hex32(v uint32) string { return fmt.Sprintf("%08x", v) }
func hex64(v uint64) string { return fmt.Sprintf("%016x", v) }

// regUnavailable is how a register the guest context does not carry is
// reported.
const regUnavailable = "xxxxxxxx"

// readRegister encodes one register of a thread as fixed-width lowercase
// hex: 8 digits for 32-bit registers, 16 for floats. An empty string means
// the id is out of range or th is nil. Caller holds the stub mutex.
func (s *Stub) readRegister(th *ThreadInfo, rid uint32) string {
	if rid > regFPSCR {
		return ""
	}
	if th == nil {
		return ""
	}

	switch {
	case rid == regPC:
		// After a breakpoint the debugger asks for registers to match the
		// stop against its own breakpoint list, so report the breakpoint
		// site, once; the processor's PC does not always agree with it.
		if s.cache.notifyAddrSet {
			s.cache.notifyAddrSet = false
			return hex32(s.cache.notifyAddr)
		}
		// First frame with a guest PC; the client has no use for host
		// frames.
		for _, f := range th.Frames {
			if f.GuestPC != 0 {
				return hex32(f.GuestPC)
			}
		}
		return hex32(0)
	case rid == regMSR, rid == regXER, rid == regFPSCR:
		return regUnavailable
	case rid == regCR:
		return hex32(th.Ctx.CR)
	case rid == regLR:
		return hex32(uint32(th.Ctx.LR))
	case rid == regCTR:
		return hex32(uint32(th.Ctx.CTR))
	case rid >= 32:
		return hex64(math.Float64bits(th.Ctx.F[rid-32]))
	default:
		return hex32(uint32(th.Ctx.R[rid]))
	}
}

// threadStopReply builds the stop reply for a halted thread: a T packet
// reporting PC and LR so the client needn't fetch registers to show where it
// stopped. Unknown thread falls back to the bare S reply. Caller holds the
// stub mutex.
func (s *Stub) threadStopReply(threadID int, signal byte) string {
	th := s.cache.threadInfo(threadID)
	if th == nil {
		return fmt.Sprintf("S%02x", signal)
	}

	var pc uint32
	for _, f := range th.Frames {
		if f.GuestPC != 0 {
			pc = f.GuestPC
			break
		}
	}
	if s.cache.notifyAddrSet {
		pc = s.cache.notifyAddr
	}

	return fmt.Sprintf("T%02x%02x:%s;%02x:%s;thread:%x;",
		signal, regPC, hex32(pc), regLR, hex32(uint32(th.Ctx.LR)), threadID)
}
