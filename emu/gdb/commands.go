package gdb

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// handleCommand resolves one parsed command to its reply body. Commands not
// in the table get an empty reply, which the peer reads as "unsupported".
func (s *Stub) handleCommand(cmd command) string {
	switch cmd.cmd {
	case "?":
		// Sent when the connection is first established, to query why the
		// target halted. We pause on connect, so: SIGTRAP.
		return "S05"
	case "!":
		// Extended mode.
		return replyOK
	case "D":
		s.detach()
		return replyOK
	case "c", "C":
		s.proc.Continue()
		return replyOK
	case "s":
		return s.step()
	case "\x03":
		s.proc.Pause()
		return replyOK
	case "m":
		return s.readMemory(cmd.data)
	case "p":
		return s.readOneRegister(cmd.data)
	case "P":
		// Register write is acknowledged but not applied.
		return replyOK
	case "g":
		return s.readAllRegisters()
	case "vAttach":
		return "S05"
	case "qC":
		return s.currentThread()
	case "H":
		return s.setCurrentThread(cmd.data)
	case "Z":
		return s.createBreakpoint(cmd.data)
	case "z":
		return s.deleteBreakpoint(cmd.data)
	case "qXfer":
		return s.xfer(cmd.data)
	case "qSupported":
		return "PacketSize=1024;qXfer:features:read+;qXfer:threads:read+"
	case "qfThreadInfo":
		return s.threadInfoList()
	default:
		return ""
	}
}

// step resumes the most recently stopped thread for one guest instruction.
// The stop reply arrives later through the notification path.
func (s *Stub) step() string {
	s.mu.Lock()
	tid := s.cache.lastBPThreadID
	s.mu.Unlock()

	if tid != noThread {
		s.proc.StepGuestInstruction(tid)
	}
	return replyOK
}

// readMemory handles m<addr>,<len>: hex-encoded guest bytes, or E01 when the
// address is unmapped or not readable.
func (s *Stub) readMemory(data string) string {
	addrStr, lenStr, ok := strings.Cut(data, ",")
	if !ok {
		return replyError
	}
	addr, err1 := strconv.ParseUint(addrStr, 16, 32)
	count, err2 := strconv.ParseUint(lenStr, 16, 32)
	if err1 != nil || err2 != nil {
		return replyError
	}

	mem := s.proc.Memory()
	heap := mem.LookupHeap(uint32(addr))
	if heap == nil {
		return replyError
	}
	if prot, ok := heap.QueryProtect(uint32(addr)); !ok || prot&ProtectRead == 0 {
		return replyError
	}

	raw := mem.TranslateVirtual(uint32(addr))
	if uint64(len(raw)) < count {
		return replyError
	}
	return hex.EncodeToString(raw[:count])
}

func (s *Stub) readOneRegister(data string) string {
	rid, err := strconv.ParseUint(data, 16, 32)
	if err != nil {
		return replyError
	}

	s.mu.Lock()
	enc := s.readRegister(s.cache.curThread(), uint32(rid))
	s.mu.Unlock()

	if enc == "" {
		return replyError
	}
	return enc
}

func (s *Stub) readAllRegisters() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	th := s.cache.curThread()
	var sb strings.Builder
	sb.Grow(32*8 + 32*16 + 7*8)
	for rid := uint32(0); rid <= regFPSCR; rid++ {
		sb.WriteString(s.readRegister(th, rid))
	}
	return sb.String()
}

func (s *Stub) currentThread() string {
	s.mu.Lock()
	tid := s.cache.curThreadID
	s.mu.Unlock()
	return "QC" + strconv.Itoa(tid)
}

// setCurrentThread handles H<op><tid>: focus the requested thread if it is
// known, else fall back to the first thread of the listing.
func (s *Stub) setCurrentThread(data string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.curThreadID = noThread
	if len(s.cache.threads) > 0 {
		s.cache.curThreadID = s.cache.threads[0].ID
	}

	if len(data) > 1 {
		if tid, err := strconv.ParseInt(data[1:], 16, 64); err == nil {
			if s.cache.threadInfo(int(tid)) != nil {
				s.cache.curThreadID = int(tid)
			}
		}
	}
	return replyOK
}

// breakpointAddr extracts the guest address of a Z/z command. The data looks
// like <type>,<hexaddr>,<kind>; only type 0 (software breakpoint) reaches
// us, so the 2-byte prefix is skipped wholesale.
func breakpointAddr(data string) (uint32, bool) {
	if len(data) < 2 {
		return 0, false
	}
	hexAddr, _, _ := strings.Cut(data[2:], ",")
	addr, err := strconv.ParseUint(hexAddr, 16, 64)
	if err != nil {
		return 0, false
	}
	return uint32(addr), true
}

func (s *Stub) createBreakpoint(data string) string {
	addr, ok := breakpointAddr(data)
	if !ok {
		return replyError
	}
	if !s.insertBreakpoint(addr) {
		return replyError
	}
	return replyOK
}

func (s *Stub) deleteBreakpoint(data string) string {
	if addr, ok := breakpointAddr(data); ok {
		s.removeBreakpoint(addr)
	}
	return replyOK
}

// xfer handles qXfer:<object>:read:<annex>:<offset>,<length>. Both documents
// fit one chunk, so the offset and length are ignored and the reply is the
// whole document with the "last chunk" prefix.
func (s *Stub) xfer(data string) string {
	param := strings.TrimPrefix(data, ":")
	object, _, _ := strings.Cut(param, ":")
	switch object {
	case "features":
		return targetXML
	case "threads":
		s.mu.Lock()
		defer s.mu.Unlock()
		return threadListXML(s.cache.threads)
	}
	return replyError
}

func (s *Stub) threadInfoList() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.cache.threads))
	for _, th := range s.cache.threads {
		ids = append(ids, strconv.Itoa(th.ID))
	}
	return "m" + strings.Join(ids, ",")
}

// commandNames maps RSP command tokens to readable names for logs and packet
// traces.
var commandNames = map[string]string{
	"?":            "StartupQuery",
	"!":            "EnableExtendedMode",
	"p":            "ReadRegister",
	"P":            "WriteRegister",
	"g":            "ReadAllRegisters",
	"C":            "Continue",
	"c":            "continue",
	"s":            "step",
	"vAttach":      "vAttach",
	"m":            "MemRead",
	"H":            "SetThreadId",
	"Z":            "CreateCodeBreakpoint",
	"z":            "DeleteCodeBreakpoint",
	"qXfer":        "Xfer",
	"qSupported":   "Supported",
	"qfThreadInfo": "ThreadInfo",
	"qC":           "GetThreadId",
	"D":            "Detach",
	"\x03":         "Break",
}

func commandName(cmd string) string {
	if name, ok := commandNames[cmd]; ok {
		return name
	}
	return strconv.Quote(cmd)
}
