package sim_test

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"remora/emu/gdb"
	"remora/sim"
)

// Full protocol round trip against the simulated core, over real TCP: the
// same path an attaching debugger takes.

func frame(body string) string {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum += body[i]
	}
	return fmt.Sprintf("$%s#%02x", body, sum)
}

// readPacket scans one framed packet, skipping interleaved acks.
func readPacket(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if sb.Len() == 0 && b != '$' {
			continue // leading ack
		}
		sb.WriteByte(b)
		if b == '#' {
			for i := 0; i < 2; i++ {
				c, err := r.ReadByte()
				if err != nil {
					t.Fatalf("read checksum: %v", err)
				}
				sb.WriteByte(c)
			}
			return sb.String()
		}
	}
}

func readAck(t *testing.T, r *bufio.Reader) {
	t.Helper()
	b, err := r.ReadByte()
	if err != nil {
		t.Fatalf("read ack: %v", err)
	}
	if b != '+' {
		t.Fatalf("expected ack, got %q", b)
	}
}

func TestDebuggerSession(t *testing.T) {
	core := sim.New()
	stub := gdb.NewStub(core, core)
	core.AttachEvents(stub)

	var traceBuf bytes.Buffer
	srv, err := gdb.NewServer("127.0.0.1:0", stub, gdb.NewPacketTrace(&traceBuf))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)

	send := func(body string) {
		t.Helper()
		if _, err := conn.Write([]byte(frame(body))); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	// Connecting pauses the target, which is announced unsolicited.
	if got := readPacket(t, r); got != frame("S05") {
		t.Fatalf("initial notification = %q", got)
	}
	if core.ExecutionState() != gdb.Paused {
		t.Fatal("core not paused after connect")
	}

	send("qSupported:xmlRegisters=i386")
	readAck(t, r)
	if got := readPacket(t, r); got != frame("PacketSize=1024;qXfer:features:read+;qXfer:threads:read+") {
		t.Fatalf("qSupported reply = %q", got)
	}

	send("qfThreadInfo")
	readAck(t, r)
	if got := readPacket(t, r); got != frame("m1,2,3") {
		t.Fatalf("qfThreadInfo reply = %q", got)
	}

	// Guest memory holds its position-dependent pattern.
	send(fmt.Sprintf("m%x,8", uint32(sim.HeapBase+0x100)))
	readAck(t, r)
	if got := readPacket(t, r); got != frame("4040404041414141") {
		t.Fatalf("memory read reply = %q", got)
	}

	// Install a breakpoint, then simulate thread 2 trapping on it.
	bpAddr := uint32(sim.HeapBase + 0x100)
	send(fmt.Sprintf("Z0,%x,4", bpAddr))
	readAck(t, r)
	if got := readPacket(t, r); got != frame("OK") {
		t.Fatalf("Z reply = %q", got)
	}

	if !core.HitBreakpoint(bpAddr, 2) {
		t.Fatal("HitBreakpoint failed")
	}
	want := frame(fmt.Sprintf("T0540:%08x;43:82080000;thread:2;", bpAddr))
	if got := readPacket(t, r); got != want {
		t.Fatalf("stop notification = %q, want %q", got, want)
	}

	// The hit thread took the focus.
	send("qC")
	readAck(t, r)
	if got := readPacket(t, r); got != frame("QC2") {
		t.Fatalf("qC reply = %q", got)
	}

	// Detach resumes the guest.
	send("D")
	readAck(t, r)
	if got := readPacket(t, r); got != frame("OK") {
		t.Fatalf("D reply = %q", got)
	}
	if core.ExecutionState() != gdb.Running {
		t.Fatal("core not resumed after detach")
	}

	cancel()
	conn.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("server: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	// The exchanges of these commands landed in the packet trace.
	for _, name := range []string{"Supported", "MemRead", "CreateCodeBreakpoint", "Detach"} {
		if !strings.Contains(traceBuf.String(), name) {
			t.Errorf("trace misses %s:\n%s", name, traceBuf.String())
		}
	}
}
