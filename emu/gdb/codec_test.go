package gdb

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// encodePacket frames a body the way a debugger would, escaping reserved
// bytes. The checksum counts the '}' and the logical byte of an escaped
// pair.
func encodePacket(body string) []byte {
	var wire bytes.Buffer
	var sum byte
	wire.WriteByte('$')
	for i := 0; i < len(body); i++ {
		b := body[i]
		if b == '$' || b == '#' || b == '}' {
			wire.WriteByte('}')
			wire.WriteByte(b ^ 0x20)
			sum += '}' + b
			continue
		}
		wire.WriteByte(b)
		sum += b
	}
	fmt.Fprintf(&wire, "#%02x", sum)
	return wire.Bytes()
}

func TestParsePacket(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want command
	}{
		{
			name: "single char command",
			raw:  "$m0,10#2a",
			want: command{cmd: "m", data: "0,10", checksum: 0x2a},
		},
		{
			name: "leading ack",
			raw:  "+$!#21",
			want: command{cmd: "!", checksum: 0x21},
		},
		{
			name: "double leading ack",
			raw:  "++$!#21",
			want: command{cmd: "!", checksum: 0x21},
		},
		{
			name: "q command with delimiter",
			raw:  string(encodePacket("qSupported:xyz")),
			want: command{cmd: "qSupported", data: "xyz"},
		},
		{
			name: "q command without delimiter",
			raw:  string(encodePacket("qC")),
			want: command{cmd: "qC"},
		},
		{
			name: "v command",
			raw:  string(encodePacket("vAttach;41")),
			want: command{cmd: "vAttach", data: "41"},
		},
		{
			name: "delimiters kept after split",
			raw:  string(encodePacket("qXfer:features:read:target.xml:0,1000")),
			want: command{cmd: "qXfer", data: "features:read:target.xml:0,1000"},
		},
		{
			name: "thread focus",
			raw:  string(encodePacket("Hg0")),
			want: command{cmd: "H", data: "g0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePacket([]byte(tt.raw))
			if !ok {
				t.Fatalf("parsePacket(%q) rejected", tt.raw)
			}
			opts := cmp.AllowUnexported(command{})
			ignore := cmp.FilterPath(func(p cmp.Path) bool {
				return p.Last().String() == ".checksum" && tt.want.checksum == 0
			}, cmp.Ignore())
			if diff := cmp.Diff(tt.want, got, opts, ignore); diff != "" {
				t.Errorf("command differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePacketRejects(t *testing.T) {
	raws := []string{
		"$m0,10#be",  // wrong checksum
		"$m0,10#zz",  // checksum not hex
		"m0,10#bd",   // no packet start
		"+++$m0,10#", // checksum missing
		"$m0,10",     // no terminator
		"",
	}
	for _, raw := range raws {
		if _, ok := parsePacket([]byte(raw)); ok {
			t.Errorf("parsePacket(%q) = ok, want reject", raw)
		}
	}
}

func TestParsePacketInterrupt(t *testing.T) {
	got, ok := parsePacket([]byte{ctrlInterrupt})
	if !ok {
		t.Fatal("interrupt byte rejected")
	}
	if got.cmd != "\x03" || got.data != "" {
		t.Errorf("got cmd %q data %q", got.cmd, got.data)
	}
}

// Bodies that contain no reserved byte survive a frame/parse round trip
// untouched.
func TestPacketRoundTrip(t *testing.T) {
	bodies := []string{
		"m1234,20",
		"Hg2c",
		"Z0,82001000,4",
		"X (no reserved bytes) ~!@%^&*",
	}
	for _, body := range bodies {
		cmd, ok := parsePacket(encodePacket(body))
		if !ok {
			t.Fatalf("parsePacket rejected %q", body)
		}
		if got := cmd.cmd + cmd.data; got != body {
			t.Errorf("round trip of %q = %q", body, got)
		}
	}
}

// Reserved bytes round trip through }-escaping.
func TestPacketRoundTripEscaped(t *testing.T) {
	const body = "X}$##$}"
	cmd, ok := parsePacket(encodePacket(body))
	if !ok {
		t.Fatal("parsePacket rejected escaped packet")
	}
	if got := cmd.cmd + cmd.data; got != body {
		t.Errorf("round trip of %q = %q", body, got)
	}
}

func TestReceiverPartialFeeds(t *testing.T) {
	var r receiver
	raw := encodePacket("qSupported:xyz")

	// Byte by byte: nothing extractable until the full checksum is in.
	for i, b := range raw {
		if pkt, ok := r.next(); ok {
			t.Fatalf("extracted %q after %d bytes", pkt, i)
		}
		r.write([]byte{b})
	}

	pkt, ok := r.next()
	if !ok {
		t.Fatal("no packet after full feed")
	}
	if !bytes.Equal(pkt, raw) {
		t.Errorf("got %q, want %q", pkt, raw)
	}
	if _, ok := r.next(); ok {
		t.Error("second extraction succeeded on empty buffer")
	}
}

func TestReceiverBackToBackPackets(t *testing.T) {
	var r receiver
	r.write(append(encodePacket("c"), encodePacket("s")...))

	var cmds []string
	for {
		raw, ok := r.next()
		if !ok {
			break
		}
		cmd, ok := parsePacket(raw)
		if !ok {
			t.Fatalf("parse failed on %q", raw)
		}
		cmds = append(cmds, cmd.cmd)
	}
	if diff := cmp.Diff([]string{"c", "s"}, cmds); diff != "" {
		t.Errorf("commands differ (-want +got):\n%s", diff)
	}
}

func TestReceiverInterruptOnlyWhenAlone(t *testing.T) {
	var r receiver
	r.write([]byte{ctrlInterrupt})
	pkt, ok := r.next()
	if !ok || !bytes.Equal(pkt, []byte{ctrlInterrupt}) {
		t.Fatalf("lone interrupt not extracted: %q %v", pkt, ok)
	}

	// Glued to a framed packet, extraction is driven by the '#' search and
	// the interrupt byte takes over the whole chunk.
	r.write(append([]byte{ctrlInterrupt}, encodePacket("c")...))
	pkt, ok = r.next()
	if !ok {
		t.Fatal("no packet extracted")
	}
	cmd, ok := parsePacket(pkt)
	if !ok || cmd.cmd != "\x03" {
		t.Errorf("glued interrupt parsed as %+v %v, want interrupt", cmd, ok)
	}
}

func TestReceiverCeiling(t *testing.T) {
	var r receiver
	r.write(bytes.Repeat([]byte{'a'}, recvCeiling+1))
	if _, ok := r.next(); ok {
		t.Fatal("extracted packet from garbage")
	}

	// The flooded buffer was dropped; a fresh packet still gets through.
	r.write(encodePacket("c"))
	raw, ok := r.next()
	if !ok {
		t.Fatal("no packet after ceiling reset")
	}
	if cmd, ok := parsePacket(raw); !ok || cmd.cmd != "c" {
		t.Errorf("got %+v %v after ceiling reset", cmd, ok)
	}
}

func TestWrapPacket(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"OK", "$OK#9a"},
		{"E01", "$E01#a6"},
		{"S05", "$S05#b8"},
		{"", "$#00"},
	}
	for _, tt := range tests {
		if got := string(wrapPacket(tt.body)); got != tt.want {
			t.Errorf("wrapPacket(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

// Whatever wrapPacket produces must parse back clean, ack-worthy.
func TestWrapParseRoundTrip(t *testing.T) {
	bodies := []string{"OK", "E01", "QC1", "PacketSize=1024"}
	for _, body := range bodies {
		cmd, ok := parsePacket(wrapPacket(body))
		if !ok {
			t.Fatalf("wrapPacket(%q) does not parse", body)
		}
		if got := cmd.cmd + cmd.data; got != body {
			t.Errorf("round trip of %q = %q", body, got)
		}
	}
}
