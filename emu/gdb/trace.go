package gdb

import (
	"io"
	"sync"

	"github.com/go-faster/jx"
)

// packetTrace records RSP exchanges as JSON lines, one object per
// command/reply pair. Useful to replay or diff debugger sessions offline.
// A nil *packetTrace discards everything.
type packetTrace struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPacketTrace returns a trace writing to w, or nil if w is nil.
func NewPacketTrace(w io.Writer) *packetTrace {
	if w == nil {
		return nil
	}
	return &packetTrace{w: w}
}

func (t *packetTrace) exchange(cmd command, reply string) {
	if t == nil {
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cmd")
	e.Str(cmd.cmd)
	e.FieldStart("name")
	e.Str(commandName(cmd.cmd))
	e.FieldStart("data")
	e.Str(cmd.data)
	e.FieldStart("reply")
	e.Str(reply)
	e.ObjEnd()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.w.Write(append(e.Bytes(), '\n'))
}
