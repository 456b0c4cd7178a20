package gdb

import (
	"errors"
	"io"
	"net"
	"time"

	"remora/emu/log"
)

// recvPoll is how often the loop comes up for air when the client is silent,
// to flush pending stop notifications. The read deadline doubles as the
// sleep.
const recvPoll = 10 * time.Millisecond

// session owns one connected debugger client: it drives the receive buffer,
// acks and replies in command order, and delivers asynchronous stop
// notifications between reads.
type session struct {
	stub  *Stub
	conn  net.Conn
	rcv   receiver
	trace *packetTrace
}

func newSession(stub *Stub, conn net.Conn, trace *packetTrace) *session {
	return &session{stub: stub, conn: conn, trace: trace}
}

func (sn *session) run() error {
	// A connecting debugger expects a halted target.
	sn.stub.proc.Pause()
	sn.stub.updateCache()

	// Whatever ends the session, the guest gets its breakpoints back and
	// resumes.
	defer sn.stub.detach()

	buf := make([]byte, 1024)
	for !sn.stub.closing.Load() {
		sn.conn.SetReadDeadline(time.Now().Add(recvPoll))
		n, err := sn.conn.Read(buf)
		if n > 0 {
			sn.rcv.write(buf[:n])
			if err := sn.drain(); err != nil {
				return err
			}
		}
		if err != nil {
			var nerr net.Error
			switch {
			case errors.As(err, &nerr) && nerr.Timeout():
				// No data this tick.
			case errors.Is(err, io.EOF):
				return nil
			default:
				return err
			}
		}

		if err := sn.flushNotify(); err != nil {
			return err
		}
	}
	return nil
}

// drain extracts and handles every complete packet sitting in the receive
// buffer. Well-formed packets are acked and answered in order; malformed
// ones are nacked and dropped.
func (sn *session) drain() error {
	for {
		raw, ok := sn.rcv.next()
		if !ok {
			return nil
		}

		cmd, ok := parsePacket(raw)
		if !ok {
			log.ModGdb.DebugZ("rejecting malformed packet").Int("len", len(raw)).End()
			if err := sn.send([]byte{ctrlNack}); err != nil {
				return err
			}
			continue
		}

		if err := sn.send([]byte{ctrlAck}); err != nil {
			return err
		}

		reply := sn.stub.handleCommand(cmd)

		log.ModGdb.DebugZ("packet").
			String("cmd", commandName(cmd.cmd)).
			String("data", cmd.data).
			End()
		sn.trace.exchange(cmd, reply)

		if err := sn.send(wrapPacket(reply)); err != nil {
			return err
		}
	}
}

// flushNotify sends the pending stop notification, if armed. The one-shot
// fields are cleared under the lock and the reply is sent outside it.
func (sn *session) flushNotify() error {
	st := sn.stub

	st.mu.Lock()
	if !st.cache.notifyStopped {
		st.mu.Unlock()
		return nil
	}
	if st.cache.notifyThreadID != noThread {
		st.cache.curThreadID = st.cache.notifyThreadID
	}
	reply := st.threadStopReply(st.cache.notifyThreadID, signalTrap)
	st.cache.notifyThreadID = noThread
	st.cache.notifyStopped = false
	st.mu.Unlock()

	log.ModGdb.DebugZ("stop notification").String("reply", reply).End()
	return sn.send(wrapPacket(reply))
}

func (sn *session) send(p []byte) error {
	_, err := sn.conn.Write(p)
	return err
}
