package gdb

import (
	"context"
	"errors"
	"net"

	"golang.org/x/sync/errgroup"

	"remora/emu/log"
)

// Server accepts debugger connections for a stub. Clients are served one at
// a time: two debuggers attached to the same target would trample each
// other's breakpoints and thread focus.
type Server struct {
	stub  *Stub
	ln    net.Listener
	trace *packetTrace
}

// NewServer starts listening on addr. Pass a non-nil trace writer to record
// every RSP exchange as JSON lines.
func NewServer(addr string, stub *Stub, trace *packetTrace) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	log.ModGdb.InfoZ("gdb stub listening").String("addr", ln.Addr().String()).End()
	return &Server{stub: stub, ln: ln, trace: trace}, nil
}

// Addr returns the bound listen address.
func (sv *Server) Addr() net.Addr { return sv.ln.Addr() }

// Run serves connections until ctx is cancelled or the listener fails.
func (sv *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		sv.stub.Stop()
		sv.ln.Close()
		return ctx.Err()
	})

	g.Go(func() error {
		for {
			conn, err := sv.ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}

			log.ModGdb.InfoZ("debugger connected").
				String("remote", conn.RemoteAddr().String()).
				End()

			// Served inline: a single concurrent client is expected.
			if err := newSession(sv.stub, conn, sv.trace).run(); err != nil {
				log.ModGdb.ErrorZ("session ended").Error("err", err).End()
			} else {
				log.ModGdb.InfoZ("debugger disconnected").End()
			}
			conn.Close()
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
