package rpc

import (
	"io"
	"net"
	"net/http"
	"net/rpc"
	"strconv"

	"remora/emu/log"
)

// Core is the remote-controllable surface of the emulator: out-of-band
// pause/resume for scripts and test harnesses, next to the debugger proper.
type Core interface {
	Pause()
	Continue()
	Stop()
}

type coreProxy struct {
	core Core
}

func (cp *coreProxy) Pause(_, _ *struct{}) error    { cp.core.Pause(); return nil }
func (cp *coreProxy) Continue(_, _ *struct{}) error { cp.core.Continue(); return nil }
func (cp *coreProxy) Stop(_, _ *struct{}) error     { cp.core.Stop(); return nil }

func (cp *coreProxy) IsReady(_ *struct{}, reply *bool) error {
	*reply = true
	return nil
}

type Server struct {
	io.Closer
}

func NewServer(port int, core Core) (*Server, error) {
	proxy := &coreProxy{core: core}
	if err := rpc.RegisterName("core", proxy); err != nil {
		panic("failed to register RPC server: " + err.Error())
	}
	rpc.HandleHTTP()
	l, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return nil, err
	}

	log.ModRPC.InfoZ("rpc server listening").Int("port", port).End()
	go http.Serve(l, nil)
	return &Server{Closer: l}, nil
}
