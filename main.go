package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"remora/emu/gdb"
	"remora/emu/log"
	"remora/emu/rpc"
	"remora/sim"
)

// Overridden at build time with -ldflags.
var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])

	if cli.mode == versionMode {
		fmt.Println("remora", version)
		return
	}

	cfg := LoadConfigOrDefault()
	port := cfg.Debug.Port
	if cli.Serve.Port >= 0 {
		port = cli.Serve.Port
	}
	rpcPort := cfg.Debug.RPCPort
	if cli.Serve.RPCPort != 0 {
		rpcPort = cli.Serve.RPCPort
	}
	if rpcPort == 0 {
		rpcPort = rpc.UnusedPort()
	}

	core := sim.New()
	stub := gdb.NewStub(core, core)
	core.AttachEvents(stub)

	rpcsrv, err := rpc.NewServer(rpcPort, core)
	checkf(err, "failed to start control server")
	defer rpcsrv.Close()

	var traceW io.Writer
	if cli.Serve.Trace != nil {
		traceW = cli.Serve.Trace
		defer cli.Serve.Trace.Close()
	}

	srv, err := gdb.NewServer(fmt.Sprintf(":%d", port), stub, gdb.NewPacketTrace(traceW))
	checkf(err, "failed to start gdb stub")

	log.ModEmu.InfoZ("simulated target up").Int("threads", 3).End()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	checkf(srv.Run(ctx), "gdb stub server failed")
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s: %s\n", fmt.Sprintf(format, args...), err)
	os.Exit(1)
}
