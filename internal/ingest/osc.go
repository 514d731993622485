package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"github.com/grinchdubs/performance-companion/internal/types"
)

// oscStopTimeout bounds how long Stop waits for the serve goroutine after
// closing the socket.
const oscStopTimeout = 2 * time.Second

// OSCListener receives pattern-addressed datagrams on one UDP endpoint and
// forwards decoded events to its handler. One OSCListener can serve several
// logical producers configured against the same endpoint; the address table
// covers all of them.
type OSCListener struct {
	name    string
	addr    string
	handler Handler

	conn   net.PacketConn
	server *osc.Server
	done   chan struct{}
}

// NewOSC creates an OSC listener bound to addr (host:port).
func NewOSC(name, addr string, handler Handler) *OSCListener {
	return &OSCListener{
		name:    name,
		addr:    addr,
		handler: handler,
	}
}

// Name identifies the listener in logs.
func (l *OSCListener) Name() string {
	return "osc-" + l.name
}

// Start binds the UDP socket and begins serving. The bind happens here so a
// failure surfaces at startup rather than inside the serve goroutine.
func (l *OSCListener) Start(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to bind udp %s: %w", l.addr, err)
	}

	l.conn = conn
	l.server = &osc.Server{
		Addr:       l.addr,
		Dispatcher: &eventDispatcher{listener: l.Name(), handler: l.handler},
	}
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		if err := l.server.Serve(conn); err != nil {
			// Serve returns a closed-connection error on Stop.
			slog.Debug("osc serve loop exited", "listener", l.Name(), "error", err)
		}
	}()

	slog.Info("osc listener bound", "listener", l.Name(), "addr", l.addr)
	return nil
}

// Stop closes the socket and waits for the serve goroutine to exit.
func (l *OSCListener) Stop() error {
	if l.conn == nil {
		return nil
	}

	err := l.conn.Close()

	select {
	case <-l.done:
	case <-time.After(oscStopTimeout):
		slog.Warn("osc listener did not stop in time", "listener", l.Name())
	}

	slog.Info("osc listener stopped", "listener", l.Name())
	return err
}

// eventDispatcher decodes every inbound packet through the explicit address
// table. It replaces the per-address callback registry of typical OSC
// servers with a single exhaustive decode step.
type eventDispatcher struct {
	listener string
	handler  Handler
}

func (d *eventDispatcher) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		d.dispatchMessage(p)
	case *osc.Bundle:
		for _, msg := range p.Messages {
			d.dispatchMessage(msg)
		}
		for _, bundle := range p.Bundles {
			d.Dispatch(bundle)
		}
	}
}

func (d *eventDispatcher) dispatchMessage(msg *osc.Message) {
	ev := DecodeAddress(msg.Address, msg.Arguments)
	if ev.Kind == types.EventUnrecognized {
		slog.Debug("unhandled osc address",
			"listener", d.listener,
			"address", msg.Address,
		)
	}
	d.handler(ev)
}
