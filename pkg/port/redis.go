// Package port is the transport: a TCP accept loop and per-connection read-decode-call-encode-write pump
// composing pkg/resp, pkg/command and pkg/engine. None of this is part of the core contract (the core
// exposes Engine.Call and Parse/Serialize); this is merely the thin composer the spec describes.
package port

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/nobletooth/kiwidb/pkg/command"
	"github.com/nobletooth/kiwidb/pkg/engine"
	"github.com/nobletooth/kiwidb/pkg/resp"
)

// RunRedisServer listens on address and serves RESP connections against e until ctx is canceled.
func RunRedisServer(ctx context.Context, address string, e *engine.Engine) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", address, err)
	}
	slog.Info("Listening for connections.", "address", address)
	return Serve(ctx, listener, e)
}

// Serve runs the accept loop against an already-bound listener until ctx is canceled. Split out from
// RunRedisServer so tests can bind an ephemeral port themselves.
func Serve(ctx context.Context, listener net.Listener, e *engine.Engine) error {
	go func() {
		<-ctx.Done()
		slog.Info("Shutting down listener.", "address", listener.Addr())
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				slog.Error("Failed to accept connection.", "error", err)
				continue
			}
		}
		slog.Info("Accepting connection.", "remote", conn.RemoteAddr())
		go handleConnection(conn, e)
	}
}

// handleConnection processes commands strictly in arrival order, replying to each before reading the
// next, so pipelined requests are answered in the same order they were sent.
func handleConnection(conn net.Conn, e *engine.Engine) {
	defer func() {
		slog.Info("Closing connection.", "remote", conn.RemoteAddr())
		_ = conn.Close()
	}()

	reader := bufio.NewReader(conn)
	for {
		value, err := resp.Parse(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Warn("Protocol error, terminating connection.", "remote", conn.RemoteAddr(), "error", err)
			}
			return
		}

		var out resp.Value
		if cmd, err := command.Decode(value); err != nil {
			out = command.EncodeError(err)
		} else {
			out = command.Encode(e.Call(cmd))
		}

		if err := resp.Serialize(conn, out); err != nil {
			slog.Warn("Failed to write response, terminating connection.", "remote", conn.RemoteAddr(), "error", err)
			return
		}
	}
}
