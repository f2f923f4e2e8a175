package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendRoundTrip(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "monkeyai.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commands := make(chan string, 1)
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			commands <- req.Command
			return Response{OK: true, State: "processing", Mode: "listen", Message: "ok"}
		}))
	}()

	resp, err := Send(context.Background(), socketPath, Request{Command: CommandStatus}, 200*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, CommandStatus, <-commands)
	require.True(t, resp.OK)
	require.Equal(t, "processing", resp.State)
	require.Equal(t, "listen", resp.Mode)
	require.Equal(t, "ok", resp.Message)

	cancel()
	require.NoError(t, <-serveDone)
}

func TestSendHistoryEntries(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "monkeyai.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			if req.Command != CommandHistory {
				return Failure("unknown command %q", req.Command)
			}
			return Response{OK: true, Entries: []HistoryEntry{
				{Role: "user", Text: "oi"},
				{Role: "assistant", Text: "Olá!"},
			}}
		}))
	}()

	resp, err := Send(context.Background(), socketPath, Request{Command: CommandHistory}, 200*time.Millisecond)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, []HistoryEntry{{Role: "user", Text: "oi"}, {Role: "assistant", Text: "Olá!"}}, resp.Entries)

	resp, err = Send(context.Background(), socketPath, Request{Command: "bogus"}, 200*time.Millisecond)
	require.NoError(t, err)
	require.False(t, resp.OK)
	require.Equal(t, `unknown command "bogus"`, resp.Error)

	cancel()
	require.NoError(t, <-serveDone)
}

func TestSendDecodeResponseError(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "monkeyai.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	served := make(chan struct{})
	go func() {
		defer close(served)
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			return
		}
		defer conn.Close()

		reader := bufio.NewReader(conn)
		_, _ = reader.ReadBytes('\n')
		_, _ = conn.Write([]byte("not-json\n"))
	}()

	_, err = Send(context.Background(), socketPath, Request{Command: CommandStatus}, 200*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode status response")

	require.NoError(t, listener.Close())
	<-served
}

func TestSendReadResponseError(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "monkeyai.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	served := make(chan struct{})
	go func() {
		defer close(served)
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			return
		}
		_ = conn.Close()
	}()

	_, err = Send(context.Background(), socketPath, Request{Command: CommandStatus}, 200*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read status response")

	require.NoError(t, listener.Close())
	<-served
}

func TestServeDecodeRequestErrorResponse(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "monkeyai.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, _ Request) Response {
			return Response{OK: true}
		}))
	}()

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("not-json\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(line, &resp))
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "decode request")

	cancel()
	require.NoError(t, <-serveDone)
}

func TestProbe(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "monkeyai.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			if req.Command == CommandStatus {
				return Response{OK: true, State: "idle"}
			}
			return Failure("bad")
		}))
	}()

	alive, probeErr := Probe(context.Background(), socketPath, 200*time.Millisecond)
	require.NoError(t, probeErr)
	require.True(t, alive)

	cancel()
	require.NoError(t, <-serveDone)

	alive, probeErr = Probe(context.Background(), socketPath, 100*time.Millisecond)
	require.NoError(t, probeErr)
	require.False(t, alive)
}

func TestTypedCommandHelpers(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "monkeyai.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			switch req.Command {
			case CommandStatus:
				return Response{OK: true, State: "processing", Mode: "listen"}
			case CommandHistory:
				return Response{OK: true, Entries: []HistoryEntry{{Role: "user", Text: "oi"}}}
			case CommandClear:
				return Response{OK: true, Message: "Histórico limpo"}
			default:
				return Response{OK: false}
			}
		}))
	}()

	state, mode, err := Status(context.Background(), socketPath, 200*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "processing", state)
	require.Equal(t, "listen", mode)

	entries, err := History(context.Background(), socketPath, 200*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, []HistoryEntry{{Role: "user", Text: "oi"}}, entries)

	msg, err := Clear(context.Background(), socketPath, 200*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "Histórico limpo", msg)

	_, err = Call(context.Background(), socketPath, "toggle", 200*time.Millisecond)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "toggle", reqErr.Command)
	require.EqualError(t, err, "toggle rejected")

	cancel()
	require.NoError(t, <-serveDone)
}

func TestIsUnavailable(t *testing.T) {
	_, err := Send(context.Background(), filepath.Join(t.TempDir(), "missing.sock"), Request{Command: CommandStatus}, 50*time.Millisecond)
	require.Error(t, err)
	require.True(t, IsUnavailable(err))
	require.False(t, IsUnavailable(errors.New("boom")))
	require.False(t, IsUnavailable(nil))
}
