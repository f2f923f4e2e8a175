package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
)

// RequestError is a request the session answered with ok=false.
type RequestError struct {
	Command string
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Send writes one request line to the session socket and reads one response
// line back, all within timeout.
func Send(ctx context.Context, path string, req Request, timeout time.Duration) (Response, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return Response{}, fmt.Errorf("encode %s request: %w", req.Command, err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return Response{}, fmt.Errorf("read %s response: %w", req.Command, err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Response{}, fmt.Errorf("decode %s response: %w", req.Command, err)
	}
	return resp, nil
}

// Call sends command and turns an ok=false answer into a *RequestError.
func Call(ctx context.Context, path, command string, timeout time.Duration) (Response, error) {
	resp, err := Send(ctx, path, Request{Command: command}, timeout)
	if err != nil {
		return Response{}, err
	}
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = fmt.Sprintf("%s rejected", command)
		}
		return resp, &RequestError{Command: command, Message: msg}
	}
	return resp, nil
}

// Status reports the session's turn phase and mode.
func Status(ctx context.Context, path string, timeout time.Duration) (state, mode string, err error) {
	resp, err := Call(ctx, path, CommandStatus, timeout)
	if err != nil {
		return "", "", err
	}
	return resp.State, resp.Mode, nil
}

// History returns the session's conversation log, oldest first.
func History(ctx context.Context, path string, timeout time.Duration) ([]HistoryEntry, error) {
	resp, err := Call(ctx, path, CommandHistory, timeout)
	if err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Clear empties the session's conversation log and returns its confirmation.
func Clear(ctx context.Context, path string, timeout time.Duration) (string, error) {
	resp, err := Call(ctx, path, CommandClear, timeout)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Probe reports whether a session answers status on path. A socket nobody
// listens on is not an error.
func Probe(ctx context.Context, path string, timeout time.Duration) (bool, error) {
	_, _, err := Status(ctx, path, timeout)
	var reqErr *RequestError
	switch {
	case err == nil, errors.As(err, &reqErr):
		return true, nil
	case IsUnavailable(err):
		return false, nil
	default:
		return false, fmt.Errorf("probe socket: %w", err)
	}
}

// IsUnavailable reports whether err means no session owns the socket: the
// file is gone or nothing accepts on it.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED)
}
