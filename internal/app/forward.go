package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbright/monkeyai/internal/ipc"
)

const forwardTimeout = 220 * time.Millisecond

const errNoSession = "error: no active monkeyai session"

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	state, mode, err := ipc.Status(ctx, socketPath, forwardTimeout)
	handled, err := forwardResult(ipc.CommandStatus, err)
	switch {
	case !handled:
		fmt.Fprintln(r.Stdout, "idle")
	case err != nil:
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	case mode != "":
		fmt.Fprintf(r.Stdout, "%s (%s)\n", orIdle(state), mode)
	default:
		fmt.Fprintln(r.Stdout, orIdle(state))
	}
	return 0
}

func (r Runner) commandHistory(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	entries, err := ipc.History(ctx, socketPath, forwardTimeout)
	if code, done := r.reportForward(ipc.CommandHistory, err); done {
		return code
	}
	for _, entry := range entries {
		fmt.Fprintf(r.Stdout, "%s: %s\n", entry.Role, entry.Text)
	}
	return 0
}

func (r Runner) commandClear(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	msg, err := ipc.Clear(ctx, socketPath, forwardTimeout)
	if code, done := r.reportForward(ipc.CommandClear, err); done {
		return code
	}
	if msg != "" {
		fmt.Fprintln(r.Stdout, msg)
	}
	return 0
}

// reportForward prints the failure for commands that need a running session.
// done is false when the caller should print the result.
func (r Runner) reportForward(command string, err error) (int, bool) {
	handled, err := forwardResult(command, err)
	if !handled {
		fmt.Fprintln(r.Stderr, errNoSession)
		return 1, true
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1, true
	}
	return 0, false
}

// forwardResult maps a client error onto whether a session answered. handled
// is false when no session owns the socket.
func forwardResult(command string, err error) (handled bool, _ error) {
	var reqErr *ipc.RequestError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &reqErr):
		return true, reqErr
	case ipc.IsUnavailable(err):
		return false, nil
	default:
		return true, fmt.Errorf("forward command %q: %w", command, err)
	}
}

func orIdle(state string) string {
	if state == "" {
		return "idle"
	}
	return state
}
