// Package app maps CLI commands onto sessions, IPC forwarding, and diagnostics.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rbright/monkeyai/internal/audio"
	"github.com/rbright/monkeyai/internal/cli"
	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/doctor"
	"github.com/rbright/monkeyai/internal/indicator"
	"github.com/rbright/monkeyai/internal/ipc"
	"github.com/rbright/monkeyai/internal/logging"
	"github.com/rbright/monkeyai/internal/version"
)

const binaryName = "monkeyai"

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r := Runner{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New(parsed.Verbose)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"config_exists", cfgLoaded.Exists,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandHistory:
		return r.commandHistory(ctx)
	case cli.CommandClear:
		return r.commandClear(ctx)
	case cli.CommandChat:
		return r.commandSession(ctx, cfgLoaded, modeChat, logger)
	case cli.CommandListen:
		return r.commandSession(ctx, cfgLoaded, modeListen, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			yesNo(device.Available),
			yesNo(device.Muted),
		)
	}

	return 0
}

// commandSession owns a chat or listen session and serves IPC while it runs.
func (r Runner) commandSession(ctx context.Context, loaded config.Loaded, mode string, logger *slog.Logger) int {
	deps, err := buildDeps(ctx, loaded, mode, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("session setup failed", "mode", mode, "error", err.Error())
		return 1
	}
	return r.runSession(ctx, loaded.Config, mode, deps, logger)
}

func (r Runner) runSession(ctx context.Context, cfg config.Config, mode string, deps sessionDeps, logger *slog.Logger) int {
	var capturer Capturer
	if mode == modeListen {
		selection, err := audio.SelectDevice(ctx, cfg.Audio.Input, cfg.Audio.Fallback)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			logger.Error("audio device selection failed", "error", err.Error())
			return 1
		}
		if selection.Warning != "" {
			fmt.Fprintf(r.Stderr, "warning: %s\n", selection.Warning)
			logger.Warn("audio device fallback", "warning", selection.Warning)
		}
		capturer = pulseCapturer{
			device:      selection.Device,
			maxDuration: time.Duration(cfg.Audio.MaxRecordSeconds) * time.Second,
		}
	}

	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintf(r.Stderr, "error: %v (use status, history or clear)\n", err)
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		if err := ipc.Release(listener, socketPath); err != nil {
			logger.Warn("release socket failed", "error", err.Error())
		}
	}()

	session := newSession(cfg, mode, deps, r.Stdout, logger)
	defer func() {
		session.toasts().Hide(context.WithoutCancel(ctx))
		if desktop, ok := session.Indicator.(*indicator.Desktop); ok {
			desktop.Wait()
		}
	}()

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, session)
	}()

	logger.Info("session start", "mode", mode, "socket", socketPath)

	var runErr error
	if mode == modeListen {
		runErr = session.RunListen(ctx, r.stdin(), capturer)
	} else {
		runErr = session.RunChat(ctx, r.stdin())
	}

	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logger.Info("session end", "mode", mode, "entries", session.Controller.Log().Len())
	if runErr != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", runErr)
		return 1
	}
	return 0
}

func (r Runner) stdin() io.Reader {
	if r.Stdin == nil {
		return os.Stdin
	}
	return r.Stdin
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
