// Package output applies redirect side effects by handing URLs to the desktop opener.
package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rbright/monkeyai/internal/config"
)

// ErrUnsupportedURL is returned for URLs that are not absolute http(s) links.
var ErrUnsupportedURL = errors.New("unsupported redirect url")

const (
	openTimeout = 3 * time.Second
	// Browsers launched by the opener inherit its stderr; stop waiting on
	// the pipe this long after the opener itself exits.
	pipeGrace = 250 * time.Millisecond
	stderrCap = 4 << 10
)

// Opener launches redirect URLs with the configured open command.
type Opener struct {
	argv   []string
	logger *slog.Logger
}

// NewOpener constructs an Opener from open_cmd config.
func NewOpener(cmd config.CommandConfig, logger *slog.Logger) *Opener {
	return &Opener{argv: append([]string(nil), cmd.Argv...), logger: logger}
}

// Open appends target to the open command argv and waits for the command
// itself to exit. Children it leaves running are not waited on.
func (o *Opener) Open(ctx context.Context, target string) error {
	target = strings.TrimSpace(target)
	if err := checkURL(target); err != nil {
		return err
	}

	openCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	argv := append(append([]string(nil), o.argv...), target)
	if err := runCommand(openCtx, argv); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	if o.logger != nil {
		o.logger.Debug("redirect opened", "command", argv[0], "url", target)
	}
	return nil
}

func checkURL(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, target)
	}
	return nil
}

// runCommand executes argv and folds its stderr into the error. Stdout is
// discarded.
func runCommand(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	stderr := &cappedBuffer{limit: stderrCap}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = stderr
	cmd.WaitDelay = pipeGrace

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}
	err := cmd.Wait()
	if errors.Is(err, exec.ErrWaitDelay) {
		err = nil
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("run %s: %w (%s)", argv[0], err, msg)
		}
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	return nil
}

// cappedBuffer keeps the first limit bytes written and drops the rest.
type cappedBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.limit - len(b.buf); room > 0 {
		b.buf = append(b.buf, p[:min(room, len(p))]...)
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
