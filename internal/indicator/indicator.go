// Package indicator shows desktop toasts and plays short audio cues for turn progress.
package indicator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbright/monkeyai/internal/config"
)

// Controller is the presentation-facing indicator contract.
type Controller interface {
	ShowListening(context.Context)
	ShowThinking(context.Context)
	ShowReply(context.Context, string)
	ShowError(context.Context, string)
	CueStop(context.Context)
	CueComplete(context.Context)
	CueError(context.Context)
	Hide(context.Context)
}

// Noop satisfies Controller without side effects.
type Noop struct{}

func (Noop) ShowListening(context.Context)     {}
func (Noop) ShowThinking(context.Context)      {}
func (Noop) ShowReply(context.Context, string) {}
func (Noop) ShowError(context.Context, string) {}
func (Noop) CueStop(context.Context)           {}
func (Noop) CueComplete(context.Context)       {}
func (Noop) CueError(context.Context)          {}
func (Noop) Hide(context.Context)              {}

const (
	persistentTimeoutMS = 300000
	replyTimeoutMS      = 6000
	defaultErrorMS      = 1200
	dispatchTimeout     = 400 * time.Millisecond
)

// Desktop routes toasts over the freedesktop notification bus and reuses
// one notification slot so updates replace each other.
type Desktop struct {
	cfg    config.IndicatorConfig
	logger *slog.Logger
	text   Messages

	mu             sync.Mutex
	notificationID uint32
	soundMu        sync.Mutex
	sounds         sync.WaitGroup
}

// NewDesktop creates an indicator from config. Messages follow $LANG.
func NewDesktop(cfg config.IndicatorConfig, logger *slog.Logger) *Desktop {
	return &Desktop{
		cfg:    cfg,
		logger: logger,
		text:   MessagesFromEnv(),
	}
}

// ShowListening signals recording start and emits the start cue.
func (d *Desktop) ShowListening(ctx context.Context) {
	d.playCue(cueStart)
	d.toast(ctx, persistentTimeoutMS, d.text.Listening)
}

// ShowThinking signals that the turn is being processed.
func (d *Desktop) ShowThinking(ctx context.Context) {
	d.toast(ctx, persistentTimeoutMS, d.text.Thinking)
}

// ShowReply displays the assistant reply or redirect confirmation.
func (d *Desktop) ShowReply(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	d.toast(ctx, replyTimeoutMS, text)
}

// ShowError displays an error message for the configured timeout.
func (d *Desktop) ShowError(ctx context.Context, text string) {
	if text == "" {
		text = d.text.GenericError
	}
	timeout := d.cfg.ErrorTimeoutMS
	if timeout <= 0 {
		timeout = defaultErrorMS
	}
	d.toast(ctx, timeout, text)
}

// CueStop emits the end-of-recording cue.
func (d *Desktop) CueStop(context.Context) { d.playCue(cueStop) }

// CueComplete emits the reply-ready cue.
func (d *Desktop) CueComplete(context.Context) { d.playCue(cueComplete) }

// CueError emits the failure cue.
func (d *Desktop) CueError(context.Context) { d.playCue(cueError) }

// Hide dismisses the active notification, if any.
func (d *Desktop) Hide(ctx context.Context) {
	if !d.cfg.Enable {
		return
	}
	d.mu.Lock()
	id := d.notificationID
	d.notificationID = 0
	d.mu.Unlock()
	if id == 0 {
		return
	}
	d.run(ctx, func(ctx context.Context) error { return desktopDismiss(ctx, id) })
}

// Wait blocks until queued cues have finished playing.
func (d *Desktop) Wait() {
	d.sounds.Wait()
}

func (d *Desktop) toast(ctx context.Context, timeoutMS int, text string) {
	if !d.cfg.Enable {
		return
	}
	d.run(ctx, func(ctx context.Context) error {
		d.mu.Lock()
		replaceID := d.notificationID
		d.mu.Unlock()

		id, err := desktopNotify(ctx, d.appName(), replaceID, text, timeoutMS)
		if err != nil {
			return err
		}

		d.mu.Lock()
		d.notificationID = id
		d.mu.Unlock()
		return nil
	})
}

func (d *Desktop) appName() string {
	if name := strings.TrimSpace(d.cfg.DesktopAppName); name != "" {
		return name
	}
	return "monkeyai"
}

func (d *Desktop) run(ctx context.Context, fn func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	if err := fn(runCtx); err != nil {
		d.log("indicator dispatch failed", err)
	}
}

// playCue serializes cue playback and emits audio asynchronously.
func (d *Desktop) playCue(kind cueKind) {
	if !d.cfg.SoundEnable {
		return
	}
	d.sounds.Add(1)
	go func() {
		defer d.sounds.Done()
		d.soundMu.Lock()
		defer d.soundMu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := emitCue(ctx, kind); err != nil {
			d.log("indicator audio cue failed", err)
		}
	}()
}

func (d *Desktop) log(message string, err error) {
	if d.logger == nil || err == nil {
		return
	}
	d.logger.Debug(message, "error", err.Error())
}
