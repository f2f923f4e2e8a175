package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rbright/monkeyai/internal/audio"
	"github.com/rbright/monkeyai/internal/turn"
)

var (
	clearCommands = []string{"/limpar", "/clear"}
	quitCommands  = []string{"/sair", "/quit", "/exit"}
)

// Capturer starts one microphone capture.
type Capturer interface {
	Start(ctx context.Context) (Capture, error)
}

// Capture is an in-flight recording.
type Capture interface {
	Full() <-chan struct{}
	Stop() audio.Recording
}

// RunChat reads one utterance per line until EOF, a quit command, or ctx cancellation.
func (s *Session) RunChat(ctx context.Context, in io.Reader) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	s.printf("%s\n", s.Text.ChatHint)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			switch {
			case line == "":
				continue
			case isCommand(line, quitCommands):
				return nil
			case isCommand(line, clearCommands):
				s.clear()
				s.notice(s.Text.Cleared)
				continue
			}
			s.submit(ctx, turn.Text(line))
		}
	}
}

// RunListen toggles recording on each input line. A capture ends on the next
// line, when the recorder reaches its duration cap, or at EOF.
func (s *Session) RunListen(ctx context.Context, in io.Reader, capturer Capturer) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	s.printf("%s\n", s.Text.PushToTalk)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			switch {
			case isCommand(line, quitCommands):
				return nil
			case isCommand(line, clearCommands):
				s.clear()
				s.notice(s.Text.Cleared)
				continue
			}
		}

		rec, err := capturer.Start(ctx)
		if err != nil {
			s.toasts().ShowError(ctx, s.Text.GenericError)
			s.logger().Error("start recording failed", "error", err.Error())
			return fmt.Errorf("start recording: %w", err)
		}
		s.toasts().ShowListening(ctx)
		s.printf("● %s\n", s.Text.Listening)

		eof := false
		select {
		case <-ctx.Done():
			rec.Stop()
			s.toasts().Hide(context.WithoutCancel(ctx))
			return nil
		case _, ok := <-lines:
			eof = !ok
		case <-rec.Full():
		}

		recording := rec.Stop()
		s.toasts().CueStop(ctx)
		if recording.Truncated {
			s.logger().Info("recording reached max duration", "duration_ms", recording.Duration().Milliseconds())
		}

		wav, err := recording.WAV()
		if err != nil {
			s.notice(s.Text.GenericError)
			s.logger().Error("encode recording failed", "error", err.Error())
		} else {
			s.dump(wav)
			s.submit(ctx, turn.Voice(wav))
		}
		if eof {
			return nil
		}
	}
}

// readLines streams lines from in until EOF or until done closes.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func isCommand(line string, names []string) bool {
	for _, name := range names {
		if strings.EqualFold(line, name) {
			return true
		}
	}
	return false
}
