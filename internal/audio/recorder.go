package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const (
	// SampleRate is the capture rate used for every utterance.
	SampleRate = 16000
	// Channels is the capture channel count.
	Channels = 1

	bytesPerSecond = SampleRate * Channels * 2
	fragmentBytes  = 640 // 20ms
)

// Recording is one finished capture.
type Recording struct {
	Device    Device
	PCM       []byte
	Truncated bool
}

// Duration reports the captured audio length.
func (r Recording) Duration() time.Duration {
	return time.Duration(len(r.PCM)) * time.Second / bytesPerSecond
}

// WAV wraps the capture in a WAV container ready for transcription.
func (r Recording) WAV() ([]byte, error) {
	return EncodeWAV(r.PCM, SampleRate, Channels)
}

// Recorder accumulates PCM from one Pulse source until stopped or full.
type Recorder struct {
	device   Device
	maxBytes int

	client *pulse.Client
	stream *pulse.RecordStream

	mu        sync.Mutex
	pcm       []byte
	stopped   bool
	truncated bool
	full      chan struct{}
	done      chan struct{}
}

// StartRecording opens a 16kHz mono s16 record stream capped at maxDuration.
// Cancelling ctx stops the recording.
func StartRecording(ctx context.Context, device Device, maxDuration time.Duration) (*Recorder, error) {
	client, err := newClient("audio-input-microphone")
	if err != nil {
		return nil, err
	}

	source, err := client.SourceByID(device.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve source %q: %w", device.ID, err)
	}

	rec := newRecorder(device, maxDuration)
	rec.client = client

	stream, err := client.NewRecord(
		pulse.NewWriter(writerFunc(rec.onPCM), pulseproto.FormatInt16LE),
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(SampleRate),
		pulse.RecordBufferFragmentSize(fragmentBytes),
		pulse.RecordMediaName("monkeyai utterance"),
	)
	if err != nil {
		rec.Stop()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}
	rec.stream = stream
	stream.Start()

	go rec.watch(ctx)

	return rec, nil
}

// watch stops the recording when ctx ends and returns once it is stopped or full.
func (r *Recorder) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		r.Stop()
	case <-r.full:
	case <-r.done:
	}
}

func newRecorder(device Device, maxDuration time.Duration) *Recorder {
	maxBytes := int(maxDuration.Seconds() * bytesPerSecond)
	maxBytes -= maxBytes % 2
	return &Recorder{
		device:   device,
		maxBytes: maxBytes,
		full:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Full is closed once the recording hits its duration cap.
func (r *Recorder) Full() <-chan struct{} {
	return r.full
}

// Stop halts the stream and returns everything captured. Safe to call repeatedly.
func (r *Recorder) Stop() Recording {
	r.mu.Lock()
	alreadyStopped := r.stopped
	r.stopped = true
	r.mu.Unlock()

	if !alreadyStopped {
		close(r.done)
		if r.stream != nil {
			r.stream.Stop()
			r.stream.Close()
		}
		if r.client != nil {
			r.client.Close()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return Recording{
		Device:    r.device,
		PCM:       append([]byte(nil), r.pcm...),
		Truncated: r.truncated,
	}
}

func (r *Recorder) onPCM(buf []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped || r.truncated {
		return 0, io.EOF
	}

	room := r.maxBytes - len(r.pcm)
	if r.maxBytes > 0 && len(buf) >= room {
		r.pcm = append(r.pcm, buf[:room]...)
		r.truncated = true
		close(r.full)
		return len(buf), nil
	}

	r.pcm = append(r.pcm, buf...)
	return len(buf), nil
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
