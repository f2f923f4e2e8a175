package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/pulse"
)

// PCM is interleaved signed 16-bit audio.
type PCM struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// DecodeMP3 decodes an MP3 stream, including several concatenated ones,
// into interleaved stereo PCM.
func DecodeMP3(data []byte) (PCM, error) {
	if len(data) == 0 {
		return PCM{}, errors.New("empty mp3 data")
	}

	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return PCM{}, fmt.Errorf("open mp3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return PCM{}, fmt.Errorf("decode mp3: %w", err)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return PCM{Samples: samples, SampleRate: dec.SampleRate(), Channels: 2}, nil
}

// PlayMP3 decodes and plays a synthesized reply, blocking until drained.
func PlayMP3(ctx context.Context, data []byte) error {
	pcm, err := DecodeMP3(data)
	if err != nil {
		return err
	}
	return Play(ctx, pcm, "monkeyai reply")
}

// Play streams PCM to the default Pulse sink and waits for it to drain.
// Cancelling ctx cuts playback short.
func Play(ctx context.Context, pcm PCM, mediaName string) error {
	if len(pcm.Samples) == 0 {
		return nil
	}

	client, err := newClient("audio-speakers")
	if err != nil {
		return err
	}
	defer client.Close()

	layout := pulse.PlaybackMono
	if pcm.Channels == 2 {
		layout = pulse.PlaybackStereo
	}

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if ctx.Err() != nil || cursor >= len(pcm.Samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, pcm.Samples[cursor:])
		cursor += n
		if cursor >= len(pcm.Samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		layout,
		pulse.PlaybackSampleRate(pcm.SampleRate),
		pulse.PlaybackLatency(0.05),
		pulse.PlaybackMediaName(mediaName),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play %s: %w", mediaName, err)
	}
	return ctx.Err()
}
