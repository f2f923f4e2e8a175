package indicator

import (
	"context"
	"math"
	"time"

	"github.com/rbright/monkeyai/internal/audio"
)

type cueKind int

const (
	cueStart cueKind = iota + 1
	cueStop
	cueComplete
	cueError
)

const cueSampleRate = 16000

type toneSpec struct {
	frequencyHz float64
	duration    time.Duration
	volume      float64
}

var cues = map[cueKind][]int16{
	cueStart: synthesizeCue(
		toneSpec{frequencyHz: 880, duration: 70 * time.Millisecond, volume: 0.18},
		toneSpec{frequencyHz: 1175, duration: 70 * time.Millisecond, volume: 0.18},
	),
	cueStop: synthesizeCue(
		toneSpec{frequencyHz: 620, duration: 120 * time.Millisecond, volume: 0.18},
	),
	cueComplete: synthesizeCue(
		toneSpec{frequencyHz: 740, duration: 65 * time.Millisecond, volume: 0.18},
		toneSpec{frequencyHz: 988, duration: 90 * time.Millisecond, volume: 0.18},
	),
	cueError: synthesizeCue(
		toneSpec{frequencyHz: 480, duration: 75 * time.Millisecond, volume: 0.18},
		toneSpec{frequencyHz: 360, duration: 90 * time.Millisecond, volume: 0.18},
	),
}

func emitCue(ctx context.Context, kind cueKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	samples := cues[kind]
	if len(samples) == 0 {
		return nil
	}
	return audio.Play(ctx, audio.PCM{Samples: samples, SampleRate: cueSampleRate, Channels: 1}, "monkeyai cue")
}

// synthesizeCue joins tones with a short silent gap.
func synthesizeCue(parts ...toneSpec) []int16 {
	gap := make([]int16, samplesForDuration(22*time.Millisecond))
	var pcm []int16
	for i, part := range parts {
		if i > 0 {
			pcm = append(pcm, gap...)
		}
		pcm = append(pcm, synthesizeTone(part)...)
	}
	return pcm
}

// synthesizeTone renders a sine tone with a linear attack/release of at most 5ms.
func synthesizeTone(spec toneSpec) []int16 {
	n := samplesForDuration(spec.duration)
	if n <= 0 || spec.frequencyHz <= 0 || spec.volume <= 0 {
		return nil
	}

	ramp := max(min(n/10, cueSampleRate/200), 1)
	pcm := make([]int16, n)
	for i := range pcm {
		envelope := math.Min(1, math.Min(float64(i)/float64(ramp), float64(n-i-1)/float64(ramp)))
		t := float64(i) / cueSampleRate
		sample := math.Sin(2 * math.Pi * spec.frequencyHz * t)
		pcm[i] = int16(math.Round(sample * spec.volume * envelope * 32767))
	}
	return pcm
}

func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
