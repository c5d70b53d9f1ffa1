// Package audio plays an audible bell for input no component could take.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	SampleRate = beep.SampleRate(44100)

	bellFrequency = 880.0
	bellDuration  = 120 * time.Millisecond
	bellAttack    = 5 * time.Millisecond
	bellRelease   = 100 * time.Millisecond

	// minRingGap drops rings that follow too closely, a held key rings once
	minRingGap = 150 * time.Millisecond
)

// Bell plays a short two-partial ding
// A nil *Bell is valid and silent
type Bell struct {
	rate   beep.SampleRate
	volume float64
	play   func(...beep.Streamer)
	now    func() time.Time

	mu       sync.Mutex
	lastRing time.Time
}

// NewBell initializes the speaker; the bell is optional so callers may ignore the error
func NewBell(volume float64) (*Bell, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	return &Bell{
		rate:   SampleRate,
		volume: volume,
		play:   speaker.Play,
		now:    time.Now,
	}, nil
}

// Ring plays the bell unless it rang within minRingGap
func (b *Bell) Ring() {
	if b == nil {
		return
	}

	b.mu.Lock()
	now := b.now()
	if !b.lastRing.IsZero() && now.Sub(b.lastRing) < minRingGap {
		b.mu.Unlock()
		return
	}
	b.lastRing = now
	b.mu.Unlock()

	tone, err := Tone(b.rate, b.volume)
	if err != nil {
		return
	}
	b.play(tone)
}

// Close releases the speaker
func (b *Bell) Close() {
	if b == nil {
		return
	}
	speaker.Close()
}

// Tone builds the bell: a fundamental and its octave mixed, scaled linearly by volume
// The octave dies away twice as fast so the tail is the pure fundamental
func Tone(rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	fund, err := partial(rate, bellFrequency, 0.7, bellRelease)
	if err != nil {
		return nil, fmt.Errorf("fundamental: %w", err)
	}
	over, err := partial(rate, bellFrequency*2, 0.3, bellRelease/2)
	if err != nil {
		return nil, fmt.Errorf("overtone: %w", err)
	}

	// Gain multiplies by 1+Gain
	return &effects.Gain{Streamer: beep.Mix(fund, over), Gain: max(volume, 0) - 1}, nil
}

// partial is one sine of the bell, bellDuration long, under a linear attack and release
func partial(rate beep.SampleRate, freq, gain float64, release time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}

	total := rate.N(bellDuration)
	attack := rate.N(bellAttack)
	decayFrom := total - rate.N(release)
	body := beep.Take(total, sine)

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := body.Stream(samples)
		for i := range samples[:n] {
			a := gain * shape(pos, attack, decayFrom, total)
			samples[i][0] *= a
			samples[i][1] *= a
			pos++
		}
		return n, ok
	}), nil
}

// shape is the amplitude at sample pos: rising until attack, flat, then
// falling from decayFrom to zero at total
func shape(pos, attack, decayFrom, total int) float64 {
	switch {
	case pos < attack:
		return float64(pos) / float64(attack)
	case pos >= decayFrom && total > decayFrom:
		return float64(total-pos) / float64(total-decayFrom)
	}
	return 1
}
