// Package roomsim provides a deterministic simulated acoustic path for
// exercising calibration sessions without audio hardware. Rooms are modeled
// as minimum-phase modal coloration plus an optional noise floor.
package roomsim

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-quicktune/dsp/core"
	"github.com/cwbudde/algo-quicktune/dsp/filter/biquad"
	"github.com/cwbudde/algo-quicktune/dsp/filter/design"
)

// Mode describes one resonance or cancellation of a simulated room as a
// peaking-filter band: positive gain for modal buildup, negative for a null.
type Mode struct {
	Frequency float64
	GainDB    float64
	Q         float64
}

// Room is a simulated loudspeaker-room-microphone loop. The room coloration
// is a minimum-phase peaking cascade built from its modes, optionally with a
// uniform noise floor added at the capture.
//
// Room implements the quicktune acoustic path contract: the capture has the
// same length as the stimulus and is aligned sample-for-sample with it.
type Room struct {
	chain      *biquad.Chain
	sampleRate float64
	noiseAmp   float64
	rng        *rand.Rand
}

// Option configures a Room.
type Option func(*Room)

// WithNoiseFloor adds uniform white noise at the given level in dB relative
// to full scale to every capture. The noise source must be supplied so runs
// stay reproducible under a fixed seed.
func WithNoiseFloor(levelDB float64, rng *rand.Rand) Option {
	return func(r *Room) {
		if rng != nil {
			r.noiseAmp = core.DBToLinear(levelDB)
			r.rng = rng
		}
	}
}

// NewRoom builds a simulated room from its modal description. An empty mode
// list yields an acoustically flat room.
func NewRoom(sampleRate float64, modes []Mode, opts ...Option) (*Room, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("roomsim: sample rate must be > 0: %v", sampleRate)
	}

	coeffs := make([]biquad.Coefficients, 0, len(modes))

	for i, m := range modes {
		if m.Frequency <= 0 || m.Frequency >= sampleRate/2 {
			return nil, fmt.Errorf("roomsim: mode %d frequency %v Hz outside (0, %v)",
				i, m.Frequency, sampleRate/2)
		}

		coeffs = append(coeffs, design.Peak(m.Frequency, m.GainDB, m.Q, sampleRate))
	}

	r := &Room{
		chain:      biquad.NewChain(coeffs),
		sampleRate: sampleRate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r, nil
}

// SampleRate returns the room sample rate.
func (r *Room) SampleRate() float64 { return r.sampleRate }

// PlayAndCapture filters the stimulus through the room coloration and returns
// the capture. Filter state is cleared per call, so every tone starts from
// room silence and repeated sessions over the same room are bit-identical.
func (r *Room) PlayAndCapture(stimulus []float64) ([]float64, error) {
	captured := make([]float64, len(stimulus))
	copy(captured, stimulus)

	r.chain.Reset()
	r.chain.ProcessBlock(captured)

	if r.noiseAmp > 0 {
		for i := range captured {
			captured[i] += r.noiseAmp * (2*r.rng.Float64() - 1)
		}
	}

	return captured, nil
}
