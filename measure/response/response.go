// Package response provides frequency-response verification for correction
// cascades: closed-form spot levels, an FFT-based full spectrum, and flatness
// statistics.
package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-quicktune/dsp/core"
	"github.com/cwbudde/algo-quicktune/dsp/filter/biquad"
	"github.com/cwbudde/algo-quicktune/dsp/spectrum"
)

// Flatness summarizes how far a set of levels sits from a target.
type Flatness struct {
	MaxDB float64
	RMSDB float64
}

// Deviation computes the flatness of levels against targetDB.
func Deviation(levels []float64, targetDB float64) Flatness {
	residual := make([]float64, len(levels))
	for i, l := range levels {
		residual[i] = l - targetDB
	}

	return Flatness{
		MaxDB: core.MaxAbs(residual),
		RMSDB: core.RMS(residual),
	}
}

// CascadeLevelsDB evaluates the cascade magnitude response in dB at each of
// the given frequencies using the closed-form transfer function. This is the
// cheap spot check; use CascadeSpectrumDB for a dense picture between bands.
func CascadeLevelsDB(coeffs []biquad.Coefficients, freqs []float64, sampleRate float64) []float64 {
	chain := biquad.NewChain(coeffs)

	levels := make([]float64, len(freqs))
	for i, f := range freqs {
		levels[i] = chain.MagnitudeDB(f, sampleRate)
	}

	return levels
}

// CascadeSpectrumDB computes the cascade magnitude spectrum in dB over the
// non-negative frequency bins [0..Nyquist] of an fftSize transform, by
// transforming the truncated impulse response. It returns the levels and the
// bin width in Hz.
//
// fftSize must be large enough for the impulse response to decay below the
// measurement floor, or truncation ripple shows up in the result. 8192 is
// ample for bass-range corrections at Q 2.
func CascadeSpectrumDB(coeffs []biquad.Coefficients, fftSize int, sampleRate float64) ([]float64, float64, error) {
	if fftSize <= 1 {
		return nil, 0, fmt.Errorf("response: fft size must be > 1: %d", fftSize)
	}

	if sampleRate <= 0 {
		return nil, 0, fmt.Errorf("response: sample rate must be > 0: %v", sampleRate)
	}

	chain := biquad.NewChain(coeffs)
	ir := chain.ImpulseResponse(fftSize)

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, 0, fmt.Errorf("response: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, 0, fmt.Errorf("response: %w", err)
	}

	mags := spectrum.Magnitude(out[:fftSize/2+1])

	levels := make([]float64, len(mags))
	for i, m := range mags {
		if m <= 1e-9 {
			levels[i] = spectrum.LevelFloorDB
		} else {
			levels[i] = 20 * math.Log10(m)
		}
	}

	return levels, sampleRate / float64(fftSize), nil
}
