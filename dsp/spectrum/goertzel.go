package spectrum

import (
	"fmt"
	"math"
)

// LevelFloorDB is reported when the detected magnitude is below the
// measurable range. It stands for "below noise floor" rather than an error.
const LevelFloorDB = -120.0

// magnitudeEpsilon is the smallest magnitude considered measurable.
const magnitudeEpsilon = 1e-9

// Goertzel implements the Goertzel algorithm for single-bin frequency analysis.
//
// The Goertzel algorithm evaluates one term of the Discrete Fourier Transform
// without computing a full spectrum, which makes it the right tool for
// measuring the response to a single-tone stimulus: one recursion per sample,
// one closed-form power evaluation at the end of the block.
//
// The analyzer is stateful and accumulates information from each processed
// sample. Power() and LevelDB() evaluate the frequency component based on all
// samples processed since the last Reset().
//
// When the analysis block length is known up front, prefer [NewGoertzelAligned]:
// it snaps the detection frequency to the nearest DFT bin, k = round(N*f/fs).
// If N*f/fs is not an integer, the tone straddles two bins and the reading is
// biased low by spectral leakage. That residual bias is intrinsic measurement
// error of the method, not something this package corrects.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
}

// NewGoertzel creates an analyzer tuned exactly to the target frequency.
//
// frequency must be between 0 and sampleRate/2.
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if err := validateArgs(frequency, sampleRate); err != nil {
		return nil, err
	}

	g := &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
	}
	g.coeff = 2 * math.Cos(2*math.Pi*frequency/sampleRate)

	return g, nil
}

// NewGoertzelAligned creates an analyzer snapped to the nearest DFT bin for
// an analysis block of exactly blockLen samples:
//
//	k = round(blockLen * frequency / sampleRate)
//	w = 2*pi*k / blockLen
//
// The effective detection frequency is k*sampleRate/blockLen; Frequency()
// reports it.
func NewGoertzelAligned(frequency, sampleRate float64, blockLen int) (*Goertzel, error) {
	if err := validateArgs(frequency, sampleRate); err != nil {
		return nil, err
	}

	if blockLen <= 0 {
		return nil, fmt.Errorf("goertzel: block length must be > 0: %d", blockLen)
	}

	k := math.Round(float64(blockLen) * frequency / sampleRate)
	w := 2 * math.Pi * k / float64(blockLen)

	return &Goertzel{
		frequency:  k * sampleRate / float64(blockLen),
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(w),
	}, nil
}

func validateArgs(frequency, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("goertzel: sample rate must be > 0: %v", sampleRate)
	}

	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return fmt.Errorf("goertzel: frequency must be between 0 and sampleRate/2: %v", frequency)
	}

	return nil
}

// Reset clears the internal state.
func (g *Goertzel) Reset() {
	g.s0 = 0
	g.s1 = 0
}

// ProcessSample updates the internal state with a single input sample.
func (g *Goertzel) ProcessSample(input float64) {
	s := input + g.coeff*g.s0 - g.s1
	g.s1 = g.s0
	g.s0 = s
}

// ProcessBlock updates the internal state with a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1

	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}

	g.s0, g.s1 = s0, s1
}

// Power returns the squared magnitude of the frequency component.
//
// This is typically called after processing a block of samples.
// The result is equivalent to |X[k]|^2 from a DFT of the same block length.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// LevelDB reduces the accumulated state to a level in dB relative to a
// unit-amplitude sine, assuming exactly blockLen samples were processed.
// A bin-aligned sine of amplitude A accumulates power (A*blockLen/2)^2, so:
//
//	magnitude = 2*sqrt(power) / blockLen
//	level     = 20*log10(magnitude)
//
// recovers 20*log10(A). Magnitudes at or below 1e-9 are floored to
// [LevelFloorDB].
func (g *Goertzel) LevelDB(blockLen int) float64 {
	if blockLen <= 0 {
		return LevelFloorDB
	}

	p := g.Power()
	if p <= 0 {
		return LevelFloorDB
	}

	magnitude := 2 * math.Sqrt(p) / float64(blockLen)
	if magnitude <= magnitudeEpsilon {
		return LevelFloorDB
	}

	return 20 * math.Log10(magnitude)
}

// Frequency returns the effective detection frequency.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// SampleRate returns the sample rate.
func (g *Goertzel) SampleRate() float64 { return g.sampleRate }

// MeasureLevel is the one-shot form: it runs a bin-aligned analyzer over the
// whole window and returns the level in dB relative to a unit-amplitude sine.
func MeasureLevel(window []float64, frequency, sampleRate float64) (float64, error) {
	g, err := NewGoertzelAligned(frequency, sampleRate, len(window))
	if err != nil {
		return 0, err
	}

	g.ProcessBlock(window)

	return g.LevelDB(len(window)), nil
}
