package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-quicktune/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// normalizedW0 converts a frequency to normalized angular frequency and
// reports whether it lies in the designable range (0, pi).
func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// Peak designs a peaking-EQ biquad with gain in dB using the RBJ cookbook:
//
//	A     = 10^(gain/40)
//	alpha = sin(w0) / (2*Q)
//	b     = [1+alpha*A, -2*cos(w0), 1-alpha*A]
//	a     = [1+alpha/A, -2*cos(w0), 1-alpha/A]
//
// normalized by a0. At 0 dB the numerator equals the denominator, so the
// section is exactly unity; correction bands that need no correction are
// guaranteed transparent rather than approximately so.
//
// Out-of-range frequencies yield a zero (silencing) coefficient set, as the
// caller is expected to validate its band plan first.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)
	a := math.Pow(10, gainDB/40)

	b0 := 1 + alpha*a
	b1 := -2 * cw
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cw
	a2 := 1 - alpha/a

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// PeakCascade designs one peaking section per band, in band order. freqs and
// gainsDB must have the same length; the shared quality factor applies to
// every band.
//
// The returned slice is ordered by ascending band index so repeated designs
// from the same inputs are bit-identical.
func PeakCascade(freqs, gainsDB []float64, q, sampleRate float64) ([]biquad.Coefficients, error) {
	if len(freqs) != len(gainsDB) {
		return nil, fmt.Errorf("design: got %d frequencies but %d gains", len(freqs), len(gainsDB))
	}

	coeffs := make([]biquad.Coefficients, len(freqs))

	for i, f := range freqs {
		if _, ok := normalizedW0(f, sampleRate); !ok {
			return nil, fmt.Errorf("design: band %d frequency %v Hz outside (0, %v)", i, f, sampleRate/2)
		}

		coeffs[i] = Peak(f, gainsDB[i], q, sampleRate)
	}

	return coeffs, nil
}
