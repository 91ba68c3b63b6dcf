package quicktune

import (
	"math"

	"github.com/cwbudde/algo-quicktune/dsp/filter/biquad"
	"github.com/cwbudde/algo-quicktune/dsp/filter/design"
)

// IterationStats records the flatness reached after one measurement pass.
// Pass 0 is the uncorrected room measurement.
type IterationStats struct {
	Pass       int
	MaxErrorDB float64
	RMSErrorDB float64
}

// Result is the outcome of a calibration session.
//
// Together, BandFrequencies, Gains and Q are sufficient for an EQ runtime to
// reconstruct the correction cascade independently of this package.
type Result struct {
	// Converged reports whether the largest residual reached the accuracy
	// target within the iteration budget. A non-converged result still
	// carries the best gains found; the caller decides whether to accept,
	// retry, or flag the room for manual tuning.
	Converged bool

	// Iterations is the number of measurement passes used (1 = only the
	// uncorrected pass, up to Config.MaxIterations).
	Iterations int

	// BandFrequencies echoes the session band plan in Hz.
	BandFrequencies []float64

	// Gains holds the final per-band correction in dB, clamped to the
	// session gain limit.
	Gains []float64

	// Levels holds the final offset-corrected measured levels in dB,
	// taken with the final gains applied.
	Levels []float64

	// Q is the fixed quality factor of every correction band.
	Q float64

	// SampleRate is the session sample rate in Hz.
	SampleRate float64

	// MaxErrorDB and RMSErrorDB summarize the final residual.
	MaxErrorDB float64
	RMSErrorDB float64

	// History holds per-pass flatness statistics, pass 0 first.
	History []IterationStats
}

// SaturatedBands returns the indices of bands whose final correction sits at
// the given limit (within floating-point slack). Persistent saturation means
// the room deviation at that band exceeds the correctable envelope.
func (r *Result) SaturatedBands(limitDB float64) []int {
	var bands []int

	for i, g := range r.Gains {
		if math.Abs(math.Abs(g)-limitDB) <= 1e-9 {
			bands = append(bands, i)
		}
	}

	return bands
}

// CorrectionCoefficients designs the correction cascade described by the
// result, one peaking section per band in band order. This is the coefficient
// set an EQ runtime should swap in atomically.
func (r *Result) CorrectionCoefficients() ([]biquad.Coefficients, error) {
	return design.PeakCascade(r.BandFrequencies, r.Gains, r.Q, r.SampleRate)
}
