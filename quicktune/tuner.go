package quicktune

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-quicktune/dsp/core"
	"github.com/cwbudde/algo-quicktune/dsp/filter/biquad"
	"github.com/cwbudde/algo-quicktune/dsp/filter/design"
	"github.com/cwbudde/algo-quicktune/dsp/spectrum"
	"github.com/cwbudde/algo-quicktune/dsp/tone"
	"github.com/cwbudde/algo-quicktune/measure/response"
)

// Tuner runs closed-loop room calibration sessions over an AcousticPath.
//
// A Tuner is cheap to construct and holds no audio state between sessions;
// at most one session may run at a time per Tuner.
type Tuner struct {
	cfg     Config
	running atomic.Bool
}

// New creates a Tuner from the default configuration and the given options.
func New(opts ...Option) (*Tuner, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Tuner{cfg: cfg}, nil
}

// Config returns a copy of the session configuration.
func (t *Tuner) Config() Config {
	cfg := t.cfg
	cfg.BandFrequencies = append([]float64(nil), t.cfg.BandFrequencies...)
	cfg.Offsets = append(OffsetTable(nil), t.cfg.Offsets...)

	return cfg
}

// Run performs one full calibration session and returns the resulting
// per-band correction gains.
//
// The session measures the uncorrected room first, derives an initial
// correction from the deviation, then re-measures through the correction
// cascade and refines the gains with damped steps until every band is within
// the accuracy target or the iteration budget is spent. The published gains
// always correspond to the last measured pass, so Result.Levels describes the
// room as it actually sounds with Result.Gains applied.
//
// Cancellation is checked between per-band tones; a cancelled session returns
// ctx.Err() and publishes nothing. Any path error aborts the session.
func (t *Tuner) Run(ctx context.Context, path AcousticPath) (*Result, error) {
	if path == nil {
		return nil, ErrNilPath
	}

	if !t.running.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}
	defer t.running.Store(false)

	s := newSession(&t.cfg, path)

	return s.run(ctx)
}

// session is the per-run working state, so Run leaves no residue on the Tuner.
type session struct {
	cfg  *Config
	path AcousticPath
	gen  *tone.Generator

	gains  []float64
	levels []float64

	stimulus []float64
	work     []float64

	history []IterationStats
}

func newSession(cfg *Config, path AcousticPath) *session {
	n := len(cfg.BandFrequencies)

	return &session{
		cfg:  cfg,
		path: path,
		gen: tone.NewGenerator(
			[]core.ProcessorOption{core.WithSampleRate(cfg.SampleRate)},
			tone.WithAmplitude(cfg.ToneAmplitude),
			tone.WithFadeSamples(cfg.FadeSamples),
		),
		gains:  make([]float64, n),
		levels: make([]float64, n),
	}
}

func (s *session) run(ctx context.Context) (*Result, error) {
	cfg := s.cfg

	// Pass 0: the room as-is, no correction in the loop.
	if err := s.measureAll(ctx, nil); err != nil {
		return nil, err
	}

	maxErr, rmsErr := s.recordPass(0)
	passes := 1
	converged := maxErr <= cfg.AccuracyDB

	if !converged {
		// Initial correction: mirror the full deviation, clamped.
		for i := range s.gains {
			s.gains[i] = cfg.TargetDB - s.levels[i]
		}
		core.ClampInPlace(s.gains, -cfg.GainLimitDB, cfg.GainLimitDB)
	}

	for pass := 1; pass < cfg.MaxIterations && !converged; pass++ {
		coeffs, err := design.PeakCascade(cfg.BandFrequencies, s.gains, cfg.Q, cfg.SampleRate)
		if err != nil {
			return nil, err
		}

		if err := s.measureAll(ctx, biquad.NewChain(coeffs)); err != nil {
			return nil, err
		}

		maxErr, rmsErr = s.recordPass(pass)
		passes++
		converged = maxErr <= cfg.AccuracyDB

		// Refine only when another verification pass remains, so the
		// published gains always match the last measured levels.
		if !converged && pass < cfg.MaxIterations-1 {
			for i := range s.gains {
				step := core.Clamp(cfg.TargetDB-s.levels[i], -cfg.GainLimitDB, cfg.GainLimitDB)
				s.gains[i] += cfg.Damping * step
			}
			core.ClampInPlace(s.gains, -cfg.GainLimitDB, cfg.GainLimitDB)
		}
	}

	return &Result{
		Converged:       converged,
		Iterations:      passes,
		BandFrequencies: append([]float64(nil), cfg.BandFrequencies...),
		Gains:           append([]float64(nil), s.gains...),
		Levels:          append([]float64(nil), s.levels...),
		Q:               cfg.Q,
		SampleRate:      cfg.SampleRate,
		MaxErrorDB:      maxErr,
		RMSErrorDB:      rmsErr,
		History:         s.history,
	}, nil
}

// measureAll measures every band in ascending order through the given
// correction cascade (nil for the uncorrected room) and stores the
// offset-corrected levels.
func (s *session) measureAll(ctx context.Context, chain *biquad.Chain) error {
	for i, freq := range s.cfg.BandFrequencies {
		if err := ctx.Err(); err != nil {
			return err
		}

		level, err := s.measureBand(freq, chain)
		if err != nil {
			return err
		}

		s.levels[i] = level + s.cfg.Offsets.Lookup(i)
	}

	return nil
}

// measureBand plays one stimulus tone and reduces the capture to the path
// gain in dB at the band, relative to the stimulus amplitude.
//
// The stimulus is rendered at the band center while the detector snaps to
// the nearest DFT bin of the analysis window. For bands whose center is not
// an exact bin (25 and 63 Hz of the defaults) the reading comes in low by
// spectral leakage; that bias is intrinsic to single-bin detection and is
// left in the reading rather than corrected.
//
// The analysis window starts FadeSamples before the settling boundary so it
// ends before the fade-out ramp and sees steady-state amplitude throughout.
// This departs from the usual [settling, settling+analysis) split, which
// overlaps the ramp and reads a fixed ~0.45 dB low on every band.
//
// The correction cascade runs over the captured signal rather than the
// stimulus. For a linear path the two orderings measure the same loop, and
// filtering on the capture side keeps AcousticPath implementations free of
// any EQ plumbing. State is cleared per tone and the transient falls inside
// the discarded prefix, so it never reaches the detector.
func (s *session) measureBand(frequency float64, chain *biquad.Chain) (float64, error) {
	total := s.cfg.ToneSamples()
	analysis := s.cfg.AnalysisSamples()
	start := s.cfg.SettlingSamples() - s.cfg.FadeSamples

	det, err := spectrum.NewGoertzelAligned(frequency, s.cfg.SampleRate, analysis)
	if err != nil {
		return 0, err
	}

	stim, err := s.gen.RenderInto(s.stimulus, frequency, total)
	if err != nil {
		return 0, err
	}
	s.stimulus = stim

	captured, err := s.path.PlayAndCapture(stim)
	if err != nil {
		return 0, fmt.Errorf("quicktune: band %g Hz: %w", frequency, err)
	}

	if len(captured) < total {
		return 0, fmt.Errorf("%w: band %g Hz: got %d samples, need %d",
			ErrCaptureShort, frequency, len(captured), total)
	}

	s.work = core.EnsureLen(s.work, total)
	copy(s.work, captured[:total])

	if chain != nil {
		chain.Reset()
		chain.ProcessBlock(s.work)
	}

	det.ProcessBlock(s.work[start : start+analysis])

	return det.LevelDB(analysis) - core.LinearToDB(s.cfg.ToneAmplitude), nil
}

// recordPass appends the flatness statistics of the freshly measured levels
// and returns them.
func (s *session) recordPass(pass int) (maxErr, rmsErr float64) {
	flat := response.Deviation(s.levels, s.cfg.TargetDB)

	s.history = append(s.history, IterationStats{
		Pass:       pass,
		MaxErrorDB: flat.MaxDB,
		RMSErrorDB: flat.RMSDB,
	})

	return flat.MaxDB, flat.RMSDB
}
