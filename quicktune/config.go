package quicktune

import (
	"time"

	"github.com/cwbudde/algo-quicktune/dsp/core"
)

// Default calibration parameters. The timing and gain numbers come from the
// validated bass-correction tuning: 300 ms per tone (200 ms settling +
// 100 ms analysis), ±12 dB correction range, Q 2.0, ±1 dB target, at most
// three measurement passes with 0.7 refinement damping.
const (
	DefaultSettling      = 200 * time.Millisecond
	DefaultAnalysis      = 100 * time.Millisecond
	DefaultToneAmplitude = 0.5
	DefaultFadeSamples   = 480
	DefaultGainLimitDB   = 12.0
	DefaultQ             = 2.0
	DefaultTargetDB      = 0.0
	DefaultAccuracyDB    = 1.0
	DefaultMaxIterations = 3
	DefaultDamping       = 0.7
)

// DefaultBandFrequencies returns the ten-band bass plan: third-octave-ish
// centers from 25 Hz to 1.6 kHz.
func DefaultBandFrequencies() []float64 {
	return []float64{25, 40, 63, 100, 160, 250, 400, 630, 1000, 1600}
}

// Config holds all tunables for a calibration session. There are no
// package-level tables: every Tuner carries its own Config, so device
// configurations with different band plans or offset tables can coexist.
type Config struct {
	core.ProcessorConfig

	// BandFrequencies are the correction band centers in Hz, strictly
	// ascending. The correction cascade is built in this order.
	BandFrequencies []float64

	// Settling is the tone prefix discarded before analysis; it lets the
	// room and the correction filters reach steady state.
	Settling time.Duration

	// Analysis is the tone suffix fed to the detector.
	Analysis time.Duration

	// ToneAmplitude is the stimulus peak amplitude in full scale.
	ToneAmplitude float64

	// FadeSamples is the linear fade-in/out length of each stimulus. The
	// fades must fit inside the settling prefix so the analysis window sees
	// only steady-state amplitude.
	FadeSamples int

	// GainLimitDB bounds every per-band correction to ±GainLimitDB.
	GainLimitDB float64

	// Q is the fixed quality factor shared by all correction bands.
	Q float64

	// TargetDB is the level every band is driven toward (0 dB = flat).
	TargetDB float64

	// AccuracyDB is the convergence target: the session stops once the
	// largest residual is within ±AccuracyDB of TargetDB.
	AccuracyDB float64

	// MaxIterations bounds the number of measurement passes (the initial
	// uncorrected pass plus up to MaxIterations-1 corrected passes).
	MaxIterations int

	// Damping scales each refinement step. Full-strength reapplication
	// overshoots because adjacent correction bands interact; 0.7 is an
	// empirical choice, not derived analytically.
	Damping float64

	// Offsets is the per-band capture correction. nil means flat.
	Offsets OffsetTable
}

// Option mutates a Config.
type Option func(*Config)

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBands replaces the band plan.
func WithBands(freqs []float64) Option {
	return func(cfg *Config) {
		if len(freqs) > 0 {
			cfg.BandFrequencies = append([]float64(nil), freqs...)
		}
	}
}

// WithOffsets sets the capture offset table.
func WithOffsets(offsets OffsetTable) Option {
	return func(cfg *Config) {
		cfg.Offsets = append(OffsetTable(nil), offsets...)
	}
}

// WithMaxIterations bounds the number of measurement passes.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithAccuracy sets the convergence target in dB.
func WithAccuracy(db float64) Option {
	return func(cfg *Config) {
		if db > 0 {
			cfg.AccuracyDB = db
		}
	}
}

// WithDamping sets the refinement damping factor.
func WithDamping(factor float64) Option {
	return func(cfg *Config) {
		if factor > 0 && factor <= 1 {
			cfg.Damping = factor
		}
	}
}

// WithGainLimit sets the per-band correction bound in dB.
func WithGainLimit(db float64) Option {
	return func(cfg *Config) {
		if db > 0 {
			cfg.GainLimitDB = db
		}
	}
}

// WithQ sets the shared correction quality factor.
func WithQ(q float64) Option {
	return func(cfg *Config) {
		if q > 0 {
			cfg.Q = q
		}
	}
}

// WithToneTiming sets the settling and analysis durations.
func WithToneTiming(settling, analysis time.Duration) Option {
	return func(cfg *Config) {
		if settling > 0 && analysis > 0 {
			cfg.Settling = settling
			cfg.Analysis = analysis
		}
	}
}

// DefaultConfig returns the validated default configuration.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		BandFrequencies: DefaultBandFrequencies(),
		Settling:        DefaultSettling,
		Analysis:        DefaultAnalysis,
		ToneAmplitude:   DefaultToneAmplitude,
		FadeSamples:     DefaultFadeSamples,
		GainLimitDB:     DefaultGainLimitDB,
		Q:               DefaultQ,
		TargetDB:        DefaultTargetDB,
		AccuracyDB:      DefaultAccuracyDB,
		MaxIterations:   DefaultMaxIterations,
		Damping:         DefaultDamping,
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// SettlingSamples returns the settling prefix length in samples.
func (cfg *Config) SettlingSamples() int {
	return int(cfg.Settling.Seconds() * cfg.SampleRate)
}

// AnalysisSamples returns the analysis window length in samples.
func (cfg *Config) AnalysisSamples() int {
	return int(cfg.Analysis.Seconds() * cfg.SampleRate)
}

// ToneSamples returns the full per-band stimulus length in samples.
func (cfg *Config) ToneSamples() int {
	return cfg.SettlingSamples() + cfg.AnalysisSamples()
}

// Validate checks the configuration for internal consistency.
func (cfg *Config) Validate() error {
	if cfg.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	if len(cfg.BandFrequencies) == 0 {
		return ErrNoBands
	}

	prev := 0.0
	for _, f := range cfg.BandFrequencies {
		if f <= 0 || f >= cfg.SampleRate/2 {
			return ErrBandRange
		}

		if f <= prev {
			return ErrBandOrder
		}

		prev = f
	}

	if cfg.Offsets != nil && len(cfg.Offsets) != len(cfg.BandFrequencies) {
		return ErrOffsetLength
	}

	if cfg.Settling <= 0 || cfg.Analysis <= 0 || cfg.AnalysisSamples() <= 0 {
		return ErrInvalidTiming
	}

	if cfg.FadeSamples < 0 || cfg.FadeSamples > cfg.SettlingSamples() {
		return ErrInvalidFade
	}

	if cfg.MaxIterations < 1 {
		return ErrInvalidIterations
	}

	if cfg.Damping <= 0 || cfg.Damping > 1 {
		return ErrInvalidDamping
	}

	if cfg.GainLimitDB <= 0 {
		return ErrInvalidGainLimit
	}

	if cfg.Q <= 0 {
		return ErrInvalidQ
	}

	if cfg.AccuracyDB <= 0 {
		return ErrInvalidAccuracy
	}

	if cfg.ToneAmplitude <= 0 || cfg.ToneAmplitude > 1 {
		return ErrInvalidAmplitude
	}

	return nil
}
