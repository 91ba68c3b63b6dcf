package tone

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-quicktune/dsp/core"
)

// Oscillator is a second-order recursive sine oscillator:
//
//	y[n] = 2*cos(w0)*y[n-1] - y[n-2]
//
// seeded so the emitted sequence is sin(0), sin(w0), sin(2*w0), ...
// Generation costs two multiplies and one add per sample, with no
// trigonometric calls after construction.
type Oscillator struct {
	coeff  float64
	y1, y2 float64
}

// NewOscillator creates an oscillator for the given frequency.
//
// frequency must lie strictly between 0 and sampleRate/2.
func NewOscillator(frequency, sampleRate float64) (*Oscillator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tone: sample rate must be > 0: %v", sampleRate)
	}

	if frequency <= 0 || frequency >= sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("tone: frequency must be between 0 and sampleRate/2: %v", frequency)
	}

	w0 := 2 * math.Pi * frequency / sampleRate

	return &Oscillator{
		coeff: 2 * math.Cos(w0),
		y1:    -math.Sin(w0),
		y2:    -math.Sin(2 * w0),
	}, nil
}

// Step advances the recursion by one sample and returns the emitted value.
func (o *Oscillator) Step() float64 {
	y := o.coeff*o.y1 - o.y2
	o.y2 = o.y1
	o.y1 = y

	return y
}

// Fill writes consecutive oscillator samples into buf.
func (o *Oscillator) Fill(buf []float64) {
	coeff := o.coeff
	y1, y2 := o.y1, o.y2

	for i := range buf {
		y := coeff*y1 - y2
		y2 = y1
		y1 = y
		buf[i] = y
	}

	o.y1, o.y2 = y1, y2
}

// Generator renders fade-shaped sine stimuli from a shared configuration.
type Generator struct {
	cfg         core.ProcessorConfig
	amplitude   float64
	fadeSamples int
}

// Option configures a Generator.
type Option func(*Generator)

// WithAmplitude sets the stimulus peak amplitude (default 0.5 full scale).
func WithAmplitude(amplitude float64) Option {
	return func(g *Generator) {
		if amplitude > 0 {
			g.amplitude = amplitude
		}
	}
}

// WithFadeSamples sets the linear fade-in/out length in samples
// (default 480, i.e. 10 ms at 48 kHz).
func WithFadeSamples(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.fadeSamples = n
		}
	}
}

// NewGenerator creates a configured stimulus generator.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:         core.ApplyProcessorOptions(coreOpts...),
		amplitude:   0.5,
		fadeSamples: 480,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Render produces a fade-shaped sine stimulus of the given length.
//
// The first and last fade lengths are amplitude-ramped linearly from and to
// zero to avoid discontinuity clicks at the loudspeaker.
func (g *Generator) Render(frequency float64, samples int) ([]float64, error) {
	return g.RenderInto(nil, frequency, samples)
}

// RenderInto is like Render but reuses dst capacity when possible.
func (g *Generator) RenderInto(dst []float64, frequency float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("tone: samples must be > 0: %d", samples)
	}

	osc, err := NewOscillator(frequency, g.cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	out := core.EnsureLen(dst, samples)
	osc.Fill(out)

	env := g.envelope(samples)
	vecmath.MulBlockInPlace(out, env)

	return out, nil
}

// envelope returns the amplitude envelope: constant amplitude with linear
// ramps over the first and last fadeSamples. Overlapping ramps (short
// stimuli) multiply.
func (g *Generator) envelope(samples int) []float64 {
	env := make([]float64, samples)
	for i := range env {
		env[i] = g.amplitude
	}

	fade := g.fadeSamples
	if fade <= 0 {
		return env
	}

	if fade > samples {
		fade = samples
	}

	for i := 0; i < fade; i++ {
		env[i] *= float64(i) / float64(g.fadeSamples)
	}

	for i := samples - fade; i < samples; i++ {
		env[i] *= float64(samples-i) / float64(g.fadeSamples)
	}

	return env
}
