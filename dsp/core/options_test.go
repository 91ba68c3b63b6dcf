package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(44100), WithBlockSize(32))
	if cfg.SampleRate != 44100 || cfg.BlockSize != 32 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// Invalid values keep defaults.
	cfg = ApplyProcessorOptions(WithSampleRate(-1), WithBlockSize(0), nil)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("got %+v, want defaults %+v", cfg, def)
	}
}
