package quicktune

import "errors"

// Errors returned by configuration validation and calibration sessions.
var (
	ErrSessionActive     = errors.New("quicktune: calibration session already active")
	ErrNilPath           = errors.New("quicktune: acoustic path must not be nil")
	ErrCaptureShort      = errors.New("quicktune: capture shorter than stimulus")
	ErrInvalidSampleRate = errors.New("quicktune: sample rate must be positive")
	ErrNoBands           = errors.New("quicktune: at least one band is required")
	ErrBandOrder         = errors.New("quicktune: band frequencies must be strictly ascending")
	ErrBandRange         = errors.New("quicktune: band frequency outside (0, sampleRate/2)")
	ErrOffsetLength      = errors.New("quicktune: offset table length must match band count")
	ErrInvalidTiming     = errors.New("quicktune: settling and analysis durations must be positive")
	ErrInvalidFade       = errors.New("quicktune: fade must be non-negative and fit inside the settling prefix")
	ErrInvalidIterations = errors.New("quicktune: max iterations must be >= 1")
	ErrInvalidDamping    = errors.New("quicktune: damping factor must be in (0, 1]")
	ErrInvalidGainLimit  = errors.New("quicktune: gain limit must be positive")
	ErrInvalidQ          = errors.New("quicktune: quality factor must be positive")
	ErrInvalidAccuracy   = errors.New("quicktune: target accuracy must be positive")
	ErrInvalidAmplitude  = errors.New("quicktune: tone amplitude must be in (0, 1]")
)
