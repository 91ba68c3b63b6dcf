package quicktune

// AcousticPath is the loudspeaker-room-microphone loop the calibration
// stimulates. Implementations play the stimulus and return the synchronous
// capture; the capture must be at least as long as the stimulus, aligned
// sample-for-sample with it.
//
// A failed or truncated capture must be reported as an error. The session
// treats any path error as fatal and publishes no gains (a silently
// zero-filled capture would instead be measured as a −120 dB room and
// corrected with full boost).
//
// The returned slice is not modified by the caller.
type AcousticPath interface {
	PlayAndCapture(stimulus []float64) ([]float64, error)
}

// PathFunc adapts a function to the AcousticPath interface.
type PathFunc func(stimulus []float64) ([]float64, error)

// PlayAndCapture calls f.
func (f PathFunc) PlayAndCapture(stimulus []float64) ([]float64, error) {
	return f(stimulus)
}
