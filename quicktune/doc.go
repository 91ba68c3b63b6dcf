// Package quicktune implements closed-loop automatic room calibration for
// the low end of the audible spectrum.
//
// A calibration session plays a short sine tone per correction band through
// an AcousticPath, measures the captured level with a bin-aligned Goertzel
// detector, and derives a cascade of peaking filters that flattens the room
// response at the band centers. Rooms with strong modal behavior rarely
// flatten in one step because adjacent correction bands interact, so the
// session re-measures through its own correction and refines the gains with
// damped steps, up to a fixed iteration budget.
//
// The package is transport-agnostic: it neither opens audio devices nor
// touches an EQ runtime. Callers provide the loudspeaker-room-microphone
// loop as an AcousticPath and apply the resulting coefficient cascade
// themselves (Result.CorrectionCoefficients).
//
// A minimal session:
//
//	tuner, err := quicktune.New(
//		quicktune.WithOffsets(micOffsets),
//	)
//	if err != nil {
//		return err
//	}
//
//	result, err := tuner.Run(ctx, devicePath)
//	if err != nil {
//		return err
//	}
//
//	coeffs, err := result.CorrectionCoefficients()
package quicktune
