package quicktune

// OffsetTable holds a fixed per-band capture correction in dB. It compensates
// known non-flatness of the capture transducer (typically MEMS microphone
// roll-off below ~60 Hz) and is added to every measured level before any
// decision is made on it.
//
// Values are provisioned per physical device during factory calibration; this
// package only consumes them. A nil table means a flat (ideal) capture chain.
type OffsetTable []float64

// Lookup returns the offset in dB for the given band index.
// Out-of-range indices read as 0 dB.
func (t OffsetTable) Lookup(band int) float64 {
	if band < 0 || band >= len(t) {
		return 0
	}

	return t[band]
}

// FlatOffsets returns an all-zero table for n bands.
func FlatOffsets(n int) OffsetTable {
	if n <= 0 {
		return nil
	}

	return make(OffsetTable, n)
}

// TypicalMEMSOffsets returns a representative table for the default ten-band
// plan, boosting the lowest bands where a typical MEMS capsule rolls off
// (+3 dB at 25 Hz, +1.5 dB at 40 Hz, flat above). Real devices should use
// their factory-measured table instead.
func TypicalMEMSOffsets() OffsetTable {
	return OffsetTable{3.0, 1.5, 0, 0, 0, 0, 0, 0, 0, 0}
}
