package roomsim

// Preset modal descriptions covering the room types the calibration loop has
// to handle. Gains and quality factors are representative of measured small
// listening rooms, not fits of any particular one.

// FlatRoom returns no modes: the ideal anechoic case.
func FlatRoom() []Mode { return nil }

// StrongBassBuildup models a small room with pronounced low-mid buildup and a
// mild dip below the lowest mode.
func StrongBassBuildup() []Mode {
	return []Mode{
		{Frequency: 50, GainDB: 8, Q: 3},
		{Frequency: 80, GainDB: 6, Q: 2.5},
		{Frequency: 35, GainDB: -3, Q: 1},
	}
}

// BassNull models a listening position near a cancellation: a deep notch at
// 100 Hz with moderate buildup around it.
func BassNull() []Mode {
	return []Mode{
		{Frequency: 100, GainDB: -8, Q: 2},
		{Frequency: 60, GainDB: 3, Q: 1.5},
		{Frequency: 150, GainDB: 2, Q: 1.5},
	}
}

// ModerateRipple models a well-behaved but not flat room.
func ModerateRipple() []Mode {
	return []Mode{
		{Frequency: 45, GainDB: 5, Q: 2},
		{Frequency: 120, GainDB: -4, Q: 1.8},
		{Frequency: 250, GainDB: 2, Q: 1.2},
	}
}

// SevereModes models a hard room with alternating strong peaks and nulls
// across the whole correction range.
func SevereModes() []Mode {
	return []Mode{
		{Frequency: 40, GainDB: 11, Q: 3},
		{Frequency: 63, GainDB: -9, Q: 2.5},
		{Frequency: 100, GainDB: 7, Q: 2},
		{Frequency: 160, GainDB: -5, Q: 1.5},
	}
}
