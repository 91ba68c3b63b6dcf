// Package spectrum provides single-bin and spectrum-domain analysis helpers.
//
// Its centerpiece is the Goertzel analyzer used for tone-based level
// measurement. The package does not implement FFT itself; the magnitude and
// power helpers operate on complex bins produced by external FFT backends.
package spectrum
