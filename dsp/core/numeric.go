package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampInPlace clamps every element of buf to [min, max].
func ClampInPlace(buf []float64, min, max float64) {
	for i, v := range buf {
		buf[i] = Clamp(v, min, max)
	}
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// MaxAbs returns the largest absolute value in buf, or 0 for an empty slice.
func MaxAbs(buf []float64) float64 {
	maxAbs := 0.0

	for _, v := range buf {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	return maxAbs
}

// RMS returns the root-mean-square of buf, or 0 for an empty slice.
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range buf {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(buf)))
}
