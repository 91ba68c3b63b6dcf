// Package biquad implements second-order IIR filter sections and ordered
// cascades in Direct Form II Transposed, plus closed-form frequency
// response evaluation.
package biquad
