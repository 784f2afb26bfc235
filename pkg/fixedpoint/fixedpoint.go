// Package fixedpoint implements the protocol's one fixed-point conversion:
// scaling a raw double down by 1/sqrt(2^p*d*n) before it enters the
// pair sweep, so that summing n products of d rescaled values stays within
// a signed 64-bit range for typical regression inputs.
package fixedpoint

import "math"

// Encode scales v by 1/sqrt(2^precision*d*n), rounds to the nearest
// integer, and returns that signed 64-bit fixed-point value reinterpreted
// bitwise as an unsigned word for mod-2^64 protocol arithmetic.
func Encode(v float64, precision uint, d, n int) uint64 {
	scale := math.Sqrt(math.Pow(2, float64(precision)) * float64(d) * float64(n))
	return uint64(int64(math.Round(v / scale)))
}

// Decode reinterprets a protocol word as a signed fixed-point number with
// precision fractional bits, for display only — it does not undo the
// pair-sweep rescale, which is only meaningful once d*n terms have been
// summed by the protocol itself.
func Decode(v uint64, precision uint) float64 {
	return float64(int64(v)) / math.Pow(2, float64(precision))
}

// EncodeMatrix applies Encode elementwise over a row-major n-by-d matrix.
func EncodeMatrix(v []float64, precision uint, d, n int) []uint64 {
	out := make([]uint64, len(v))
	for i, x := range v {
		out[i] = Encode(x, precision, d, n)
	}
	return out
}

// EncodeVector applies Encode elementwise over a length-n vector.
func EncodeVector(v []float64, precision uint, d, n int) []uint64 {
	return EncodeMatrix(v, precision, d, n)
}
