package gram

// Shares holds one data party's additive shares of the Gram matrix and
// cross-vector. Summing Shares.A and Shares.B elementwise, mod 2^64, across
// every data party recovers the fixed-point-scaled Gram matrix and
// cross-vector.
type Shares struct {
	// A is dense lower-triangular storage of length D*(D+1)/2, addressed
	// by idxA(i, j) for 0 <= j <= i < D.
	A []uint64
	// B has length D.
	B []uint64
}

func newShares(d int) *Shares {
	return &Shares{
		A: make([]uint64, d*(d+1)/2),
		B: make([]uint64, d),
	}
}

// idxA returns the canonical storage slot for the Gram entry (i, j),
// j <= i < D.
func idxA(i, j int) int {
	return i*(i+1)/2 + j
}
