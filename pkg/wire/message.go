// Package wire implements the single length-prefixed message shape used for
// every exchange in the inner-product secret-sharing protocol: the trusted
// initializer's triple halves, and the two Beaver-triple rounds between
// data-party owners.
package wire

// Message is that one shape. Which field carries which operand, and what it
// means, depends entirely on who sent it and in what role — see the gram
// package's orchestrators.
type Message struct {
	Vector []uint64
	Value  uint64
}
