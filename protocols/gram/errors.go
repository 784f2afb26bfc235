package gram

import "errors"

// These are the error kinds the protocol distinguishes internally (spec
// §7). They are diagnostic only: a caller sees one failure indicator either
// way, never a partial result, but logs and tests can match on these with
// errors.Is to tell kinds apart.
var (
	// ErrMalformedMessage covers a received vector whose length disagrees
	// with the row it is combined with. Short reads and decode failures of
	// a frame are not reported under this kind: they surface as
	// ErrTransport, with the wire package's ErrMalformed text in the
	// message but not in the errors.Is chain.
	ErrMalformedMessage = errors.New("gram: malformed message")
	// ErrTransport covers any send/recv failure, including a received
	// frame that is truncated or fails to decode.
	ErrTransport = errors.New("gram: transport failure")
	// ErrInvalidOwnership covers GetOwner failing or returning the
	// trusted initializer for a real row.
	ErrInvalidOwnership = errors.New("gram: invalid ownership")
	// ErrDimensionMismatch covers input matrix/vector shapes disagreeing
	// with the round Config.
	ErrDimensionMismatch = errors.New("gram: dimension mismatch")
)
