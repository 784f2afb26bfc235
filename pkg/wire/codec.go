package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// wordSize is the width, in bytes, of the length prefix framing every
// message. The reference protocol ties this to the host's native word size
// since a deployment is assumed homogeneous ("interop is within one
// deployment, not cross-architecture"); this implementation pins it to 8
// bytes rather than querying the host, which is the native word size for
// every 64-bit platform this protocol meaningfully runs on.
const wordSize = 8

// ErrMalformed is returned — wrapped with more detail — for every framing
// or decode failure: a short read of the length prefix, a short read of the
// payload, or a payload that fails to decode. The protocol distinguishes
// these only for diagnostics; callers should match on ErrMalformed alone.
var ErrMalformed = errors.New("wire: malformed message")

func byteOrder() binary.ByteOrder { return binary.NativeEndian }

// Encode packs m into its wire payload: a word giving the vector length,
// the vector words themselves, then the scalar value — all in host-native
// byte order.
func Encode(m Message) []byte {
	buf := make([]byte, wordSize+len(m.Vector)*8+8)
	bo := byteOrder()
	bo.PutUint64(buf[0:wordSize], uint64(len(m.Vector)))
	off := wordSize
	for _, w := range m.Vector {
		bo.PutUint64(buf[off:off+8], w)
		off += 8
	}
	bo.PutUint64(buf[off:off+8], m.Value)
	return buf
}

// Decode reverses Encode.
func Decode(payload []byte) (Message, error) {
	if len(payload) < wordSize+8 {
		return Message{}, fmt.Errorf("%w: payload of %d bytes too short", ErrMalformed, len(payload))
	}
	bo := byteOrder()
	n := bo.Uint64(payload[0:wordSize])
	body := uint64(len(payload) - wordSize - 8)
	if body%8 != 0 || n != body/8 {
		return Message{}, fmt.Errorf("%w: length prefix %d disagrees with payload size %d", ErrMalformed, n, len(payload))
	}
	vec := make([]uint64, n)
	off := wordSize
	for i := range vec {
		vec[i] = bo.Uint64(payload[off : off+8])
		off += 8
	}
	value := bo.Uint64(payload[off : off+8])
	return Message{Vector: vec, Value: value}, nil
}

// WriteTo frames m with its length prefix and writes it to w in a single
// call, failing if the transport accepts fewer bytes than were given.
func WriteTo(w io.Writer, m Message) error {
	payload := Encode(m)
	frame := make([]byte, wordSize+len(payload))
	byteOrder().PutUint64(frame[:wordSize], uint64(len(payload)))
	copy(frame[wordSize:], payload)
	n, err := w.Write(frame)
	if err != nil {
		return fmt.Errorf("wire: write: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("wire: short write: wrote %d of %d bytes", n, len(frame))
	}
	return nil
}

// ReadFrom reads exactly one framed message from r, surfacing any short
// read or decode failure as ErrMalformed per the protocol's error taxonomy.
func ReadFrom(r io.Reader) (Message, error) {
	var lenBuf [wordSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Message{}, fmt.Errorf("%w: reading length prefix: %v", ErrMalformed, err)
	}
	n := byteOrder().Uint64(lenBuf[:])
	payload, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return Message{}, fmt.Errorf("%w: reading payload: %v", ErrMalformed, err)
	}
	if uint64(len(payload)) != n {
		return Message{}, fmt.Errorf("%w: reading payload: got %d of %d bytes", ErrMalformed, len(payload), n)
	}
	return Decode(payload)
}
