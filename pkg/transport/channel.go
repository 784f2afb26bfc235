// Package transport abstracts the reliable, ordered, bidirectional byte
// stream the protocol needs to one specific peer — deliberately nothing
// fancier. Establishing the underlying connection (TCP dial/listen, or an
// in-memory pipe for tests) is the caller's job; Channel only frames and
// acknowledges messages on top of whatever io.ReadWriter it is given.
package transport

import (
	"fmt"
	"io"

	"github.com/luxfi/ipshare/pkg/wire"
)

// Channel is a single peer connection carrying the protocol's one message
// shape. Every Send blocks until the peer's matching Recv has consumed the
// message and acknowledged it, and every Recv acknowledges as soon as it
// has decoded a message — this is the "post-send zero-length receive"
// barrier the protocol uses to keep a sender from racing ahead of whatever
// the receiver does next.
//
// A Channel is not safe for concurrent use: the protocol is single-threaded
// per party, and a Channel's Send/Recv calls are always issued from the one
// goroutine running that party's pair sweep.
type Channel struct {
	rw io.ReadWriter
}

// New wraps rw — typically a net.Conn, but any full-duplex io.ReadWriter
// works, including net.Pipe for tests.
func New(rw io.ReadWriter) *Channel {
	return &Channel{rw: rw}
}

// Send writes msg in full, then blocks for the peer's acknowledgement.
func (c *Channel) Send(msg wire.Message) error {
	if err := wire.WriteTo(c.rw, msg); err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	if err := c.recvAck(); err != nil {
		return fmt.Errorf("transport: send: waiting for ack: %w", err)
	}
	return nil
}

// Recv blocks for exactly one message, acknowledges it, and returns it.
func (c *Channel) Recv() (wire.Message, error) {
	msg, err := wire.ReadFrom(c.rw)
	if err != nil {
		return wire.Message{}, fmt.Errorf("transport: recv: %w", err)
	}
	if err := c.sendAck(); err != nil {
		return wire.Message{}, fmt.Errorf("transport: recv: sending ack: %w", err)
	}
	return msg, nil
}

// ack is a fixed zero word: the "zero-length receive" the protocol
// describes, realized as an explicit empty frame rather than relying on a
// transport where a zero-byte read is itself a synchronizing operation.
var ack [8]byte

func (c *Channel) sendAck() error {
	n, err := c.rw.Write(ack[:])
	if err != nil {
		return err
	}
	if n != len(ack) {
		return io.ErrShortWrite
	}
	return nil
}

func (c *Channel) recvAck() error {
	var buf [8]byte
	_, err := io.ReadFull(c.rw, buf[:])
	return err
}
