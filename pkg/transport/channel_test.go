package transport_test

import (
	"net"
	"testing"
	"time"

	"github.com/luxfi/ipshare/pkg/transport"
	"github.com/luxfi/ipshare/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRecvRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	client := transport.New(clientConn)
	server := transport.New(serverConn)

	want := wire.Message{Vector: []uint64{10, 20, 30}, Value: 99}
	sendErr := make(chan error, 1)
	go func() { sendErr <- client.Send(want) }()

	got, err := server.Recv()
	require.NoError(t, err)
	assert.Equal(t, want.Vector, got.Vector)
	assert.Equal(t, want.Value, got.Value)
	require.NoError(t, <-sendErr)
}

func TestSendBlocksUntilAcknowledged(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	client := transport.New(clientConn)
	server := transport.New(serverConn)

	sendDone := make(chan struct{})
	go func() {
		_ = client.Send(wire.Message{Vector: []uint64{1}, Value: 1})
		close(sendDone)
	}()

	select {
	case <-sendDone:
		t.Fatal("Send returned before the peer acknowledged")
	case <-time.After(20 * time.Millisecond):
	}

	_, err := server.Recv()
	require.NoError(t, err)

	select {
	case <-sendDone:
	case <-time.After(time.Second):
		t.Fatal("Send did not unblock after Recv acknowledged")
	}
}
