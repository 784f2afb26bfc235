package gram_test

import (
	"net"
	"testing"

	"github.com/luxfi/ipshare/pkg/transport"
	"github.com/luxfi/ipshare/protocols/gram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDataPartyRejectsWrongDataLength(t *testing.T) {
	cfg, err := gram.NewConfig(3, 2, 2, []uint32{0, 0, 1}, 0)
	require.NoError(t, err)

	_, conn := net.Pipe()
	defer conn.Close()

	_, err = gram.RunDataParty(cfg, 1, transport.New(conn), nil, []uint64{1, 2, 3}, []uint64{1, 2})
	assert.ErrorIs(t, err, gram.ErrDimensionMismatch)
}

func TestRunDataPartyRejectsWrongTargetLength(t *testing.T) {
	cfg, err := gram.NewConfig(3, 2, 2, []uint32{0, 0, 1}, 0)
	require.NoError(t, err)

	_, conn := net.Pipe()
	defer conn.Close()

	_, err = gram.RunDataParty(cfg, 1, transport.New(conn), nil, make([]uint64, 4), []uint64{1, 2, 3})
	assert.ErrorIs(t, err, gram.ErrDimensionMismatch)
}
