package gram_test

import (
	"testing"

	"github.com/luxfi/ipshare/pkg/party"
	"github.com/luxfi/ipshare/protocols/gram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOwnerCoversEveryRowExactlyOnce(t *testing.T) {
	cfg, err := gram.NewConfig(4, 5, 3, []uint32{0, 0, 1, 2}, 0)
	require.NoError(t, err)

	owners := make(map[int]party.ID)
	for r := 0; r <= cfg.D; r++ {
		p, err := cfg.GetOwner(r)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, int(p), 1)
		assert.Less(t, int(p), cfg.NumParties)
		owners[r] = p
	}
	assert.Equal(t, party.ID(1), owners[0])
	assert.Equal(t, party.ID(2), owners[1])
	assert.Equal(t, party.ID(3), owners[2])
	assert.Equal(t, party.ID(3), owners[3]) // target, owned by the last party
}

func TestGetOwnerRejectsOutOfRangeRow(t *testing.T) {
	cfg, err := gram.NewConfig(3, 2, 2, []uint32{0, 0, 1}, 0)
	require.NoError(t, err)

	_, err = cfg.GetOwner(cfg.D + 1)
	assert.ErrorIs(t, err, gram.ErrInvalidOwnership)

	_, err = cfg.GetOwner(-1)
	assert.ErrorIs(t, err, gram.ErrInvalidOwnership)
}

func TestNewConfigRejectsWrongBoundaryLength(t *testing.T) {
	_, err := gram.NewConfig(3, 2, 2, []uint32{0, 0}, 0)
	assert.Error(t, err)
}

func TestNewConfigRejectsNonPositiveDimensions(t *testing.T) {
	_, err := gram.NewConfig(3, 0, 2, []uint32{0, 0, 1}, 0)
	assert.Error(t, err)

	_, err = gram.NewConfig(3, 2, 0, []uint32{0, 0, 1}, 0)
	assert.Error(t, err)
}

func TestConfigMarshalUnmarshalRoundTrip(t *testing.T) {
	cfg, err := gram.NewConfig(4, 5, 3, []uint32{0, 0, 1, 2}, 8)
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)

	got, err := gram.UnmarshalConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
