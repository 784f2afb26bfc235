// Package gram implements the inner-product secret-sharing protocol that
// produces additive shares of the Gram matrix A = Xᵀ·X and cross-vector
// b = Xᵀ·y across two or more data parties, assisted by one trusted
// initializer that supplies correlated randomness and sees no private data.
package gram

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/luxfi/ipshare/pkg/party"
)

var canonicalEncMode = mustCanonicalEncMode()

func mustCanonicalEncMode() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		// CanonicalEncOptions() is a fixed literal; it cannot fail to
		// produce a valid EncMode.
		panic(err)
	}
	return em
}

// Config is the immutable-once-built round configuration every data party
// and the trusted initializer must agree on before a round starts: the
// dimensions of X and y, the fixed-point precision, and the partition of
// feature rows (plus the synthetic target row) across data parties.
type Config struct {
	NumParties int      `cbor:"num_parties"`
	N          int      `cbor:"n"`
	D          int      `cbor:"d"`
	IndexOwned []uint32 `cbor:"index_owned"`
	Precision  uint     `cbor:"precision"`
}

// NewConfig builds a Config from the partition boundaries of the data
// parties. boundaries must have length numParties: boundaries[k] is the
// first feature row (column of X) party k owns, for k in [1, numParties);
// boundaries[0] is conventionally 0 and plays no part in ownership, since
// party 0 is the trusted initializer and owns no row; Validate still
// requires it not to exceed boundaries[1]. The synthetic target row D is
// always appended to the last data party's range, regardless of what
// boundaries supplies for it.
func NewConfig(numParties, n, d int, boundaries []uint32, precision uint) (*Config, error) {
	if n <= 0 || d <= 0 {
		return nil, fmt.Errorf("gram: n and d must be positive, got n=%d d=%d", n, d)
	}
	if len(boundaries) != numParties {
		return nil, fmt.Errorf("gram: index_owned must have length num_parties (%d), got %d", numParties, len(boundaries))
	}
	indexOwned := make([]uint32, numParties+1)
	copy(indexOwned, boundaries)
	indexOwned[numParties] = uint32(d) + 1
	cfg := &Config{
		NumParties: numParties,
		N:          n,
		D:          d,
		IndexOwned: indexOwned,
		Precision:  precision,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural invariants every orchestrator assumes
// hold for the lifetime of a round: a legal party count, a correctly sized
// and monotonic partition, and full coverage of every row in [0, D] by
// GetOwner.
func (c *Config) Validate() error {
	if c.NumParties < 3 {
		return fmt.Errorf("gram: num_parties must be >= 3, got %d", c.NumParties)
	}
	if c.N <= 0 || c.D <= 0 {
		return fmt.Errorf("gram: n and d must be positive, got n=%d d=%d", c.N, c.D)
	}
	if len(c.IndexOwned) != c.NumParties+1 {
		return fmt.Errorf("gram: index_owned has length %d, want %d", len(c.IndexOwned), c.NumParties+1)
	}
	if c.IndexOwned[c.NumParties] != uint32(c.D)+1 {
		return fmt.Errorf("gram: index_owned sentinel must equal d+1")
	}
	for k := 1; k < len(c.IndexOwned); k++ {
		if c.IndexOwned[k] < c.IndexOwned[k-1] {
			return fmt.Errorf("gram: index_owned must be non-decreasing")
		}
	}
	for r := 0; r <= c.D; r++ {
		if _, err := c.GetOwner(r); err != nil {
			return fmt.Errorf("gram: partition does not cover row %d: %w", r, err)
		}
	}
	return nil
}

// GetOwner returns the data party that owns row r: a feature column index
// in [0, D), or the synthetic target row D. It is total on [0, D] for any
// config that passed Validate, and always returns a party in
// [1, NumParties) — the trusted initializer never owns a row.
func (c *Config) GetOwner(r int) (party.ID, error) {
	if r < 0 || r > c.D {
		return 0, fmt.Errorf("%w: row %d out of range [0, %d]", ErrInvalidOwnership, r, c.D)
	}
	p := 1
	for p+1 < c.NumParties && c.IndexOwned[p+1] <= uint32(r) {
		p++
	}
	if p < 1 || p >= c.NumParties {
		return 0, fmt.Errorf("%w: no owner found for row %d", ErrInvalidOwnership, r)
	}
	return party.ID(p), nil
}

// Marshal encodes c canonically (stable map key order), so the result is
// reproducible across parties for a given Config.
func (c *Config) Marshal() ([]byte, error) {
	data, err := canonicalEncMode.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("gram: marshal config: %w", err)
	}
	return data, nil
}

// UnmarshalConfig decodes and validates a Config previously produced by
// Config.Marshal.
func UnmarshalConfig(data []byte) (*Config, error) {
	var c Config
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("gram: unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
