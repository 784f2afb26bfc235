package gram

import (
	"fmt"

	"github.com/luxfi/ipshare/pkg/party"
	"github.com/luxfi/ipshare/pkg/randsource"
	"github.com/luxfi/ipshare/pkg/transport"
	"github.com/luxfi/ipshare/pkg/wire"
)

// RunInitializer executes the trusted initializer's side of one round. For
// every pair (i, j), j <= i <= D, j < D, whose rows are owned by two
// distinct data parties, it samples a fresh Beaver-style triple (x, y, r)
// and ships {y, xy-r} to the owner of i and {x, r} to the owner of j, in
// that order. It retains no per-pair state once both sends complete, and
// never sees a row, a share, or the Gram matrix itself.
//
// peers must contain a channel to every data party that could be a pair
// endpoint under cfg's partition; src supplies the correlated randomness.
func RunInitializer(cfg *Config, peers map[party.ID]*transport.Channel, src randsource.Source) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	for i := 0; i <= cfg.D; i++ {
		jMax := i
		if jMax > cfg.D-1 {
			jMax = cfg.D - 1
		}
		for j := 0; j <= jMax; j++ {
			a, err := cfg.GetOwner(i)
			if err != nil {
				return err
			}
			b, err := cfg.GetOwner(j)
			if err != nil {
				return err
			}
			if a == b {
				continue
			}

			x, err := randsource.Vector(src, cfg.N)
			if err != nil {
				return fmt.Errorf("gram: sampling x for (%d,%d): %w", i, j, err)
			}
			y, err := randsource.Vector(src, cfg.N)
			if err != nil {
				return fmt.Errorf("gram: sampling y for (%d,%d): %w", i, j, err)
			}
			r, err := randsource.Uint64(src)
			if err != nil {
				return fmt.Errorf("gram: sampling r for (%d,%d): %w", i, j, err)
			}
			xy := innerProduct(x, y)

			chA, ok := peers[a]
			if !ok {
				return fmt.Errorf("gram: no channel configured to party %s", a)
			}
			chB, ok := peers[b]
			if !ok {
				return fmt.Errorf("gram: no channel configured to party %s", b)
			}

			if err := chA.Send(wire.Message{Vector: y, Value: xy - r}); err != nil {
				return fmt.Errorf("%w: sending triple half to %s for (%d,%d): %v", ErrTransport, a, i, j, err)
			}
			if err := chB.Send(wire.Message{Vector: x, Value: r}); err != nil {
				return fmt.Errorf("%w: sending triple half to %s for (%d,%d): %v", ErrTransport, b, i, j, err)
			}
		}
	}
	return nil
}
