package gram

import (
	"fmt"
	"time"

	"github.com/luxfi/ipshare/pkg/party"
	"github.com/luxfi/ipshare/pkg/transport"
	"github.com/luxfi/ipshare/pkg/wire"
)

// Result is what RunDataParty returns on success: the two share buffers and
// the diagnostic wait-time metric spec.md §5 describes. A failed round
// returns a nil Result — shares are never exposed partially (spec.md §7).
type Result struct {
	Shares *Shares
	// PeerWait is the cumulative time this party spent blocked in Recv on
	// the peer owner of the other operand during the cross-party
	// sub-protocol. It excludes time spent receiving from the trusted
	// initializer and has no protocol effect.
	PeerWait time.Duration
}

// RunDataParty executes one data party's side of a round. me is this
// party's identity; ti is the channel to the trusted initializer; peers
// indexes a channel to every other data party this party might exchange
// Beaver-triple halves with, keyed by the peer's ID. data holds this
// party's fixed-point-encoded feature matrix feature-major: the length-n
// vector for feature column r occupies data[r*N:(r+1)*N], since every
// access the pair sweep makes is "give me the whole vector for row r", not
// "give me sample k across all features". target is the length-n
// fixed-point-encoded target vector, i.e. the synthetic row D.
//
// For every pair (i, j), j <= i <= D, j < D, this party either does
// nothing (neither operand is local), computes the inner product directly
// (both operands are local), or runs the cross-party Beaver-triple exchange
// with whichever of {a, b} is not me. Pair enumeration matches
// RunInitializer exactly, giving the TI-then-peer round trip an implicit
// barrier with no extra synchronization messages.
func RunDataParty(cfg *Config, me party.ID, ti *transport.Channel, peers map[party.ID]*transport.Channel, data []uint64, target []uint64) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(data) != cfg.N*cfg.D {
		return nil, fmt.Errorf("%w: data has %d entries, want n*d=%d", ErrDimensionMismatch, len(data), cfg.N*cfg.D)
	}
	if len(target) != cfg.N {
		return nil, fmt.Errorf("%w: target has %d entries, want n=%d", ErrDimensionMismatch, len(target), cfg.N)
	}

	shares := newShares(cfg.D)
	var peerWait time.Duration

	row := func(r int) []uint64 {
		if r == cfg.D {
			return target
		}
		return data[r*cfg.N : (r+1)*cfg.N]
	}

	for i := 0; i <= cfg.D; i++ {
		jMax := i
		if jMax > cfg.D-1 {
			jMax = cfg.D - 1
		}
		for j := 0; j <= jMax; j++ {
			a, err := cfg.GetOwner(i)
			if err != nil {
				return nil, err
			}
			b, err := cfg.GetOwner(j)
			if err != nil {
				return nil, err
			}

			var share uint64
			switch {
			case a != me && b != me:
				// Case 1: not involved, no I/O.
				continue

			case a == b:
				// Case 2: both operands local, compute directly.
				share = innerProduct(row(i), row(j))

			case me == a:
				s, wait, err := runAsA(ti, peers[b], row(i))
				if err != nil {
					return nil, err
				}
				share = s
				peerWait += wait

			case me == b:
				s, wait, err := runAsB(ti, peers[a], row(j))
				if err != nil {
					return nil, err
				}
				share = s
				peerWait += wait

			default:
				continue
			}

			if i < cfg.D {
				shares.A[idxA(i, j)] = share
			} else {
				shares.B[j] = share
			}
		}
	}

	return &Result{Shares: shares, PeerWait: peerWait}, nil
}

// runAsA plays role A (owner of row i) in the cross-party sub-protocol: it
// receives {y, xy-r} from the TI, then must receive B's blinded vector
// before it sends its own — B's send is the reply A's own send depends on,
// so receiving first is what keeps the pair from deadlocking (spec.md
// §4.7: "A must receive before it sends").
func runAsA(ti *transport.Channel, peer *transport.Channel, myRow []uint64) (uint64, time.Duration, error) {
	mTI, err := ti.Recv()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: A receiving TI triple half: %v", ErrTransport, err)
	}
	y := mTI.Vector
	xyMinusR := mTI.Value
	if len(y) != len(myRow) {
		return 0, 0, fmt.Errorf("%w: A's TI vector has %d entries, row has %d", ErrMalformedMessage, len(y), len(myRow))
	}

	start := time.Now()
	mPeer, err := peer.Recv()
	wait := time.Since(start)
	if err != nil {
		return 0, wait, fmt.Errorf("%w: A receiving B's blinded row: %v", ErrTransport, err)
	}
	if len(mPeer.Vector) != len(y) {
		return 0, wait, fmt.Errorf("%w: B's blinded vector has %d entries, want %d", ErrMalformedMessage, len(mPeer.Vector), len(y))
	}

	blinded := subVec(myRow, y)
	if err := peer.Send(wire.Message{Vector: blinded, Value: 0}); err != nil {
		return 0, wait, fmt.Errorf("%w: A sending blinded row to B: %v", ErrTransport, err)
	}

	share := innerProduct(mPeer.Vector, y) - xyMinusR
	return share, wait, nil
}

// runAsB plays role B (owner of row j): it receives {x, r} from the TI,
// then must send its blinded vector before receiving A's — B's send is
// the message A's own receive is waiting on, so sending first is what
// keeps the pair from deadlocking (spec.md §4.7: "B must send before it
// receives").
func runAsB(ti *transport.Channel, peer *transport.Channel, myRow []uint64) (uint64, time.Duration, error) {
	mTI, err := ti.Recv()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: B receiving TI triple half: %v", ErrTransport, err)
	}
	x := mTI.Vector
	r := mTI.Value
	if len(x) != len(myRow) {
		return 0, 0, fmt.Errorf("%w: B's TI vector has %d entries, row has %d", ErrMalformedMessage, len(x), len(myRow))
	}

	blinded := addVec(myRow, x)
	if err := peer.Send(wire.Message{Vector: blinded, Value: 0}); err != nil {
		return 0, 0, fmt.Errorf("%w: B sending blinded row to A: %v", ErrTransport, err)
	}

	start := time.Now()
	mPeer, err := peer.Recv()
	wait := time.Since(start)
	if err != nil {
		return 0, wait, fmt.Errorf("%w: B receiving A's blinded row: %v", ErrTransport, err)
	}
	if len(mPeer.Vector) != len(myRow) {
		return 0, wait, fmt.Errorf("%w: A's blinded vector has %d entries, want %d", ErrMalformedMessage, len(mPeer.Vector), len(myRow))
	}

	share := innerProduct(mPeer.Vector, myRow) - r
	return share, wait, nil
}

// innerProduct computes the mod-2^64 dot product of two equal-length
// vectors, relying on unsigned 64-bit wraparound for reduction.
func innerProduct(x, y []uint64) uint64 {
	var sum uint64
	for k := range x {
		sum += x[k] * y[k]
	}
	return sum
}

// addVec returns x+y elementwise, mod 2^64.
func addVec(x, y []uint64) []uint64 {
	out := make([]uint64, len(x))
	for k := range x {
		out[k] = x[k] + y[k]
	}
	return out
}

// subVec returns x-y elementwise, mod 2^64.
func subVec(x, y []uint64) []uint64 {
	out := make([]uint64, len(x))
	for k := range x {
		out[k] = x[k] - y[k]
	}
	return out
}
