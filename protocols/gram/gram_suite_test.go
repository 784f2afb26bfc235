package gram_test

import (
	"net"
	"sync"
	"testing"

	"github.com/luxfi/ipshare/pkg/fixedpoint"
	"github.com/luxfi/ipshare/pkg/party"
	"github.com/luxfi/ipshare/pkg/randsource"
	"github.com/luxfi/ipshare/pkg/transport"
	"github.com/luxfi/ipshare/protocols/gram"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGram(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inner-Product Secret-Sharing Suite")
}

// pipeNetwork builds a full pipe mesh between the TI (party.TI) and every
// data party in ids: one bidirectional net.Pipe per unordered pair, wrapped
// in a transport.Channel on each end.
func pipeNetwork(ids []party.ID) map[party.ID]map[party.ID]*transport.Channel {
	all := append([]party.ID{party.TI}, ids...)
	chans := make(map[party.ID]map[party.ID]*transport.Channel, len(all))
	for _, id := range all {
		chans[id] = make(map[party.ID]*transport.Channel)
	}
	for i, a := range all {
		for _, b := range all[i+1:] {
			connA, connB := net.Pipe()
			chans[a][b] = transport.New(connA)
			chans[b][a] = transport.New(connB)
		}
	}
	return chans
}

// runRound drives one TI and len(partyData) data parties concurrently over
// an in-memory pipe mesh, returning each data party's Result keyed by ID.
func runRound(cfg *gram.Config, partyData map[party.ID][]uint64, partyTarget map[party.ID][]uint64) (map[party.ID]*gram.Result, error) {
	ids := make([]party.ID, 0, len(partyData))
	for id := range partyData {
		ids = append(ids, id)
	}
	chans := pipeNetwork(ids)

	var wg sync.WaitGroup
	errs := make(chan error, len(ids)+1)
	results := make(map[party.ID]*gram.Result, len(ids))
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		src, err := randsource.NewStreamSource(fixedKey(), fixedNonce())
		if err != nil {
			errs <- err
			return
		}
		if err := gram.RunInitializer(cfg, chans[party.TI], src); err != nil {
			errs <- err
		}
	}()

	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			peers := make(map[party.ID]*transport.Channel)
			for _, other := range ids {
				if other != id {
					peers[other] = chans[id][other]
				}
			}
			res, err := gram.RunDataParty(cfg, id, chans[id][party.TI], peers, partyData[id], partyTarget[id])
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			results[id] = res
			mu.Unlock()
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func fixedKey() (k [32]byte) {
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func fixedNonce() (n [12]byte) {
	for i := range n {
		n[i] = byte(100 + i)
	}
	return n
}

// dot computes the mod-2^64 dot product the same way the protocol itself
// does, so tests can state expected shares exactly rather than through a
// lossy fixed-point round trip.
func dot(a, b []uint64) uint64 {
	var sum uint64
	for k := range a {
		sum += a[k] * b[k]
	}
	return sum
}

var _ = Describe("Inner-product secret-sharing round", func() {
	It("reconstructs the Gram matrix and cross-vector for a trivial 2-party round", func() {
		// X = [[1,2],[3,4]] (samples as rows), y = [5,6]. Feature column 0
		// is [1,3], feature column 1 is [2,4]; party 1 owns row 0, party 2
		// owns row 1 and the target. Every party holds the same full
		// matrix/target locally (spec.md §3) and only its owned rows feed
		// the protocol.
		const precision, n, d = 0, 2, 2
		cfg, err := gram.NewConfig(3, n, d, []uint32{0, 0, 1}, precision)
		Expect(err).NotTo(HaveOccurred())

		col0 := fixedpoint.EncodeVector([]float64{1, 3}, precision, d, n)
		col1 := fixedpoint.EncodeVector([]float64{2, 4}, precision, d, n)
		target := fixedpoint.EncodeVector([]float64{5, 6}, precision, d, n)
		full := append(append([]uint64{}, col0...), col1...)

		results, err := runRound(cfg,
			map[party.ID][]uint64{1: full, 2: full},
			map[party.ID][]uint64{1: target, 2: target})
		Expect(err).NotTo(HaveOccurred())

		gotA := make([]uint64, d*(d+1)/2)
		gotB := make([]uint64, d)
		for _, res := range results {
			for k := range gotA {
				gotA[k] += res.Shares.A[k]
			}
			for k := range gotB {
				gotB[k] += res.Shares.B[k]
			}
		}

		Expect(gotA[0]).To(Equal(dot(col0, col0))) // idxA(0,0)
		Expect(gotA[1]).To(Equal(dot(col1, col0))) // idxA(1,0)
		Expect(gotA[2]).To(Equal(dot(col1, col1))) // idxA(1,1)
		Expect(gotB[0]).To(Equal(dot(target, col0)))
		Expect(gotB[1]).To(Equal(dot(target, col1)))
	})

	It("wraps around mod 2^64 without losing the sum", func() {
		const precision, n, d = 0, 1, 1
		cfg, err := gram.NewConfig(3, n, d, []uint32{0, 0, 1}, precision)
		Expect(err).NotTo(HaveOccurred())

		big := uint64(1) << 32
		fullData := []uint64{big}
		fullTarget := []uint64{big}

		results, err := runRound(cfg,
			map[party.ID][]uint64{1: fullData, 2: fullData},
			map[party.ID][]uint64{1: fullTarget, 2: fullTarget})
		Expect(err).NotTo(HaveOccurred())

		var sumB uint64
		for _, res := range results {
			sumB += res.Shares.B[0]
		}
		Expect(sumB).To(Equal(big * big)) // wraps to 0, exercised via uint64 overflow
	})

	It("needs no peer exchange for the Gram block when one party owns both feature rows", func() {
		// Party 1 owns both feature rows (no A-block cross-party pair);
		// party 2 owns only the target, so b-vector entries still cross.
		const precision, n, d = 0, 4, 2
		cfg, err := gram.NewConfig(3, n, d, []uint32{0, 0, 2}, precision)
		Expect(err).NotTo(HaveOccurred())

		row0 := []uint64{1, 2, 3, 4}
		row1 := []uint64{5, 6, 7, 8}
		fullData := append(append([]uint64{}, row0...), row1...)
		fullTarget := []uint64{1, 2, 3, 4}

		results, err := runRound(cfg,
			map[party.ID][]uint64{1: fullData, 2: fullData},
			map[party.ID][]uint64{1: fullTarget, 2: fullTarget})
		Expect(err).NotTo(HaveOccurred())

		gotA := make([]uint64, d*(d+1)/2)
		gotB := make([]uint64, d)
		for _, res := range results {
			for k := range gotA {
				gotA[k] += res.Shares.A[k]
			}
			for k := range gotB {
				gotB[k] += res.Shares.B[k]
			}
		}
		Expect(gotA[0]).To(Equal(dot(row0, row0)))
		Expect(gotA[1]).To(Equal(dot(row1, row0)))
		Expect(gotA[2]).To(Equal(dot(row1, row1)))
		Expect(gotB[0]).To(Equal(dot(fullTarget, row0)))
		Expect(gotB[1]).To(Equal(dot(fullTarget, row1)))
		// The Gram block (i, j < d) needed no peer exchange at all, since
		// party 1 owns both feature rows; only the two b-vector entries,
		// which cross to the target's owner, did.
	})

	It("dispatches shares correctly across three data parties, one row each", func() {
		const precision, n, d = 0, 5, 3
		cfg, err := gram.NewConfig(4, n, d, []uint32{0, 0, 1, 2}, precision)
		Expect(err).NotTo(HaveOccurred())

		rep := func(v uint64) []uint64 {
			out := make([]uint64, n)
			for k := range out {
				out[k] = v
			}
			return out
		}
		row0, row1, row2 := rep(1), rep(2), rep(3)
		target := rep(4)
		fullData := append(append(append([]uint64{}, row0...), row1...), row2...)

		partyData := map[party.ID][]uint64{1: fullData, 2: fullData, 3: fullData}
		partyTarget := map[party.ID][]uint64{1: target, 2: target, 3: target}

		results, err := runRound(cfg, partyData, partyTarget)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		gotA := make([]uint64, d*(d+1)/2)
		for _, res := range results {
			for k := range gotA {
				gotA[k] += res.Shares.A[k]
			}
		}
		Expect(gotA[1]).To(Equal(dot(row1, row0))) // idxA(1,0)
		Expect(gotA[3]).To(Equal(dot(row2, row0))) // idxA(2,0)
		Expect(gotA[4]).To(Equal(dot(row2, row1))) // idxA(2,1)
	})

	It("surfaces a malformed TI message as a round failure with no partial shares", func() {
		const precision, n, d = 0, 2, 2
		cfg, err := gram.NewConfig(3, n, d, []uint32{0, 0, 1}, precision)
		Expect(err).NotTo(HaveOccurred())

		tiConn, partyTIConn := net.Pipe()
		_, partyPeerConn := net.Pipe()
		go func() {
			// A truncated length prefix on the TI link, then close, so
			// party 1's first TI receive fails rather than hangs.
			_, _ = tiConn.Write([]byte{1, 2, 3})
			_ = tiConn.Close()
		}()

		fullData := make([]uint64, n*d)
		result, err := gram.RunDataParty(cfg, 1,
			transport.New(partyTIConn),
			map[party.ID]*transport.Channel{2: transport.New(partyPeerConn)},
			fullData, make([]uint64, n))
		Expect(err).To(HaveOccurred())
		Expect(result).To(BeNil())
	})
})
