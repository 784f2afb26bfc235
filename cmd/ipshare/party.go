package main

import (
	"fmt"

	"github.com/luxfi/ipshare/pkg/party"
	"github.com/luxfi/ipshare/pkg/transport"
	"github.com/luxfi/ipshare/protocols/gram"
	"github.com/spf13/cobra"
)

var (
	myID          int
	datasetPath   string
	ptyN          int
	ptyD          int
	ptyBoundaries string
)

var partyCmd = &cobra.Command{
	Use:   "party",
	Short: "Run one data party's side of one round",
	Long: `party loads a local CSV dataset, connects to the trusted initializer
and every other data party, and runs one round of the protocol, printing
this party's shares of A = X^T*X and b = X^T*y on completion.`,
	RunE: runParty,
}

func init() {
	partyCmd.Flags().IntVar(&myID, "id", 0, "this party's id, in [1, num-parties) (required)")
	partyCmd.Flags().StringVar(&datasetPath, "dataset", "", "path to this party's CSV dataset: n rows of d features plus a target column (required)")
	partyCmd.Flags().IntVar(&ptyN, "n", 0, "number of samples (required)")
	partyCmd.Flags().IntVar(&ptyD, "d", 0, "number of features (required)")
	partyCmd.Flags().StringVar(&ptyBoundaries, "boundaries", "", "comma-separated index_owned boundaries, one per party (required)")
}

func runParty(cmd *cobra.Command, args []string) error {
	if listenAddr == "" || numParties == 0 || myID == 0 || datasetPath == "" || ptyN == 0 || ptyD == 0 || ptyBoundaries == "" {
		return fmt.Errorf("ipshare: --listen, --num-parties, --id, --dataset, --n, --d and --boundaries are all required")
	}

	boundaries, err := parseBoundaries(ptyBoundaries)
	if err != nil {
		return err
	}
	cfg, err := gram.NewConfig(numParties, ptyN, ptyD, boundaries, precision)
	if err != nil {
		return fmt.Errorf("ipshare: building config: %w", err)
	}

	data, target, n, d, err := loadDataset(datasetPath, precision)
	if err != nil {
		return err
	}
	if n != cfg.N || d != cfg.D {
		return fmt.Errorf("ipshare: dataset %s has n=%d d=%d, config wants n=%d d=%d", datasetPath, n, d, cfg.N, cfg.D)
	}

	me := party.ID(myID)
	addrs, err := parsePeerAddrs(peerAddrs)
	if err != nil {
		return err
	}
	channels, err := bootstrapMesh(me, listenAddr, addrs)
	if err != nil {
		return fmt.Errorf("ipshare: connecting to peers: %w", err)
	}

	ti, ok := channels[party.TI]
	if !ok {
		return fmt.Errorf("ipshare: no --peer entry for the trusted initializer (id 0)")
	}

	tag, err := gram.SessionTag(cfg)
	if err != nil {
		return fmt.Errorf("ipshare: computing session tag: %w", err)
	}
	fmt.Printf("ipshare: running as party %s, session %s\n", me, tag)

	peerChannels := make(map[party.ID]*transport.Channel, len(channels)-1)
	for id, ch := range channels {
		if id == party.TI {
			continue
		}
		peerChannels[id] = ch
	}

	result, err := gram.RunDataParty(cfg, me, ti, peerChannels, data, target)
	if err != nil {
		return fmt.Errorf("ipshare: party round failed: %w", err)
	}

	fmt.Printf("ipshare: round complete, peer wait time %s\n", result.PeerWait)
	fmt.Printf("ipshare: A shares: %v\n", result.Shares.A)
	fmt.Printf("ipshare: b shares: %v\n", result.Shares.B)
	return nil
}
