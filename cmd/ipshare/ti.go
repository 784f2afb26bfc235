package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luxfi/ipshare/pkg/party"
	"github.com/luxfi/ipshare/pkg/randsource"
	"github.com/luxfi/ipshare/protocols/gram"
	"github.com/spf13/cobra"
)

var (
	tiN          int
	tiD          int
	tiBoundaries string
)

var tiCmd = &cobra.Command{
	Use:   "ti",
	Short: "Run the trusted-initializer side of one round",
	Long: `ti samples fresh correlated randomness for every cross-party feature
pair and ships triple halves to the owning data parties. It never sees a
row of X, a row of y, or any share of the result.`,
	RunE: runTI,
}

func init() {
	tiCmd.Flags().IntVar(&tiN, "n", 0, "number of samples (required)")
	tiCmd.Flags().IntVar(&tiD, "d", 0, "number of features (required)")
	tiCmd.Flags().StringVar(&tiBoundaries, "boundaries", "", "comma-separated index_owned boundaries, one per party (required)")
}

func runTI(cmd *cobra.Command, args []string) error {
	if listenAddr == "" || numParties == 0 || tiN == 0 || tiD == 0 || tiBoundaries == "" {
		return fmt.Errorf("ipshare: --listen, --num-parties, --n, --d and --boundaries are all required")
	}

	boundaries, err := parseBoundaries(tiBoundaries)
	if err != nil {
		return err
	}
	cfg, err := gram.NewConfig(numParties, tiN, tiD, boundaries, precision)
	if err != nil {
		return fmt.Errorf("ipshare: building config: %w", err)
	}

	addrs, err := parsePeerAddrs(peerAddrs)
	if err != nil {
		return err
	}
	channels, err := bootstrapMesh(party.TI, listenAddr, addrs)
	if err != nil {
		return fmt.Errorf("ipshare: connecting to data parties: %w", err)
	}

	tag, err := gram.SessionTag(cfg)
	if err != nil {
		return fmt.Errorf("ipshare: computing session tag: %w", err)
	}
	fmt.Printf("ipshare: running as trusted initializer, session %s\n", tag)

	if err := gram.RunInitializer(cfg, channels, randsource.CryptoSource{}); err != nil {
		return fmt.Errorf("ipshare: initializer round failed: %w", err)
	}
	fmt.Println("ipshare: round complete")
	return nil
}

func parseBoundaries(s string) ([]uint32, error) {
	parts := strings.Split(s, ",")
	out := make([]uint32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("ipshare: bad boundary %q: %w", p, err)
		}
		out[i] = uint32(v)
	}
	return out, nil
}
