// Command ipshare bootstraps and drives one round of the inner-product
// secret-sharing protocol (protocols/gram): either as the trusted
// initializer or as one data party, over plain TCP connections to every
// other configured participant.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	listenAddr string
	peerAddrs  []string
	numParties int
	precision  uint

	rootCmd = &cobra.Command{
		Use:   "ipshare",
		Short: "Inner-product secret-sharing round driver",
		Long: `ipshare runs one round of the additive secret-sharing protocol that
computes shares of X^T*X and X^T*y across two or more data parties,
assisted by one trusted initializer.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen", "", "address this process listens on (required)")
	rootCmd.PersistentFlags().StringSliceVar(&peerAddrs, "peer", nil, "id=host:port for every other participant, including the TI (repeatable)")
	rootCmd.PersistentFlags().IntVar(&numParties, "num-parties", 0, "total participants, TI included (required)")
	rootCmd.PersistentFlags().UintVar(&precision, "precision", 0, "fixed-point precision, in fractional bits")

	rootCmd.AddCommand(tiCmd, partyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ipshare: %v\n", err)
		os.Exit(1)
	}
}
