package cmd

import (
	"github.com/consensys/gnark/logger"
	"github.com/spf13/cobra"

	"github.com/vocdoni/cairo2chainstate/verifier"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode the chain state of a public input without verifying the proof",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		publicInput, err := readFlagFile("public-input")
		if err != nil {
			return err
		}
		cs, err := verifier.Decode(publicInput)
		if err != nil {
			return err
		}
		log := logger.Logger()
		log.Warn().Msg("chain state decoded without proof verification")
		return printJSON(cmd.OutOrStdout(), cs)
	},
}

func init() {
	decodeCmd.Flags().String("public-input", "", "path to the AIR public input JSON")
}
