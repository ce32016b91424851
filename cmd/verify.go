package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vocdoni/cairo2chainstate/stark"
	"github.com/vocdoni/cairo2chainstate/verifier"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an aggregation proof and print the proven chain state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		publicInput, err := readFlagFile("public-input")
		if err != nil {
			return err
		}
		proof, err := readFlagFile("proof")
		if err != nil {
			return err
		}

		v, err := verifier.New(stark.NewCommandEngine(viper.GetString("engine")))
		if err != nil {
			return err
		}
		cs, err := v.Verify(publicInput, proof)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), cs)
	},
}

func init() {
	verifyCmd.Flags().String("public-input", "", "path to the AIR public input JSON")
	verifyCmd.Flags().String("proof", "", "path to the serialized proof")
	verifyCmd.Flags().String("engine", "sandstorm", "STARK verifier binary")
}

// readFlagFile reads the file named by a flag.
func readFlagFile(flag string) ([]byte, error) {
	path := viper.GetString(flag)
	if path == "" {
		return nil, fmt.Errorf("--%s is required", flag)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", flag, err)
	}
	return data, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
