package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vocdoni/cairo2chainstate/program"
)

var fetchProgramCmd = &cobra.Command{
	Use:   "fetch-program",
	Short: "Download the compiled aggregation program to embed in the next build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := program.DefaultFetchConfig()
		cfg.URL = viper.GetString("url")
		cfg.Timeout = viper.GetDuration("timeout")
		cfg.Retries = viper.GetUint64("retries")
		return program.Fetch(cmd.Context(), cfg, viper.GetString("out"))
	},
}

func init() {
	defaults := program.DefaultFetchConfig()
	fetchProgramCmd.Flags().String("url", defaults.URL, "compiled program location")
	fetchProgramCmd.Flags().String("out", "program/aggregate_program.json", "destination file")
	fetchProgramCmd.Flags().Duration("timeout", defaults.Timeout, "download timeout")
	fetchProgramCmd.Flags().Uint64("retries", defaults.Retries, "download retries")
}
