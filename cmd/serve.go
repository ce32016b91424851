package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vocdoni/cairo2chainstate/server"
	"github.com/vocdoni/cairo2chainstate/stark"
	"github.com/vocdoni/cairo2chainstate/verifier"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve proof verification over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := verifier.New(
			stark.NewCommandEngine(viper.GetString("engine")),
			verifier.WithCacheSize(viper.GetInt("cache-size")),
		)
		if err != nil {
			return err
		}
		// Load the program before accepting requests.
		v.Program()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = server.New(v).ListenAndServe(ctx, viper.GetString("addr"))
		if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("engine", "sandstorm", "STARK verifier binary")
	serveCmd.Flags().Int("cache-size", 1024, "number of verified proofs to remember")
}
