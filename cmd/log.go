package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

// setupLogger installs the process logger shared by every package through
// the gnark logger. Logs go to stderr so command output stays parseable.
func setupLogger(level string, jsonOutput bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.Set(newLogger(os.Stderr, lvl, jsonOutput))
	return nil
}

func newLogger(w io.Writer, lvl zerolog.Level, jsonOutput bool) zerolog.Logger {
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
