// Package program holds the compiled aggregation program that every proof is
// verified against. The artifact is embedded at build time and parsed once per
// process.
package program

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/consensys/gnark/logger"

	"github.com/vocdoni/cairo2chainstate/cairo"
)

//go:generate go run github.com/vocdoni/cairo2chainstate fetch-program --out aggregate_program.json

//go:embed aggregate_program.json
var artifact []byte

var load = sync.OnceValue(func() *cairo.CompiledProgram {
	p, err := cairo.UnmarshalCompiledProgramJSON(artifact)
	if err != nil {
		panic(fmt.Sprintf("embedded aggregation program is corrupt: %v", err))
	}
	log := logger.Logger().With().Str("component", "program").Logger()
	log.Debug().
		Int("words", len(p.Data)).
		Strs("builtins", p.Builtins).
		Str("compiler", p.CompilerVersion).
		Msg("aggregation program loaded")
	return p
})

// Get returns the aggregation program, loading it on first use. The returned
// value is shared and must not be modified; callers that need to own it must
// Clone it. Get panics if the embedded artifact is corrupt.
func Get() *cairo.CompiledProgram {
	return load()
}
