// Package cairo provides the Cairo artifacts consumed by the verifier: the AIR
// public input emitted by the prover and the compiled program, plus the
// extraction of the program output from the public memory.
package cairo

import (
	"encoding/json"

	"github.com/vocdoni/cairo2chainstate/felt"
)

// OutputSegment is the name of the memory segment holding the program output.
const OutputSegment = "output"

// ProgramSegment is the name of the memory segment holding the bytecode.
const ProgramSegment = "program"

// MemorySegment describes the address range [BeginAddr, StopPtr) of a segment.
type MemorySegment struct {
	BeginAddr uint64 `json:"begin_addr"`
	StopPtr   uint64 `json:"stop_ptr"`
}

// MemoryEntry is a single public memory cell.
type MemoryEntry struct {
	Address uint64    `json:"address"`
	Value   felt.Felt `json:"value"`
	Page    uint64    `json:"page"`
}

// PublicInput represents the AIR public input written by the Cairo runner
// alongside a proof.
type PublicInput struct {
	Layout         string                   `json:"layout"`
	RcMin          uint64                   `json:"rc_min"`
	RcMax          uint64                   `json:"rc_max"`
	NSteps         uint64                   `json:"n_steps"`
	MemorySegments map[string]MemorySegment `json:"memory_segments"`
	PublicMemory   []MemoryEntry            `json:"public_memory"`
	DynamicParams  json.RawMessage          `json:"dynamic_params,omitempty"`

	raw []byte
}

// CompiledProgram represents the JSON artifact produced by the Cairo compiler.
// Only the fields the verifier inspects are decoded; the rest travel along
// untouched in the original document.
type CompiledProgram struct {
	Prime           string      `json:"prime"`
	Data            []felt.Felt `json:"data"`
	Builtins        []string    `json:"builtins"`
	MainScope       string      `json:"main_scope"`
	CompilerVersion string      `json:"compiler_version"`

	raw []byte
}
