package cairo

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/vocdoni/cairo2chainstate/felt"
)

// ErrInvalidProgram is returned when a compiled program does not target the
// Cairo field or carries no bytecode.
var ErrInvalidProgram = errors.New("invalid compiled program")

// UnmarshalPublicInputJSON parses the JSON-encoded AIR public input. The raw
// document is kept so it can be handed to a verification engine unchanged.
func UnmarshalPublicInputJSON(data []byte) (*PublicInput, error) {
	var pi PublicInput
	if err := json.Unmarshal(data, &pi); err != nil {
		return nil, fmt.Errorf("failed to parse public input JSON: %w", err)
	}
	pi.raw = slices.Clone(data)
	return &pi, nil
}

// MarshalJSON returns the original document when the public input was
// parsed, and a fresh encoding otherwise.
func (pi *PublicInput) MarshalJSON() ([]byte, error) {
	if pi.raw != nil {
		return slices.Clone(pi.raw), nil
	}
	type plain PublicInput
	return json.Marshal((*plain)(pi))
}

// Segment returns the named memory segment.
func (pi *PublicInput) Segment(name string) (MemorySegment, bool) {
	seg, ok := pi.MemorySegments[name]
	return seg, ok
}

// UnmarshalCompiledProgramJSON parses and validates a compiled Cairo program.
func UnmarshalCompiledProgramJSON(data []byte) (*CompiledProgram, error) {
	var p CompiledProgram
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse compiled program JSON: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.raw = slices.Clone(data)
	return &p, nil
}

// Validate checks that the program targets the Cairo prime field and contains
// bytecode.
func (p *CompiledProgram) Validate() error {
	prime, err := felt.ParseBigInt(p.Prime)
	if err != nil {
		return fmt.Errorf("%w: prime: %v", ErrInvalidProgram, err)
	}
	if prime.Cmp(felt.Modulus()) != 0 {
		return fmt.Errorf("%w: unexpected prime %s", ErrInvalidProgram, p.Prime)
	}
	if len(p.Data) == 0 {
		return fmt.Errorf("%w: empty bytecode", ErrInvalidProgram)
	}
	return nil
}

// Clone returns a deep copy of the program.
func (p *CompiledProgram) Clone() *CompiledProgram {
	c := *p
	c.Data = slices.Clone(p.Data)
	c.Builtins = slices.Clone(p.Builtins)
	c.raw = slices.Clone(p.raw)
	return &c
}

// MarshalJSON returns the original compiler output when available.
func (p *CompiledProgram) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return slices.Clone(p.raw), nil
	}
	type plain CompiledProgram
	return json.Marshal((*plain)(p))
}

// CairoPrime returns the field modulus in the 0x-prefixed form used by the
// compiler's "prime" field.
func CairoPrime() string {
	return "0x" + felt.Modulus().Text(16)
}
