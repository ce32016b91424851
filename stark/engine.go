// Package stark defines the boundary with the STARK verification engine. The
// engine is treated as a black box: it receives a claim (program and public
// input), a proof and a security level, and accepts or rejects.
package stark

import (
	"errors"
	"slices"

	"github.com/vocdoni/cairo2chainstate/cairo"
)

var (
	// ErrEmptyProof is returned when decoding zero proof bytes.
	ErrEmptyProof = errors.New("empty proof")
	// ErrProofRejected is returned by engines when the proof does not verify.
	ErrProofRejected = errors.New("proof rejected")
)

// Engine verifies STARK proofs of Cairo program executions.
type Engine interface {
	// DecodeProof parses the serialized proof.
	DecodeProof(data []byte) (*Proof, error)
	// Verify checks proof against claim with at least securityBits of
	// conjectured security.
	Verify(claim *Claim, proof *Proof, securityBits uint32) error
}

// Proof is a serialized proof whose layout belongs to the engine.
type Proof struct {
	data []byte
}

// NewProof wraps a copy of data.
func NewProof(data []byte) *Proof {
	return &Proof{data: slices.Clone(data)}
}

// Bytes returns the serialized proof.
func (p *Proof) Bytes() []byte {
	return p.data
}

// Claim states that Program, run on the public memory described by
// PublicInput, produced a valid execution trace.
type Claim struct {
	Program     *cairo.CompiledProgram
	PublicInput *cairo.PublicInput
}

// NewClaim builds a claim. The claim owns program, so callers holding a
// shared program must pass a clone.
func NewClaim(program *cairo.CompiledProgram, pi *cairo.PublicInput) (*Claim, error) {
	if program == nil {
		return nil, errors.New("claim requires a program")
	}
	if pi == nil {
		return nil, errors.New("claim requires a public input")
	}
	return &Claim{Program: program, PublicInput: pi}, nil
}
