package stark

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// CommandEngine delegates verification to an external verifier binary that
// follows the sandstorm command line:
//
//	<bin> verify --program P --air-public-input I --proof F --required-security-bits N
//
// A zero exit status means the proof is valid.
type CommandEngine struct {
	Path string
}

// NewCommandEngine returns an engine running the binary at path.
func NewCommandEngine(path string) *CommandEngine {
	return &CommandEngine{Path: path}
}

// DecodeProof keeps the proof bytes for the external binary, which does the
// actual deserialization.
func (e *CommandEngine) DecodeProof(data []byte) (*Proof, error) {
	if len(data) == 0 {
		return nil, ErrEmptyProof
	}
	return NewProof(data), nil
}

// Verify writes the claim and proof to a scratch directory and runs the
// verifier on them.
func (e *CommandEngine) Verify(claim *Claim, proof *Proof, securityBits uint32) error {
	dir, err := os.MkdirTemp("", "cairo2chainstate-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	programJSON, err := claim.Program.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	publicInputJSON, err := claim.PublicInput.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding public input: %w", err)
	}

	programPath := filepath.Join(dir, "program.json")
	publicInputPath := filepath.Join(dir, "air-public-input.json")
	proofPath := filepath.Join(dir, "proof.bin")
	for path, data := range map[string][]byte{
		programPath:     programJSON,
		publicInputPath: publicInputJSON,
		proofPath:       proof.Bytes(),
	} {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
		}
	}

	cmd := exec.Command(e.Path, "verify",
		"--program", programPath,
		"--air-public-input", publicInputPath,
		"--proof", proofPath,
		"--required-security-bits", strconv.FormatUint(uint64(securityBits), 10),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s", ErrProofRejected, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("running verifier %s: %w", e.Path, err)
	}
	return nil
}
