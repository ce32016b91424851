// Package verifier checks aggregation proofs and returns the chain state they
// commit to.
//
// A proof is accepted only when its output segment decodes to a chain state,
// the program hash written by the program matches ExpectedProgramHash, and the
// STARK engine accepts the proof for the embedded aggregation program.
package verifier

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/consensys/gnark/logger"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"

	"github.com/vocdoni/cairo2chainstate/cairo"
	"github.com/vocdoni/cairo2chainstate/chainstate"
	"github.com/vocdoni/cairo2chainstate/felt"
	"github.com/vocdoni/cairo2chainstate/program"
	"github.com/vocdoni/cairo2chainstate/stark"
)

// RequiredSecurityBits is the security level requested from the engine for
// every proof.
const RequiredSecurityBits uint32 = 80

// ExpectedProgramHashHex identifies the aggregation program trusted by this
// verifier.
const ExpectedProgramHashHex = "0x34e4c05c451ad7a966eb24000d8ee58f4ef108e55c34ad4c73a32d8bc425ae1"

// ExpectedProgramHash is ExpectedProgramHashHex as a field element.
var ExpectedProgramHash = felt.MustNew(ExpectedProgramHashHex)

var (
	ErrMalformedPublicInput      = errors.New("malformed public input")
	ErrMalformedProof            = errors.New("malformed proof")
	ErrDecode                    = errors.New("invalid output segment")
	ErrProgramHashMismatch       = errors.New("program hash mismatch")
	ErrCryptographicVerification = errors.New("cryptographic verification failed")
)

type cacheKey [32]byte

// Verifier verifies aggregation proofs. It is safe for concurrent use.
type Verifier struct {
	engine  stark.Engine
	program func() *cairo.CompiledProgram
	log     zerolog.Logger

	cacheSize int
	cache     *lru.Cache[cacheKey, *chainstate.ChainState]
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger. By default the gnark logger is used.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Verifier) {
		v.log = log
	}
}

// WithCacheSize keeps the results of the last n successful verifications, so
// repeated requests for the same proof skip the engine. Zero disables it.
func WithCacheSize(n int) Option {
	return func(v *Verifier) {
		v.cacheSize = n
	}
}

// WithProgram replaces the source of the aggregation program, which defaults
// to the embedded artifact.
func WithProgram(get func() *cairo.CompiledProgram) Option {
	return func(v *Verifier) {
		v.program = get
	}
}

// New returns a Verifier backed by engine.
func New(engine stark.Engine, opts ...Option) (*Verifier, error) {
	if engine == nil {
		return nil, errors.New("verifier requires an engine")
	}
	v := &Verifier{
		engine:  engine,
		program: program.Get,
		log:     logger.Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With().Str("component", "verifier").Logger()
	if v.cacheSize > 0 {
		cache, err := lru.New[cacheKey, *chainstate.ChainState](v.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating result cache: %w", err)
		}
		v.cache = cache
	}
	return v, nil
}

// Program returns the program proofs are verified against.
func (v *Verifier) Program() *cairo.CompiledProgram {
	return v.program()
}

// Verify checks an aggregation proof and returns the chain state it proves.
//
// The cheap checks run first: the public input and proof must parse, the
// output segment must decode, and the program hash it carries must match
// ExpectedProgramHash. Only then is the engine invoked.
func (v *Verifier) Verify(publicInput, proof []byte) (*chainstate.ChainState, error) {
	var key cacheKey
	if v.cache != nil {
		key = inputsKey(publicInput, proof)
		if cs, ok := v.cache.Get(key); ok {
			v.log.Debug().Msg("verification result served from cache")
			return cs.Clone(), nil
		}
	}

	pi, err := cairo.UnmarshalPublicInputJSON(publicInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPublicInput, err)
	}
	p, err := v.engine.DecodeProof(proof)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedProof, err)
	}

	buffer, err := cairo.ExtractOutput(pi)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	cs, err := chainstate.Decode(buffer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if got := buffer[chainstate.ProgramHash.Offset]; !got.Equal(ExpectedProgramHash) {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrProgramHashMismatch, got.Hex(), ExpectedProgramHashHex)
	}

	claim, err := stark.NewClaim(v.program().Clone(), pi)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptographicVerification, err)
	}
	v.log.Debug().
		Uint32("block_height", cs.BlockHeight).
		Str("best_block_hash", cs.BestBlockHash).
		Uint32("security_bits", RequiredSecurityBits).
		Msg("verifying proof")
	if err := v.engine.Verify(claim, p, RequiredSecurityBits); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptographicVerification, err)
	}
	v.log.Info().
		Uint32("block_height", cs.BlockHeight).
		Str("best_block_hash", cs.BestBlockHash).
		Msg("proof verified")

	if v.cache != nil {
		v.cache.Add(key, cs.Clone())
	}
	return cs, nil
}

// Decode parses a public input and decodes the chain state in its output
// segment. Neither the program hash nor the proof is checked, so the result
// must not be trusted.
func Decode(publicInput []byte) (*chainstate.ChainState, error) {
	pi, err := cairo.UnmarshalPublicInputJSON(publicInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPublicInput, err)
	}
	cs, err := chainstate.DecodePublicInput(pi)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return cs, nil
}

func inputsKey(publicInput, proof []byte) cacheKey {
	h := blake3.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(publicInput)))
	_, _ = h.Write(n[:])
	_, _ = h.Write(publicInput)
	_, _ = h.Write(proof)

	var key cacheKey
	copy(key[:], h.Sum(nil))
	return key
}
