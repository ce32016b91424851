// Package felt provides the field element type used by Cairo programs and
// helpers to parse and render it in the encodings found in Cairo artifacts.
package felt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

var (
	// ErrOutOfRange is returned when a value is negative or not below the
	// field modulus.
	ErrOutOfRange = errors.New("value out of field range")
	// ErrTooWide is returned when a value does not fit the requested width.
	ErrTooWide = errors.New("value too wide")
)

// Felt is an element of the Cairo prime field 2^251 + 17*2^192 + 1, which is
// the base field of the STARK curve.
type Felt struct {
	e fp.Element
}

// Modulus returns a copy of the field modulus.
func Modulus() *big.Int {
	return fp.Modulus()
}

// New parses s as a field element. Hexadecimal strings must carry the 0x
// prefix; anything else is parsed as decimal. Values outside [0, p) are
// rejected instead of being reduced.
func New(s string) (Felt, error) {
	bi, err := ParseBigInt(s)
	if err != nil {
		return Felt{}, err
	}
	return FromBigInt(bi)
}

// MustNew is like New but panics on error. It is meant for constants.
func MustNew(s string) Felt {
	f, err := New(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FromBigInt converts bi into a field element.
func FromBigInt(bi *big.Int) (Felt, error) {
	if bi.Sign() < 0 || bi.Cmp(fp.Modulus()) >= 0 {
		return Felt{}, fmt.Errorf("%w: %s", ErrOutOfRange, bi.String())
	}
	var f Felt
	f.e.SetBigInt(bi)
	return f, nil
}

// FromUint64 converts v into a field element.
func FromUint64(v uint64) Felt {
	var f Felt
	f.e.SetUint64(v)
	return f
}

// BigInt returns the canonical integer value of f.
func (f Felt) BigInt() *big.Int {
	return f.e.BigInt(new(big.Int))
}

// Text returns the canonical representation of f in the given base, using
// lowercase digits and no prefix or padding. fp.Element.Text renders values
// close to the modulus as small negatives in base 10, so the integer form is
// used instead.
func (f Felt) Text(base int) string {
	return f.BigInt().Text(base)
}

// String returns the decimal representation of f.
func (f Felt) String() string {
	return f.Text(10)
}

// Hex returns f as 0x-prefixed lowercase hex.
func (f Felt) Hex() string {
	return "0x" + f.Text(16)
}

// Equal reports whether f and g are the same element.
func (f Felt) Equal(g Felt) bool {
	return f.e.Equal(&g.e)
}

// IsZero reports whether f is the zero element.
func (f Felt) IsZero() bool {
	return f.e.IsZero()
}

// Uint32 returns f as a uint32, or ErrTooWide if it needs more than 32 bits.
func (f Felt) Uint32() (uint32, error) {
	if !f.e.IsUint64() || f.e.Uint64() > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s does not fit in 32 bits", ErrTooWide, f.Text(16))
	}
	return uint32(f.e.Uint64()), nil
}

// PaddedHex renders f as exactly 8 lowercase hex digits. Values needing more
// than 32 bits are rejected rather than truncated.
func (f Felt) PaddedHex() (string, error) {
	v, err := f.Uint32()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", v), nil
}

// MarshalJSON encodes f as a 0x-prefixed hex string, which is how Cairo
// tooling writes field elements.
func (f Felt) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Hex())
}

// UnmarshalJSON accepts a hex or decimal string, or a bare JSON integer.
func (f *Felt) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	v, err := New(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseBigInt converts a string to a big.Int, handling both decimal and
// 0x-prefixed hexadecimal representations. No range check is applied.
func ParseBigInt(s string) (*big.Int, error) {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		bi, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return nil, fmt.Errorf("failed to parse hex string %q", s)
		}
		return bi, nil
	}
	bi, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("failed to parse decimal string %q", s)
	}
	return bi, nil
}
