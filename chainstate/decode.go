package chainstate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vocdoni/cairo2chainstate/cairo"
	"github.com/vocdoni/cairo2chainstate/felt"
)

var (
	// ErrBufferTooShort is returned when the output segment ends before the
	// last chain state field.
	ErrBufferTooShort = errors.New("output buffer too short")
	// ErrFieldOverflow is returned when a value does not fit its field.
	ErrFieldOverflow = errors.New("field value overflow")
	// ErrFieldParse is returned when a value cannot be reinterpreted as its
	// field type.
	ErrFieldParse = errors.New("field value not parseable")
)

// FieldError reports which field of the output segment failed to decode.
type FieldError struct {
	Field string
	Index int
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("decoding %s at output index %d: %v", e.Field, e.Index, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// DecodePublicInput extracts the output segment of pi and decodes it.
func DecodePublicInput(pi *cairo.PublicInput) (*ChainState, error) {
	buffer, err := cairo.ExtractOutput(pi)
	if err != nil {
		return nil, err
	}
	return Decode(buffer)
}

// Decode maps the output segment values onto a ChainState following the
// Schema layout.
func Decode(buffer []felt.Felt) (*ChainState, error) {
	if len(buffer) < MinBufferLen {
		return nil, fmt.Errorf("%w: got %d values, need %d", ErrBufferTooShort, len(buffer), MinBufferLen)
	}

	var (
		cs  ChainState
		err error
	)
	if cs.BlockHeight, err = decimalUint32(buffer, BlockHeight.Name, BlockHeight.Offset); err != nil {
		return nil, err
	}
	if cs.BestBlockHash, err = hashHex(buffer, BestBlockHash); err != nil {
		return nil, err
	}
	cs.TotalWork = buffer[TotalWork.Offset].Text(16)
	if cs.CurrentTarget, err = decimalUint32(buffer, CurrentTarget.Name, CurrentTarget.Offset); err != nil {
		return nil, err
	}

	cs.Timestamps = make([]uint32, 0, Timestamps.Len)
	for i := Timestamps.Offset; i < Timestamps.End(); i++ {
		ts, err := timestamp(buffer, i)
		if err != nil {
			return nil, err
		}
		cs.Timestamps = append(cs.Timestamps, ts)
	}

	if cs.EpochStartTime, err = decimalUint32(buffer, EpochStartTime.Name, EpochStartTime.Offset); err != nil {
		return nil, err
	}

	cs.MMRRoots = make([]string, 0, MMRRoots.Len)
	for _, root := range buffer[MMRRoots.Offset:MMRRoots.End()] {
		cs.MMRRoots = append(cs.MMRRoots, root.Text(16))
	}

	cs.ProgramHash = buffer[ProgramHash.Offset].Text(16)
	return &cs, nil
}

// decimalUint32 reads the canonical decimal form of a value as a uint32.
func decimalUint32(buffer []felt.Felt, field string, index int) (uint32, error) {
	return parseUint32(buffer[index].Text(10), 10, field, index)
}

// timestamp renders the value in decimal and reads those digits back as a
// base 16 number. The aggregation program stores timestamps this way.
func timestamp(buffer []felt.Felt, index int) (uint32, error) {
	return parseUint32(buffer[index].Text(10), 16, Timestamps.Name, index)
}

func parseUint32(s string, base int, field string, index int) (uint32, error) {
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, &FieldError{Field: field, Index: index, Err: fmt.Errorf("%w: %s", ErrFieldOverflow, s)}
		}
		return 0, &FieldError{Field: field, Index: index, Err: fmt.Errorf("%w: %s", ErrFieldParse, s)}
	}
	return uint32(v), nil
}

// hashHex concatenates the words of a hash field, each as 8 hex digits.
func hashHex(buffer []felt.Felt, f Field) (string, error) {
	var sb strings.Builder
	sb.Grow(f.Len * 8)
	for i := f.Offset; i < f.End(); i++ {
		word, err := buffer[i].PaddedHex()
		if err != nil {
			return "", &FieldError{Field: f.Name, Index: i, Err: fmt.Errorf("%w: %v", ErrFieldOverflow, err)}
		}
		sb.WriteString(word)
	}
	return sb.String(), nil
}
