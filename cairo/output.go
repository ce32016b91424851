package cairo

import (
	"errors"
	"fmt"

	"github.com/vocdoni/cairo2chainstate/felt"
)

var (
	// ErrMissingOutputSegment is returned when the public input declares no
	// output segment.
	ErrMissingOutputSegment = errors.New("output segment missing")
	// ErrInvalidSegment is returned when a segment ends before it begins.
	ErrInvalidSegment = errors.New("invalid segment bounds")
	// ErrSegmentNotLocated is returned when no public memory entry sits at the
	// output segment's begin address.
	ErrSegmentNotLocated = errors.New("output segment not located in public memory")
	// ErrDiscontinuousSegment is returned when the public memory entries of
	// the output segment are not contiguous in address order.
	ErrDiscontinuousSegment = errors.New("output segment is not contiguous")
)

// ExtractOutput returns the values of the output segment, in address order.
//
// The public memory is scanned for the first entry at the segment's begin
// address; the following stop_ptr-begin_addr entries must then carry the
// consecutive addresses of the segment. Any gap or reordering is an error.
func ExtractOutput(pi *PublicInput) ([]felt.Felt, error) {
	seg, ok := pi.Segment(OutputSegment)
	if !ok {
		return nil, ErrMissingOutputSegment
	}
	if seg.StopPtr < seg.BeginAddr {
		return nil, fmt.Errorf("%w: stop_ptr %d precedes begin_addr %d", ErrInvalidSegment, seg.StopPtr, seg.BeginAddr)
	}
	length := seg.StopPtr - seg.BeginAddr
	if length == 0 {
		return []felt.Felt{}, nil
	}

	start := -1
	for i, entry := range pi.PublicMemory {
		if entry.Address == seg.BeginAddr {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: address %d", ErrSegmentNotLocated, seg.BeginAddr)
	}
	if uint64(len(pi.PublicMemory)-start) < length {
		return nil, fmt.Errorf("%w: expected %d entries from index %d, public memory has %d",
			ErrDiscontinuousSegment, length, start, len(pi.PublicMemory)-start)
	}

	run := pi.PublicMemory[start : start+int(length)]
	buffer := make([]felt.Felt, 0, len(run))
	for i, entry := range run {
		want := seg.BeginAddr + uint64(i)
		if entry.Address != want {
			return nil, fmt.Errorf("%w: entry %d has address %d, expected %d",
				ErrDiscontinuousSegment, start+i, entry.Address, want)
		}
		buffer = append(buffer, entry.Value)
	}
	return buffer, nil
}
