package chainstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/cairo2chainstate/cairo"
	"github.com/vocdoni/cairo2chainstate/felt"
)

// buffer returns a well-formed output buffer where every field holds a small
// valid value.
func buffer() []felt.Felt {
	buf := make([]felt.Felt, MinBufferLen)
	for i := range buf {
		buf[i] = felt.FromUint64(uint64(i))
	}
	return buf
}

func TestSchema(t *testing.T) {
	assert.Equal(t, 101, MinBufferLen)

	// Fields are adjacent and in order.
	next := ChainStateOffset
	for _, f := range Schema {
		assert.Equal(t, next, f.Offset, f.Name)
		next = f.End()
	}
	assert.Equal(t, 100, ProgramHash.Offset)
	assert.Equal(t, 73, MMRRoots.Offset)
	assert.Equal(t, 99, MMRRoots.End()-1)
}

func TestDecode(t *testing.T) {
	buf := buffer()
	buf[BlockHeight.Offset] = felt.FromUint64(842000)
	for i := 0; i < BestBlockHash.Len; i++ {
		buf[BestBlockHash.Offset+i] = felt.FromUint64(uint64(i + 1))
	}
	buf[TotalWork.Offset] = felt.MustNew("0x5b6ff7a6a4b3c0ec5c1e1c8")
	buf[CurrentTarget.Offset] = felt.FromUint64(386089497)
	for i := 0; i < Timestamps.Len; i++ {
		buf[Timestamps.Offset+i] = felt.FromUint64(uint64(20 + i))
	}
	buf[EpochStartTime.Offset] = felt.FromUint64(1709500000)
	for i := 0; i < MMRRoots.Len; i++ {
		buf[MMRRoots.Offset+i] = felt.FromUint64(uint64(i * 0x100))
	}
	buf[ProgramHash.Offset] = felt.MustNew("0x0abc")

	cs, err := Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, uint32(842000), cs.BlockHeight)
	assert.Equal(t, "0000000100000002000000030000000400000005000000060000000700000008", cs.BestBlockHash)
	assert.Equal(t, "5b6ff7a6a4b3c0ec5c1e1c8", cs.TotalWork)
	assert.Equal(t, uint32(386089497), cs.CurrentTarget)
	assert.Equal(t, []uint32{0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x30}, cs.Timestamps)
	assert.Equal(t, uint32(1709500000), cs.EpochStartTime)
	require.Len(t, cs.MMRRoots, 27)
	assert.Equal(t, "0", cs.MMRRoots[0])
	assert.Equal(t, "100", cs.MMRRoots[1])
	assert.Equal(t, "1a00", cs.MMRRoots[26])
	assert.Equal(t, "abc", cs.ProgramHash)
}

func TestDecodeTimestampReadsDecimalDigitsAsHex(t *testing.T) {
	buf := buffer()
	buf[Timestamps.Offset] = felt.FromUint64(26)

	cs, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(38), cs.Timestamps[0])
}

func TestDecodeIgnoresExtraValues(t *testing.T) {
	buf := append(buffer(), felt.FromUint64(1<<40))
	_, err := Decode(buf)
	require.NoError(t, err)
}

func TestDecodeBufferTooShort(t *testing.T) {
	for _, n := range []int{0, 50, 51, MinBufferLen - 1} {
		_, err := Decode(buffer()[:n])
		require.ErrorIs(t, err, ErrBufferTooShort, "length %d", n)
	}
}

// pMinusOne is the largest field element.
var pMinusOne = felt.MustNew("0x800000000000011000000000000000000000000000000000000000000000000")

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		value   felt.Felt
		field   string
		wantErr error
	}{
		{"block height overflow", BlockHeight.Offset, felt.FromUint64(1 << 32), BlockHeight.Name, ErrFieldOverflow},
		{"current target overflow", CurrentTarget.Offset, felt.MustNew("0xffffffffffffffffffff"), CurrentTarget.Name, ErrFieldOverflow},
		{"epoch start overflow", EpochStartTime.Offset, felt.FromUint64(4294967296), EpochStartTime.Name, ErrFieldOverflow},
		{"hash word too wide", BestBlockHash.Offset + 3, felt.FromUint64(1 << 32), BestBlockHash.Name, ErrFieldOverflow},
		// 123456789 read as hex exceeds 32 bits.
		{"timestamp overflow", Timestamps.Offset + 10, felt.FromUint64(123456789), Timestamps.Name, ErrFieldOverflow},
		{"block height p-1", BlockHeight.Offset, pMinusOne, BlockHeight.Name, ErrFieldOverflow},
		{"timestamp p-1", Timestamps.Offset, pMinusOne, Timestamps.Name, ErrFieldOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer()
			buf[tt.index] = tt.value

			cs, err := Decode(buf)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, cs)

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.index, fe.Index)
		})
	}
}

func TestDecodeWideValuesInHexFields(t *testing.T) {
	buf := buffer()
	wide := felt.MustNew("0x7ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	buf[TotalWork.Offset] = wide
	buf[MMRRoots.Offset+5] = wide
	buf[ProgramHash.Offset] = wide

	buf[MMRRoots.Offset+6] = pMinusOne

	cs, err := Decode(buf)
	require.NoError(t, err)
	const wideHex = "7ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	assert.Equal(t, wideHex, cs.TotalWork)
	assert.Equal(t, wideHex, cs.MMRRoots[5])
	assert.Equal(t, "800000000000011000000000000000000000000000000000000000000000000", cs.MMRRoots[6])
	assert.Equal(t, wideHex, cs.ProgramHash)
}

func TestDecodePublicInput(t *testing.T) {
	mem := make([]cairo.MemoryEntry, 0, MinBufferLen+1)
	mem = append(mem, cairo.MemoryEntry{Address: 1, Value: felt.FromUint64(9)})
	for i, v := range buffer() {
		mem = append(mem, cairo.MemoryEntry{Address: 500 + uint64(i), Value: v})
	}
	pi := &cairo.PublicInput{
		MemorySegments: map[string]cairo.MemorySegment{
			cairo.OutputSegment: {BeginAddr: 500, StopPtr: 500 + uint64(MinBufferLen)},
		},
		PublicMemory: mem,
	}

	cs, err := DecodePublicInput(pi)
	require.NoError(t, err)
	assert.Equal(t, uint32(50), cs.BlockHeight)
	assert.Equal(t, "64", cs.ProgramHash)

	pi.PublicMemory[40].Address++
	_, err = DecodePublicInput(pi)
	require.ErrorIs(t, err, cairo.ErrDiscontinuousSegment)
}

func TestClone(t *testing.T) {
	cs, err := Decode(buffer())
	require.NoError(t, err)

	c := cs.Clone()
	c.Timestamps[0] = 1
	c.MMRRoots[0] = "ff"
	assert.NotEqual(t, c.Timestamps[0], cs.Timestamps[0])
	assert.NotEqual(t, c.MMRRoots[0], cs.MMRRoots[0])
}
