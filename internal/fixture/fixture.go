// Package fixture builds public inputs carrying a known aggregation output,
// for tests.
package fixture

import (
	"encoding/json"
	"strconv"

	"github.com/vocdoni/cairo2chainstate/cairo"
	"github.com/vocdoni/cairo2chainstate/chainstate"
	"github.com/vocdoni/cairo2chainstate/felt"
)

// OutputBegin is the address of the first output cell in built inputs.
const OutputBegin = 2000

var bestBlockHashWords = []uint64{
	0x00000000, 0x00000000, 0x0002a7c4, 0xc1e48d76,
	0xc5a37902, 0x165a2701, 0x56b7a8d7, 0x2728a054,
}

// Output returns an output segment with a plausible chain state and the
// given program hash, together with the chain state it decodes to.
func Output(programHash felt.Felt) ([]felt.Felt, *chainstate.ChainState) {
	buf := make([]felt.Felt, chainstate.MinBufferLen)
	for i := 0; i < chainstate.ChainStateOffset; i++ {
		buf[i] = felt.FromUint64(uint64(1000 + i))
	}
	want := &chainstate.ChainState{}

	buf[chainstate.BlockHeight.Offset] = felt.FromUint64(842000)
	want.BlockHeight = 842000

	for i, w := range bestBlockHashWords {
		buf[chainstate.BestBlockHash.Offset+i] = felt.FromUint64(w)
	}
	want.BestBlockHash = "00000000000000000002a7c4c1e48d76c5a37902165a270156b7a8d72728a054"

	buf[chainstate.TotalWork.Offset] = felt.MustNew("0x5b6ff7a6a4b3c0ec5c1e1c8")
	want.TotalWork = "5b6ff7a6a4b3c0ec5c1e1c8"

	buf[chainstate.CurrentTarget.Offset] = felt.FromUint64(386089497)
	want.CurrentTarget = 386089497

	for i := 0; i < chainstate.Timestamps.Len; i++ {
		v := uint64(17095000 + 60*i)
		buf[chainstate.Timestamps.Offset+i] = felt.FromUint64(v)
		ts, err := strconv.ParseUint(strconv.FormatUint(v, 10), 16, 32)
		if err != nil {
			panic(err)
		}
		want.Timestamps = append(want.Timestamps, uint32(ts))
	}

	buf[chainstate.EpochStartTime.Offset] = felt.FromUint64(1709500000)
	want.EpochStartTime = 1709500000

	for i := 0; i < chainstate.MMRRoots.Len; i++ {
		v := felt.FromUint64(uint64(i) * 0x9e3779b97f4a7c)
		buf[chainstate.MMRRoots.Offset+i] = v
		want.MMRRoots = append(want.MMRRoots, v.Text(16))
	}

	buf[chainstate.ProgramHash.Offset] = programHash
	want.ProgramHash = programHash.Text(16)
	return buf, want
}

// PublicInput returns a public input whose output segment holds output. A
// few program cells precede it in the public memory, as the Cairo runner
// writes them.
func PublicInput(output []felt.Felt) *cairo.PublicInput {
	pi := &cairo.PublicInput{
		Layout: "recursive",
		RcMin:  32763,
		RcMax:  32769,
		NSteps: 1 << 20,
		MemorySegments: map[string]cairo.MemorySegment{
			cairo.ProgramSegment: {BeginAddr: 1, StopPtr: 4},
			"execution":          {BeginAddr: 100, StopPtr: 1900},
			cairo.OutputSegment:  {BeginAddr: OutputBegin, StopPtr: OutputBegin + uint64(len(output))},
		},
	}
	for i, v := range []uint64{0x40780017fff7fff, 0x1, 0x208b7fff7fff7ffe} {
		pi.PublicMemory = append(pi.PublicMemory, cairo.MemoryEntry{Address: 1 + uint64(i), Value: felt.FromUint64(v)})
	}
	for i, v := range output {
		pi.PublicMemory = append(pi.PublicMemory, cairo.MemoryEntry{Address: OutputBegin + uint64(i), Value: v, Page: 1})
	}
	return pi
}

// PublicInputJSON returns the JSON document of PublicInput(output).
func PublicInputJSON(output []felt.Felt) []byte {
	data, err := json.Marshal(PublicInput(output))
	if err != nil {
		panic(err)
	}
	return data
}
