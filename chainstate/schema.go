package chainstate

// ChainStateOffset is the index of the first chain state field in the output
// segment. The preceding words belong to the batch header written by the
// aggregation program.
const ChainStateOffset = 50

// Field locates a chain state field inside the output segment.
type Field struct {
	Name   string
	Offset int
	Len    int
}

// End returns the index just past the field.
func (f Field) End() int {
	return f.Offset + f.Len
}

const (
	hashWords     = 8
	timestampsLen = 11
	mmrRootsLen   = 27
)

// Output segment layout, relative to the start of the segment:
//
//	[50]      block_height
//	[51..58]  best_block_hash
//	[59]      total_work
//	[60]      current_target
//	[61..71]  timestamps
//	[72]      epoch_start_time
//	[73..99]  mmr_roots
//	[100]     program_hash
var (
	BlockHeight    = Field{Name: "block_height", Offset: ChainStateOffset + 0, Len: 1}
	BestBlockHash  = Field{Name: "best_block_hash", Offset: ChainStateOffset + 1, Len: hashWords}
	TotalWork      = Field{Name: "total_work", Offset: ChainStateOffset + 9, Len: 1}
	CurrentTarget  = Field{Name: "current_target", Offset: ChainStateOffset + 10, Len: 1}
	Timestamps     = Field{Name: "timestamps", Offset: ChainStateOffset + 11, Len: timestampsLen}
	EpochStartTime = Field{Name: "epoch_start_time", Offset: ChainStateOffset + 22, Len: 1}
	MMRRoots       = Field{Name: "mmr_roots", Offset: ChainStateOffset + 23, Len: mmrRootsLen}
	ProgramHash    = Field{Name: "program_hash", Offset: ChainStateOffset + 50, Len: 1}
)

// Schema lists every field in output order.
var Schema = []Field{
	BlockHeight,
	BestBlockHash,
	TotalWork,
	CurrentTarget,
	Timestamps,
	EpochStartTime,
	MMRRoots,
	ProgramHash,
}

// MinBufferLen is the smallest output segment that holds every field.
var MinBufferLen = minBufferLen()

func minBufferLen() int {
	n := 0
	for _, f := range Schema {
		n = max(n, f.End())
	}
	return n
}
