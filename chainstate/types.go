// Package chainstate decodes the Bitcoin chain state committed to in the
// output segment of the aggregation program.
package chainstate

import "slices"

// ChainState is the chain state proven by an aggregation proof.
type ChainState struct {
	BlockHeight    uint32   `json:"block_height"`
	BestBlockHash  string   `json:"best_block_hash"`
	TotalWork      string   `json:"total_work"`
	CurrentTarget  uint32   `json:"current_target"`
	Timestamps     []uint32 `json:"timestamps"`
	EpochStartTime uint32   `json:"epoch_start_time"`
	MMRRoots       []string `json:"mmr_roots"`
	ProgramHash    string   `json:"program_hash"`
}

// Clone returns a deep copy of cs.
func (cs *ChainState) Clone() *ChainState {
	c := *cs
	c.Timestamps = slices.Clone(cs.Timestamps)
	c.MMRRoots = slices.Clone(cs.MMRRoots)
	return &c
}
