package difficulty

import (
	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/smileycoin/smlypow/model"
)

// LastBlockForAlgo walks back from start and returns the most recent block mined
// with algo, or nil when there is none. On networks that allow min-difficulty
// blocks, blocks mined under that rule do not count.
func LastBlockForAlgo(start model.BlockIndex, algo chaincfg.Algo, params *chaincfg.Params) model.BlockIndex {
	spacing := params.TargetTimePerBlockSeconds()

	for node := start; node != nil; node = node.Parent() {
		if node.Algo() != algo {
			continue
		}

		if params.ReduceMinDifficulty {
			if parent := node.Parent(); parent != nil && node.Timestamp() > parent.Timestamp()+2*spacing {
				continue
			}
		}

		return node
	}

	return nil
}
