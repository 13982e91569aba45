package difficulty

import (
	"math/rand/v2"
	"testing"

	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastBlockForAlgo(t *testing.T) {
	params := multiAlgoParams()
	tip := rotatingChain(24, 180).Tip()

	tests := map[chaincfg.Algo]int32{
		chaincfg.AlgoSkein:   23,
		chaincfg.AlgoGroestl: 22,
		chaincfg.AlgoScrypt:  21,
		chaincfg.AlgoSHA256D: 20,
		chaincfg.AlgoQubit:   19,
	}

	for algo, want := range tests {
		t.Run(algo.String(), func(t *testing.T) {
			node := LastBlockForAlgo(tip, algo, params)
			require.NotNil(t, node)
			assert.Equal(t, want, node.Height())
			assert.Equal(t, algo, node.Algo())
		})
	}

	assert.Nil(t, LastBlockForAlgo(tip, chaincfg.AlgoUnknown, params))
	assert.Nil(t, LastBlockForAlgo(nil, chaincfg.AlgoScrypt, params))
}

func TestLastBlockForAlgoNeverCrossesLanes(t *testing.T) {
	params := multiAlgoParams()
	rnd := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test data

	blocks := make([]block, 300)
	for i := range blocks {
		// sha256d is rarer so some lookups come back empty near genesis
		algo := chaincfg.Algo(1 + rnd.IntN(chaincfg.NumAlgos-1))
		if rnd.IntN(50) == 0 {
			algo = chaincfg.AlgoSHA256D
		}

		blocks[i] = block{algo: algo, time: genesisTime + int64(i)*180, bits: laneBits[algo]}
	}

	view := buildChain(blocks)

	for h := int32(0); h < view.Len(); h++ {
		for algo := chaincfg.AlgoSHA256D; algo < chaincfg.NumAlgos; algo++ {
			node := LastBlockForAlgo(view.At(h), algo, params)
			if node == nil {
				continue
			}

			require.Equal(t, algo, node.Algo())
			require.LessOrEqual(t, node.Height(), h)
		}
	}
}

func TestLastBlockForAlgoSkipsMinDifficultyBlocks(t *testing.T) {
	blocks := []block{
		{algo: chaincfg.AlgoScrypt, time: genesisTime},
		{algo: chaincfg.AlgoScrypt, time: genesisTime + 180},
		{algo: chaincfg.AlgoSkein, time: genesisTime + 360},
		// more than twice the spacing after its parent
		{algo: chaincfg.AlgoScrypt, time: genesisTime + 360 + 361},
		{algo: chaincfg.AlgoSkein, time: genesisTime + 1000},
	}
	tip := buildChain(blocks).Tip()

	params := multiAlgoParams()
	assert.Equal(t, int32(3), LastBlockForAlgo(tip, chaincfg.AlgoScrypt, params).Height())

	params.ReduceMinDifficulty = true
	assert.Equal(t, int32(1), LastBlockForAlgo(tip, chaincfg.AlgoScrypt, params).Height())

	// exactly twice the spacing still counts
	blocks[3].time = genesisTime + 360 + 360
	tip = buildChain(blocks).Tip()
	assert.Equal(t, int32(3), LastBlockForAlgo(tip, chaincfg.AlgoScrypt, params).Height())

	// genesis has no parent to compare with
	genesis := buildChain([]block{{algo: chaincfg.AlgoScrypt, time: genesisTime}}).Tip()
	assert.Equal(t, int32(0), LastBlockForAlgo(genesis, chaincfg.AlgoScrypt, params).Height())
}
