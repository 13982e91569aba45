package difficulty

import (
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/pow"
	"github.com/smileycoin/smlypow/stores/headers/memory"
	"github.com/smileycoin/smlypow/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	genesisTime = 1_400_000_000
	floorBits   = 0x1e0fffff
)

// laneBits gives every algorithm its own target so lanes can be told apart.
var laneBits = map[chaincfg.Algo]uint32{
	chaincfg.AlgoSHA256D: 0x1d00ffff,
	chaincfg.AlgoScrypt:  0x1d00eeee,
	chaincfg.AlgoGroestl: 0x1d00dddd,
	chaincfg.AlgoSkein:   0x1d00cccc,
	chaincfg.AlgoQubit:   0x1d00bbbb,
}

// legacyParams retargets every 10 blocks and never reaches the multi-algo fork.
func legacyParams() *chaincfg.Params {
	p := chaincfg.MainNetParams
	p.Name = "legacy-unit"
	p.TargetTimespan = chaincfg.Fixed(30 * time.Minute)
	p.TimespanChangeHeight = 0
	p.MultiAlgoForkHeight = 1 << 30

	return &p
}

// multiAlgoParams retargets every 10 blocks until height 20 and every block
// after that. Blocks from height 30 use the multi-algo engine with an averaging
// window of 10 blocks and a target of 1800 seconds, bounded to [1728, 1944].
func multiAlgoParams() *chaincfg.Params {
	p := chaincfg.MainNetParams
	p.Name = "multialgo-unit"
	p.TargetTimespan = chaincfg.Forked(30*time.Minute, 20, 3*time.Minute)
	p.TimespanChangeHeight = 20
	p.MultiAlgoForkHeight = 30
	p.MultiAlgoTimespan = chaincfg.Fixed(3 * time.Minute)
	p.MultiAlgoTimespanForkHeight = 0
	p.MultiAlgoAveragingInterval = chaincfg.Fixed[int64](2)
	p.MultiAlgoMaxAdjustUp = chaincfg.Fixed[int64](4)
	p.MultiAlgoMaxAdjustDown = chaincfg.Fixed[int64](8)
	p.DifficultyChangeForkHeight = 0

	return &p
}

type block struct {
	algo chaincfg.Algo
	time int64
	bits uint32
}

func header(b block) *model.BlockHeader {
	return &model.BlockHeader{
		Version:   2 | b.algo.VersionBits(),
		Timestamp: uint32(b.time), //nolint:gosec // test timestamps fit
		Bits:      model.NewNBitFromUint32(b.bits),
	}
}

func buildChain(blocks []block) memory.View {
	chain := memory.NewChain()
	for _, b := range blocks {
		chain.Append(header(b))
	}

	return chain.View()
}

// evenChain has count blocks spacing seconds apart, all with bits.
func evenChain(count int, spacing int64, bits uint32) memory.View {
	blocks := make([]block, count)
	for i := range blocks {
		blocks[i] = block{algo: chaincfg.AlgoScrypt, time: genesisTime + int64(i)*spacing, bits: bits}
	}

	return buildChain(blocks)
}

// rotatingChain mines the algorithms in turn, each with its lane bits.
func rotatingChain(count int, spacing int64) memory.View {
	blocks := make([]block, count)
	for i := range blocks {
		algo := chaincfg.Algo(i % chaincfg.NumAlgos)
		blocks[i] = block{algo: algo, time: genesisTime + int64(i)*spacing, bits: laneBits[algo]}
	}

	return buildChain(blocks)
}

func candidate(algo chaincfg.Algo, tip model.BlockIndex, delay int64) *model.BlockHeader {
	return header(block{algo: algo, time: tip.Timestamp() + delay})
}

func newTestDifficulty(t *testing.T, params *chaincfg.Params) *Difficulty {
	t.Helper()

	d, err := NewDifficulty(ulogger.TestLogger{}, params)
	require.NoError(t, err)

	return d
}

func TestNewDifficulty(t *testing.T) {
	t.Run("default networks", func(t *testing.T) {
		for _, params := range []*chaincfg.Params{&chaincfg.MainNetParams, &chaincfg.TestNetParams, &chaincfg.RegressionNetParams} {
			d := newTestDifficulty(t, params)
			assert.Equal(t, params.PowLimitBits, d.PowLimitBits())
			assert.Same(t, params, d.Params())
		}
	})

	t.Run("mismatched pow limit bits", func(t *testing.T) {
		p := legacyParams()
		p.PowLimitBits = 0x1d00ffff

		_, err := NewDifficulty(ulogger.TestLogger{}, p)
		require.Error(t, err)
	})

	t.Run("invalid table", func(t *testing.T) {
		p := legacyParams()
		p.MultiAlgoMaxAdjustUp = nil

		_, err := NewDifficulty(ulogger.TestLogger{}, p)
		require.Error(t, err)
	})
}

func TestNextWorkRequiredNilTipPanics(t *testing.T) {
	d := newTestDifficulty(t, legacyParams())

	assert.Panics(t, func() {
		d.NextWorkRequired(nil, header(block{algo: chaincfg.AlgoScrypt}))
	})

	assert.Panics(t, func() {
		NextWorkRequired(nil, header(block{algo: chaincfg.AlgoScrypt}), legacyParams())
	})
}

func TestDispatcherRoutesOnForkHeight(t *testing.T) {
	params := multiAlgoParams()
	d := newTestDifficulty(t, params)
	view := rotatingChain(40, 180)

	// next height 29 is still legacy: the tip's own target at an even pace
	tip := view.At(28)
	require.Equal(t, chaincfg.AlgoSkein, tip.Algo())
	assert.Equal(t, laneBits[chaincfg.AlgoSkein], d.NextWorkRequired(tip, candidate(chaincfg.AlgoScrypt, tip, 180)))

	// next height 30 is multi-algo: the candidate lane's target
	tip = view.At(29)
	assert.Equal(t, laneBits[chaincfg.AlgoScrypt], d.NextWorkRequired(tip, candidate(chaincfg.AlgoScrypt, tip, 180)))
	assert.Equal(t, laneBits[chaincfg.AlgoGroestl], d.NextWorkRequired(tip, candidate(chaincfg.AlgoGroestl, tip, 180)))
}

func TestNextWorkRequiredDeterministic(t *testing.T) {
	params := multiAlgoParams()
	d := newTestDifficulty(t, params)
	view := rotatingChain(200, 97)

	want := make([]uint32, 0, view.Len())
	for h := int32(0); h < view.Len(); h++ {
		tip := view.At(h)
		want = append(want, d.NextWorkRequired(tip, candidate(chaincfg.AlgoQubit, tip, 97)))
	}

	var wg sync.WaitGroup

	got := make([][]uint32, 8)
	for i := range got {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for h := int32(0); h < view.Len(); h++ {
				tip := view.At(h)
				got[i] = append(got[i], NextWorkRequired(tip, candidate(chaincfg.AlgoQubit, tip, 97), params))
			}
		}()
	}

	wg.Wait()

	for i := range got {
		assert.Equal(t, want, got[i])
	}
}

func TestNextWorkRequiredDoesNotModifyParams(t *testing.T) {
	params := multiAlgoParams()
	limit := new(big.Int).Set(params.PowLimit)

	resolved := func() []int64 {
		var out []int64
		for _, h := range []int32{0, 19, 20, 29, 30, 100} {
			out = append(out,
				params.DifficultyAdjustmentInterval(h),
				params.MultiAlgoAveragingTargetTimespan(h),
				params.MultiAlgoMinActualTimespan(h),
				params.MultiAlgoMaxActualTimespan(h),
			)
		}

		return out
	}
	before := resolved()

	d := newTestDifficulty(t, params)
	view := rotatingChain(60, 60)

	for h := int32(0); h < view.Len(); h++ {
		tip := view.At(h)
		d.NextWorkRequired(tip, candidate(chaincfg.AlgoSkein, tip, 60))
	}

	assert.Equal(t, before, resolved())
	assert.Equal(t, 0, limit.Cmp(params.PowLimit))
}

func TestFloorInvariant(t *testing.T) {
	for _, params := range []*chaincfg.Params{legacyParams(), multiAlgoParams()} {
		t.Run(params.Name, func(t *testing.T) {
			d := newTestDifficulty(t, params)

			// very slow blocks at the floor push every retarget above the limit
			view := evenChain(80, 100_000, floorBits)

			for h := int32(0); h < view.Len(); h++ {
				tip := view.At(h)
				bits := d.NextWorkRequired(tip, candidate(chaincfg.AlgoScrypt, tip, 100_000))

				target, negative, overflow := pow.CompactToBig(bits)
				require.False(t, negative)
				require.False(t, overflow)
				require.LessOrEqual(t, target.Cmp(params.PowLimit), 0, "height %d bits %08x", h+1, bits)
			}
		})
	}
}
