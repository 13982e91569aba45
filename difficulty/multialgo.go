package difficulty

import (
	"math/big"

	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/pow"
)

// multiAlgoNextWork retargets the lane of the candidate's algorithm.
func (d *Difficulty) multiAlgoNextWork(tip model.BlockIndex, candidate *model.BlockHeader) uint32 {
	algo := candidate.Algo()
	next := tip.Height() + 1

	if int64(next)%d.params.DifficultyAdjustmentInterval(next) != 0 {
		if d.minDifficultyGap(int64(candidate.Timestamp), tip.Timestamp()) {
			floorFallback(reasonMinDifficulty)
			return d.powLimitBits
		}

		return tip.Bits()
	}

	height := tip.Height()

	first := model.RelativeAncestor(tip, d.params.AlgoCount*d.params.MultiAlgoAveragingIntervalAt(height))
	prevAlgo := LastBlockForAlgo(tip, algo, d.params)

	if first == nil || prevAlgo == nil {
		floorFallback(reasonShortHistory)
		d.logger.Debugf("multi-algo retarget at %d for %s: not enough history, using pow limit", next, algo)

		return d.powLimitBits
	}

	averagingTimespan := d.params.MultiAlgoAveragingTargetTimespan(height)

	// median times, a single block timestamp cannot move the window
	actualTimespan := d.dampedTimespan(height, tip.MedianTimePast()-first.MedianTimePast())

	target, _, _ := pow.CompactToBig(prevAlgo.Bits())
	before := new(big.Int).Set(target)

	target.Mul(target, big.NewInt(actualTimespan))
	target.Quo(target, big.NewInt(averagingTimespan))

	bits := pow.BigToCompact(d.clampToLimit(target))

	d.logger.Debugf("multi-algo retarget at %d for %s: target timespan %d, actual timespan %d", next, algo, averagingTimespan, actualTimespan)
	d.logger.Debugf("before: %08x  %064x", prevAlgo.Bits(), before)
	d.logger.Debugf("after:  %08x  %064x", bits, target)

	return bits
}

// dampedTimespan moves a quarter of the way from the averaging target timespan
// towards actual and keeps the result within the adjustment limits at height.
func (d *Difficulty) dampedTimespan(height int32, actual int64) int64 {
	averaging := d.params.MultiAlgoAveragingTargetTimespan(height)
	damped := averaging + (actual-averaging)/4

	if minTimespan := d.params.MultiAlgoMinActualTimespan(height); damped < minTimespan {
		return minTimespan
	}

	if maxTimespan := d.params.MultiAlgoMaxActualTimespan(height); damped > maxTimespan {
		return maxTimespan
	}

	return damped
}
