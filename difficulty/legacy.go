package difficulty

import (
	"math/big"

	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/pow"
)

// legacyNextWork retargets the whole chain once per adjustment interval.
func (d *Difficulty) legacyNextWork(tip model.BlockIndex, candidate *model.BlockHeader) uint32 {
	next := tip.Height() + 1
	interval := d.params.DifficultyAdjustmentInterval(next)

	if int64(next)%interval != 0 {
		if !d.params.ReduceMinDifficulty {
			return tip.Bits()
		}

		if d.minDifficultyGap(int64(candidate.Timestamp), tip.Timestamp()) {
			floorFallback(reasonMinDifficulty)
			return d.powLimitBits
		}

		// return the last block that was not mined under the min-difficulty rule
		node := tip
		for node.Parent() != nil &&
			int64(node.Height())%d.params.DifficultyAdjustmentInterval(node.Height()) != 0 &&
			node.Bits() == d.powLimitBits {
			node = node.Parent()
		}

		return node.Bits()
	}

	// The first retarget after genesis looks back one block less, genesis has no
	// interval before it.
	lookback := interval
	if int64(next) == interval {
		lookback = interval - 1
	}

	first := model.RelativeAncestor(tip, lookback)
	if first == nil {
		panic("difficulty: legacy retarget window runs past genesis")
	}

	return d.CalculateNextWorkRequired(tip, first.Timestamp())
}

// CalculateNextWorkRequired scales the target of tip by the time the last
// interval took, measured from firstBlockTime.
func (d *Difficulty) CalculateNextWorkRequired(tip model.BlockIndex, firstBlockTime int64) uint32 {
	if d.params.NoDifficultyAdjustment {
		return tip.Bits()
	}

	targetTimespan := d.params.TargetTimespanAt(tip.Height())
	actualTimespan := legacyTimespan(tip.Timestamp()-firstBlockTime, targetTimespan)

	target, _, _ := pow.CompactToBig(tip.Bits())
	before := new(big.Int).Set(target)

	// the product can be one bit wider than the limit
	shift := target.BitLen() > d.params.PowLimit.BitLen()-1
	if shift {
		target.Rsh(target, 1)
	}

	target.Mul(target, big.NewInt(actualTimespan))
	target.Quo(target, big.NewInt(targetTimespan))

	if shift {
		target.Lsh(target, 1)
	}

	bits := pow.BigToCompact(d.clampToLimit(target))

	d.logger.Debugf("legacy retarget at %d: target timespan %d, actual timespan %d", tip.Height()+1, targetTimespan, actualTimespan)
	d.logger.Debugf("before: %08x  %064x", tip.Bits(), before)
	d.logger.Debugf("after:  %08x  %064x", bits, target)

	return bits
}

// legacyTimespan limits a measured interval to four times the target either way.
func legacyTimespan(actual, target int64) int64 {
	if actual < target/4 {
		return target / 4
	}

	if actual > target*4 {
		return target * 4
	}

	return actual
}
