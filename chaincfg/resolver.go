package chaincfg

import "time"

// The methods below resolve the height dependent difficulty constants. All
// timespans are in seconds, which is the unit block timestamps use.

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// TargetTimePerBlockSeconds is the legacy block spacing.
func (p *Params) TargetTimePerBlockSeconds() int64 {
	return seconds(p.TargetTimePerBlock)
}

// TargetTimespanAt is the legacy retarget window at height.
func (p *Params) TargetTimespanAt(height int32) int64 {
	return seconds(p.TargetTimespan.At(height))
}

// DifficultyAdjustmentInterval is the number of blocks between legacy retargets.
func (p *Params) DifficultyAdjustmentInterval(height int32) int64 {
	return p.TargetTimespanAt(height) / p.TargetTimePerBlockSeconds()
}

// MultiAlgoTimespanAt is the per-algorithm block time at height.
func (p *Params) MultiAlgoTimespanAt(height int32) int64 {
	return seconds(p.MultiAlgoTimespan.At(height))
}

// MultiAlgoTargetSpacing is the expected time between two blocks of the same
// algorithm.
func (p *Params) MultiAlgoTargetSpacing(height int32) int64 {
	return p.AlgoCount * p.MultiAlgoTimespanAt(height)
}

func (p *Params) MultiAlgoAveragingIntervalAt(height int32) int64 {
	return p.MultiAlgoAveragingInterval.At(height)
}

// MultiAlgoAveragingTargetTimespan is the expected duration of the averaging
// window.
func (p *Params) MultiAlgoAveragingTargetTimespan(height int32) int64 {
	return p.MultiAlgoAveragingIntervalAt(height) * p.MultiAlgoTargetSpacing(height)
}

func (p *Params) MultiAlgoMaxAdjustUpAt(height int32) int64 {
	return p.MultiAlgoMaxAdjustUp.At(height)
}

func (p *Params) MultiAlgoMaxAdjustDownAt(height int32) int64 {
	return p.MultiAlgoMaxAdjustDown.At(height)
}

// MultiAlgoMinActualTimespan is the lower bound of the damped timespan.
func (p *Params) MultiAlgoMinActualTimespan(height int32) int64 {
	return p.MultiAlgoAveragingTargetTimespan(height) * (100 - p.MultiAlgoMaxAdjustUpAt(height)) / 100
}

// MultiAlgoMaxActualTimespan is the upper bound of the damped timespan.
func (p *Params) MultiAlgoMaxActualTimespan(height int32) int64 {
	return p.MultiAlgoAveragingTargetTimespan(height) * (100 + p.MultiAlgoMaxAdjustDownAt(height)) / 100
}
