// Package difficulty computes the compact target the next block must meet.
//
// Blocks below the multi-algo fork height are retargeted by the legacy engine,
// one interval at a time for the whole chain. From the fork on every mining
// algorithm has its own lane: its target follows the median time of the
// averaging window and the previous target of the same algorithm.
//
// Every computation reads an immutable history through model.BlockIndex and
// never modifies the chain parameters, so a Difficulty may be shared between
// goroutines.
package difficulty

import (
	"math/big"
	"time"

	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/pow"
	"github.com/smileycoin/smlypow/ulogger"
)

type Difficulty struct {
	logger       ulogger.Logger
	params       *chaincfg.Params
	powLimitBits uint32
}

// NewDifficulty returns a retarget engine for params. The parameters are
// checked once here and must not be modified afterwards.
func NewDifficulty(logger ulogger.Logger, params *chaincfg.Params) (*Difficulty, error) {
	if err := pow.CheckParams(params); err != nil {
		return nil, err
	}

	return newDifficulty(logger, params), nil
}

func newDifficulty(logger ulogger.Logger, params *chaincfg.Params) *Difficulty {
	initPrometheusMetrics()

	if logger == nil {
		logger = ulogger.TestLogger{}
	}

	return &Difficulty{
		logger:       logger,
		params:       params,
		powLimitBits: pow.PowLimitCompact(params),
	}
}

// Params returns the chain parameters the engine was built with.
func (d *Difficulty) Params() *chaincfg.Params {
	return d.params
}

// PowLimitBits is the compact encoding of the network floor.
func (d *Difficulty) PowLimitBits() uint32 {
	return d.powLimitBits
}

// NextWorkRequired returns the compact target for candidate, the block that
// extends tip. A nil tip breaks the caller's contract and panics.
func (d *Difficulty) NextWorkRequired(tip model.BlockIndex, candidate *model.BlockHeader) uint32 {
	if tip == nil {
		panic("difficulty: next work required without a tip")
	}

	start := time.Now()

	var (
		bits   uint32
		engine string
	)

	if tip.Height()+1 < d.params.MultiAlgoForkHeight {
		engine = engineLegacy
		bits = d.legacyNextWork(tip, candidate)
	} else {
		engine = engineMultiAlgo
		bits = d.multiAlgoNextWork(tip, candidate)
	}

	observeNextWork(engine, candidate.Algo(), start)

	return bits
}

// NextWorkRequired is the stateless form of (*Difficulty).NextWorkRequired. It
// does not log and does not check params.
func NextWorkRequired(tip model.BlockIndex, candidate *model.BlockHeader, params *chaincfg.Params) uint32 {
	return newDifficulty(nil, params).NextWorkRequired(tip, candidate)
}

// minDifficultyGap reports whether a block at timestamp arrived late enough after
// previous to be mined at the floor on networks that allow it.
func (d *Difficulty) minDifficultyGap(timestamp, previous int64) bool {
	return d.params.ReduceMinDifficulty && timestamp > previous+2*d.params.TargetTimePerBlockSeconds()
}

// clampToLimit caps target at the network floor in place.
func (d *Difficulty) clampToLimit(target *big.Int) *big.Int {
	if target.Cmp(d.params.PowLimit) > 0 {
		target.Set(d.params.PowLimit)
	}

	return target
}
