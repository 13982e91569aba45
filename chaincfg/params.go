// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"github.com/smileycoin/smlypow/errors"
)

// These variables are the chain proof-of-work limit parameters for each default
// network.
var (
	// bigOne is 1 represented as a big.Int.  It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// mainPowLimit is the highest proof of work value a block can have for
	// the main network.  It is the value 2^236 - 1.
	mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)

	// testNetPowLimit is the same as mainnet.
	testNetPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)

	// regressionPowLimit is the highest proof of work value a block can have
	// for the regression test network.  It is the value 2^255 - 1.
	regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
)

// Net is the magic number identifying a network.
type Net uint32

const (
	MainNet       Net = 0xdbb6c0fb
	TestNet       Net = 0x0709110b
	RegressionNet Net = 0xdab5bffa
)

// Params defines a network by its difficulty parameters.
//
// Every height dependent constant is a Versioned table. The named fork heights
// are the only heights the tables may switch at, see Validate.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net Net

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// TargetTimePerBlock is the desired amount of time to generate each
	// block before the multi-algo fork.
	TargetTimePerBlock time.Duration

	// TargetTimespan is the legacy retarget window. It switches from the
	// original window to the revised one at TimespanChangeHeight.
	TargetTimespan       Versioned[time.Duration]
	TimespanChangeHeight int32

	// ReduceMinDifficulty allows a block with the floor difficulty when no
	// block has been found for twice the target spacing.
	ReduceMinDifficulty bool

	// NoDifficultyAdjustment disables legacy retargeting.
	NoDifficultyAdjustment bool

	// MultiAlgoForkHeight is the first height retargeted per algorithm.
	MultiAlgoForkHeight int32

	// AlgoCount is the number of algorithms sharing the block rate.
	AlgoCount int64

	// MultiAlgoTimespan is the per-algorithm block time. It switches at
	// MultiAlgoTimespanForkHeight.
	MultiAlgoTimespan           Versioned[time.Duration]
	MultiAlgoTimespanForkHeight int32

	// MultiAlgoAveragingInterval is the averaging window in units of
	// AlgoCount blocks. It is 60 before DifficultyChangeForkHeight and 2
	// from it on.
	MultiAlgoAveragingInterval Versioned[int64]

	// MultiAlgoMaxAdjustUp and MultiAlgoMaxAdjustDown are percentages that
	// bound the damped timespan. They switch at DifficultyChangeForkHeight.
	MultiAlgoMaxAdjustUp       Versioned[int64]
	MultiAlgoMaxAdjustDown     Versioned[int64]
	DifficultyChangeForkHeight int32
}

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:         "mainnet",
	Net:          MainNet,
	PowLimit:     mainPowLimit,
	PowLimitBits: 0x1e0fffff,

	TargetTimePerBlock:   3 * time.Minute,
	TargetTimespan:       Forked(24*time.Hour, 97050, 3*time.Minute),
	TimespanChangeHeight: 97050,

	ReduceMinDifficulty:    false,
	NoDifficultyAdjustment: false,

	MultiAlgoForkHeight:         224000,
	AlgoCount:                   NumAlgos,
	MultiAlgoTimespan:           Forked(time.Minute, 225000, 3*time.Minute),
	MultiAlgoTimespanForkHeight: 225000,

	MultiAlgoAveragingInterval: Forked[int64](60, 1200000, 2),
	MultiAlgoMaxAdjustUp:       Forked[int64](2, 1200000, 4),
	MultiAlgoMaxAdjustDown:     Forked[int64](4, 1200000, 8),
	DifficultyChangeForkHeight: 1200000,
}

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:         "testnet",
	Net:          TestNet,
	PowLimit:     testNetPowLimit,
	PowLimitBits: 0x1e0fffff,

	TargetTimePerBlock:   3 * time.Minute,
	TargetTimespan:       Forked(24*time.Hour, 100, 3*time.Minute),
	TimespanChangeHeight: 100,

	ReduceMinDifficulty:    true,
	NoDifficultyAdjustment: false,

	MultiAlgoForkHeight:         200,
	AlgoCount:                   NumAlgos,
	MultiAlgoTimespan:           Forked(time.Minute, 300, 3*time.Minute),
	MultiAlgoTimespanForkHeight: 300,

	MultiAlgoAveragingInterval: Forked[int64](60, 400, 2),
	MultiAlgoMaxAdjustUp:       Forked[int64](2, 400, 4),
	MultiAlgoMaxAdjustDown:     Forked[int64](4, 400, 8),
	DifficultyChangeForkHeight: 400,
}

// RegressionNetParams defines the network parameters for the regression test
// network. Legacy retargeting is disabled.
var RegressionNetParams = Params{
	Name:         "regtest",
	Net:          RegressionNet,
	PowLimit:     regressionPowLimit,
	PowLimitBits: 0x207fffff,

	TargetTimePerBlock:   3 * time.Minute,
	TargetTimespan:       Fixed(30 * time.Minute),
	TimespanChangeHeight: 0,

	ReduceMinDifficulty:    true,
	NoDifficultyAdjustment: true,

	MultiAlgoForkHeight:         100,
	AlgoCount:                   NumAlgos,
	MultiAlgoTimespan:           Fixed(3 * time.Minute),
	MultiAlgoTimespanForkHeight: 0,

	MultiAlgoAveragingInterval: Fixed[int64](10),
	MultiAlgoMaxAdjustUp:       Fixed[int64](4),
	MultiAlgoMaxAdjustDown:     Fixed[int64](8),
	DifficultyChangeForkHeight: 0,
}

var (
	// ErrDuplicateNet describes an error where the parameters for a network
	// could not be set due to the network already being a standard network
	// or previously-registered into this package.
	ErrDuplicateNet = errors.NewConfigurationError("duplicate network")
)

var (
	registeredNets  = make(map[Net]struct{})
	registeredNames = make(map[string]*Params)
)

// Register registers the network parameters for a network.  This may error
// with ErrDuplicateNet if the network is already registered (either due to a
// previous Register call, or the network being one of the default networks), or
// with a configuration error if the parameters do not validate.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}

	if _, ok := registeredNames[params.Name]; ok {
		return ErrDuplicateNet
	}

	if err := params.Validate(); err != nil {
		return err
	}

	registeredNets[params.Net] = struct{}{}
	registeredNames[params.Name] = params

	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error.  This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// GetChainParams returns the registered parameters for a network name.
func GetChainParams(network string) (*Params, error) {
	if params, ok := registeredNames[network]; ok {
		return params, nil
	}

	return nil, errors.NewConfigurationError("unknown network %s", network)
}

// Validate checks the versioned tables against the named fork heights.
func (p *Params) Validate() error {
	if p.PowLimit == nil || p.PowLimit.Sign() <= 0 {
		return errors.NewConfigurationError("%s: pow limit must be positive", p.Name)
	}

	if p.TargetTimePerBlock < time.Second {
		return errors.NewConfigurationError("%s: target time per block must be at least one second", p.Name)
	}

	if p.AlgoCount <= 0 {
		return errors.NewConfigurationError("%s: algo count must be positive", p.Name)
	}

	if err := p.TargetTimespan.validate(p.Name+": target timespan", p.TimespanChangeHeight); err != nil {
		return err
	}

	if err := p.MultiAlgoTimespan.validate(p.Name+": multi-algo timespan", p.MultiAlgoTimespanForkHeight); err != nil {
		return err
	}

	for name, table := range map[string]Versioned[int64]{
		"multi-algo averaging interval": p.MultiAlgoAveragingInterval,
		"multi-algo max adjust up":      p.MultiAlgoMaxAdjustUp,
		"multi-algo max adjust down":    p.MultiAlgoMaxAdjustDown,
	} {
		if err := table.validate(p.Name+": "+name, p.DifficultyChangeForkHeight); err != nil {
			return err
		}

		for _, a := range table {
			if a.Value <= 0 {
				return errors.NewConfigurationError("%s: %s must be positive at height %d", p.Name, name, a.Height)
			}
		}
	}

	for _, a := range p.MultiAlgoMaxAdjustUp {
		if a.Value >= 100 {
			return errors.NewConfigurationError("%s: multi-algo max adjust up must be below 100 at height %d", p.Name, a.Height)
		}
	}

	for _, h := range []int32{0, p.TimespanChangeHeight} {
		if p.DifficultyAdjustmentInterval(h) <= 0 {
			return errors.NewConfigurationError("%s: legacy timespan shorter than one block", p.Name)
		}
	}

	return nil
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&RegressionNetParams)
}
