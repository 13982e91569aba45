package chaincfg

import (
	"testing"
	"time"

	"github.com/smileycoin/smlypow/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionedAt(t *testing.T) {
	v := Versioned[int64]{{0, 1}, {10, 2}, {20, 3}}

	assert.Equal(t, int64(1), v.At(-5))
	assert.Equal(t, int64(1), v.At(0))
	assert.Equal(t, int64(1), v.At(9))
	assert.Equal(t, int64(2), v.At(10))
	assert.Equal(t, int64(2), v.At(19))
	assert.Equal(t, int64(3), v.At(20))
	assert.Equal(t, int64(3), v.At(1<<30))

	assert.Equal(t, int64(0), Versioned[int64]{}.At(5))
	assert.Len(t, Forked[int64](1, 0, 2), 1)
	assert.Equal(t, int64(2), Forked[int64](1, 0, 2).At(0))
}

func TestMainNetResolver(t *testing.T) {
	p := &MainNetParams

	tests := []struct {
		name   string
		height int32
		fn     func(int32) int64
		want   int64
	}{
		{"timespan before change", 97049, p.TargetTimespanAt, 86400},
		{"timespan at change", 97050, p.TargetTimespanAt, 180},
		{"interval before change", 97049, p.DifficultyAdjustmentInterval, 480},
		{"interval at change", 97050, p.DifficultyAdjustmentInterval, 1},
		{"multi-algo timespan v1", 224999, p.MultiAlgoTimespanAt, 60},
		{"multi-algo timespan v2", 225000, p.MultiAlgoTimespanAt, 180},
		{"spacing v1", 224999, p.MultiAlgoTargetSpacing, 300},
		{"spacing v2", 225000, p.MultiAlgoTargetSpacing, 900},
		{"averaging interval before fork", 1199999, p.MultiAlgoAveragingIntervalAt, 60},
		{"averaging interval at fork", 1200000, p.MultiAlgoAveragingIntervalAt, 2},
		{"averaging timespan before fork", 1199999, p.MultiAlgoAveragingTargetTimespan, 54000},
		{"averaging timespan at fork", 1200000, p.MultiAlgoAveragingTargetTimespan, 1800},
		{"adjust up before fork", 1199999, p.MultiAlgoMaxAdjustUpAt, 2},
		{"adjust up at fork", 1200000, p.MultiAlgoMaxAdjustUpAt, 4},
		{"adjust down before fork", 1199999, p.MultiAlgoMaxAdjustDownAt, 4},
		{"adjust down at fork", 1200000, p.MultiAlgoMaxAdjustDownAt, 8},
		{"min actual before fork", 1199999, p.MultiAlgoMinActualTimespan, 52920},
		{"max actual before fork", 1199999, p.MultiAlgoMaxActualTimespan, 56160},
		{"min actual at fork", 1200000, p.MultiAlgoMinActualTimespan, 1728},
		{"max actual at fork", 1200000, p.MultiAlgoMaxActualTimespan, 1944},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.height))
		})
	}

	assert.Equal(t, int64(180), p.TargetTimePerBlockSeconds())
}

func TestResolverIsPure(t *testing.T) {
	p := MainNetParams

	before := p.MultiAlgoMinActualTimespan(1200000)
	_ = p.MultiAlgoMaxActualTimespan(1200000)
	_ = p.MultiAlgoMinActualTimespan(0)

	assert.Equal(t, before, p.MultiAlgoMinActualTimespan(1200000))
	assert.Equal(t, MainNetParams, p)
}

func TestDefaultNetworksValidate(t *testing.T) {
	for _, p := range []*Params{&MainNetParams, &TestNetParams, &RegressionNetParams} {
		t.Run(p.Name, func(t *testing.T) {
			require.NoError(t, p.Validate())
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"empty table", func(p *Params) { p.TargetTimespan = nil }},
		{"table not starting at zero", func(p *Params) {
			p.MultiAlgoTimespan = Versioned[time.Duration]{{Height: 5, Value: time.Minute}}
		}},
		{"unsorted table", func(p *Params) {
			p.MultiAlgoMaxAdjustUp = Versioned[int64]{{0, 2}, {1200000, 4}, {1200000, 5}}
		}},
		{"switch away from fork height", func(p *Params) {
			p.TargetTimespan = Forked(24*time.Hour, 90000, 3*time.Minute)
		}},
		{"moved fork height", func(p *Params) { p.DifficultyChangeForkHeight = 1 }},
		{"zero algo count", func(p *Params) { p.AlgoCount = 0 }},
		{"adjust up of 100 percent", func(p *Params) {
			p.MultiAlgoMaxAdjustUp = Forked[int64](2, 1200000, 100)
		}},
		{"zero adjust down", func(p *Params) {
			p.MultiAlgoMaxAdjustDown = Forked[int64](0, 1200000, 8)
		}},
		{"nil pow limit", func(p *Params) { p.PowLimit = nil }},
		{"sub-second spacing", func(p *Params) { p.TargetTimePerBlock = time.Millisecond }},
		{"timespan shorter than a block", func(p *Params) {
			p.TargetTimespan = Forked(24*time.Hour, 97050, time.Minute)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MainNetParams
			tt.modify(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrConfiguration))
		})
	}
}

func TestGetChainParams(t *testing.T) {
	for _, name := range []string{"mainnet", "testnet", "regtest"} {
		p, err := GetChainParams(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
	}

	_, err := GetChainParams("stn")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestRegister(t *testing.T) {
	custom := RegressionNetParams
	custom.Name = "customnet"
	custom.Net = 0x01020304

	require.NoError(t, Register(&custom))

	p, err := GetChainParams("customnet")
	require.NoError(t, err)
	assert.Same(t, &custom, p)

	assert.ErrorIs(t, Register(&custom), ErrDuplicateNet)

	clash := RegressionNetParams
	clash.Name = "othernet"
	assert.ErrorIs(t, Register(&clash), ErrDuplicateNet)

	invalid := RegressionNetParams
	invalid.Name = "invalidnet"
	invalid.Net = 0x05060708
	invalid.AlgoCount = 0
	require.Error(t, Register(&invalid))

	_, err = GetChainParams("invalidnet")
	require.Error(t, err)
}
