package pow

import (
	"math/big"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bigToHash is the inverse of HashToBig.
func bigToHash(n *big.Int) *chainhash.Hash {
	var hash chainhash.Hash

	b := n.Bytes()
	for i := range b {
		hash[i] = b[len(b)-1-i]
	}

	return &hash
}

func TestHashToBig(t *testing.T) {
	hash, err := chainhash.NewHashFromStr("00000000000000000000000000000000000000000000000000000000000001ff")
	require.NoError(t, err)

	assert.Equal(t, int64(0x1ff), HashToBig(hash).Int64())
	assert.Equal(t, hash, bigToHash(HashToBig(hash)))
}

func TestCheckProofOfWork(t *testing.T) {
	mainnet := &chaincfg.MainNetParams
	regtest := &chaincfg.RegressionNetParams

	target, _, _ := CompactToBig(0x1e0ffff0)
	atTarget := bigToHash(target)
	aboveTarget := bigToHash(new(big.Int).Add(target, big.NewInt(1)))

	tests := []struct {
		name   string
		hash   *chainhash.Hash
		bits   uint32
		params *chaincfg.Params
		want   bool
	}{
		{"zero hash meets target", &chainhash.Hash{}, 0x1e0ffff0, mainnet, true},
		{"hash equal to target", atTarget, 0x1e0ffff0, mainnet, true},
		{"hash above target", aboveTarget, 0x1e0ffff0, mainnet, false},
		{"zero target", &chainhash.Hash{}, 0, mainnet, false},
		{"negative target", &chainhash.Hash{}, 0x1e8fffff, mainnet, false},
		{"overflowing target", &chainhash.Hash{}, 0xff123456, mainnet, false},
		{"target above pow limit", &chainhash.Hash{}, 0x1f00ffff, mainnet, false},
		{"regtest allows easier targets", &chainhash.Hash{}, 0x1f00ffff, regtest, true},
		{"nil hash", nil, 0x1e0ffff0, mainnet, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckProofOfWork(tt.hash, tt.bits, tt.params))
		})
	}
}

func TestCheckParams(t *testing.T) {
	for _, params := range []*chaincfg.Params{&chaincfg.MainNetParams, &chaincfg.TestNetParams, &chaincfg.RegressionNetParams} {
		require.NoError(t, CheckParams(params), params.Name)
		assert.Equal(t, params.PowLimitBits, PowLimitCompact(params))
	}

	wrong := chaincfg.MainNetParams
	wrong.PowLimitBits = 0x1d00ffff
	require.Error(t, CheckParams(&wrong))

	invalid := chaincfg.MainNetParams
	invalid.AlgoCount = 0
	require.Error(t, CheckParams(&invalid))
}
