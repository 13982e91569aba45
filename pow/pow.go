package pow

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/smileycoin/smlypow/errors"
)

// CheckProofOfWork reports whether hash meets the target encoded in bits. The
// target must decode without the negative or overflow flag, must be non-zero and
// must not exceed the network's pow limit.
func CheckProofOfWork(hash *chainhash.Hash, bits uint32, params *chaincfg.Params) bool {
	if hash == nil {
		return false
	}

	target, negative, overflow := CompactToBig(bits)
	if negative || overflow || target.Sign() == 0 || target.Cmp(params.PowLimit) > 0 {
		return false
	}

	return HashToBig(hash).Cmp(target) <= 0
}

// PowLimitCompact is the compact encoding of the network's easiest target.
func PowLimitCompact(params *chaincfg.Params) uint32 {
	return BigToCompact(params.PowLimit)
}

// CheckParams validates params and checks that PowLimitBits encodes PowLimit.
func CheckParams(params *chaincfg.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if bits := PowLimitCompact(params); bits != params.PowLimitBits {
		return errors.NewConfigurationError("%s: pow limit bits %08x do not match pow limit %08x", params.Name, params.PowLimitBits, bits)
	}

	return nil
}
