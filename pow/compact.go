// Package pow holds the compact target encoding and the proof-of-work check.
//
// All functions are pure and safe for concurrent use.
package pow

import (
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

var (
	// bigOne is 1 represented as a big.Int.  It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// oneLsh256 is 1 shifted left 256 bits.  It is defined here to avoid
	// the overhead of creating it multiple times.
	oneLsh256 = new(big.Int).Lsh(bigOne, 256)
)

// CompactToBig decodes a compact target.
//
// The most significant 8 bits are a base 256 exponent, bit 23 is a sign bit and
// the low 23 bits are the mantissa:
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
//
// Targets are unsigned, so instead of negating, the sign bit is reported as
// negative. overflow is set when the value does not fit in 256 bits, in which case
// the returned magnitude is the full unwrapped value. The target is only usable
// when both flags are false.
func CompactToBig(compact uint32) (target *big.Int, negative bool, overflow bool) {
	mantissa := compact & 0x007fffff
	exponent := uint(compact >> 24)

	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		target = big.NewInt(int64(mantissa))
	} else {
		target = new(big.Int).Lsh(big.NewInt(int64(mantissa)), 8*(exponent-3))
	}

	negative = mantissa != 0 && compact&0x00800000 != 0
	overflow = mantissa != 0 && (exponent > 34 ||
		(mantissa > 0xff && exponent > 33) ||
		(mantissa > 0xffff && exponent > 32))

	return target, negative, overflow
}

// BigToCompact encodes a non-negative target. The compact form keeps 23 bits of
// precision so lower bits are truncated.
func BigToCompact(n *big.Int) uint32 {
	// No need to do any work if it's zero.
	if n.Sign() == 0 {
		return 0
	}

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes.  So, shift the number right or left
	// accordingly.  This is equivalent to:
	// mantissa = mantissa / 256^(exponent-3)
	abs := new(big.Int).Abs(n)
	exponent := uint((abs.BitLen() + 7) / 8)

	var mantissa uint32
	if exponent <= 3 {
		mantissa = uint32(abs.Uint64()) << (8 * (3 - exponent)) //nolint:gosec // at most 24 bits
	} else {
		mantissa = uint32(abs.Rsh(abs, 8*(exponent-3)).Uint64()) //nolint:gosec // at most 24 bits
	}

	// When the mantissa already has the sign bit set, the number is too
	// large to fit into the available 23-bits, so divide the number by 256
	// and increment the exponent accordingly.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa //nolint:gosec // exponent is at most 33
	if n.Sign() < 0 {
		compact |= 0x00800000
	}

	return compact
}

// HashToBig interprets a hash as a little endian 256 bit number, the way target
// comparisons read it.
func HashToBig(hash *chainhash.Hash) *big.Int {
	buf := *hash
	for i := 0; i < chainhash.HashSize/2; i++ {
		buf[i], buf[chainhash.HashSize-1-i] = buf[chainhash.HashSize-1-i], buf[i]
	}

	return new(big.Int).SetBytes(buf[:])
}

// CalcWork calculates a work value from difficulty bits.  A lower target means
// more work, so the work is the inverse of the target, scaled by 2^256 with 1
// added to the denominator to avoid division by zero. Invalid encodings have
// zero work.
func CalcWork(bits uint32) *big.Int {
	target, negative, overflow := CompactToBig(bits)
	if negative || overflow || target.Sign() <= 0 {
		return big.NewInt(0)
	}

	// (1 << 256) / (target + 1)
	denominator := new(big.Int).Add(target, bigOne)

	return new(big.Int).Div(oneLsh256, denominator)
}
