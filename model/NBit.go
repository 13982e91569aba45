package model

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/pow"
)

// NBit is a compact difficulty target in little endian byte order, the order
// it is serialized in a block header. String renders it the usual way.
type NBit [4]byte

// diff1Target is the target of difficulty 1, compact 0x1d00ffff.
var diff1Target, _, _ = pow.CompactToBig(0x1d00ffff)

func NewNBitFromUint32(bits uint32) NBit {
	var nb NBit

	binary.LittleEndian.PutUint32(nb[:], bits)

	return nb
}

func NewNBitFromSlice(nBits []byte) (*NBit, error) {
	if len(nBits) != 4 {
		return nil, errors.NewInvalidArgumentError("nBits should be 4 bytes long, got %d", len(nBits))
	}

	nb := &NBit{}
	copy(nb[:], nBits)

	return nb, nil
}

// NewNBitFromString parses the big endian hex form, e.g. "1e0fffff".
func NewNBitFromString(nBitsHex string) (*NBit, error) {
	nBits, err := hex.DecodeString(nBitsHex)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error decoding nBits %q", nBitsHex, err)
	}

	return NewNBitFromSlice(bt.ReverseBytes(nBits))
}

func (b NBit) Uint32() uint32 {
	return binary.LittleEndian.Uint32(b[:])
}

func (b NBit) String() string {
	return hex.EncodeToString(bt.ReverseBytes(b.CloneBytes()))
}

func (b NBit) CloneBytes() []byte {
	return append([]byte(nil), b[:]...)
}

// CalculateTarget decodes the target. Negative and overflowing encodings are
// returned as decoded, callers that validate should use pow.CompactToBig.
func (b NBit) CalculateTarget() *big.Int {
	target, _, _ := pow.CompactToBig(b.Uint32())
	return target
}

// CalculateDifficulty is the ratio of the difficulty 1 target to this target.
func (b NBit) CalculateDifficulty() *big.Float {
	target := b.CalculateTarget()
	if target.Sign() == 0 {
		return new(big.Float)
	}

	return new(big.Float).Quo(new(big.Float).SetInt(diff1Target), new(big.Float).SetInt(target))
}

// MarshalCSV and UnmarshalCSV let header files carry bits in hex.
func (b NBit) MarshalCSV() (string, error) {
	return b.String(), nil
}

func (b *NBit) UnmarshalCSV(s string) error {
	nb, err := NewNBitFromString(s)
	if err != nil {
		return err
	}

	*b = *nb

	return nil
}
