package model

import (
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/smileycoin/smlypow/chaincfg"
)

// BlockHeader holds the header fields the difficulty rules read. Hashing and
// serialization happen elsewhere, Hash and PowHash are supplied by the caller.
type BlockHeader struct {
	// Version of the block. Bits 9 to 11 select the mining algorithm.
	Version int32

	// Time the block was created in unix time.
	Timestamp uint32

	// Difficulty target for the block.
	Bits NBit

	// Nonce used to generate the block.
	Nonce uint32

	// Hash identifies the block.
	Hash *chainhash.Hash

	// PowHash is the hash of the header under the block's algorithm, nil when
	// not known.
	PowHash *chainhash.Hash
}

// Algo returns the algorithm selected by the version bits.
func (bh *BlockHeader) Algo() chaincfg.Algo {
	return chaincfg.AlgoFromVersion(bh.Version)
}

func (bh *BlockHeader) String() string {
	hash := "<nil>"
	if bh.Hash != nil {
		hash = bh.Hash.String()
	}

	return fmt.Sprintf("%s version: %#x algo: %s time: %d bits: %s nonce: %d", hash, bh.Version, bh.Algo(), bh.Timestamp, bh.Bits, bh.Nonce)
}
