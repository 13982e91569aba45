package model

import "github.com/smileycoin/smlypow/chaincfg"

// BlockIndex is a read-only view of a block and its ancestors. Implementations
// must be safe for concurrent readers.
type BlockIndex interface {
	Height() int32
	Timestamp() int64
	// MedianTimePast is the median timestamp of this block and up to ten
	// of its ancestors.
	MedianTimePast() int64
	Bits() uint32
	Algo() chaincfg.Algo
	// Parent returns nil at genesis.
	Parent() BlockIndex
}

// RelativeAncestor returns the ancestor distance blocks before node, or nil when
// the chain is shorter than that.
func RelativeAncestor(node BlockIndex, distance int64) BlockIndex {
	for ; node != nil && distance > 0; distance-- {
		node = node.Parent()
	}

	return node
}
