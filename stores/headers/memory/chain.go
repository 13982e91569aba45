// Package memory holds an append-only header history indexed by height.
//
// A View is an immutable prefix of a Chain. Nodes are (view, height) cursors
// into a View, so walking ancestors never takes a lock and never observes
// blocks appended after the view was taken.
package memory

import (
	"sync"

	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/util"
)

type entry struct {
	header         model.BlockHeader
	medianTimePast int64
}

// Chain is safe for concurrent use. Appends are serialized, views may be read
// from any number of goroutines while appends continue.
type Chain struct {
	mu      sync.RWMutex
	entries []entry
}

func NewChain() *Chain {
	return &Chain{}
}

// Append adds header at the next height and returns its node.
func (c *Chain) Append(header *model.BlockHeader) *Node {
	if header == nil {
		panic("memory: append of nil header")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	height := len(c.entries)

	timestamps := make([]int64, 0, util.MedianTimeBlocks)
	timestamps = append(timestamps, int64(header.Timestamp))

	for i := height - 1; i >= 0 && len(timestamps) < util.MedianTimeBlocks; i-- {
		timestamps = append(timestamps, int64(c.entries[i].header.Timestamp))
	}

	// cannot fail, there is at least one and at most MedianTimeBlocks timestamps
	mtp, _ := util.CalcPastMedianTime(timestamps)

	c.entries = append(c.entries, entry{header: *header, medianTimePast: mtp})

	return &Node{view: View{entries: c.entries}, height: int32(height)} //nolint:gosec // chain heights fit in int32
}

// Len is the number of headers in the chain.
func (c *Chain) Len() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return int32(len(c.entries)) //nolint:gosec // chain heights fit in int32
}

// View returns the current history. Later appends are not visible in it.
func (c *Chain) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return View{entries: c.entries[:len(c.entries):len(c.entries)]}
}

// View is an immutable prefix of a Chain. The zero value is an empty history.
type View struct {
	entries []entry
}

func (v View) Len() int32 {
	return int32(len(v.entries)) //nolint:gosec // chain heights fit in int32
}

// Tip returns the last node, nil for an empty view.
func (v View) Tip() *Node {
	if len(v.entries) == 0 {
		return nil
	}

	return &Node{view: v, height: v.Len() - 1}
}

// At returns the node at height, nil when out of range.
func (v View) At(height int32) *Node {
	if height < 0 || height >= v.Len() {
		return nil
	}

	return &Node{view: v, height: height}
}

// Headers returns copies of the headers from height from to to inclusive.
func (v View) Headers(from, to int32) ([]*model.BlockHeader, error) {
	if from < 0 || to >= v.Len() || from > to {
		return nil, errors.NewInvalidArgumentError("header range %d..%d outside chain of %d", from, to, v.Len())
	}

	headers := make([]*model.BlockHeader, 0, to-from+1)
	for h := from; h <= to; h++ {
		header := v.entries[h].header
		headers = append(headers, &header)
	}

	return headers, nil
}

// Node is a cursor into a View. It implements model.BlockIndex.
type Node struct {
	view   View
	height int32
}

func (n *Node) entry() *entry {
	return &n.view.entries[n.height]
}

func (n *Node) Height() int32 {
	return n.height
}

func (n *Node) Timestamp() int64 {
	return int64(n.entry().header.Timestamp)
}

func (n *Node) MedianTimePast() int64 {
	return n.entry().medianTimePast
}

func (n *Node) Bits() uint32 {
	return n.entry().header.Bits.Uint32()
}

func (n *Node) Algo() chaincfg.Algo {
	return n.entry().header.Algo()
}

// Parent returns an untyped nil at genesis so callers can compare with nil.
func (n *Node) Parent() model.BlockIndex {
	if n.height == 0 {
		return nil
	}

	return &Node{view: n.view, height: n.height - 1}
}

// Header returns a copy of the header.
func (n *Node) Header() *model.BlockHeader {
	header := n.entry().header
	return &header
}
