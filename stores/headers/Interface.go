// Package headers stores the header history the difficulty rules read.
package headers

import (
	"context"

	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/stores/headers/memory"
)

// Store is a single chain of headers indexed by height. Appends go to the next
// height, reorganizations are out of scope.
type Store interface {
	Append(ctx context.Context, header *model.BlockHeader) (model.BlockIndex, error)
	Tip(ctx context.Context) (model.BlockIndex, error)
	GetByHeight(ctx context.Context, height int32) (model.BlockIndex, error)
	// Snapshot returns an immutable view safe to walk while appends continue.
	Snapshot(ctx context.Context) (memory.View, error)
	Close() error
}
