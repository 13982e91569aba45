package memory

import (
	"context"

	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/model"
)

// Store is a headers store that keeps everything in a Chain.
type Store struct {
	chain *Chain
}

func New() *Store {
	return &Store{chain: NewChain()}
}

func (s *Store) Append(ctx context.Context, header *model.BlockHeader) (model.BlockIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewContextCanceledError("append canceled", err)
	}

	if header == nil {
		return nil, errors.NewInvalidArgumentError("header is nil")
	}

	return s.chain.Append(header), nil
}

func (s *Store) Tip(_ context.Context) (model.BlockIndex, error) {
	tip := s.chain.View().Tip()
	if tip == nil {
		return nil, errors.NewBlockNotFoundError("chain is empty")
	}

	return tip, nil
}

func (s *Store) GetByHeight(_ context.Context, height int32) (model.BlockIndex, error) {
	node := s.chain.View().At(height)
	if node == nil {
		return nil, errors.NewBlockNotFoundError("no block at height %d", height)
	}

	return node, nil
}

func (s *Store) Snapshot(_ context.Context) (View, error) {
	return s.chain.View(), nil
}

func (s *Store) Close() error {
	return nil
}
