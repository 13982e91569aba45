package sql

import (
	"context"

	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/stores/headers/memory"
)

func (s *SQL) Tip(_ context.Context) (model.BlockIndex, error) {
	tip := s.chain.View().Tip()
	if tip == nil {
		return nil, errors.NewBlockNotFoundError("no headers stored")
	}

	return tip, nil
}

func (s *SQL) GetByHeight(_ context.Context, height int32) (model.BlockIndex, error) {
	node := s.chain.View().At(height)
	if node == nil {
		return nil, errors.NewBlockNotFoundError("no header at height %d", height)
	}

	return node, nil
}

func (s *SQL) Snapshot(_ context.Context) (memory.View, error) {
	return s.chain.View(), nil
}
