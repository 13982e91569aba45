package sql

import (
	"context"

	"github.com/lib/pq"
	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/model"
	"modernc.org/sqlite"
)

// primary result code of SQLITE_CONSTRAINT_PRIMARYKEY, SQLITE_CONSTRAINT_UNIQUE etc.
const sqliteConstraint = 19

// Append stores header at the next height. The header must carry its hash.
func (s *SQL) Append(ctx context.Context, header *model.BlockHeader) (model.BlockIndex, error) {
	if header == nil || header.Hash == nil {
		return nil, errors.NewInvalidArgumentError("header and header hash are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	height := s.chain.Len()

	var powHash interface{}
	if header.PowHash != nil {
		powHash = header.PowHash.CloneBytes()
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO headers (height, hash, version, block_time, n_bits, nonce, pow_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, height, header.Hash.CloneBytes(), header.Version, int64(header.Timestamp), header.Bits.CloneBytes(), int64(header.Nonce), powHash); err != nil {
		return nil, s.parseSQLError(err, header)
	}

	s.logger.Debugf("stored header %d %s", height, header.Hash)

	return s.chain.Append(header), nil
}

func (*SQL) parseSQLError(err error, header *model.BlockHeader) error {
	// check whether this is a postgres unique constraint error
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return errors.NewBlockExistsError("header already exists in the database: %s", header.Hash, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code()&0xff) == sqliteConstraint {
		return errors.NewBlockExistsError("header already exists in the database: %s", header.Hash, err)
	}

	return errors.NewStorageError("failed to store header", err)
}
