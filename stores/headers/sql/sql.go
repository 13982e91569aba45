// Package sql implements the headers.Store interface on postgres and sqlite.
//
// The table is the durable copy; all reads are served from an in-memory chain
// loaded when the store is opened and extended on every append.
package sql

import (
	"context"
	"net/url"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/model"
	"github.com/smileycoin/smlypow/settings"
	"github.com/smileycoin/smlypow/stores/headers/memory"
	"github.com/smileycoin/smlypow/ulogger"
	"github.com/smileycoin/smlypow/util"
	"github.com/smileycoin/smlypow/util/usql"
)

type SQL struct {
	db     *usql.DB
	engine util.SQLEngine
	logger ulogger.Logger

	// mu serializes appends so the table and the chain stay in step
	mu    sync.Mutex
	chain *memory.Chain
}

func New(ctx context.Context, logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*SQL, error) {
	logger = logger.New("hsql")

	db, err := util.InitSQLDB(logger, storeURL, tSettings)
	if err != nil {
		return nil, errors.NewStorageError("failed to init sql db", err)
	}

	engine := util.SQLEngine(storeURL.Scheme)

	switch engine {
	case util.Postgres:
		err = createPostgresSchema(db)
	case util.Sqlite, util.SqliteMemory:
		err = createSqliteSchema(db)
	default:
		err = errors.NewStorageError("unknown database engine: %s", storeURL.Scheme)
	}

	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQL{
		db:     db,
		engine: engine,
		logger: logger,
		chain:  memory.NewChain(),
	}

	if err = s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Infof("loaded %d headers from %s", s.chain.Len(), engine)

	return s, nil
}

func (s *SQL) GetDB() *usql.DB {
	return s.db
}

func (s *SQL) GetDBEngine() util.SQLEngine {
	return s.engine
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func createPostgresSchema(db *usql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS headers (
	     height         BIGINT PRIMARY KEY
	    ,hash           BYTEA NOT NULL
	    ,version        INTEGER NOT NULL
	    ,block_time     BIGINT NOT NULL
	    ,n_bits         BYTEA NOT NULL
	    ,nonce          BIGINT NOT NULL
	    ,pow_hash       BYTEA NULL
	    ,inserted_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		return errors.NewStorageError("could not create headers table", err)
	}

	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_headers_hash ON headers (hash);`); err != nil {
		return errors.NewStorageError("could not create ux_headers_hash index", err)
	}

	return nil
}

func createSqliteSchema(db *usql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS headers (
		 height         BIGINT PRIMARY KEY
	    ,hash           BLOB NOT NULL
	    ,version        INTEGER NOT NULL
	    ,block_time     BIGINT NOT NULL
	    ,n_bits         BLOB NOT NULL
	    ,nonce          BIGINT NOT NULL
	    ,pow_hash       BLOB NULL
	    ,inserted_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		return errors.NewStorageError("could not create headers table", err)
	}

	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_headers_hash ON headers (hash);`); err != nil {
		return errors.NewStorageError("could not create ux_headers_hash index", err)
	}

	return nil
}

// load reads every row in height order. Heights must be contiguous from 0.
func (s *SQL) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT height, hash, version, block_time, n_bits, nonce, pow_hash
		FROM headers
		ORDER BY height ASC
	`)
	if err != nil {
		return errors.NewStorageError("failed to query headers", err)
	}

	defer rows.Close()

	for rows.Next() {
		var (
			height    int64
			hash      []byte
			version   int32
			blockTime int
			nBits     []byte
			nonce     int
			powHash   []byte
		)

		if err = rows.Scan(&height, &hash, &version, &blockTime, &nBits, &nonce, &powHash); err != nil {
			return errors.NewStorageError("failed to scan header", err)
		}

		if height != int64(s.chain.Len()) {
			return errors.NewStorageError("headers table has a gap: expected height %d, found %d", s.chain.Len(), height)
		}

		header, err := headerFromRow(hash, version, blockTime, nBits, nonce, powHash)
		if err != nil {
			return errors.NewStorageError("invalid header at height %d", height, err)
		}

		s.chain.Append(header)
	}

	if err = rows.Err(); err != nil {
		return errors.NewStorageError("failed to read headers", err)
	}

	return nil
}

func headerFromRow(hash []byte, version int32, blockTime int, nBits []byte, nonce int, powHash []byte) (*model.BlockHeader, error) {
	blockHash, err := chainhash.NewHash(hash)
	if err != nil {
		return nil, err
	}

	bits, err := model.NewNBitFromSlice(nBits)
	if err != nil {
		return nil, err
	}

	timestamp, err := safeconversion.IntToUint32(blockTime)
	if err != nil {
		return nil, err
	}

	nonceUint32, err := safeconversion.IntToUint32(nonce)
	if err != nil {
		return nil, err
	}

	header := &model.BlockHeader{
		Version:   version,
		Timestamp: timestamp,
		Bits:      *bits,
		Nonce:     nonceUint32,
		Hash:      blockHash,
	}

	if len(powHash) > 0 {
		if header.PowHash, err = chainhash.NewHash(powHash); err != nil {
			return nil, err
		}
	}

	return header, nil
}
