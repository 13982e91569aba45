package settings

import (
	"net/url"

	"github.com/smileycoin/smlypow/chaincfg"
)

type HeaderStoreSettings struct {
	// StoreURL selects the backend: memory, sqlite, sqlitememory or postgres.
	StoreURL *url.URL
	// PostgresMaxIdleConns and PostgresMaxOpenConns size the postgres pool.
	PostgresMaxIdleConns int
	PostgresMaxOpenConns int
}

type DifficultySettings struct {
	// ReplayConcurrency is the number of workers recomputing bits during a
	// chain replay.
	ReplayConcurrency int
	// CheckPow makes a replay verify stored pow hashes as well.
	CheckPow bool
}

type MetricsSettings struct {
	Enabled       bool
	ListenAddress string
}

type Settings struct {
	ClientName     string
	DataFolder     string
	LogLevel       string
	ChainCfgParams *chaincfg.Params
	HeaderStore    HeaderStoreSettings
	Difficulty     DifficultySettings
	Metrics        MetricsSettings
}
