package settings

import (
	"github.com/smileycoin/smlypow/chaincfg"
)

// NewSettings reads the settings from gocore config. It panics on an unknown
// network, like any other unusable configuration.
func NewSettings() *Settings {
	params, err := chaincfg.GetChainParams(getString("network", "mainnet"))
	if err != nil {
		panic(err)
	}

	return &Settings{
		ClientName:     getString("clientName", "smlypow"),
		DataFolder:     getString("dataFolder", "data"),
		LogLevel:       getString("logLevel", "INFO"),
		ChainCfgParams: params,
		HeaderStore: HeaderStoreSettings{
			StoreURL:             getURL("headers_store", "sqlite:///headers"),
			PostgresMaxIdleConns: getInt("headers_store_postgresMaxIdleConns", 10),
			PostgresMaxOpenConns: getInt("headers_store_postgresMaxOpenConns", 80),
		},
		Difficulty: DifficultySettings{
			ReplayConcurrency: getInt("replay_concurrency", 8),
			CheckPow:          getBool("replay_checkPow", true),
		},
		Metrics: MetricsSettings{
			Enabled:       getBool("metrics_enabled", false),
			ListenAddress: getString("metrics_listenAddress", ":9091"),
		},
	}
}
