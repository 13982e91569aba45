package headers

import (
	"context"
	"net/url"

	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/settings"
	"github.com/smileycoin/smlypow/stores/headers/memory"
	"github.com/smileycoin/smlypow/stores/headers/sql"
	"github.com/smileycoin/smlypow/ulogger"
)

func NewStore(ctx context.Context, logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (Store, error) {
	switch storeURL.Scheme {
	case "memory":
		return memory.New(), nil
	case "postgres", "sqlitememory", "sqlite":
		return sql.New(ctx, logger, storeURL, tSettings)
	}

	return nil, errors.NewStorageError("unknown scheme: %s", storeURL.Scheme)
}
