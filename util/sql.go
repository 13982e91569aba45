package util

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/gommon/random"
	_ "github.com/lib/pq" // postgres driver
	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/settings"
	"github.com/smileycoin/smlypow/ulogger"
	"github.com/smileycoin/smlypow/util/usql"
	_ "modernc.org/sqlite" // sqlite driver
)

type SQLEngine string

const (
	Postgres     SQLEngine = "postgres"
	Sqlite       SQLEngine = "sqlite"
	SqliteMemory SQLEngine = "sqlitememory"
)

func InitSQLDB(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*usql.DB, error) {
	switch SQLEngine(storeURL.Scheme) {
	case Postgres:
		return InitPostgresDB(logger, storeURL, tSettings)
	case Sqlite, SqliteMemory:
		return InitSQLiteDB(logger, storeURL, tSettings)
	}

	return nil, errors.NewConfigurationError("db: unknown scheme: %s", storeURL.Scheme)
}

// PostgresDSN builds the lib/pq connection string for a postgres:// URL.
// sslmode defaults to disable.
func PostgresDSN(storeURL *url.URL) string {
	dbPort, _ := strconv.Atoi(storeURL.Port())
	dbName := strings.TrimPrefix(storeURL.Path, "/")

	dbUser := ""
	dbPassword := ""

	if storeURL.User != nil {
		dbUser = storeURL.User.Username()
		dbPassword, _ = storeURL.User.Password()
	}

	sslMode := "disable"
	if val := storeURL.Query().Get("sslmode"); val != "" {
		sslMode = val
	}

	return fmt.Sprintf("user=%s password=%s dbname=%s sslmode=%s host=%s port=%d", dbUser, dbPassword, dbName, sslMode, storeURL.Hostname(), dbPort)
}

func InitPostgresDB(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*usql.DB, error) {
	db, err := usql.Open(string(Postgres), PostgresDSN(storeURL))
	if err != nil {
		return nil, errors.NewStorageError("failed to open postgres DB", err)
	}

	logger.Infof("Using postgres DB: %s@%s/%s", storeURL.User.Username(), storeURL.Host, strings.TrimPrefix(storeURL.Path, "/"))

	db.SetMaxIdleConns(tSettings.HeaderStore.PostgresMaxIdleConns)
	db.SetMaxOpenConns(tSettings.HeaderStore.PostgresMaxOpenConns)

	return db, nil
}

// SQLiteFilename returns the sqlite data source for a sqlite:// or sqlitememory://
// URL. Every sqlitememory URL gets its own shared cache database.
func SQLiteFilename(storeURL *url.URL, dataFolder string) (string, error) {
	if SQLEngine(storeURL.Scheme) == SqliteMemory {
		return fmt.Sprintf("file:%s?mode=memory&cache=shared", random.String(16)), nil
	}

	dbName := strings.TrimPrefix(storeURL.Path, "/")
	if dbName == "" {
		return "", errors.NewConfigurationError("sqlite URL %s has no database name", storeURL)
	}

	filename, err := filepath.Abs(path.Join(dataFolder, dbName+".db"))
	if err != nil {
		return "", errors.NewStorageError("failed to get absolute path for sqlite DB", err)
	}

	return fmt.Sprintf("%s?cache=shared&_pragma=busy_timeout=5000&_pragma=journal_mode=WAL", filename), nil
}

func InitSQLiteDB(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*usql.DB, error) {
	if SQLEngine(storeURL.Scheme) == Sqlite {
		if err := os.MkdirAll(tSettings.DataFolder, 0o755); err != nil {
			return nil, errors.NewStorageError("failed to create data folder %s", tSettings.DataFolder, err)
		}
	}

	filename, err := SQLiteFilename(storeURL, tSettings.DataFolder)
	if err != nil {
		return nil, err
	}

	logger.Infof("Using sqlite DB: %s", filename)

	db, err := usql.Open("sqlite", filename)
	if err != nil {
		return nil, errors.NewStorageError("failed to open sqlite DB", err)
	}

	if _, err = db.Exec(`PRAGMA locking_mode = SHARED;`); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError("could not enable shared locking mode", err)
	}

	return db, nil
}
