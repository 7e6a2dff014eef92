package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is go-sqlite3 with a Unicode case-folding function
// registered on every connection. SQLite's own LOWER only folds ASCII.
const sqliteDriverName = "sqlite3_fold"

// sqliteFoldFunc is the SQL name of the folding function
const sqliteFoldFunc = "unicode_lower"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(sqliteFoldFunc, foldValue, true)
		},
	})
}

// foldValue lowercases TEXT and BLOB values, anything else folds to ""
func foldValue(v any) string {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return ""
	}
}

// OpenSQLite opens a repository on a SQLite file (or ":memory:") and
// migrates the schema with gorm.
func OpenSQLite(ctx context.Context, path string) (*GormRepository, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: path}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	repo := NewGormRepository(db, nil)
	if err := repo.AutoMigrate(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}
