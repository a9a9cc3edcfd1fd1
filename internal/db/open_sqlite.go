package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (Store, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	// Pragmas in the DSN apply to every pooled connection, not just the first.
	// _txlock=immediate: BEGIN takes the write lock up front and waits on
	// busy_timeout rather than hitting SQLITE_BUSY on lock upgrade.
	dbh, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate&_time_format=sqlite")
	if err != nil {
		return nil, err
	}
	if err := dbh.PingContext(ctx); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh, dialectSQLite); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqlStore{db: dbh, dialect: dialectSQLite, now: defaultNow}, nil
}
