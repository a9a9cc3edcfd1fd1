package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// openPostgres connects through pgx's database/sql driver and ensures schema exists.
func openPostgres(ctx context.Context, url string) (Store, error) {
	dbh, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	dbh.SetMaxOpenConns(25)
	dbh.SetMaxIdleConns(5)
	dbh.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := dbh.PingContext(pingCtx); err != nil {
		_ = dbh.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrate(ctx, dbh, dialectPostgres); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqlStore{db: dbh, dialect: dialectPostgres, now: defaultNow}, nil
}
