package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStorage struct {
	Pool *pgxpool.Pool
}

func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &PostgresStorage{Pool: pool}, nil
}

// Init creates the match ledger table.
func (that *PostgresStorage) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS matches (
			id            BIGSERIAL PRIMARY KEY,
			room_id       TEXT        NOT NULL,
			player1_name  TEXT        NOT NULL,
			player2_name  TEXT        NOT NULL,
			player1_score INTEGER     NOT NULL,
			player2_score INTEGER     NOT NULL,
			winner        TEXT        NOT NULL,
			rounds        INTEGER     NOT NULL,
			ties          INTEGER     NOT NULL,
			finished_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS matches_room_id_idx ON matches (room_id);`

	if _, err := that.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *PostgresStorage) Close() {
	that.Pool.Close()
}
