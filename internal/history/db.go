package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool создаёт pgx-пул по DSN.
//
// История включается только когда оператор задал DB_URL; вызывающий
// код не должен звать NewPool с пустым DSN.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// schema — DDL хранилища истории. Применяется идемпотентно при старте.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              UUID PRIMARY KEY,
	pipeline        TEXT NOT NULL,
	status          TEXT NOT NULL,
	started_at      TIMESTAMPTZ,
	finished_at     TIMESTAMPTZ,
	error           TEXT,
	idempotency_key TEXT,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS runs_idempotency_key_idx
	ON runs (pipeline, idempotency_key)
	WHERE idempotency_key IS NOT NULL;

CREATE TABLE IF NOT EXISTS step_results (
	id          UUID PRIMARY KEY,
	run_id      UUID NOT NULL REFERENCES runs (id),
	step_id     TEXT NOT NULL,
	name        TEXT NOT NULL,
	policy      TEXT NOT NULL,
	status      TEXT NOT NULL,
	exit_code   INT NOT NULL DEFAULT 0,
	message     TEXT,
	tolerated   BOOLEAN NOT NULL DEFAULT FALSE,
	started_at  TIMESTAMPTZ,
	finished_at TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS step_results_run_id_idx ON step_results (run_id);
`

// EnsureSchema создаёт таблицы истории, если их ещё нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
