package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Rollout/internal/domain"
)

// Store объединяет репозитории истории и реализует runner.Recorder.
type Store struct {
	Runs    *RunRepo
	Results *StepResultRepo

	pool *pgxpool.Pool
}

// NewStore создаёт Store поверх пула и применяет DDL.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if err := EnsureSchema(ctx, pool); err != nil {
		return nil, err
	}
	return &Store{
		Runs:    NewRunRepo(pool),
		Results: NewStepResultRepo(pool),
		pool:    pool,
	}, nil
}

// Open подключается к БД по DSN и создаёт Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// Close закрывает пул соединений.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CreateRun сохраняет новый run.
func (s *Store) CreateRun(ctx context.Context, run *domain.Run) error {
	return s.Runs.Create(ctx, run)
}

// UpdateRun обновляет run.
func (s *Store) UpdateRun(ctx context.Context, run *domain.Run) error {
	return s.Runs.Update(ctx, run)
}

// CreateStepResult сохраняет результат шага.
func (s *Store) CreateStepResult(ctx context.Context, result *domain.StepResult) error {
	return s.Results.Create(ctx, result)
}

// UpdateStepResult обновляет результат шага.
func (s *Store) UpdateStepResult(ctx context.Context, result *domain.StepResult) error {
	return s.Results.Update(ctx, result)
}
