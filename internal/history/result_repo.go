package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Rollout/internal/domain"
)

// StepResultRepo — репозиторий для работы с результатами шагов.
type StepResultRepo struct {
	pool *pgxpool.Pool
}

// NewStepResultRepo создаёт новый StepResultRepo.
func NewStepResultRepo(pool *pgxpool.Pool) *StepResultRepo {
	return &StepResultRepo{pool: pool}
}

// Create создаёт запись результата шага.
func (r *StepResultRepo) Create(ctx context.Context, sr *domain.StepResult) error {
	query := `
		INSERT INTO step_results (id, run_id, step_id, name, policy, status,
		                          exit_code, message, tolerated, started_at, finished_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		sr.ID,
		sr.RunID,
		sr.StepID,
		sr.Name,
		sr.Policy,
		sr.Status,
		sr.ExitCode,
		nullString(sr.Message),
		sr.Tolerated,
		sr.StartedAt,
		sr.FinishedAt,
		sr.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert step result: %w", err)
	}
	return nil
}

// Update обновляет запись результата шага.
func (r *StepResultRepo) Update(ctx context.Context, sr *domain.StepResult) error {
	query := `
		UPDATE step_results
		SET status = $2, exit_code = $3, message = $4, tolerated = $5,
		    started_at = $6, finished_at = $7
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		sr.ID,
		sr.Status,
		sr.ExitCode,
		nullString(sr.Message),
		sr.Tolerated,
		sr.StartedAt,
		sr.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update step result: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRun возвращает результаты шагов run в порядке создания.
func (r *StepResultRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.StepResult, error) {
	query := `
		SELECT id, run_id, step_id, name, policy, status,
		       exit_code, message, tolerated, started_at, finished_at, created_at
		FROM step_results
		WHERE run_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list step results: %w", err)
	}
	defer rows.Close()

	var results []domain.StepResult
	for rows.Next() {
		var sr domain.StepResult
		var message *string

		err := rows.Scan(
			&sr.ID,
			&sr.RunID,
			&sr.StepID,
			&sr.Name,
			&sr.Policy,
			&sr.Status,
			&sr.ExitCode,
			&message,
			&sr.Tolerated,
			&sr.StartedAt,
			&sr.FinishedAt,
			&sr.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan step result: %w", err)
		}

		if message != nil {
			sr.Message = *message
		}

		results = append(results, sr)
	}
	return results, rows.Err()
}
