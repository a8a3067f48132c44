package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doorland/catalog-sync/internal/platform"
	"github.com/doorland/catalog-sync/internal/platform/models"
)

// StartRun creates a new unfinished sync run for the task and returns it.
// It returns ErrAlreadyRunning when an unfinished run for the same task
// already exists.
func (p Postgres) StartRun(ctx context.Context, taskID string) (*models.SyncRun, error) {
	run := &models.SyncRun{TaskID: taskID}

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		var unfinished bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM sync_run
				WHERE task_id = $1 AND finished_at IS NULL
			)`,
			taskID,
		).Scan(&unfinished)
		if err != nil {
			return fmt.Errorf("can't check running syncs: %w", err)
		}
		if unfinished {
			return platform.ErrAlreadyRunning
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO sync_run (task_id)
			VALUES ($1)
			RETURNING id, created_at`,
			taskID,
		).Scan(&run.ID, &run.CreatedAt)
		if err != nil {
			return fmt.Errorf("can't insert sync run: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't start run: %w", err)
	}

	return run, nil
}

// FinishRun sets the run as finished and stores its statistics.
func (p Postgres) FinishRun(ctx context.Context, run *models.SyncRun) error {
	result, err := p.db.ExecContext(ctx, `
		UPDATE sync_run SET
			finished_at = $2, is_success = $3, status_message = $4, catalogs = $5,
			created_products = $6, updated_products = $7,
			deactivated_products = $8, failed_products = $9
		WHERE id = $1`,
		run.ID, run.FinishedAt, run.IsSuccess, run.StatusMessage, run.Catalogs,
		run.CreatedProducts, run.UpdatedProducts, run.DeactivatedProducts, run.FailedProducts,
	)
	if err != nil {
		return fmt.Errorf("can't update sync run: %w", err)
	}

	if rowsAffected, err := result.RowsAffected(); rowsAffected == 0 || err != nil {
		return fmt.Errorf("can't update sync run: no rows affected")
	}

	return nil
}
