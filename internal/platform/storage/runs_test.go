package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doorland/catalog-sync/internal/platform"
	"github.com/doorland/catalog-sync/internal/platform/models"
	"github.com/doorland/catalog-sync/internal/platform/storage"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitStartRun(t *testing.T) {
	taskID := faker.UUIDHyphenated()
	createdAt := time.Now()

	tests := map[string]struct {
		unfinished bool
		wantErr    error
	}{
		"first run": {},
		"already running": {
			unfinished: true,
			wantErr:    platform.ErrAlreadyRunning,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err, "shouldn't fail opening sqlmock")
			defer db.Close()

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs(taskID).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.unfinished))
			if tt.unfinished {
				mock.ExpectRollback()
			} else {
				mock.ExpectQuery(`INSERT INTO sync_run`).
					WithArgs(taskID).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, createdAt))
				mock.ExpectCommit()
			}

			post := storage.NewPostgres(db)

			run, err := post.StartRun(context.TODO(), taskID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr, "should return correct error")
			} else {
				require.NoError(t, err, "shouldn't return any error")
				assert.Equal(t, 7, run.ID, "run should carry the inserted id")
				assert.Equal(t, taskID, run.TaskID, "run should keep the task id")
				assert.Equal(t, createdAt, run.CreatedAt, "run should carry the inserted timestamp")
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "all expected queries should run")
		})
	}
}

func TestUnitFinishRun(t *testing.T) {
	tests := map[string]struct {
		rowsAffected int64
		wantErr      bool
	}{
		"ok":          {rowsAffected: 1},
		"unknown run": {rowsAffected: 0, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err, "shouldn't fail opening sqlmock")
			defer db.Close()

			mock.ExpectExec(`UPDATE sync_run SET`).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			post := storage.NewPostgres(db)

			err = post.FinishRun(context.TODO(), &models.SyncRun{ID: 7})

			if tt.wantErr {
				require.Error(t, err, "should return error")
			} else {
				require.NoError(t, err, "shouldn't return any error")
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "all expected queries should run")
		})
	}
}
