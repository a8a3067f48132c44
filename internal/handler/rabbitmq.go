// Package handler consumes sync commands from RabbitMQ, admits them
// under the task caps and drives the syncer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/doorland/catalog-sync/internal/platform/models"
	"github.com/doorland/catalog-sync/internal/platform/rabbitmq"
	"github.com/doorland/catalog-sync/internal/platform/tasktrack"
	"github.com/doorland/catalog-sync/metrics"
	"github.com/doorland/catalog-sync/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Syncer --filename syncer.go
//go:generate mockery --name Limiter --filename limiter.go
//go:generate mockery --name StatusStore --filename statusstore.go

// Syncer syncs catalogs into the store.
type Syncer interface {
	Sync(ctx context.Context, taskID string, catalogURLs []string) (*models.SyncRun, error)
}

// Limiter admits sync tasks under concurrency caps.
type Limiter interface {
	Acquire(ctx context.Context, operatorID string) error
	Release(ctx context.Context, operatorID string)
}

// StatusStore stores task statuses.
type StatusStore interface {
	Set(ctx context.Context, taskID string, state tasktrack.State) error
}

// RMQHandler handles RMQ messages.
type RMQHandler struct {
	rmq      *rabbitmq.RabbitMQ
	syncer   Syncer
	limiter  Limiter
	statuses StatusStore
	logger   *zerolog.Logger

	mu   sync.Mutex
	live map[string]string // task ID -> operator ID
}

// NewHandler returns new RMQHandler.
func NewHandler(
	rmq *rabbitmq.RabbitMQ,
	syncer Syncer,
	limiter Limiter,
	statuses StatusStore,
	logger *zerolog.Logger,
) *RMQHandler {
	return &RMQHandler{
		rmq:      rmq,
		syncer:   syncer,
		limiter:  limiter,
		statuses: statuses,
		logger:   logger,
		live:     map[string]string{},
	}
}

// Start starts consuming and handling sync commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.rmq.Consume(ctx, queue, h.Handle)
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

// Handle handles one sync command message.
func (h *RMQHandler) Handle(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage(message)
	if err != nil {
		return err
	}

	if err := h.limiter.Acquire(ctx, cmd.OperatorID); err != nil {
		if errors.Is(err, tasktrack.ErrTooManyTasks) {
			h.logger.Warn().
				Str("taskId", cmd.TaskID).
				Str("operatorId", cmd.OperatorID).
				Msg("task caps reached, requeueing command")
			return fmt.Errorf("%w: %s", rabbitmq.ErrRequeue, err)
		}
		return fmt.Errorf("can't admit task: %w", err)
	}
	defer h.limiter.Release(ctx, cmd.OperatorID)

	h.trackTask(cmd.TaskID, cmd.OperatorID)
	defer h.untrackTask(cmd.TaskID)

	metrics.TaskStarted()
	defer metrics.TaskFinished()

	h.setStatus(ctx, cmd.TaskID, tasktrack.State{Status: tasktrack.StatusProgress})

	h.logger.Debug().
		Str("taskId", cmd.TaskID).
		Strs("catalogUrls", cmd.CatalogURLs).
		Msg("sync started")

	started := time.Now()
	run, err := h.syncer.Sync(ctx, cmd.TaskID, cmd.CatalogURLs)
	metrics.RecordRun(time.Since(started), err == nil)
	if err != nil {
		h.setStatus(ctx, cmd.TaskID, tasktrack.State{
			Status:  tasktrack.StatusFailure,
			Message: err.Error(),
		})
		return fmt.Errorf("sync failed: %w", err)
	}

	h.setStatus(ctx, cmd.TaskID, tasktrack.State{
		Status:    tasktrack.StatusSuccess,
		Processed: processedProducts(run),
		Message:   runMessage(run),
	})

	h.logger.Debug().
		Str("taskId", cmd.TaskID).
		Msg("sync finished")

	return nil
}

// LiveTasks returns the tasks currently running in this worker. The task
// counter reconciliation uses it as the source of truth.
func (h *RMQHandler) LiveTasks() []tasktrack.TaskRef {
	h.mu.Lock()
	defer h.mu.Unlock()

	live := make([]tasktrack.TaskRef, 0, len(h.live))
	for taskID, operatorID := range h.live {
		live = append(live, tasktrack.TaskRef{TaskID: taskID, OperatorID: operatorID})
	}

	return live
}

func (h *RMQHandler) trackTask(taskID, operatorID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.live[taskID] = operatorID
}

func (h *RMQHandler) untrackTask(taskID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.live, taskID)
}

func (h *RMQHandler) setStatus(ctx context.Context, taskID string, state tasktrack.State) {
	if err := h.statuses.Set(ctx, taskID, state); err != nil {
		h.logger.Error().
			Err(err).
			Str("taskId", taskID).
			Msg("can't store task status")
	}
}

func processedProducts(run *models.SyncRun) int32 {
	if run == nil {
		return 0
	}

	var processed int32
	for _, count := range []*int32{run.CreatedProducts, run.UpdatedProducts, run.FailedProducts} {
		if count != nil {
			processed += *count
		}
	}

	return processed
}

func runMessage(run *models.SyncRun) string {
	if run == nil || run.StatusMessage == nil {
		return ""
	}
	return *run.StatusMessage
}

func decodeMessage(msg []byte) (*commander.SyncCommand, error) {
	var cmd commander.SyncCommand
	err := json.Unmarshal(msg, &cmd)
	if err != nil {
		return nil, fmt.Errorf("can't decode sync command: %w", err)
	}

	return &cmd, err
}
