package commander

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// statusKeyPrefix is the wire contract with the sync worker, which
// writes task statuses under these keys.
const statusKeyPrefix = "sync:tasks:status:"

// Task lifecycle states reported by the sync worker.
const (
	StatusPending  = "PENDING"
	StatusProgress = "PROGRESS"
	StatusSuccess  = "SUCCESS"
	StatusFailure  = "FAILURE"
)

// TaskStatus is the progress of one sync task.
type TaskStatus struct {
	Status    string `json:"status"`
	Processed int32  `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// StatusClient polls sync task statuses.
type StatusClient struct {
	client *redis.Client
}

// NewStatusClient returns new StatusClient.
func NewStatusClient(client *redis.Client) StatusClient {
	return StatusClient{
		client: client,
	}
}

// TaskStatus returns the status of the task. Tasks the worker hasn't
// picked up yet are reported as pending.
func (c StatusClient) TaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	payload, err := c.client.Get(ctx, statusKeyPrefix+taskID).Bytes()
	if errors.Is(err, redis.Nil) {
		return &TaskStatus{Status: StatusPending}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get task status: %w", err)
	}

	var status TaskStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("can't decode task status: %w", err)
	}

	return &status, nil
}
