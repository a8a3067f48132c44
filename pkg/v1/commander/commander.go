// Package commander is the public client for the catalog sync worker:
// it sends sync commands over RabbitMQ and polls task statuses.
package commander

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// SyncCommander sends catalog sync commands.
type SyncCommander struct {
	sender Sender
}

// NewSyncCommander returns new SyncCommander using provided sender for sending messages.
func NewSyncCommander(sender Sender) SyncCommander {
	return SyncCommander{
		sender: sender,
	}
}

// SendSyncCommand sends a sync command for the operator's catalog URLs.
// It returns the task ID used to poll the task status.
func (c SyncCommander) SendSyncCommand(ctx context.Context, operatorID string, catalogURLs []string) (string, error) {
	cmd := SyncCommand{
		TaskID:      uuid.NewString(),
		OperatorID:  operatorID,
		CatalogURLs: catalogURLs,
	}

	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("can't marshal sync command: %w", err)
	}

	if err := c.sender.Send(ctx, cmdMsg); err != nil {
		return "", err
	}

	return cmd.TaskID, nil
}
