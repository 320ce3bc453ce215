// Package jobs runs background work on asynq: for now the AI extraction of
// contract fields from uploaded documents.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeExtractDocument = "document:extract"
	QueueExtraction     = "extraction"

	extractMaxRetry  = 2
	extractTimeout   = 5 * time.Minute
	extractRetention = 24 * time.Hour
)

type extractPayload struct {
	DocumentID string `json:"document_id"`
}

func NewExtractTask(documentID string) (*asynq.Task, error) {
	payload, err := json.Marshal(extractPayload{DocumentID: documentID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeExtractDocument, payload,
		asynq.Queue(QueueExtraction),
		asynq.MaxRetry(extractMaxRetry),
		asynq.Timeout(extractTimeout),
		asynq.Retention(extractRetention),
	), nil
}

// Enqueuer schedules extraction for a document.
type Enqueuer interface {
	EnqueueExtraction(ctx context.Context, documentID string) error
}

type Client struct {
	client *asynq.Client
}

func NewClient(redisURL string) (*Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Client{client: asynq.NewClient(opt)}, nil
}

func (c *Client) EnqueueExtraction(ctx context.Context, documentID string) error {
	task, err := NewExtractTask(documentID)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeExtractDocument, err)
	}
	return nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
