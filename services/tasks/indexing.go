package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeIndexDocument = "document:index"

// IndexDocumentPayload is the body of a document:index task.
type IndexDocumentPayload struct {
	DocumentID string `json:"document_id"`
}

func NewIndexDocumentTask(documentID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(IndexDocumentPayload{DocumentID: documentID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeIndexDocument, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(5 * time.Minute),
		asynq.TaskID("index:" + documentID),
	}
	return task, opts, nil
}

// QueueEnqueuer pushes document:index tasks through an asynq client.
type QueueEnqueuer struct {
	client *asynq.Client
}

func NewQueueEnqueuer(client *asynq.Client) *QueueEnqueuer {
	return &QueueEnqueuer{client: client}
}

func (q *QueueEnqueuer) EnqueueIndex(ctx context.Context, documentID string) error {
	task, opts, err := NewIndexDocumentTask(documentID)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task, opts...)
	return err
}
