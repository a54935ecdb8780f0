package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ragchat/config"
	"ragchat/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DocumentIndexer is the work behind a document:index task.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, documentID string) error
}

// QueueRedisOpt is the asynq connection shared by the client and the worker.
func QueueRedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// InitIndexWorker starts the background indexing worker and returns the
// server so the caller can shut it down.
func InitIndexWorker(cfg config.Config, indexer DocumentIndexer, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(cfg),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeIndexDocument, handleIndexTask(indexer, logger))

	// Start async worker with retry logic
	go func() {
		logger.Info("Starting index worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Index worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Index worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleIndexTask(indexer DocumentIndexer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.IndexDocumentPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid index task payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if p.DocumentID == "" {
			return fmt.Errorf("empty document id: %w", asynq.SkipRetry)
		}

		if err := indexer.IndexDocument(ctx, p.DocumentID); err != nil {
			logger.Error("Failed to index document", zap.String("document_id", p.DocumentID), zap.Error(err))
			return err
		}
		return nil
	}
}
