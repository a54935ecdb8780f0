// File: services/memory/redisMemory.go
package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"ragchat/models"

	"github.com/go-redis/redis/v8"
)

// RedisHistoryStore keeps a bounded, per-session window of chat messages and
// the last booking committed for the session.
type RedisHistoryStore struct {
	client *redis.Client
	window int
}

func NewRedisHistoryStore(client *redis.Client, window int) *RedisHistoryStore {
	if window <= 0 {
		window = 20
	}
	return &RedisHistoryStore{client: client, window: window}
}

func messagesKey(sessionID string) string {
	return fmt.Sprintf("chat:%s:messages", sessionID)
}

func lastBookingKey(sessionID string) string {
	return fmt.Sprintf("chat:%s:booking:last", sessionID)
}

// Append pushes one message and evicts the oldest entries beyond the window.
func (s *RedisHistoryStore) Append(ctx context.Context, sessionID, role, content string) error {
	record, err := json.Marshal(models.HistoryMessage{Role: role, Content: content})
	if err != nil {
		return err
	}
	key := messagesKey(sessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, record)
		pipe.LTrim(ctx, key, int64(-s.window), -1)
		return nil
	})
	return err
}

// Recent returns up to limit messages, oldest first.
func (s *RedisHistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]models.HistoryMessage, error) {
	if limit <= 0 || limit > s.window {
		limit = s.window
	}
	items, err := s.client.LRange(ctx, messagesKey(sessionID), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.HistoryMessage, 0, len(items))
	for _, item := range items {
		var m models.HistoryMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Clear drops the session's history window.
func (s *RedisHistoryStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, messagesKey(sessionID)).Err()
}

func (s *RedisHistoryStore) SetLastBooking(ctx context.Context, sessionID string, record *models.BookingRecord) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, lastBookingKey(sessionID), b, 0).Err()
}

// LastBooking returns nil without error when the session never booked.
func (s *RedisHistoryStore) LastBooking(ctx context.Context, sessionID string) (*models.BookingRecord, error) {
	data, err := s.client.Get(ctx, lastBookingKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record models.BookingRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, err
	}
	return &record, nil
}
