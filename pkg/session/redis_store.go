package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"docgrounder-be/pkg/apperr"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "docgr:sess:"

// RedisStore persists sessions in Redis.
// Data model:
//   - keyPrefix+id+":meta"    => HASH {created_at, status} with TTL
//   - keyPrefix+id+":history" => LIST of JSON turns (RPUSH = atomic append)
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) metaKey(id string) string    { return keyPrefix + id + ":meta" }
func (s *RedisStore) historyKey(id string) string { return keyPrefix + id + ":history" }

func (s *RedisStore) Create(ctx context.Context, sessionId string) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSetNX(ctx, s.metaKey(sessionId), "created_at", time.Now().UTC().Format(time.RFC3339))
	pipe.HSetNX(ctx, s.metaKey(sessionId), "status", StatusNone)
	pipe.Expire(ctx, s.metaKey(sessionId), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session %s: %w", sessionId, err)
	}
	return nil
}

func (s *RedisStore) GetStatus(ctx context.Context, sessionId string) (string, error) {
	status, err := s.rdb.HGet(ctx, s.metaKey(sessionId), "status").Result()
	if err == redis.Nil {
		return "", apperr.New(apperr.KindSessionNotFound, fmt.Sprintf("session %s not found", sessionId))
	}
	if err != nil {
		return "", fmt.Errorf("get status for session %s: %w", sessionId, err)
	}
	return status, nil
}

func (s *RedisStore) SetStatus(ctx context.Context, sessionId string, status string) error {
	exists, err := s.rdb.Exists(ctx, s.metaKey(sessionId)).Result()
	if err != nil {
		return fmt.Errorf("set status for session %s: %w", sessionId, err)
	}
	if exists == 0 {
		return apperr.New(apperr.KindSessionNotFound, fmt.Sprintf("session %s not found", sessionId))
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.metaKey(sessionId), "status", status)
	pipe.Expire(ctx, s.metaKey(sessionId), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set status for session %s: %w", sessionId, err)
	}
	return nil
}

func (s *RedisStore) AppendTurn(ctx context.Context, sessionId string, turn *Turn) error {
	exists, err := s.rdb.Exists(ctx, s.metaKey(sessionId)).Result()
	if err != nil {
		return fmt.Errorf("append turn to session %s: %w", sessionId, err)
	}
	if exists == 0 {
		return apperr.New(apperr.KindSessionNotFound, fmt.Sprintf("session %s not found", sessionId))
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	// RPUSH is a server-side atomic append: concurrent writers cannot
	// interleave inside a single turn or reorder completed appends.
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, s.historyKey(sessionId), data)
	pipe.Expire(ctx, s.historyKey(sessionId), s.ttl)
	pipe.Expire(ctx, s.metaKey(sessionId), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append turn to session %s: %w", sessionId, err)
	}
	return nil
}

func (s *RedisStore) GetHistory(ctx context.Context, sessionId string, maxTurns int) ([]*Turn, error) {
	exists, err := s.rdb.Exists(ctx, s.metaKey(sessionId)).Result()
	if err != nil {
		return nil, fmt.Errorf("get history for session %s: %w", sessionId, err)
	}
	if exists == 0 {
		return nil, apperr.New(apperr.KindSessionNotFound, fmt.Sprintf("session %s not found", sessionId))
	}

	start := int64(0)
	if maxTurns > 0 {
		start = int64(-maxTurns)
	}
	raw, err := s.rdb.LRange(ctx, s.historyKey(sessionId), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get history for session %s: %w", sessionId, err)
	}

	turns := make([]*Turn, 0, len(raw))
	for _, item := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		turns = append(turns, &t)
	}
	return turns, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionId string) error {
	return s.rdb.Del(ctx, s.metaKey(sessionId), s.historyKey(sessionId)).Err()
}
