package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"docgrounder-be/pkg/apperr"

	"github.com/patrickmn/go-cache"
)

type memSession struct {
	createdAt time.Time
	status    string
	turns     []*Turn
}

// MemoryStore keeps sessions in process memory with TTL eviction. Same
// contract as RedisStore; meant for single-binary dev mode and tests.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &MemoryStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (s *MemoryStore) get(sessionId string) (*memSession, bool) {
	if x, found := s.cache.Get(sessionId); found {
		return x.(*memSession), true
	}
	return nil, false
}

func (s *MemoryStore) Create(ctx context.Context, sessionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.get(sessionId); found {
		return nil
	}
	s.cache.Set(sessionId, &memSession{
		createdAt: time.Now(),
		status:    StatusNone,
	}, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) GetStatus(ctx context.Context, sessionId string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, found := s.get(sessionId)
	if !found {
		return "", apperr.New(apperr.KindSessionNotFound, fmt.Sprintf("session %s not found", sessionId))
	}
	return sess.status, nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, sessionId string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, found := s.get(sessionId)
	if !found {
		return apperr.New(apperr.KindSessionNotFound, fmt.Sprintf("session %s not found", sessionId))
	}
	sess.status = status
	s.cache.Set(sessionId, sess, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) AppendTurn(ctx context.Context, sessionId string, turn *Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, found := s.get(sessionId)
	if !found {
		return apperr.New(apperr.KindSessionNotFound, fmt.Sprintf("session %s not found", sessionId))
	}
	sess.turns = append(sess.turns, turn)
	s.cache.Set(sessionId, sess, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) GetHistory(ctx context.Context, sessionId string, maxTurns int) ([]*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, found := s.get(sessionId)
	if !found {
		return nil, apperr.New(apperr.KindSessionNotFound, fmt.Sprintf("session %s not found", sessionId))
	}

	turns := sess.turns
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	out := make([]*Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Delete(sessionId)
	return nil
}
