package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sells-group/intel-engine/internal/model"
)

// MemoryStore implements Store with an in-process cache. Useful for the
// server when no database is configured and for tests.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemory creates an in-memory store with background expiry sweeps.
func NewMemory() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, companyName, domain string) (*model.IntelligenceRecord, error) {
	v, ok := s.cache.Get(Key(companyName, domain))
	if !ok {
		return nil, nil
	}
	rec := v.(model.IntelligenceRecord)
	return &rec, nil
}

func (s *MemoryStore) Put(_ context.Context, companyName, domain string, rec *model.IntelligenceRecord, ttl time.Duration) error {
	s.cache.Set(Key(companyName, domain), *rec, ttl)
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context) (int, error) {
	before := s.cache.ItemCount()
	s.cache.DeleteExpired()
	return before - s.cache.ItemCount(), nil
}

func (s *MemoryStore) Migrate(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
