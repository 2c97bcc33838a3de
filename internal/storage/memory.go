package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const DefaultTTL = time.Hour

// MemoryStore holds artifacts in process memory; they expire after the
// TTL and do not survive a restart.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cleanup := ttl / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}
	return &MemoryStore{c: cache.New(ttl, cleanup)}
}

func (s *MemoryStore) Put(a Artifact) (string, error) {
	if len(a.Data) == 0 {
		return "", errors.New("empty artifact")
	}
	if a.Filename == "" {
		return "", errors.New("artifact needs a filename")
	}
	handle := uuid.NewString()
	s.c.Set(handle, a, cache.DefaultExpiration)
	return handle, nil
}

func (s *MemoryStore) Get(handle string) (Artifact, error) {
	if _, err := uuid.Parse(handle); err != nil {
		return Artifact{}, ErrNotFound
	}
	v, ok := s.c.Get(handle)
	if !ok {
		return Artifact{}, ErrNotFound
	}
	return v.(Artifact), nil
}

// Len reports how many unexpired artifacts are held.
func (s *MemoryStore) Len() int { return s.c.ItemCount() }
