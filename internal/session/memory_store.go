package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process, evicting the oldest when full.
type MemoryStore struct {
	cache *freecache.Cache
	ttl   time.Duration
}

func NewMemoryStore(sizeMB int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	raw, err := s.cache.Get([]byte(id))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now()
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set([]byte(sess.ID), raw, int(s.ttl.Seconds())); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}
