package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"service_directory/internal/adapters/observability"
)

// Session is session-scoped storage: entries expire after ttl and vanish on restart.
type Session struct {
	c *cache.Cache
}

func NewSession(ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Session{c: cache.New(ttl, 10*time.Minute)}
}

func (s *Session) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		observability.ObserveStorage("session", "get", "miss")
		return "", false, nil
	}
	observability.ObserveStorage("session", "get", "ok")
	str, _ := v.(string)
	return str, true, nil
}

func (s *Session) Set(_ context.Context, key, value string) error {
	s.c.SetDefault(key, value)
	observability.ObserveStorage("session", "set", "ok")
	return nil
}

func (s *Session) Remove(_ context.Context, key string) error {
	s.c.Delete(key)
	observability.ObserveStorage("session", "del", "ok")
	return nil
}
