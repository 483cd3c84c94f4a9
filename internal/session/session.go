package session

import (
	"maps"
	"sync"
	"time"
)

// Session is server-side key/value state bound to a client by an opaque id.
// Controllers receive it per request and must not keep it beyond that request.
type Session struct {
	id        string
	createdAt time.Time

	mu          sync.RWMutex
	values      map[string]any
	lastTouched time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:          id,
		createdAt:   now,
		values:      make(map[string]any),
		lastTouched: now,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) LastTouched() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTouched
}

func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Exists(key string) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *Session) Unset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *Session) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouched = now
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastTouched()) > ttl
}
