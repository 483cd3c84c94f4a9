package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"forum/internal/metrics"
)

const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = time.Minute
)

// Store is the table of active sessions. Construct it with NewStore, call Start
// to begin the expiration sweep and Stop followed by Clear on shutdown.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

type Option func(*Store)

// WithTTL sets how long a session may go untouched before the sweep removes it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) { s.interval = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      DefaultTTL,
		interval: DefaultSweepInterval,
		now:      time.Now,
		log:      zerolog.Nop(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new empty session under a fresh random id.
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for range 3 {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("session: failed to generate id: %w", err)
		}
		if _, taken := s.sessions[id.String()]; taken {
			continue
		}
		sess := newSession(id.String(), s.now())
		s.sessions[sess.id] = sess
		metrics.SetActiveSessions(len(s.sessions))
		return sess, nil
	}
	return nil, fmt.Errorf("session: failed to generate a unique id")
}

// Get looks up a session. Sessions past their TTL are reported as missing even
// before the sweep removes them. Get never creates a session.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.expired(s.now(), s.ttl) {
		return nil, false
	}
	return sess, true
}

// Touch marks the session as active now.
func (s *Store) Touch(sess *Session) {
	sess.touch(s.now())
}

// Destroy removes the session. Destroying an unknown id is not an error.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	metrics.SetActiveSessions(len(s.sessions))
}

// Rotate moves the values of old into a new session under a fresh id and
// destroys old. Callers must reissue the cookie with the new id.
func (s *Store) Rotate(old *Session) (*Session, error) {
	sess, err := s.Create()
	if err != nil {
		return nil, err
	}
	for k, v := range old.snapshot() {
		sess.Set(k, v)
	}
	s.Destroy(old.id)
	return sess, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Clear drops every session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*Session)
	metrics.SetActiveSessions(0)
}

// Sweep removes expired sessions and returns how many were removed. Expired ids
// are collected under the read lock; each removal takes the write lock briefly
// and re-checks expiry so a session touched in between survives.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.RLock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.expired(now, s.ttl) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		s.mu.Lock()
		if sess, ok := s.sessions[id]; ok && sess.expired(s.now(), s.ttl) {
			delete(s.sessions, id)
			removed++
		}
		s.mu.Unlock()
	}

	if removed > 0 {
		metrics.AddSweptSessions(removed)
		s.log.Debug().Int("count", removed).Msg("swept expired sessions")
	}
	metrics.SetActiveSessions(s.Len())
	return removed
}

// Start runs the sweep every interval until Stop is called. Calling Start more than once has no effect.
func (s *Store) Start() {
	s.startOnce.Do(func() {
		go s.loop()
	})
}

func (s *Store) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

// Stop ends the sweep and waits for it to exit. Lookups are unaffected.
// After Stop, Start is a no-op.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.startOnce.Do(func() { close(s.done) })
	<-s.done
}
