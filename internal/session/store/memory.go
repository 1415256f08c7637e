// Package store holds browser sessions. Both implementations return
// sentinel.ErrNotFound for unknown IDs and sentinel.ErrExpired for sessions
// past their expiry.
package store

import (
	"context"
	"sync"
	"time"

	"ddinvest/internal/session/models"
	id "ddinvest/pkg/domain"
	"ddinvest/pkg/platform/sentinel"
)

// InMemory is a process-local session store for single-instance deployments.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]models.Session
	now      func() time.Time
}

type Option func(*InMemory)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *InMemory) {
		s.now = now
	}
}

func NewInMemory(opts ...Option) *InMemory {
	s := &InMemory{
		sessions: make(map[id.SessionID]models.Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Save(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *InMemory) Get(_ context.Context, sessionID id.SessionID) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, sentinel.ErrExpired
	}
	return &sess, nil
}

func (s *InMemory) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
