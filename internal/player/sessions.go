package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown, expired or foreign session ids
var ErrSessionNotFound = errors.New("player session not found")

type session struct {
	userID   int
	resolver *Resolver
	lastUsed time.Time
}

// SessionManager keeps one resolver per open player, keyed by a random session id.
// Sessions idle for longer than the TTL are dropped by Sweep.
type SessionManager struct {
	source ContentSource
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionManager creates a new session manager
func NewSessionManager(source ContentSource, ttl time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		source:   source,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create loads the course for the user and registers a new session.
// Nothing is registered when Load fails.
func (m *SessionManager) Create(ctx context.Context, userID, courseID int) (string, *Resolver, error) {
	resolver := NewResolver(m.source, userID)
	if err := resolver.Load(ctx, courseID); err != nil {
		return "", nil, err
	}

	id := uuid.New().String()
	m.mu.Lock()
	m.sessions[id] = &session{userID: userID, resolver: resolver, lastUsed: m.now()}
	m.mu.Unlock()

	m.logger.Debug("player session created",
		zap.String("session_id", id),
		zap.Int("user_id", userID),
		zap.Int("course_id", courseID),
	)
	return id, resolver, nil
}

// Get returns the resolver of a session owned by userID and refreshes its idle timer
func (m *SessionManager) Get(id string, userID int) (*Resolver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.userID != userID {
		return nil, ErrSessionNotFound
	}
	s.lastUsed = m.now()
	return s.resolver, nil
}

// Delete removes a session owned by userID
func (m *SessionManager) Delete(id string, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.userID != userID {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Sweep drops sessions idle for longer than the TTL and returns how many were removed
func (m *SessionManager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of open sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartSweeper runs Sweep on the given cron schedule (for example "@every 5m").
// The returned function stops the schedule.
func (m *SessionManager) StartSweeper(schedule string) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if n := m.Sweep(); n > 0 {
			m.logger.Info("expired player sessions removed", zap.Int("count", n), zap.Int("open", m.Len()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
