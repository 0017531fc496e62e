package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/guru-ai/guru/backend/internal/model/chat"
	"github.com/guru-ai/guru/backend/internal/transcript"
)

var ErrSessionNotFound = errors.New("session not found")

const defaultIdleTTL = 30 * time.Minute

// Option configures a Service.
type Option func(*Service)

// WithIdleTTL sets how long an untouched mount survives.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReply overrides the canned bot reply for every new mount.
func WithReply(reply string) Option {
	return func(s *Service) {
		s.reply = reply
	}
}

type mount struct {
	session    chat.Session
	controller *transcript.Controller
	lastSeen   time.Time
}

// Service keeps the transcript controllers of every mounted chat page.
type Service struct {
	mu      sync.RWMutex
	mounts  map[string]*mount
	idleTTL time.Duration
	reply   string
	now     func() time.Time
	logger  *zap.Logger
}

// NewService bootstraps the in-memory mount registry.
func NewService(opts ...Option) *Service {
	s := &Service{
		mounts:  make(map[string]*mount),
		idleTTL: defaultIdleTTL,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession mounts a fresh transcript under a new identifier.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	now := s.now().UTC()
	m := &mount{
		session: chat.Session{
			ID:        uuid.NewString(),
			CreatedAt: now,
		},
		controller: transcript.New(transcript.WithReply(s.reply), transcript.WithLogger(s.logger)),
		lastSeen:   now,
	}

	s.mu.Lock()
	s.mounts[m.session.ID] = m
	s.mu.Unlock()

	s.logger.Debug("chat mounted", zap.String("session", m.session.ID))
	return m.session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mounts[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return m.session, nil
}

// Controller returns the transcript controller of a mount and marks it as active.
func (s *Service) Controller(_ context.Context, sessionID string) (*transcript.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mounts[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	m.lastSeen = s.now().UTC()
	return m.controller, nil
}

// LoadTranscript returns the messages of the provided session.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	c, err := s.Controller(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Messages(), nil
}

// UpdateInput replaces the pending input of a session.
func (s *Service) UpdateInput(ctx context.Context, sessionID, text string) error {
	c, err := s.Controller(ctx, sessionID)
	if err != nil {
		return err
	}
	c.UpdateInput(text)
	return nil
}

// Submit submits the pending input of a session.
func (s *Service) Submit(ctx context.Context, sessionID string) (bool, error) {
	c, err := s.Controller(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return c.Submit(), nil
}

// SubmitText sets and submits the input of a session in one step.
func (s *Service) SubmitText(ctx context.Context, sessionID, text string) (bool, error) {
	c, err := s.Controller(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return c.SubmitText(text), nil
}

// ResetSession restores the seed transcript of a mount.
func (s *Service) ResetSession(ctx context.Context, sessionID string) error {
	c, err := s.Controller(ctx, sessionID)
	if err != nil {
		return err
	}
	c.Reset()
	return nil
}

// CloseSession unmounts a session.
func (s *Service) CloseSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mounts[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.mounts, sessionID)
	return nil
}

// Len returns the number of live mounts.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mounts)
}

// Evict unmounts every session idle for longer than the TTL and returns how many were removed.
func (s *Service) Evict(now time.Time) int {
	cutoff := now.UTC().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, m := range s.mounts {
		if m.lastSeen.Before(cutoff) {
			delete(s.mounts, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle mounts every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(s.now()); n > 0 {
				s.logger.Info("evicted idle chat mounts", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}
