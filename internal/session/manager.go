package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound is returned when no session matches the token.
	ErrNotFound = errors.New("session: not found")
	// ErrExpired is returned when the session lease has lapsed.
	ErrExpired = errors.New("session: expired")
)

// Session ties an authenticated profile to a lease that must be
// refreshed by activity.
type Session struct {
	Token     string
	ProfileID string
	Username  string
	CreatedAt time.Time
	LastSeen  time.Time
}

// Manager issues and validates lease-based sessions.
type Manager struct {
	leasePeriod time.Duration
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager with the given lease period.
func NewManager(leasePeriod time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		leasePeriod: leasePeriod,
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
}

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Create opens a new session for a profile and returns its token.
func (m *Manager) Create(profileID, username string) *Session {
	now := time.Now()
	s := &Session{
		Token:     uuid.NewString(),
		ProfileID: profileID,
		Username:  username,
		CreatedAt: now,
		LastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()

	m.logger.Info("session created",
		zap.String("profile_id", profileID),
		zap.String("username", username),
	)
	return s
}

// Validate checks the token and renews its lease on success. The
// returned session is a copy.
func (m *Manager) Validate(token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	if time.Since(s.LastSeen) > m.leasePeriod {
		delete(m.sessions, token)
		return Session{}, ErrExpired
	}
	s.LastSeen = time.Now()
	return *s, nil
}

// Close ends a single session.
func (m *Manager) Close(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// CloseAll ends every session, used during shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	n := len(m.sessions)
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	m.logger.Info("closed all sessions", zap.Int("count", n))
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpiredSessions periodically drops sessions whose lease
// lapsed. Blocks until ctx is cancelled.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) {
	ticker := time.NewTicker(m.leasePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, s := range m.sessions {
		if time.Since(s.LastSeen) > m.leasePeriod {
			delete(m.sessions, token)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("swept expired sessions", zap.Int("removed", removed))
	}
}
