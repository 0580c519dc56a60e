package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sebuszqo/FinanceControl/internal/identity"
)

var (
	ErrInvalidSessionToken = errors.New("session token is invalid")
	ErrExpiredSessionToken = errors.New("session token is expired")
)

const defaultSessionDuration = 30 * time.Minute

type sessionEntry struct {
	principal identity.Principal
	expiresAt time.Time
}

// SessionManager is an in-memory session store with sliding expiry: every
// successful lookup extends the session by its duration.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	duration time.Duration
	now      func() time.Time
}

func NewSessionManager(duration time.Duration) *SessionManager {
	if duration <= 0 {
		duration = defaultSessionDuration
	}
	return &SessionManager{
		sessions: make(map[string]*sessionEntry),
		duration: duration,
		now:      time.Now,
	}
}

// Create stores a new session for p and returns its token.
func (sm *SessionManager) Create(p identity.Principal) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("could not generate session token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	now := sm.now()
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[token] = &sessionEntry{
		principal: p,
		expiresAt: now.Add(sm.duration),
	}
	return token, nil
}

// Lookup returns the principal bound to token and extends the session.
func (sm *SessionManager) Lookup(token string) (identity.Principal, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	entry, exists := sm.sessions[token]
	if !exists {
		return identity.Principal{}, ErrInvalidSessionToken
	}
	now := sm.now()
	if now.After(entry.expiresAt) {
		delete(sm.sessions, token)
		return identity.Principal{}, ErrExpiredSessionToken
	}
	entry.expiresAt = now.Add(sm.duration)
	return entry.principal, nil
}

func (sm *SessionManager) principal(token string) identity.Principal {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if entry, exists := sm.sessions[token]; exists {
		return entry.principal
	}
	return identity.Principal{}
}

// Rebind replaces the principal of a live session.
func (sm *SessionManager) Rebind(token string, p identity.Principal) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	entry, exists := sm.sessions[token]
	if !exists {
		return ErrInvalidSessionToken
	}
	entry.principal = p
	return nil
}

func (sm *SessionManager) Delete(token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, token)
}

// DeleteUser drops every session that belongs to userID.
func (sm *SessionManager) DeleteUser(userID string) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for token, entry := range sm.sessions {
		if entry.principal.UserID == userID {
			delete(sm.sessions, token)
			removed++
		}
	}
	return removed
}

// PurgeExpired removes expired sessions and reports how many were dropped.
func (sm *SessionManager) PurgeExpired() int {
	now := sm.now()
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for token, entry := range sm.sessions {
		if now.After(entry.expiresAt) {
			delete(sm.sessions, token)
			removed++
		}
	}
	return removed
}

func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Bind returns the request scoped view of the session behind token.
func (sm *SessionManager) Bind(token string) identity.Session {
	return &requestSession{manager: sm, token: token}
}

type requestSession struct {
	manager *SessionManager
	token   string
}

func (s *requestSession) Principal() identity.Principal {
	return s.manager.principal(s.token)
}

func (s *requestSession) Rebind(p identity.Principal) {
	_ = s.manager.Rebind(s.token, p)
}

func (s *requestSession) Invalidate() {
	s.manager.Delete(s.token)
}
