package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/angelmondragon/laptopshop/pkg/redis"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	PutSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	SessionOwner(ctx context.Context, sessionID string) (string, error)
	DropSession(ctx context.Context, sessionID string) error
}

// Manager tracks login sessions in Redis. The session id is the JWT jti, so
// deleting the key revokes the token before it expires.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis. Sessions live as
// long as the access token they back.
func NewManager(client *redisclient.Client, ttl time.Duration) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: client, ttl: ttl}, nil
}

// Create opens a session for the user and returns its id.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	sessionID := NewSessionID()
	if err := m.store.PutSession(ctx, sessionID, userID.String(), m.ttl); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Lookup returns the user owning the session.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (uuid.UUID, error) {
	if strings.TrimSpace(sessionID) == "" {
		return uuid.Nil, ErrSessionNotFound
	}
	raw, err := m.store.SessionOwner(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, nil
}

// HasSession reports whether the session is still active.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if _, err := m.Lookup(ctx, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session. Revoking an unknown session is not an error.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.DropSession(ctx, sessionID)
}

// NewSessionID produces the identifier used as the JWT jti and Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
