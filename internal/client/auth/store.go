package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/keepsake/internal/client/storage"
)

const sessionKey = "auth/session"

// Store persists the session in the client KV
type Store struct {
	kv  storage.KV
	now func() time.Time
}

// NewStore creates a session store
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Login parses token and saves it as the current session
func (s *Store) Login(ctx context.Context, token string) (*Session, error) {
	session, err := ParseToken(token)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, ErrTokenExpired
	}
	session.SavedAt = s.now()

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey, data); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Session returns the stored session.
// Returns storage.ErrTokenNotFound when nobody is logged in
func (s *Store) Session(ctx context.Context) (*Session, error) {
	data, err := s.kv.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Token returns the stored bearer token, or "" when there is none.
// It has the shape the API client expects for its token source.
func (s *Store) Token(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return "", nil
		}
		return "", err
	}
	return session.Token, nil
}

// IsAuthenticated проверяет наличие непросроченного токена
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	session, err := s.Session(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}
	return !session.Expired(s.now()), nil
}

// Logout removes the stored session
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Remove(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
