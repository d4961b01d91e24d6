// Package session holds the browser's belief about who is logged in.
//
// The token/username pair lives in persisted storage bound to one browser
// (an encrypted cookie, or a cookie-referenced Redis or Postgres record).
// A Store never caches the pair: every check re-reads storage, because
// other tabs of the same browser may change it at any time.
package session

import (
	"context"
	"errors"
)

const (
	KeyToken    = "token"
	KeyUsername = "username"
)

var ErrEmptyCredentials = errors.New("token and username must both be non-empty")

// Session is an authenticated browser identity.
type Session struct {
	Token    string
	Username string
}

// Storage is persisted key/value storage bound to a single browser.
// Get returns "" for absent keys. Set writes all values atomically; backends
// that keep the record server-side move it to a new session id on every Set.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store exposes authentication status on top of Storage.
type Store struct {
	storage Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Current returns the session, or nil when either key is absent or empty.
func (s *Store) Current(ctx context.Context) (*Session, error) {
	token, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return nil, err
	}
	username, err := s.storage.Get(ctx, KeyUsername)
	if err != nil {
		return nil, err
	}
	if token == "" || username == "" {
		return nil, nil
	}
	return &Session{Token: token, Username: username}, nil
}

// IsAuthenticated treats unreadable storage as anonymous.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	sess, err := s.Current(ctx)
	return err == nil && sess != nil
}

func (s *Store) Login(ctx context.Context, token, username string) error {
	if token == "" || username == "" {
		return ErrEmptyCredentials
	}
	return s.storage.Set(ctx, map[string]string{
		KeyToken:    token,
		KeyUsername: username,
	})
}

// Logout clears both keys. Redirecting the browser is up to the caller.
func (s *Store) Logout(ctx context.Context) error {
	return s.storage.Delete(ctx, KeyToken, KeyUsername)
}
