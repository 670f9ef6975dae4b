// Package auth implements admin credential verification and opaque
// session tokens for the dashboard endpoints.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"sync"
	"time"

	"ytscribe/errors"
	"ytscribe/repository"
)

// HashPassword returns the hex-encoded SHA-256 digest of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword compares a candidate password against a stored hash
// in constant time.
func VerifyPassword(password, passwordHash string) bool {
	candidate := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(passwordHash)) == 1
}

type session struct {
	username  string
	createdAt time.Time
}

// SessionStore maps opaque tokens to usernames. Sessions live only for
// the process lifetime. A zero TTL means sessions never expire.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a new token for a username from a cryptographically
// strong random source.
func (s *SessionStore) Create(username string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Internal("SessionStore.Create", err, "Failed to generate session token")
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	s.mu.Lock()
	s.sessions[token] = session{username: username, createdAt: s.now()}
	s.mu.Unlock()

	return token, nil
}

// Lookup resolves a token to its username. Expired sessions are
// dropped on access.
func (s *SessionStore) Lookup(token string) (string, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}

	if s.ttl > 0 && s.now().Sub(sess.createdAt) > s.ttl {
		s.Delete(token)
		return "", false
	}

	return sess.username, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Authenticator checks admin credentials against the user store and
// manages the resulting sessions.
type Authenticator struct {
	users    repository.UserRepository
	Sessions *SessionStore
}

func NewAuthenticator(users repository.UserRepository, sessions *SessionStore) *Authenticator {
	return &Authenticator{users: users, Sessions: sessions}
}

// Login verifies the credential pair and returns a session token.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	const op = "Authenticator.Login"

	hash, err := a.users.GetPasswordHash(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.Unauthorized(op, nil, "Invalid credentials")
		}
		return "", err
	}

	if !VerifyPassword(password, hash) {
		return "", errors.Unauthorized(op, nil, "Invalid credentials")
	}

	return a.Sessions.Create(username)
}

func (a *Authenticator) Logout(token string) {
	a.Sessions.Delete(token)
}

// SeedUser creates the admin credential when it does not exist yet.
// Called at startup with the configured username and password.
func (a *Authenticator) SeedUser(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	return a.users.CreateUser(ctx, username, HashPassword(password))
}
