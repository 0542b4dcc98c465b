// Package auth authenticates users against the Firebase Identity
// Toolkit and tracks signed-in sessions in process memory.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cdJohnEl/PocketLens/internal/broadcast"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
)

// ErrInvalidSession is returned when a session token is unknown or has
// expired.
var ErrInvalidSession = errors.New("invalid or expired session")

const sessionTTL = 24 * time.Hour

// State is a point-in-time view of who is signed in for a session.
// User is nil after sign-out.
type State struct {
	User *User
}

type session struct {
	user      User
	expiresAt time.Time
}

// Service signs users in and out and resolves session tokens. When no
// API key is configured every credential operation fails fast with a
// configuration error, mirroring an unconfigured deployment.
type Service struct {
	provider *firebaseClient
	logger   *logpkg.Logger
	states   *broadcast.Broadcaster[State]

	mu       sync.Mutex
	sessions map[string]session
}

func NewService(apiKey, baseURL string, logger *logpkg.Logger) *Service {
	s := &Service{
		logger:   logger.WithComponent(logpkg.ComponentAuth),
		states:   broadcast.New[State](),
		sessions: make(map[string]session),
	}
	if apiKey != "" {
		s.provider = newFirebaseClient(apiKey, baseURL)
	} else {
		s.logger.Warn("No identity provider API key set, authentication disabled")
	}
	return s
}

// Configured reports whether an identity provider is wired up.
func (s *Service) Configured() bool { return s.provider != nil }

// SignIn verifies credentials and opens a session. The returned token
// authenticates subsequent requests.
func (s *Service) SignIn(ctx context.Context, email, password string) (User, string, error) {
	if s.provider == nil {
		return User{}, "", newError(KindNotConfigured, "")
	}
	user, err := s.provider.signIn(ctx, email, password)
	if err != nil {
		s.logger.WarnContext(ctx, "Sign-in failed", logpkg.FieldError, err)
		return User{}, "", err
	}
	token := s.openSession(user)
	s.logger.InfoContext(ctx, "User signed in", logpkg.FieldUserID, user.ID)
	s.states.Publish(State{User: &user})
	return user, token, nil
}

// SignUp creates an account and opens a session for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (User, string, error) {
	if s.provider == nil {
		return User{}, "", newError(KindNotConfigured, "")
	}
	user, err := s.provider.signUp(ctx, email, password)
	if err != nil {
		s.logger.WarnContext(ctx, "Sign-up failed", logpkg.FieldError, err)
		return User{}, "", err
	}
	token := s.openSession(user)
	s.logger.InfoContext(ctx, "User signed up", logpkg.FieldUserID, user.ID)
	s.states.Publish(State{User: &user})
	return user, token, nil
}

// SignOut closes the session. Unknown tokens are a no-op.
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	_, known := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()
	if known {
		s.states.Publish(State{})
	}
}

// CurrentUser resolves a session token to its user.
func (s *Service) CurrentUser(token string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return User{}, ErrInvalidSession
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return User{}, ErrInvalidSession
	}
	return sess.user, nil
}

// Subscribe returns a channel receiving auth state changes and a cancel
// function.
func (s *Service) Subscribe() (<-chan State, func()) {
	return s.states.Subscribe()
}

func (s *Service) openSession(user User) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{user: user, expiresAt: time.Now().Add(sessionTTL)}
	s.mu.Unlock()
	return token
}
