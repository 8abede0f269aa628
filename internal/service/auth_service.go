// internal/service/auth_service.go
package service

import (
	"context"
	"strings"

	"taskkeeper/internal/models"
	"taskkeeper/internal/session"
	"taskkeeper/internal/storage"
	"taskkeeper/pkg/auth"
)

// badCredentials is the single message for every login failure so responses
// cannot be used to enumerate usernames.
const badCredentials = "invalid username or password"

type AuthService struct {
	users     *storage.UserStore
	sessions  session.Store
	passwords *auth.PasswordManager
}

func NewAuthService(users *storage.UserStore, sessions session.Store, passwords *auth.PasswordManager) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
	}
}

// Register creates a new account and an initial session for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (models.PublicUser, session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.PublicUser{}, session.Session{}, Validation("username and password are required")
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return models.PublicUser{}, session.Session{}, Internal("hash password", err)
	}

	user, err := s.users.Create(username, hash)
	if err != nil {
		if err == storage.ErrUsernameTaken {
			return models.PublicUser{}, session.Session{}, Conflict("username already taken")
		}
		return models.PublicUser{}, session.Session{}, Internal("create user", err)
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return models.PublicUser{}, session.Session{}, Internal("create session", err)
	}
	return user.Public(), sess, nil
}

// Login authenticates a user and establishes a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.PublicUser, session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.PublicUser{}, session.Session{}, Validation("username and password are required")
	}

	user, ok := s.users.FindByUsername(username)
	if !ok {
		return models.PublicUser{}, session.Session{}, Unauthorized(badCredentials)
	}
	if err := s.passwords.ComparePassword(user.PasswordHash, password); err != nil {
		return models.PublicUser{}, session.Session{}, Unauthorized(badCredentials)
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return models.PublicUser{}, session.Session{}, Internal("create session", err)
	}
	return user.Public(), sess, nil
}

// Logout destroys the session behind the token. Unknown tokens are not an
// error, so repeating a logout is harmless.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return Internal("delete session", err)
	}
	return nil
}

// CurrentUser returns the public profile of the session's user.
func (s *AuthService) CurrentUser(_ context.Context, userID int) (models.PublicUser, error) {
	user, ok := s.users.FindByID(userID)
	if !ok {
		return models.PublicUser{}, Unauthorized("not logged in")
	}
	return user.Public(), nil
}
