// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskkeeper/internal/session"
	"taskkeeper/internal/storage"
	"taskkeeper/pkg/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, session.Store) {
	t.Helper()
	users, err := storage.NewUserStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	sessions := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { sessions.Close() })
	// MinCost keeps the hashing fast in tests.
	svc := NewAuthService(users, sessions, auth.NewPasswordManagerWithCost(bcrypt.MinCost))
	return svc, sessions
}

func TestAuthServiceRegister(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		setup    func(svc *AuthService)
		wantErr  bool
		wantKind Kind
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "secret123",
		},
		{
			name:     "empty username",
			username: "",
			password: "secret123",
			wantErr:  true,
			wantKind: KindValidation,
		},
		{
			name:     "empty password",
			username: "alice",
			password: "",
			wantErr:  true,
			wantKind: KindValidation,
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "secret123",
			setup: func(svc *AuthService) {
				_, _, err := svc.Register(context.Background(), "alice", "other456")
				require.NoError(t, err)
			},
			wantErr:  true,
			wantKind: KindConflict,
		},
		{
			name:     "duplicate differing only in case",
			username: "ALICE",
			password: "secret123",
			setup: func(svc *AuthService) {
				_, _, err := svc.Register(context.Background(), "alice", "other456")
				require.NoError(t, err)
			},
			wantErr:  true,
			wantKind: KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sessions := newTestAuthService(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			user, sess, err := svc.Register(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				requireKind(t, err, tt.wantKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, user.Username)
			assert.Positive(t, user.ID)

			// Registration establishes a usable session.
			got, err := sessions.Get(context.Background(), sess.Token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.UserID)
		})
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, sess, err := svc.Login(ctx, "alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, sess.Token)
	})

	t.Run("case-insensitive username match", func(t *testing.T) {
		user, _, err := svc.Login(ctx, "ALICE", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, _, wrongPass := svc.Login(ctx, "alice", "wrong")
		_, _, unknownUser := svc.Login(ctx, "nobody", "secret123")

		requireKind(t, wrongPass, KindUnauthorized)
		requireKind(t, unknownUser, KindUnauthorized)
		assert.Equal(t, wrongPass.Error(), unknownUser.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "", "secret123")
		requireKind(t, err, KindValidation)
		_, _, err = svc.Login(ctx, "alice", "")
		requireKind(t, err, KindValidation)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	svc, sessions := newTestAuthService(t)
	ctx := context.Background()

	_, sess, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, err = sessions.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Repeating the logout is harmless.
	assert.NoError(t, svc.Logout(ctx, sess.Token))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestAuthServiceCurrentUser(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.CurrentUser(ctx, 999)
	requireKind(t, err, KindUnauthorized)
}
