// internal/storage/user_store.go
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskkeeper/internal/models"
)

// ErrUsernameTaken is returned by Create when a case-insensitive username
// match already exists.
var ErrUsernameTaken = errors.New("username already taken")

// UserStore persists all registered users as one JSON array document.
// Mutations run under a single mutex: the uniqueness check and the insert
// must observe the same document.
type UserStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

func NewUserStore(dataDir string, logger *zap.Logger) (*UserStore, error) {
	if err := ensureDir(dataDir); err != nil {
		return nil, err
	}
	return &UserStore{
		path:   documentPath(dataDir, "users.json"),
		logger: logger,
	}, nil
}

func (s *UserStore) load() []models.User {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("unreadable user document, starting empty", zap.Error(err))
		}
		return []models.User{}
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn("corrupt user document, starting empty", zap.Error(err))
		return []models.User{}
	}
	return users
}

// Create registers a new user, assigning the next id. Uniqueness is
// case-insensitive.
func (s *UserStore) Create(username, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	nextID := 1
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return models.User{}, ErrUsernameTaken
		}
		if u.ID >= nextID {
			nextID = u.ID + 1
		}
	}

	user := models.User{
		ID:           nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, user)

	if err := writeJSONFile(s.path, users); err != nil {
		return models.User{}, fmt.Errorf("save users: %w", err)
	}
	return user, nil
}

// FindByUsername looks up a user by case-insensitive username.
func (s *UserStore) FindByUsername(username string) (models.User, bool) {
	for _, u := range s.load() {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return models.User{}, false
}

// FindByID looks up a user by id.
func (s *UserStore) FindByID(id int) (models.User, bool) {
	for _, u := range s.load() {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}
