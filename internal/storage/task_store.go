// internal/storage/task_store.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"taskkeeper/internal/models"
)

// TaskDocument is the persisted per-user collection. NextID is an explicit
// counter rather than max(id)+1 so an id is never handed out again after the
// highest-numbered task is deleted.
type TaskDocument struct {
	NextID int           `json:"nextId"`
	Tasks  []models.Task `json:"tasks"`
}

// TaskStore persists one task document per user id under <dataDir>/tasks/.
// Load-modify-save cycles for one user are serialized by a per-user mutex;
// different users never contend.
type TaskStore struct {
	dir    string
	logger *zap.Logger

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewTaskStore(dataDir string, logger *zap.Logger) (*TaskStore, error) {
	dir := filepath.Join(dataDir, "tasks")
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &TaskStore{
		dir:    dir,
		logger: logger,
		locks:  make(map[int]*sync.Mutex),
	}, nil
}

func (s *TaskStore) path(userID int) string {
	return documentPath(s.dir, fmt.Sprintf("%d.json", userID))
}

func (s *TaskStore) userLock(userID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Load reads a user's task document. A missing or unreadable document yields
// an empty collection: the store favors availability over strict surfacing of
// corruption, which is an accepted data-loss trade-off.
func (s *TaskStore) Load(userID int) TaskDocument {
	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("unreadable task document, starting empty",
				zap.Int("user_id", userID), zap.Error(err))
		}
		return TaskDocument{NextID: 1, Tasks: []models.Task{}}
	}

	var doc TaskDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.NextID > 0 {
		if doc.Tasks == nil {
			doc.Tasks = []models.Task{}
		}
		return doc
	}

	// Earlier deployments stored a bare task array. Seed the counter from the
	// highest existing id.
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.logger.Warn("corrupt task document, starting empty",
			zap.Int("user_id", userID), zap.Error(err))
		return TaskDocument{NextID: 1, Tasks: []models.Task{}}
	}
	next := 1
	for _, t := range tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return TaskDocument{NextID: next, Tasks: tasks}
}

// Save durably overwrites a user's entire task document.
func (s *TaskStore) Save(userID int, doc TaskDocument) error {
	if doc.Tasks == nil {
		doc.Tasks = []models.Task{}
	}
	if err := writeJSONFile(s.path(userID), doc); err != nil {
		return fmt.Errorf("save tasks for user %d: %w", userID, err)
	}
	return nil
}

// Mutate runs fn inside the user's load-modify-save critical section. The
// document is persisted only when fn succeeds, so a rejected mutation leaves
// the stored collection untouched.
func (s *TaskStore) Mutate(userID int, fn func(doc *TaskDocument) error) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc := s.Load(userID)
	if err := fn(&doc); err != nil {
		return err
	}
	return s.Save(userID, doc)
}
