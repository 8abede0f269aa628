// internal/service/task_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"taskkeeper/internal/models"
	"taskkeeper/internal/storage"
)

type TaskService struct {
	store *storage.TaskStore
}

func NewTaskService(store *storage.TaskStore) *TaskService {
	return &TaskService{store: store}
}

// CreateTaskInput is the request body for task creation. Priority and
// category default server-side when absent, so a direct API call can never
// store an undefined value.
type CreateTaskInput struct {
	TaskText string  `json:"taskText"`
	Priority *string `json:"priority"`
	Deadline *string `json:"deadline"`
	Category *string `json:"category"`
}

// TaskPatch is a partial update. Absent fields leave the stored task
// untouched; explicit JSON null on deadline and category has its own meaning,
// so presence is tracked separately from value.
type TaskPatch struct {
	Done        *bool
	TaskText    *string
	Priority    *string
	Deadline    *string
	DeadlineSet bool
	Category    *string
	CategorySet bool
}

func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	isNull := func(v json.RawMessage) bool { return string(v) == "null" }

	if v, ok := raw["done"]; ok {
		var b bool
		// json.Unmarshal treats null as a no-op, so reject it explicitly.
		if isNull(v) || json.Unmarshal(v, &b) != nil {
			return errors.New("done must be a boolean")
		}
		p.Done = &b
	}
	if v, ok := raw["taskText"]; ok {
		var s string
		if isNull(v) || json.Unmarshal(v, &s) != nil {
			return errors.New("taskText must be a string")
		}
		p.TaskText = &s
	}
	if v, ok := raw["priority"]; ok {
		var s string
		if isNull(v) || json.Unmarshal(v, &s) != nil {
			return errors.New("priority must be a string")
		}
		p.Priority = &s
	}
	if v, ok := raw["deadline"]; ok {
		p.DeadlineSet = true
		if !isNull(v) {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return errors.New("deadline must be a string or null")
			}
			p.Deadline = &s
		}
	}
	if v, ok := raw["category"]; ok {
		p.CategorySet = true
		if !isNull(v) {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return errors.New("category must be a string or null")
			}
			p.Category = &s
		}
	}
	return nil
}

// Create validates the input, assigns the user's next task id, appends and
// persists the collection, and returns the created task.
func (s *TaskService) Create(_ context.Context, userID int, in CreateTaskInput) (models.Task, error) {
	text := strings.TrimSpace(in.TaskText)
	if text == "" {
		return models.Task{}, Validation("taskText is required")
	}

	task := models.Task{
		TaskText: text,
		Priority: models.PriorityLow,
		Category: models.CategoryNone,
	}

	if in.Priority != nil {
		if !models.ValidPriority(*in.Priority) {
			return models.Task{}, Validation("invalid priority")
		}
		task.Priority = *in.Priority
	}
	if in.Category != nil {
		if !models.ValidCategory(*in.Category) {
			return models.Task{}, Validation("invalid category")
		}
		task.Category = *in.Category
	}
	if in.Deadline != nil && *in.Deadline != "" {
		if !models.ValidDeadline(*in.Deadline) {
			return models.Task{}, Validation("invalid deadline")
		}
		d := *in.Deadline
		task.Deadline = &d
	}

	err := s.store.Mutate(userID, func(doc *storage.TaskDocument) error {
		task.ID = doc.NextID
		doc.NextID++
		doc.Tasks = append(doc.Tasks, task)
		return nil
	})
	if err != nil {
		return models.Task{}, s.wrap(err, "create task")
	}
	return task, nil
}

// List returns the user's full collection. Key selects a sort order; the
// zero value returns tasks in storage order.
func (s *TaskService) List(_ context.Context, userID int, key models.SortKey) ([]models.Task, error) {
	doc := s.store.Load(userID)
	if key != "" {
		models.SortTasks(doc.Tasks, key)
	}
	return doc.Tasks, nil
}

// Update applies a partial update to one task and persists the collection.
func (s *TaskService) Update(_ context.Context, userID, taskID int, patch TaskPatch) (models.Task, error) {
	var updated models.Task

	err := s.store.Mutate(userID, func(doc *storage.TaskDocument) error {
		idx := -1
		for i, t := range doc.Tasks {
			if t.ID == taskID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return NotFound("task not found")
		}

		task := doc.Tasks[idx]

		if patch.Done != nil {
			task.Done = *patch.Done
		}
		if patch.TaskText != nil {
			text := strings.TrimSpace(*patch.TaskText)
			if text == "" {
				return Validation("taskText must not be empty")
			}
			task.TaskText = text
		}
		if patch.Priority != nil {
			if !models.ValidPriority(*patch.Priority) {
				return Validation("invalid priority")
			}
			task.Priority = *patch.Priority
		}
		if patch.CategorySet {
			switch {
			case patch.Category == nil:
				task.Category = models.CategoryNone
			case models.ValidCategory(*patch.Category):
				task.Category = *patch.Category
			default:
				return Validation("invalid category")
			}
		}
		if patch.DeadlineSet {
			switch {
			case patch.Deadline == nil, *patch.Deadline == "":
				task.Deadline = nil
			case models.ValidDeadline(*patch.Deadline):
				d := *patch.Deadline
				task.Deadline = &d
			default:
				return Validation("invalid deadline")
			}
		}

		doc.Tasks[idx] = task
		updated = task
		return nil
	})
	if err != nil {
		return models.Task{}, s.wrap(err, "update task")
	}
	return updated, nil
}

// Delete removes one task and persists the shortened collection.
func (s *TaskService) Delete(_ context.Context, userID, taskID int) error {
	err := s.store.Mutate(userID, func(doc *storage.TaskDocument) error {
		for i, t := range doc.Tasks {
			if t.ID == taskID {
				doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
				return nil
			}
		}
		return NotFound("task not found")
	})
	if err != nil {
		return s.wrap(err, "delete task")
	}
	return nil
}

// wrap passes service errors through and converts anything else, which at
// this layer means a failed save, into an internal error.
func (s *TaskService) wrap(err error, op string) error {
	if _, ok := AsError(err); ok {
		return err
	}
	return Internal(op, err)
}
