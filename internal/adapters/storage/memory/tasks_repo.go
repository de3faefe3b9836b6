package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"task-buddy/internal/domain/tasks"
)

type taskRepo struct {
	mu   sync.RWMutex
	byID map[string]tasks.Task
}

func NewTaskRepo() tasks.Repository {
	return &taskRepo{
		byID: make(map[string]tasks.Task),
	}
}

func (r *taskRepo) Create(ctx context.Context, t tasks.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return errors.New("task id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("task already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return t, nil
}

func (r *taskRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]tasks.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tasks.Task, 0)
	for _, t := range r.byID {
		if t.OwnerUserID == ownerUserID {
			out = append(out, t)
		}
	}

	// más nuevas primero
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update es un CAS sobre completed.
func (r *taskRepo) Update(ctx context.Context, t tasks.Task, prevCompleted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[t.ID]
	if !ok {
		return tasks.ErrNotFound
	}
	if cur.Completed != prevCompleted {
		return tasks.ErrConflict
	}
	r.byID[t.ID] = t
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return tasks.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
