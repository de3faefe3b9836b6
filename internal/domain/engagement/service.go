package engagement

import (
	"context"
	"fmt"
	"time"

	"task-buddy/internal/domain/tasks"
)

// TaskLister es lo que necesitamos de tasks.Service.
type TaskLister interface {
	List(ctx context.Context, userID string, f tasks.ListFilter) ([]tasks.Task, error)
}

type Service struct {
	tasks TaskLister
	loc   *time.Location
	now   func() time.Time
}

// NewService: loc es la zona por defecto para cortar días (app.timezone).
func NewService(tl TaskLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{tasks: tl, loc: loc, now: time.Now}
}

// ForUser calcula las stats de userID; loc nil usa la zona por defecto.
func (s *Service) ForUser(ctx context.Context, userID string, loc *time.Location) (Stats, error) {
	if loc == nil {
		loc = s.loc
	}
	done := true
	items, err := s.tasks.List(ctx, userID, tasks.ListFilter{Completed: &done})
	if err != nil {
		return Stats{}, fmt.Errorf("engagement: %w", err)
	}

	activities := make([]Activity, 0, len(items))
	for _, t := range items {
		activities = append(activities, Activity{
			Completed: t.Completed,
			At:        EffectiveAt(t.CreatedAt, t.UpdatedAt),
		})
	}
	return Compute(activities, s.now(), loc), nil
}
