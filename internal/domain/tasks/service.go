package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-buddy/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// maxUpdateAttempts: un intento + una re-evaluación si perdimos el CAS.
const maxUpdateAttempts = 2

// compensateTimeout acota la reversión de completed cuando falla el crédito.
const compensateTimeout = 5 * time.Second

type Service struct {
	repo     Repository
	rewarder Rewarder
	reward   int
	log      logger.Logger
	now      func() time.Time
}

// NewService arma el service. rewardCoins <= 0 desactiva el pago.
func NewService(repo Repository, rewarder Rewarder, rewardCoins int, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		rewarder: rewarder,
		reward:   rewardCoins,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string
	Deadline    *time.Time
}

// PatchTime distingue "no enviado" de "null" (limpiar).
type PatchTime struct {
	Present bool
	Value   *time.Time
}

// UpdateInput: punteros para update parcial, nil = no tocar.
type UpdateInput struct {
	Title       *string
	Description *string
	Deadline    PatchTime
	Completed   *bool
}

type UpdateResult struct {
	Task Task
	// Reward son las monedas pagadas en esta llamada (0 si no hubo transición false→true).
	Reward int
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Task, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Task{}, ErrInvalidInput
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, ErrInvalidInput
	}

	now := s.now()
	t := Task{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Deadline:    in.Deadline,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Get devuelve la tarea sólo si pertenece a userID; si no, ErrNotFound.
func (s *Service) Get(ctx context.Context, id, userID string) (Task, error) {
	t, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Task{}, err
	}
	if t.OwnerUserID != userID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, userID string, f ListFilter) ([]Task, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return applyFilter(items, f), nil
}

// Update aplica un update parcial y paga la recompensa si completed pasó de false a true.
//
// La decisión usa el completed ALMACENADO, leído antes de escribir, y la escritura
// es un CAS sobre ese valor. Si dos requests compiten, el que pierde re-lee y
// re-evalúa: ve completed=true y no paga.
func (s *Service) Update(ctx context.Context, id, userID string, in UpdateInput) (UpdateResult, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return UpdateResult{}, ErrInvalidInput
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := s.Get(ctx, id, userID)
		if err != nil {
			return UpdateResult{}, err
		}

		next := apply(current, in, s.now())
		pay := ShouldReward(current.Completed, next.Completed)

		err = s.repo.Update(ctx, next, current.Completed)
		if errors.Is(err, ErrConflict) {
			s.log.Debug("task update lost CAS, re-evaluating", map[string]any{
				"task_id": current.ID,
				"attempt": attempt + 1,
			})
			continue
		}
		if err != nil {
			return UpdateResult{}, fmt.Errorf("update task: %w", err)
		}

		if !pay || s.reward <= 0 || s.rewarder == nil {
			return UpdateResult{Task: next}, nil
		}

		if err := s.rewarder.Credit(ctx, userID, s.reward); err != nil {
			s.compensate(ctx, current, next)
			return UpdateResult{}, fmt.Errorf("credit reward: %w", err)
		}

		s.log.Info("task reward granted", map[string]any{
			"task_id": next.ID,
			"user_id": userID,
			"coins":   s.reward,
		})
		return UpdateResult{Task: next, Reward: s.reward}, nil
	}

	return UpdateResult{}, ErrConflict
}

// compensate revierte la tarea al estado previo cuando no se pudo acreditar.
// Usa CAS sobre el valor que acabamos de escribir para no pisar a otro request.
//
// Corre sobre un contexto sin cancelación: si el crédito falló porque el request
// se cortó, la reversión igual tiene que llegar al repo.
func (s *Service) compensate(ctx context.Context, previous, written Task) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	if err := s.repo.Update(ctx, previous, written.Completed); err != nil {
		s.log.Error("task reward compensation failed", map[string]any{
			"task_id": previous.ID,
			"error":   err,
		})
		return
	}
	s.log.Warn("task completion reverted after reward failure", map[string]any{
		"task_id": previous.ID,
	})
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	t, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, t.ID)
}

func apply(t Task, in UpdateInput, now time.Time) Task {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Deadline.Present {
		t.Deadline = in.Deadline.Value
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	t.UpdatedAt = now
	return t
}
