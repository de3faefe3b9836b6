package tasks

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("task not found")
	// ErrConflict: el completed almacenado cambió entre la lectura y la escritura.
	ErrConflict = errors.New("task update conflict")
)

type Repository interface {
	Create(ctx context.Context, t Task) error
	GetByID(ctx context.Context, id string) (Task, error)
	// ListByOwner devuelve las tareas más nuevas primero.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Task, error)
	// Update persiste t sólo si el completed almacenado sigue siendo prevCompleted.
	// Si no, devuelve ErrConflict y no toca nada.
	Update(ctx context.Context, t Task, prevCompleted bool) error
	Delete(ctx context.Context, id string) error
}
