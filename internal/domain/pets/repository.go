package pets

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("pet not found")
	// ErrConflict: la versión almacenada no coincide con la esperada.
	ErrConflict = errors.New("pet update conflict")
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	// ListByOwner ordena por created_at asc; el primero es el pet "actual".
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
	// Update persiste p sólo si la versión almacenada es expectedVersion.
	// p.Version ya viene incrementada. ErrConflict si no coincide, ErrNotFound si no existe.
	Update(ctx context.Context, p Pet, expectedVersion int) error
}
