package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task-buddy/internal/domain/catalog"
)

const (
	KeyBackground = "background"
	// KeyCurrentPet se guarda pero /pets/current sigue devolviendo el primer pet creado.
	KeyCurrentPet = "current_pet"
)

var knownKeys = []string{KeyBackground, KeyCurrentPet}

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownKey   = errors.New("unknown preference key")
)

// ItemOwner lo implementa inventory.Service.
type ItemOwner interface {
	Owns(ctx context.Context, userID, itemID string) (bool, error)
}

// PetOwner lo implementa pets.Service.
type PetOwner interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

type Service struct {
	store   Store
	catalog *catalog.Catalog
	items   ItemOwner
	pets    PetOwner
}

func NewService(store Store, cat *catalog.Catalog, items ItemOwner, pets PetOwner) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Service{store: store, catalog: cat, items: items, pets: pets}
}

// Get devuelve las preferencias guardadas del usuario (sólo claves conocidas).
func (s *Service) Get(ctx context.Context, userID string) (map[string]string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	out := make(map[string]string, len(knownKeys))
	for _, k := range knownKeys {
		v, ok, err := s.store.Get(ctx, storeKey(userID, k))
		if err != nil {
			return nil, fmt.Errorf("get preference %s: %w", k, err)
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Service) Set(ctx context.Context, userID, key, value string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if !isKnown(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if value == "" {
		return fmt.Errorf("%w: value required", ErrInvalidInput)
	}

	switch key {
	case KeyBackground:
		if err := s.checkBackground(ctx, userID, value); err != nil {
			return err
		}
	case KeyCurrentPet:
		if err := s.checkPet(ctx, userID, value); err != nil {
			return err
		}
	}

	if err := s.store.Set(ctx, storeKey(userID, key), value); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, key string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	key = strings.TrimSpace(key)
	if !isKnown(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := s.store.Remove(ctx, storeKey(userID, key)); err != nil {
		return fmt.Errorf("remove preference %s: %w", key, err)
	}
	return nil
}

// background debe ser un fondo del catálogo que el usuario posea.
func (s *Service) checkBackground(ctx context.Context, userID, itemID string) error {
	it, err := s.catalog.Get(itemID)
	if err != nil || !it.IsBackground() {
		return fmt.Errorf("%w: %q is not a background", ErrInvalidInput, itemID)
	}
	owned, err := s.items.Owns(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("check background ownership: %w", err)
	}
	if !owned {
		return fmt.Errorf("%w: background %q not owned", ErrInvalidInput, itemID)
	}
	return nil
}

func (s *Service) checkPet(ctx context.Context, userID, petID string) error {
	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil || owner != userID {
		// no distinguimos "no existe" de "es de otro"
		return fmt.Errorf("%w: pet %q not found", ErrInvalidInput, petID)
	}
	return nil
}

func storeKey(userID, key string) string {
	return userID + "/" + key
}

func isKnown(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}
