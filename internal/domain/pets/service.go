package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"task-buddy/internal/domain/catalog"
	"task-buddy/internal/domain/inventory"
	"task-buddy/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// rollbackTimeout acota la devolución de comida cuando falla la escritura del pet.
const rollbackTimeout = 5 * time.Second

func rollbackContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
}

// Pantry es la parte del inventario que usa Feed (lo implementa inventory.Service).
type Pantry interface {
	ConsumeFood(ctx context.Context, userID, itemID string) (inventory.Inventory, error)
	RestoreFood(ctx context.Context, userID, itemID string) error
}

// FoodLookup resuelve el efecto de un item de comida (lo implementa catalog.Catalog).
type FoodLookup interface {
	FoodEffect(itemID string) (catalog.FoodEffect, bool)
}

// Progression son las constantes de juego configurables.
type Progression struct {
	PlayExperience int
	PlayHappiness  int
}

type Service struct {
	repo   Repository
	pantry Pantry
	foods  FoodLookup
	game   Progression
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, pantry Pantry, foods FoodLookup, game Progression, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		pantry: pantry,
		foods:  foods,
		game:   game,
		log:    log,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name string
	Type string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	name, err := validName(in.Name)
	if err != nil {
		return Pet{}, err
	}
	typ := Type(strings.ToLower(strings.TrimSpace(in.Type)))
	if !typ.Valid() {
		return Pet{}, fmt.Errorf("%w: type must be cat, dog or penguin", ErrInvalidInput)
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Type:        typ,
		Level:       1,
		Experience:  0,
		Happiness:   MaxHappiness,
		LastPlayed:  now,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, fmt.Errorf("create pet: %w", err)
	}
	return p, nil
}

// List devuelve los pets del usuario con el decaimiento aplicado.
func (s *Service) List(ctx context.Context, ownerUserID string) ([]Pet, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	now := s.now()
	for i := range items {
		items[i] = items[i].At(now)
	}
	return items, nil
}

// Get: ErrNotFound si no existe o es de otro usuario.
func (s *Service) Get(ctx context.Context, id, ownerUserID string) (Pet, error) {
	p, err := s.getOwned(ctx, id, ownerUserID)
	if err != nil {
		return Pet{}, err
	}
	return p.At(s.now()), nil
}

// Current es el primer pet creado por el usuario.
func (s *Service) Current(ctx context.Context, ownerUserID string) (Pet, error) {
	items, err := s.List(ctx, ownerUserID)
	if err != nil {
		return Pet{}, err
	}
	if len(items) == 0 {
		return Pet{}, ErrNotFound
	}
	return items[0], nil
}

// OwnerOf expone el dueño de un pet; lo usa preferences para validar current_pet.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(petID))
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}

// Rename cambia sólo el nombre; stats y ancla de decaimiento quedan igual.
func (s *Service) Rename(ctx context.Context, id, ownerUserID, name string) (Pet, error) {
	name, err := validName(name)
	if err != nil {
		return Pet{}, err
	}
	current, err := s.getOwned(ctx, id, ownerUserID)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	next := current
	next.Name = name
	if err := s.write(ctx, current, &next, now); err != nil {
		return Pet{}, err
	}
	return next.At(now), nil
}

type PlayResult struct {
	Pet          Pet
	LevelsGained int
}

// Play materializa el decaimiento, suma experiencia y happiness y evalúa level-up.
func (s *Service) Play(ctx context.Context, id, ownerUserID string) (PlayResult, error) {
	current, err := s.getOwned(ctx, id, ownerUserID)
	if err != nil {
		return PlayResult{}, err
	}

	now := s.now()
	next := current
	next.materialize(now)
	next.addHappiness(s.game.PlayHappiness)
	gained := next.GainExperience(s.game.PlayExperience)

	if err := s.write(ctx, current, &next, now); err != nil {
		return PlayResult{}, err
	}
	return PlayResult{Pet: next, LevelsGained: gained}, nil
}

type FeedResult struct {
	Pet          Pet
	Inventory    inventory.Inventory
	LevelsGained int
}

// Feed consume una unidad de comida y aplica su efecto al pet.
//
// Orden: validar, descontar comida (decremento condicional), escribir el pet con CAS
// de versión. Si la escritura del pet falla se devuelve la unidad; o cambian los dos
// registros o ninguno.
func (s *Service) Feed(ctx context.Context, id, ownerUserID, itemID string) (FeedResult, error) {
	itemID = strings.TrimSpace(itemID)
	effect, ok := s.foods.FoodEffect(itemID)
	if !ok {
		return FeedResult{}, fmt.Errorf("%w: %q is not a food item", ErrInvalidInput, itemID)
	}

	current, err := s.getOwned(ctx, id, ownerUserID)
	if err != nil {
		return FeedResult{}, err
	}

	inv, err := s.pantry.ConsumeFood(ctx, ownerUserID, itemID)
	if err != nil {
		return FeedResult{}, err
	}

	now := s.now()
	next := current
	next.materialize(now)
	next.addHappiness(effect.Happiness)
	gained := next.GainExperience(effect.Experience)

	if err := s.write(ctx, current, &next, now); err != nil {
		// La devolución corre aunque el request se haya cancelado.
		rctx, cancel := rollbackContext(ctx)
		defer cancel()
		if rerr := s.pantry.RestoreFood(rctx, ownerUserID, itemID); rerr != nil {
			s.log.Error("feed rollback failed", map[string]any{
				"pet_id":  current.ID,
				"item_id": itemID,
				"error":   rerr,
			})
		} else {
			s.log.Warn("feed rolled back", map[string]any{
				"pet_id":  current.ID,
				"item_id": itemID,
				"error":   err,
			})
		}
		return FeedResult{}, err
	}

	return FeedResult{Pet: next, Inventory: inv, LevelsGained: gained}, nil
}

func (s *Service) getOwned(ctx context.Context, id, ownerUserID string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != ownerUserID {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

// write incrementa la versión y persiste next con CAS contra current.Version.
func (s *Service) write(ctx context.Context, current Pet, next *Pet, now time.Time) error {
	next.Version = current.Version + 1
	next.UpdatedAt = now
	if err := s.repo.Update(ctx, *next, current.Version); err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("update pet: %w", err)
	}
	return nil
}

func validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, MaxNameLength)
	}
	return name, nil
}
