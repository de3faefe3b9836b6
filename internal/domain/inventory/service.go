package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-buddy/internal/domain/catalog"
	"task-buddy/internal/platform/logger"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo          Repository
	catalog       *catalog.Catalog
	startingCoins int
	log           logger.Logger
	now           func() time.Time
}

func NewService(repo Repository, cat *catalog.Catalog, startingCoins int, log logger.Logger) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:          repo,
		catalog:       cat,
		startingCoins: ClampCoins(startingCoins),
		log:           log,
		now:           time.Now,
	}
}

// Get devuelve el inventario del usuario, creándolo en el primer acceso.
func (s *Service) Get(ctx context.Context, userID string) (Inventory, error) {
	if strings.TrimSpace(userID) == "" {
		return Inventory{}, ErrInvalidInput
	}
	inv, err := s.repo.GetOrCreate(ctx, userID, s.startingCoins, s.now())
	if err != nil {
		return Inventory{}, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

type AddItemInput struct {
	ItemID   string
	Name     string
	Quantity int // 0 = 1
	Type     string
}

func (s *Service) AddItem(ctx context.Context, userID string, in AddItemInput) (Inventory, error) {
	itemID := strings.TrimSpace(in.ItemID)
	name := strings.TrimSpace(in.Name)
	typ := strings.TrimSpace(in.Type)
	if itemID == "" || name == "" || typ == "" || in.Quantity < 0 {
		return Inventory{}, ErrInvalidInput
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}

	if _, err := s.Get(ctx, userID); err != nil {
		return Inventory{}, err
	}

	now := s.now()
	inv, err := s.repo.AddItem(ctx, userID, Item{
		ItemID:     itemID,
		Name:       name,
		Quantity:   qty,
		Type:       typ,
		AcquiredAt: now,
	}, now)
	if err != nil {
		return Inventory{}, fmt.Errorf("add item: %w", err)
	}
	return inv, nil
}

// AdjustCoins suma un monto con signo; el saldo nunca baja de 0.
// No crea el inventario: ErrNotFound si el usuario no tiene uno.
func (s *Service) AdjustCoins(ctx context.Context, userID string, amount int) (Inventory, error) {
	if strings.TrimSpace(userID) == "" {
		return Inventory{}, ErrInvalidInput
	}
	inv, err := s.repo.AddCoins(ctx, userID, amount, s.now())
	if err != nil {
		return Inventory{}, fmt.Errorf("adjust coins: %w", err)
	}
	return inv, nil
}

// Credit es el punto de entrada de las recompensas (implementa tasks.Rewarder).
func (s *Service) Credit(ctx context.Context, userID string, amount int) error {
	if amount < 0 {
		return ErrInvalidInput
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if _, err := s.repo.AddCoins(ctx, userID, amount, s.now()); err != nil {
		return fmt.Errorf("credit coins: %w", err)
	}
	return nil
}

// Purchase compra un item del catálogo: débito + alta en una sola operación del repo.
func (s *Service) Purchase(ctx context.Context, userID, itemID string) (Inventory, catalog.Item, error) {
	item, err := s.catalog.Get(itemID)
	if err != nil {
		return Inventory{}, catalog.Item{}, fmt.Errorf("%w: unknown item %q", ErrInvalidInput, strings.TrimSpace(itemID))
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return Inventory{}, catalog.Item{}, err
	}

	now := s.now()
	inv, err := s.repo.Purchase(ctx, userID, Item{
		ItemID:     item.ID,
		Name:       item.Name,
		Quantity:   1,
		Type:       string(item.Category),
		AcquiredAt: now,
	}, item.Price, now)
	if err != nil {
		return Inventory{}, catalog.Item{}, fmt.Errorf("purchase %s: %w", item.ID, err)
	}

	s.log.Info("item purchased", map[string]any{
		"user_id": userID,
		"item_id": item.ID,
		"price":   item.Price,
	})
	return inv, item, nil
}

// ConsumeFood descuenta una unidad de comida. ErrInsufficient si no hay stock
// (incluido el usuario que todavía no tiene inventario).
func (s *Service) ConsumeFood(ctx context.Context, userID, itemID string) (Inventory, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return Inventory{}, err
	}
	inv, err := s.repo.ConsumeItem(ctx, userID, itemID, s.now())
	if err != nil {
		return Inventory{}, fmt.Errorf("consume %s: %w", itemID, err)
	}
	return inv, nil
}

// RestoreFood deshace un ConsumeFood.
func (s *Service) RestoreFood(ctx context.Context, userID, itemID string) error {
	if _, err := s.repo.RestoreItem(ctx, userID, itemID, s.now()); err != nil {
		return fmt.Errorf("restore %s: %w", itemID, err)
	}
	return nil
}

func (s *Service) Owns(ctx context.Context, userID, itemID string) (bool, error) {
	inv, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return inv.Owns(strings.TrimSpace(itemID)), nil
}
