package inventory

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("inventory not found")
	// ErrInsufficient: faltan monedas o stock del item.
	ErrInsufficient = errors.New("insufficient resources")
	ErrAlreadyOwned = errors.New("item already owned")
)

// Repository: todas las escrituras son condicionales y atómicas por documento/fila.
// Cada método devuelve el inventario resultante.
type Repository interface {
	// GetOrCreate crea el inventario con startingCoins si no existe.
	GetOrCreate(ctx context.Context, userID string, startingCoins int, now time.Time) (Inventory, error)

	// AddCoins suma delta (con signo) y deja el saldo en >= 0. ErrNotFound si no existe.
	AddCoins(ctx context.Context, userID string, delta int, now time.Time) (Inventory, error)

	// AddItem suma item.Quantity a un item existente o lo agrega. ErrNotFound si no existe.
	AddItem(ctx context.Context, userID string, item Item, now time.Time) (Inventory, error)

	// Purchase descuenta price y agrega item (Quantity 1) en una sola operación.
	// ErrAlreadyOwned si ya lo tiene con cantidad > 0; ErrInsufficient si coins < price.
	// En ambos casos no cambia nada.
	Purchase(ctx context.Context, userID string, item Item, price int, now time.Time) (Inventory, error)

	// ConsumeItem descuenta 1 unidad sólo si quantity > 0; si no, ErrInsufficient.
	ConsumeItem(ctx context.Context, userID, itemID string, now time.Time) (Inventory, error)

	// RestoreItem devuelve 1 unidad a un item existente (rollback de ConsumeItem).
	RestoreItem(ctx context.Context, userID, itemID string, now time.Time) (Inventory, error)
}
