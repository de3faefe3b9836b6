package memory

import (
	"context"
	"sync"
	"time"

	"task-buddy/internal/domain/inventory"
)

// inventoryRepo guarda un inventario por usuario. Cada método toma el lock de
// escritura completo, así los chequeos y las mutaciones son atómicos.
type inventoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]inventory.Inventory
}

func NewInventoryRepo() inventory.Repository {
	return &inventoryRepo{
		byUser: make(map[string]inventory.Inventory),
	}
}

func (r *inventoryRepo) GetOrCreate(ctx context.Context, userID string, startingCoins int, now time.Time) (inventory.Inventory, error) {
	r.mu.RLock()
	inv, ok := r.byUser[userID]
	r.mu.RUnlock()
	if ok {
		return cloneInventory(inv), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// otro request pudo crearlo entre los dos locks
	if inv, ok := r.byUser[userID]; ok {
		return cloneInventory(inv), nil
	}
	inv = inventory.Inventory{
		OwnerUserID: userID,
		Coins:       inventory.ClampCoins(startingCoins),
		Items:       []inventory.Item{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.byUser[userID] = inv
	return cloneInventory(inv), nil
}

func (r *inventoryRepo) AddCoins(ctx context.Context, userID string, delta int, now time.Time) (inventory.Inventory, error) {
	return r.mutate(userID, now, func(inv *inventory.Inventory) error {
		inv.Coins = inventory.ClampCoins(inv.Coins + delta)
		return nil
	})
}

func (r *inventoryRepo) AddItem(ctx context.Context, userID string, item inventory.Item, now time.Time) (inventory.Inventory, error) {
	return r.mutate(userID, now, func(inv *inventory.Inventory) error {
		if i := indexOf(inv.Items, item.ItemID); i >= 0 {
			inv.Items[i].Quantity += item.Quantity
			return nil
		}
		inv.Items = append(inv.Items, item)
		return nil
	})
}

func (r *inventoryRepo) Purchase(ctx context.Context, userID string, item inventory.Item, price int, now time.Time) (inventory.Inventory, error) {
	return r.mutate(userID, now, func(inv *inventory.Inventory) error {
		i := indexOf(inv.Items, item.ItemID)
		if i >= 0 && inv.Items[i].Quantity > 0 {
			return inventory.ErrAlreadyOwned
		}
		if inv.Coins < price {
			return inventory.ErrInsufficient
		}
		inv.Coins -= price
		if i >= 0 {
			inv.Items[i].Quantity = 1
			inv.Items[i].AcquiredAt = item.AcquiredAt
			return nil
		}
		item.Quantity = 1
		inv.Items = append(inv.Items, item)
		return nil
	})
}

func (r *inventoryRepo) ConsumeItem(ctx context.Context, userID, itemID string, now time.Time) (inventory.Inventory, error) {
	return r.mutate(userID, now, func(inv *inventory.Inventory) error {
		i := indexOf(inv.Items, itemID)
		if i < 0 || inv.Items[i].Quantity <= 0 {
			return inventory.ErrInsufficient
		}
		inv.Items[i].Quantity--
		return nil
	})
}

func (r *inventoryRepo) RestoreItem(ctx context.Context, userID, itemID string, now time.Time) (inventory.Inventory, error) {
	return r.mutate(userID, now, func(inv *inventory.Inventory) error {
		i := indexOf(inv.Items, itemID)
		if i < 0 {
			return inventory.ErrNotFound
		}
		inv.Items[i].Quantity++
		return nil
	})
}

// mutate aplica fn sobre una copia y sólo la guarda si fn no falla.
func (r *inventoryRepo) mutate(userID string, now time.Time, fn func(*inventory.Inventory) error) (inventory.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byUser[userID]
	if !ok {
		return inventory.Inventory{}, inventory.ErrNotFound
	}
	next := cloneInventory(cur)
	if err := fn(&next); err != nil {
		return inventory.Inventory{}, err
	}
	next.UpdatedAt = now
	r.byUser[userID] = next
	return cloneInventory(next), nil
}

func indexOf(items []inventory.Item, itemID string) int {
	for i, it := range items {
		if it.ItemID == itemID {
			return i
		}
	}
	return -1
}

func cloneInventory(inv inventory.Inventory) inventory.Inventory {
	items := make([]inventory.Item, len(inv.Items))
	copy(items, inv.Items)
	inv.Items = items
	return inv
}
