package inventory

import "time"

// Item es una entrada del inventario. Quantity 0 se conserva en la lista (la comida
// consumida sigue apareciendo) pero no cuenta como "poseído".
type Item struct {
	ItemID     string
	Name       string
	Quantity   int
	Type       string // categoría del catálogo o tag libre
	Equipped   bool
	AcquiredAt time.Time
}

// Inventory es único por usuario.
type Inventory struct {
	OwnerUserID string

	Coins int
	Items []Item

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Find busca un item por id.
func (inv Inventory) Find(itemID string) (Item, bool) {
	for _, it := range inv.Items {
		if it.ItemID == itemID {
			return it, true
		}
	}
	return Item{}, false
}

// Owns: el item está en la lista con cantidad > 0.
func (inv Inventory) Owns(itemID string) bool {
	it, ok := inv.Find(itemID)
	return ok && it.Quantity > 0
}

// ClampCoins aplica el piso de 0 a un saldo.
func ClampCoins(c int) int {
	if c < 0 {
		return 0
	}
	return c
}
