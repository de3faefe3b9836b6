package postgres

import (
	"context"
	"database/sql"
	"time"

	"task-buddy/internal/domain/inventory"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *InventoryRepo) GetOrCreate(ctx context.Context, userID string, startingCoins int, now time.Time) (inventory.Inventory, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO inventories (owner_user_id, coins, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (owner_user_id) DO NOTHING
	`, userID, inventory.ClampCoins(startingCoins), now); err != nil {
		return inventory.Inventory{}, err
	}
	return load(ctx, r.db, userID)
}

// AddCoins: el piso de 0 lo aplica GREATEST en la misma sentencia.
func (r *InventoryRepo) AddCoins(ctx context.Context, userID string, delta int, now time.Time) (inventory.Inventory, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventories
		SET coins = GREATEST(coins + $2, 0), updated_at = $3
		WHERE owner_user_id = $1
	`, userID, delta, now)
	if err != nil {
		return inventory.Inventory{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.Inventory{}, inventory.ErrNotFound
	}
	return load(ctx, r.db, userID)
}

func (r *InventoryRepo) AddItem(ctx context.Context, userID string, item inventory.Item, now time.Time) (inventory.Inventory, error) {
	var out inventory.Inventory
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := touch(ctx, tx, userID, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_items (owner_user_id, item_id, name, quantity, type, equipped, acquired_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (owner_user_id, item_id)
			DO UPDATE SET quantity = inventory_items.quantity + EXCLUDED.quantity
		`, userID, item.ItemID, item.Name, item.Quantity, item.Type, item.Equipped, item.AcquiredAt); err != nil {
			return err
		}
		var err error
		out, err = load(ctx, tx, userID)
		return err
	})
	return out, err
}

// Purchase bloquea la fila del inventario (FOR UPDATE) para que el chequeo de saldo y
// posesión y el débito sean atómicos frente a otras compras.
func (r *InventoryRepo) Purchase(ctx context.Context, userID string, item inventory.Item, price int, now time.Time) (inventory.Inventory, error) {
	var out inventory.Inventory
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var coins int
		err := tx.QueryRowContext(ctx,
			`SELECT coins FROM inventories WHERE owner_user_id = $1 FOR UPDATE`, userID,
		).Scan(&coins)
		if err == sql.ErrNoRows {
			return inventory.ErrNotFound
		}
		if err != nil {
			return err
		}

		var qty int
		err = tx.QueryRowContext(ctx,
			`SELECT quantity FROM inventory_items WHERE owner_user_id = $1 AND item_id = $2`, userID, item.ItemID,
		).Scan(&qty)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if err == nil && qty > 0 {
			return inventory.ErrAlreadyOwned
		}
		if coins < price {
			return inventory.ErrInsufficient
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE inventories SET coins = coins - $2, updated_at = $3 WHERE owner_user_id = $1
		`, userID, price, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_items (owner_user_id, item_id, name, quantity, type, equipped, acquired_at)
			VALUES ($1, $2, $3, 1, $4, FALSE, $5)
			ON CONFLICT (owner_user_id, item_id)
			DO UPDATE SET quantity = 1, acquired_at = EXCLUDED.acquired_at
		`, userID, item.ItemID, item.Name, item.Type, item.AcquiredAt); err != nil {
			return err
		}

		out, err = load(ctx, tx, userID)
		return err
	})
	return out, err
}

// ConsumeItem es un decremento condicional en una sola sentencia: si no hay stock
// el CTE no devuelve filas y el UPDATE externo no afecta nada.
func (r *InventoryRepo) ConsumeItem(ctx context.Context, userID, itemID string, now time.Time) (inventory.Inventory, error) {
	res, err := r.db.ExecContext(ctx, `
		WITH consumed AS (
			UPDATE inventory_items
			SET quantity = quantity - 1
			WHERE owner_user_id = $1 AND item_id = $2 AND quantity > 0
			RETURNING owner_user_id
		)
		UPDATE inventories SET updated_at = $3
		WHERE owner_user_id IN (SELECT owner_user_id FROM consumed)
	`, userID, itemID, now)
	if err != nil {
		return inventory.Inventory{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.Inventory{}, inventory.ErrInsufficient
	}
	return load(ctx, r.db, userID)
}

func (r *InventoryRepo) RestoreItem(ctx context.Context, userID, itemID string, now time.Time) (inventory.Inventory, error) {
	res, err := r.db.ExecContext(ctx, `
		WITH restored AS (
			UPDATE inventory_items
			SET quantity = quantity + 1
			WHERE owner_user_id = $1 AND item_id = $2
			RETURNING owner_user_id
		)
		UPDATE inventories SET updated_at = $3
		WHERE owner_user_id IN (SELECT owner_user_id FROM restored)
	`, userID, itemID, now)
	if err != nil {
		return inventory.Inventory{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.Inventory{}, inventory.ErrNotFound
	}
	return load(ctx, r.db, userID)
}

func touch(ctx context.Context, tx *sql.Tx, userID string, now time.Time) error {
	res, err := tx.ExecContext(ctx, `UPDATE inventories SET updated_at = $2 WHERE owner_user_id = $1`, userID, now)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func load(ctx context.Context, q querier, userID string) (inventory.Inventory, error) {
	inv := inventory.Inventory{OwnerUserID: userID}
	err := q.QueryRowContext(ctx, `
		SELECT coins, created_at, updated_at FROM inventories WHERE owner_user_id = $1
	`, userID).Scan(&inv.Coins, &inv.CreatedAt, &inv.UpdatedAt)
	if err == sql.ErrNoRows {
		return inventory.Inventory{}, inventory.ErrNotFound
	}
	if err != nil {
		return inventory.Inventory{}, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT item_id, name, quantity, type, equipped, acquired_at
		FROM inventory_items
		WHERE owner_user_id = $1
		ORDER BY acquired_at ASC, item_id ASC
	`, userID)
	if err != nil {
		return inventory.Inventory{}, err
	}
	defer rows.Close()

	inv.Items = make([]inventory.Item, 0)
	for rows.Next() {
		var it inventory.Item
		if err := rows.Scan(&it.ItemID, &it.Name, &it.Quantity, &it.Type, &it.Equipped, &it.AcquiredAt); err != nil {
			return inventory.Inventory{}, err
		}
		inv.Items = append(inv.Items, it)
	}
	return inv, rows.Err()
}
