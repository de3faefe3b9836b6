package mongodb

import (
	"context"
	"errors"
	"time"

	"task-buddy/internal/domain/inventory"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// compras/altas reintentan si otro request cambió el documento entre intentos.
const maxItemAttempts = 3

type itemDoc struct {
	ItemID     string    `bson:"item_id"`
	Name       string    `bson:"name"`
	Quantity   int       `bson:"quantity"`
	Type       string    `bson:"type"`
	Equipped   bool      `bson:"equipped"`
	AcquiredAt time.Time `bson:"acquired_at"`
}

type inventoryDoc struct {
	OwnerUserID string    `bson:"_id"`
	Coins       int       `bson:"coins"`
	Items       []itemDoc `bson:"items"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d inventoryDoc) toInventory() inventory.Inventory {
	items := make([]inventory.Item, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, inventory.Item{
			ItemID:     it.ItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Type:       it.Type,
			Equipped:   it.Equipped,
			AcquiredAt: it.AcquiredAt,
		})
	}
	return inventory.Inventory{
		OwnerUserID: d.OwnerUserID,
		Coins:       d.Coins,
		Items:       items,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toItemDoc(it inventory.Item) itemDoc {
	return itemDoc{
		ItemID:     it.ItemID,
		Name:       it.Name,
		Quantity:   it.Quantity,
		Type:       it.Type,
		Equipped:   it.Equipped,
		AcquiredAt: it.AcquiredAt,
	}
}

type InventoryRepo struct {
	col *mongo.Collection
}

func NewInventoryRepo(db *mongo.Database) *InventoryRepo {
	return &InventoryRepo{col: db.Collection(inventoriesCollection)}
}

func (r *InventoryRepo) GetOrCreate(ctx context.Context, userID string, startingCoins int, now time.Time) (inventory.Inventory, error) {
	update := bson.M{"$setOnInsert": bson.M{
		"coins":      inventory.ClampCoins(startingCoins),
		"items":      bson.A{},
		"created_at": now,
		"updated_at": now,
	}}
	return r.findAndUpdate(ctx, bson.M{"_id": userID}, update,
		after().SetUpsert(true), inventory.ErrNotFound)
}

// AddCoins usa un update con pipeline para aplicar el piso de 0 en el servidor.
func (r *InventoryRepo) AddCoins(ctx context.Context, userID string, delta int, now time.Time) (inventory.Inventory, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "coins", Value: bson.D{{Key: "$max", Value: bson.A{0, bson.D{{Key: "$add", Value: bson.A{"$coins", delta}}}}}}},
			{Key: "updated_at", Value: now},
		}}},
	}
	return r.findAndUpdate(ctx, bson.M{"_id": userID}, pipeline, after(), inventory.ErrNotFound)
}

func (r *InventoryRepo) AddItem(ctx context.Context, userID string, item inventory.Item, now time.Time) (inventory.Inventory, error) {
	for attempt := 0; attempt < maxItemAttempts; attempt++ {
		// ya existe: sumar cantidad
		inv, err := r.findAndUpdate(ctx,
			bson.M{"_id": userID, "items.item_id": item.ItemID},
			bson.M{
				"$inc": bson.M{"items.$.quantity": item.Quantity},
				"$set": bson.M{"updated_at": now},
			}, after(), errNoMatch)
		if !errors.Is(err, errNoMatch) {
			return inv, err
		}

		// no existe: agregar
		inv, err = r.findAndUpdate(ctx,
			bson.M{"_id": userID, "items.item_id": bson.M{"$ne": item.ItemID}},
			bson.M{
				"$push": bson.M{"items": toItemDoc(item)},
				"$set":  bson.M{"updated_at": now},
			}, after(), errNoMatch)
		if !errors.Is(err, errNoMatch) {
			return inv, err
		}

		if _, err := r.get(ctx, userID); err != nil {
			return inventory.Inventory{}, err
		}
	}
	return inventory.Inventory{}, errors.New("add item: too much contention")
}

// Purchase hace débito + alta en un único update filtrado por saldo y posesión.
// Si ninguno de los dos filtros matchea, se lee el documento para decidir el error.
func (r *InventoryRepo) Purchase(ctx context.Context, userID string, item inventory.Item, price int, now time.Time) (inventory.Inventory, error) {
	for attempt := 0; attempt < maxItemAttempts; attempt++ {
		// item presente con cantidad 0 (comida consumida): reponer a 1
		inv, err := r.findAndUpdate(ctx,
			bson.M{
				"_id":   userID,
				"coins": bson.M{"$gte": price},
				"items": bson.M{"$elemMatch": bson.M{"item_id": item.ItemID, "quantity": bson.M{"$lte": 0}}},
			},
			bson.M{
				"$inc": bson.M{"coins": -price},
				"$set": bson.M{
					"items.$.quantity":    1,
					"items.$.acquired_at": item.AcquiredAt,
					"updated_at":          now,
				},
			}, after(), errNoMatch)
		if !errors.Is(err, errNoMatch) {
			return inv, err
		}

		bought := item
		bought.Quantity = 1
		inv, err = r.findAndUpdate(ctx,
			bson.M{
				"_id":           userID,
				"coins":         bson.M{"$gte": price},
				"items.item_id": bson.M{"$ne": item.ItemID},
			},
			bson.M{
				"$inc":  bson.M{"coins": -price},
				"$push": bson.M{"items": toItemDoc(bought)},
				"$set":  bson.M{"updated_at": now},
			}, after(), errNoMatch)
		if !errors.Is(err, errNoMatch) {
			return inv, err
		}

		cur, err := r.get(ctx, userID)
		if err != nil {
			return inventory.Inventory{}, err
		}
		if cur.Owns(item.ItemID) {
			return inventory.Inventory{}, inventory.ErrAlreadyOwned
		}
		if cur.Coins < price {
			return inventory.Inventory{}, inventory.ErrInsufficient
		}
	}
	return inventory.Inventory{}, errors.New("purchase: too much contention")
}

// ConsumeItem: $elemMatch con quantity > 0 y $inc posicional, atómico en el documento.
func (r *InventoryRepo) ConsumeItem(ctx context.Context, userID, itemID string, now time.Time) (inventory.Inventory, error) {
	return r.findAndUpdate(ctx,
		bson.M{
			"_id":   userID,
			"items": bson.M{"$elemMatch": bson.M{"item_id": itemID, "quantity": bson.M{"$gt": 0}}},
		},
		bson.M{
			"$inc": bson.M{"items.$.quantity": -1},
			"$set": bson.M{"updated_at": now},
		}, after(), inventory.ErrInsufficient)
}

func (r *InventoryRepo) RestoreItem(ctx context.Context, userID, itemID string, now time.Time) (inventory.Inventory, error) {
	return r.findAndUpdate(ctx,
		bson.M{"_id": userID, "items.item_id": itemID},
		bson.M{
			"$inc": bson.M{"items.$.quantity": 1},
			"$set": bson.M{"updated_at": now},
		}, after(), inventory.ErrNotFound)
}

var errNoMatch = errors.New("no document matched")

// findAndUpdate devuelve noMatch si el filtro no encontró documento.
func (r *InventoryRepo) findAndUpdate(ctx context.Context, filter, update any, opts *options.FindOneAndUpdateOptions, noMatch error) (inventory.Inventory, error) {
	var d inventoryDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return inventory.Inventory{}, noMatch
	}
	if err != nil {
		return inventory.Inventory{}, err
	}
	return d.toInventory(), nil
}

func (r *InventoryRepo) get(ctx context.Context, userID string) (inventory.Inventory, error) {
	var d inventoryDoc
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return inventory.Inventory{}, inventory.ErrNotFound
	}
	if err != nil {
		return inventory.Inventory{}, err
	}
	return d.toInventory(), nil
}
