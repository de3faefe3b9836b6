package mongodb

import (
	"context"
	"errors"
	"time"

	"task-buddy/internal/domain/pets"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type petDoc struct {
	ID          string    `bson:"_id"`
	OwnerUserID string    `bson:"owner_user_id"`
	Name        string    `bson:"name"`
	Type        string    `bson:"type"`
	Level       int       `bson:"level"`
	Experience  int       `bson:"experience"`
	Happiness   int       `bson:"happiness"`
	LastPlayed  time.Time `bson:"last_played"`
	Version     int       `bson:"version"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toPetDoc(p pets.Pet) petDoc {
	return petDoc{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Type:        string(p.Type),
		Level:       p.Level,
		Experience:  p.Experience,
		Happiness:   p.Happiness,
		LastPlayed:  p.LastPlayed,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d petDoc) toPet() pets.Pet {
	return pets.Pet{
		ID:          d.ID,
		OwnerUserID: d.OwnerUserID,
		Name:        d.Name,
		Type:        pets.Type(d.Type),
		Level:       d.Level,
		Experience:  d.Experience,
		Happiness:   d.Happiness,
		LastPlayed:  d.LastPlayed,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type PetsRepo struct {
	col *mongo.Collection
}

func NewPetsRepo(db *mongo.Database) *PetsRepo {
	return &PetsRepo{col: db.Collection(petsCollection)}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.col.InsertOne(ctx, toPetDoc(p))
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	var d petDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return pets.Pet{}, pets.ErrNotFound
	}
	if err != nil {
		return pets.Pet{}, err
	}
	return d.toPet(), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"owner_user_id": ownerUserID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []petDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]pets.Pet, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toPet())
	}
	return out, nil
}

// Update: filtro por version para concurrencia optimista.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet, expectedVersion int) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID, "version": expectedVersion}, toPetDoc(p))
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": p.ID})
	if err != nil {
		return err
	}
	if n == 0 {
		return pets.ErrNotFound
	}
	return pets.ErrConflict
}
