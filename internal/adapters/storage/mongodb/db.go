// Package mongodb guarda tareas, pets e inventarios en MongoDB. El inventario es un
// documento por usuario con los items embebidos; las escrituras condicionales usan
// filtros sobre el mismo documento para ser atómicas sin transacciones.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	tasksCollection       = "tasks"
	petsCollection        = "pets"
	inventoriesCollection = "inventories"
)

// Open conecta y hace ping. El caller cierra con client.Disconnect.
func Open(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(database), nil
}

// EnsureIndexes crea los índices de listado por dueño. Es idempotente.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_user_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("tasks index: %w", err)
	}
	if _, err := db.Collection(petsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_user_id", Value: 1}, {Key: "created_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("pets index: %w", err)
	}
	return nil
}

func after() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
