package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"task-buddy/internal/domain/inventory"
	"task-buddy/internal/domain/tasks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// Integración: corre sólo con TEST_MONGO_URI.
func openTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	client, db, err := Open(context.Background(), uri, "taskbuddy_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, EnsureIndexes(context.Background(), db))
	return db
}

func TestMongo_TaskCASAndDeadlineClear(t *testing.T) {
	repo := NewTasksRepo(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	due := now.Add(24 * time.Hour)
	task := tasks.Task{ID: uuid.NewString(), OwnerUserID: "mg-" + uuid.NewString(), Title: "x", Deadline: &due, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, task))

	done := task
	done.Completed = true
	done.Deadline = nil
	require.NoError(t, repo.Update(ctx, done, false))
	assert.ErrorIs(t, repo.Update(ctx, done, false), tasks.ErrConflict)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Nil(t, got.Deadline)
}

func TestMongo_InventoryFlow(t *testing.T) {
	repo := NewInventoryRepo(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	user := "mg-" + uuid.NewString()

	inv, err := repo.GetOrCreate(ctx, user, 100, now)
	require.NoError(t, err)
	assert.Equal(t, 100, inv.Coins)

	// segunda llamada no pisa el saldo
	_, err = repo.AddCoins(ctx, user, 5, now)
	require.NoError(t, err)
	inv, err = repo.GetOrCreate(ctx, user, 100, now)
	require.NoError(t, err)
	assert.Equal(t, 105, inv.Coins)

	food := inventory.Item{ItemID: "food-1", Name: "Fish", Type: "Food", AcquiredAt: now}
	_, err = repo.Purchase(ctx, user, food, 500, now)
	assert.ErrorIs(t, err, inventory.ErrInsufficient)

	inv, err = repo.Purchase(ctx, user, food, 80, now)
	require.NoError(t, err)
	assert.Equal(t, 25, inv.Coins)
	assert.True(t, inv.Owns("food-1"))

	_, err = repo.Purchase(ctx, user, food, 0, now)
	assert.ErrorIs(t, err, inventory.ErrAlreadyOwned)

	_, err = repo.ConsumeItem(ctx, user, "food-1", now)
	require.NoError(t, err)
	_, err = repo.ConsumeItem(ctx, user, "food-1", now)
	assert.ErrorIs(t, err, inventory.ErrInsufficient)

	// comida agotada se puede volver a comprar
	inv, err = repo.Purchase(ctx, user, food, 10, now)
	require.NoError(t, err)
	assert.Equal(t, 15, inv.Coins)
	require.Len(t, inv.Items, 1)

	inv, err = repo.AddItem(ctx, user, inventory.Item{ItemID: "food-1", Name: "Fish", Quantity: 2, Type: "Food", AcquiredAt: now}, now)
	require.NoError(t, err)
	assert.Equal(t, 3, inv.Items[0].Quantity)

	inv, err = repo.AddCoins(ctx, user, -1000, now)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Coins)
}
