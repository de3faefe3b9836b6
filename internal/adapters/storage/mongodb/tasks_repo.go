package mongodb

import (
	"context"
	"errors"
	"time"

	"task-buddy/internal/domain/tasks"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskDoc struct {
	ID          string     `bson:"_id"`
	OwnerUserID string     `bson:"owner_user_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Deadline    *time.Time `bson:"deadline,omitempty"`
	Completed   bool       `bson:"completed"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func toTaskDoc(t tasks.Task) taskDoc {
	return taskDoc{
		ID:          t.ID,
		OwnerUserID: t.OwnerUserID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDoc) toTask() tasks.Task {
	return tasks.Task{
		ID:          d.ID,
		OwnerUserID: d.OwnerUserID,
		Title:       d.Title,
		Description: d.Description,
		Deadline:    d.Deadline,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type TasksRepo struct {
	col *mongo.Collection
}

func NewTasksRepo(db *mongo.Database) *TasksRepo {
	return &TasksRepo{col: db.Collection(tasksCollection)}
}

func (r *TasksRepo) Create(ctx context.Context, t tasks.Task) error {
	_, err := r.col.InsertOne(ctx, toTaskDoc(t))
	return err
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	var d taskDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tasks.Task{}, tasks.ErrNotFound
	}
	if err != nil {
		return tasks.Task{}, err
	}
	return d.toTask(), nil
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]tasks.Task, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"owner_user_id": ownerUserID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]tasks.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toTask())
	}
	return out, nil
}

// Update reemplaza el documento sólo si completed sigue siendo prevCompleted.
// ReplaceOne (no $set) para que deadline nil borre el campo.
func (r *TasksRepo) Update(ctx context.Context, t tasks.Task, prevCompleted bool) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.ID, "completed": prevCompleted}, toTaskDoc(t))
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": t.ID})
	if err != nil {
		return err
	}
	if n == 0 {
		return tasks.ErrNotFound
	}
	return tasks.ErrConflict
}

func (r *TasksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return tasks.ErrNotFound
	}
	return nil
}
