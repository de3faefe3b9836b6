package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"task-buddy/internal/domain/tasks"
)

type TasksRepo struct {
	db *sql.DB
}

func NewTasksRepo(db *sql.DB) *TasksRepo {
	return &TasksRepo{db: db}
}

const taskColumns = `id, owner_user_id, title, description, deadline, completed, created_at, updated_at`

func (r *TasksRepo) Create(ctx context.Context, t tasks.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		t.ID,
		t.OwnerUserID,
		t.Title,
		t.Description,
		toNullTime(t.Deadline),
		t.Completed,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return tasks.Task{}, tasks.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return t, err
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]tasks.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tasks.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update escribe sólo si completed sigue siendo prevCompleted (CAS).
func (r *TasksRepo) Update(ctx context.Context, t tasks.Task, prevCompleted bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET
			title = $2,
			description = $3,
			deadline = $4,
			completed = $5,
			updated_at = $6
		WHERE id = $1 AND completed = $7
	`,
		t.ID,
		t.Title,
		t.Description,
		toNullTime(t.Deadline),
		t.Completed,
		t.UpdatedAt,
		prevCompleted,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	found, err := exists(ctx, r.db, `SELECT 1 FROM tasks WHERE id = $1`, t.ID)
	if err != nil {
		return err
	}
	if !found {
		return tasks.ErrNotFound
	}
	return tasks.ErrConflict
}

func (r *TasksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (tasks.Task, error) {
	var t tasks.Task
	var deadline sql.NullTime
	if err := s.Scan(
		&t.ID,
		&t.OwnerUserID,
		&t.Title,
		&t.Description,
		&deadline,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return tasks.Task{}, err
	}
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	return t, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
