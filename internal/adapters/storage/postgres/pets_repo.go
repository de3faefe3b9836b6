package postgres

import (
	"context"
	"database/sql"
	"strings"

	"task-buddy/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `id, owner_user_id, name, type, level, experience, happiness, last_played, version, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Type,
		p.Level,
		p.Experience,
		p.Happiness,
		p.LastPlayed,
		p.Version,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// Update con concurrencia optimista: sólo si version = expectedVersion.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet, expectedVersion int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			level = $3,
			experience = $4,
			happiness = $5,
			last_played = $6,
			version = $7,
			updated_at = $8
		WHERE id = $1 AND version = $9
	`,
		p.ID,
		p.Name,
		p.Level,
		p.Experience,
		p.Happiness,
		p.LastPlayed,
		p.Version,
		p.UpdatedAt,
		expectedVersion,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	found, err := exists(ctx, r.db, `SELECT 1 FROM pets WHERE id = $1`, p.ID)
	if err != nil {
		return err
	}
	if !found {
		return pets.ErrNotFound
	}
	return pets.ErrConflict
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC, id ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(s scanner) (pets.Pet, error) {
	var p pets.Pet
	err := s.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Type,
		&p.Level,
		&p.Experience,
		&p.Happiness,
		&p.LastPlayed,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
