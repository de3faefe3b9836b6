package tasks

import "time"

// Task es una tarea del usuario. UpdatedAt se actualiza en cada mutación y se usa
// como proxy de "cuándo se completó".
type Task struct {
	ID          string
	OwnerUserID string

	Title       string
	Description string
	Deadline    *time.Time

	Completed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListFilter struct {
	// Query hace match fuzzy contra el título; vacío = sin filtro.
	Query string
	// Completed nil = todas.
	Completed *bool
}
