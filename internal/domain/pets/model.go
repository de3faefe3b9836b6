package pets

import "time"

// Type define las especies de mascota virtual.
// @Enum cat, dog, penguin
type Type string

const (
	TypeCat     Type = "cat"
	TypeDog     Type = "dog"
	TypePenguin Type = "penguin"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCat, TypeDog, TypePenguin:
		return true
	}
	return false
}

const (
	MaxNameLength = 20

	MinHappiness = 0
	MaxHappiness = 100
)

// Pet es la mascota virtual del usuario.
//
// Happiness es el valor almacenado en el instante LastPlayed; el valor vigente se
// obtiene con At(now), que aplica el decaimiento sin persistirlo.
type Pet struct {
	ID          string
	OwnerUserID string

	Name string
	Type Type

	Level      int // >= 1
	Experience int // < ExperienceForLevel(Level) después de CheckLevelUp
	Happiness  int // [0,100]
	LastPlayed time.Time

	// Version se incrementa en cada escritura (concurrencia optimista).
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}
