package pets

import (
	"math"
	"time"

	"task-buddy/internal/platform/clock"
)

const (
	ExperiencePerLevel = 100
	// DecayPerHour: puntos de happiness que se pierden por hora sin jugar.
	DecayPerHour = 2
)

// ExperienceForLevel es la experiencia necesaria para pasar de level al siguiente.
func ExperienceForLevel(level int) int {
	return level * ExperiencePerLevel
}

// CheckLevelUp sube de nivel mientras alcance la experiencia y devuelve cuántos niveles subió.
// Muta p; el caller persiste.
func (p *Pet) CheckLevelUp() int {
	if p.Level < 1 {
		p.Level = 1
	}
	gained := 0
	for p.Experience >= ExperienceForLevel(p.Level) {
		p.Experience -= ExperienceForLevel(p.Level)
		p.Level++
		gained++
	}
	return gained
}

// GainExperience suma n (n < 0 se ignora) y evalúa level-up.
func (p *Pet) GainExperience(n int) int {
	if n > 0 {
		p.Experience += n
	}
	return p.CheckLevelUp()
}

// DecayedHappiness aplica el decaimiento por horas transcurridas desde lastPlayed.
func DecayedHappiness(h int, lastPlayed, now time.Time) int {
	decay := int(math.Floor(clock.HoursSince(lastPlayed, now) * DecayPerHour))
	return clampHappiness(h - decay)
}

// At devuelve la vista de p en now: happiness con decaimiento aplicado.
// No cambia LastPlayed, así que se puede llamar las veces que haga falta.
func (p Pet) At(now time.Time) Pet {
	p.Happiness = DecayedHappiness(p.Happiness, p.LastPlayed, now)
	return p
}

// materialize fija el decaimiento hasta now y mueve el ancla. Toda escritura que toque
// happiness pasa por acá, así una ventana de decaimiento nunca se cuenta dos veces.
func (p *Pet) materialize(now time.Time) {
	p.Happiness = DecayedHappiness(p.Happiness, p.LastPlayed, now)
	p.LastPlayed = now
}

func (p *Pet) addHappiness(n int) {
	p.Happiness = clampHappiness(p.Happiness + n)
}

func clampHappiness(h int) int {
	if h < MinHappiness {
		return MinHappiness
	}
	if h > MaxHappiness {
		return MaxHappiness
	}
	return h
}
