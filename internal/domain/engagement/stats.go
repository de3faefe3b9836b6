package engagement

import (
	"time"

	"task-buddy/internal/platform/clock"
)

const (
	// Cuántos días hacia atrás se revisan para la racha.
	StreakLookbackDays = 30

	streakWeight    = 10
	weeklyWeight    = 20
	maxHappiness    = 100
	minHappinessVal = 0
)

// Activity es la vista mínima de una tarea que necesita el cálculo.
// At es el timestamp efectivo de completado (UpdatedAt, o CreatedAt si no hay).
type Activity struct {
	Completed bool
	At        time.Time
}

// Stats es el resultado para la UI. Happiness es sólo de display: no es Pet.Happiness.
type Stats struct {
	CompletedThisWeek int
	Streak            int
	Happiness         int
}

// EffectiveAt devuelve updatedAt si está seteado, si no createdAt.
func EffectiveAt(createdAt, updatedAt time.Time) time.Time {
	if !updatedAt.IsZero() {
		return updatedAt
	}
	return createdAt
}

// Compute calcula tareas completadas en la semana actual y la racha de días consecutivos.
// Es pura: no muta activities y el orden de entrada no importa.
func Compute(activities []Activity, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = now.Location()
	}

	today := clock.StartOfDay(now, loc)
	weekStart := clock.WeekStart(today, loc)

	days := make(map[clock.Day]struct{}, len(activities))
	completedThisWeek := 0

	for _, a := range activities {
		if !a.Completed || a.At.IsZero() {
			continue
		}
		if !a.At.Before(weekStart) {
			completedThisWeek++
		}
		days[clock.DayOf(a.At, loc)] = struct{}{}
	}

	streak := 0
	check := today
	for i := 0; i < StreakLookbackDays; i++ {
		if _, ok := days[clock.DayOf(check, loc)]; ok {
			streak++
		} else if i != 0 {
			break
		}
		// Día 0 sin completar no corta: hoy todavía puede completarse algo.
		check = clock.AddDays(check, -1)
	}

	return Stats{
		CompletedThisWeek: completedThisWeek,
		Streak:            streak,
		Happiness:         Happiness(streak, completedThisWeek),
	}
}

// Happiness = min(100, streak*10 + completedThisWeek*20). Monótona en ambos argumentos.
func Happiness(streak, completedThisWeek int) int {
	if streak < 0 {
		streak = 0
	}
	if completedThisWeek < 0 {
		completedThisWeek = 0
	}
	// Saturamos antes de multiplicar para no desbordar con entradas enormes.
	if streak >= maxHappiness || completedThisWeek >= maxHappiness {
		return maxHappiness
	}
	v := streak*streakWeight + completedThisWeek*weeklyWeight
	if v > maxHappiness {
		return maxHappiness
	}
	if v < minHappinessVal {
		return minHappinessVal
	}
	return v
}
