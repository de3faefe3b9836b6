package clock

import "time"

// Clock devuelve la hora actual. Los services guardan un Clock para poder fijarlo en tests.
type Clock func() time.Time

// System es el reloj real.
var System Clock = time.Now

// StartOfDay devuelve la medianoche del día calendario de t en loc.
// Si loc es nil se usa la zona de t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Day es la clave de día calendario (comparable, sirve como key de map).
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf devuelve la clave de día de t en loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// WeekStart devuelve el domingo más reciente (en o antes del día de t), a medianoche.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return AddDays(day, -int(day.Weekday()))
}

// AddDays desplaza n días calendario. Usa AddDate para que los cambios de horario
// no corran la medianoche.
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// SameDay indica si a y b caen en el mismo día calendario de loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// HoursSince devuelve las horas transcurridas desde from hasta now (nunca negativo).
func HoursSince(from, now time.Time) float64 {
	if from.IsZero() || !now.After(from) {
		return 0
	}
	return now.Sub(from).Hours()
}
