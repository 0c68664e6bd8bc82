package schedule

import (
	"sort"
	"time"
)

// DueResult es el contrato de evaluateDueToday para las vistas del dashboard.
type DueResult struct {
	Due   bool     `json:"due"`
	Times []string `json:"times"`
}

// IsDueOn decide si la regla genera ocurrencia en la fecha dada.
// Función pura de (rule, date): sin reloj oculto, reproducible para
// fechas pasadas o futuras. Una regla ya validada nunca falla acá.
func IsDueOn(r Rule, date time.Time) bool {
	switch v := r.(type) {
	case Daily:
		return true
	case Interval:
		// el intervalo solo afecta qué horas del día, no qué días
		return true
	case AlternateDays:
		anchor, err := ParseDate(v.AnchorDate)
		if err != nil {
			return false
		}
		diff := daysBetween(anchor, date)
		if diff < 0 {
			diff = -diff
		}
		return diff%v.EveryDays == 0
	case Weekly:
		wd := isoWeekday(date)
		for _, d := range v.DaysOfWeek {
			if d == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// DueTimesOn devuelve los horarios "HH:MM" aplicables en la fecha,
// ordenados ascendente. Vacío cuando la fecha no corresponde.
func DueTimesOn(r Rule, date time.Time) []string {
	if !IsDueOn(r, date) {
		return []string{}
	}

	switch v := r.(type) {
	case Daily:
		out := append([]string(nil), v.Times...)
		sort.Strings(out)
		return out
	case Interval:
		start, err := ParseClock(v.Anchor)
		if err != nil {
			return []string{}
		}
		step := v.EveryHours * 60
		out := make([]string, 0, 24/v.EveryHours+1)
		for m := start; m < 24*60; m += step {
			out = append(out, FormatClock(m))
		}
		return out
	case AlternateDays:
		return []string{v.Time}
	case Weekly:
		return []string{v.Time}
	default:
		return []string{}
	}
}

// EvaluateDue combina IsDueOn + DueTimesOn en la forma que consumen
// las listas de "para hoy".
func EvaluateDue(r Rule, date time.Time) DueResult {
	times := DueTimesOn(r, date)
	return DueResult{Due: len(times) > 0, Times: times}
}

// DueInstant resuelve el instante programado: fecha civil + horario,
// en la zona del perfil.
func DueInstant(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, loc), nil
}

// daysBetween cuenta días civiles completos entre a y b (b - a),
// ignorando hora y zona: compara solo los componentes de fecha.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// isoWeekday: lunes=1 .. domingo=7 (time.Weekday usa domingo=0).
func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}
