package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidRule = errors.New("invalid recurrence rule")
)

type Kind string

const (
	KindDaily         Kind = "daily"
	KindInterval      Kind = "interval"
	KindAlternateDays Kind = "alternate_days"
	KindWeekly        Kind = "weekly"
)

// Rule es la unión cerrada de variantes de recurrencia.
// El método no exportado impide implementaciones fuera del paquete,
// así el evaluator puede hacer switch exhaustivo.
type Rule interface {
	Kind() Kind
	validate() error
}

// Daily dispara todos los días, una vez por cada horario listado.
type Daily struct {
	Times []string // "HH:MM", ordenados, sin duplicados
}

func (Daily) Kind() Kind { return KindDaily }

func (r Daily) validate() error {
	if len(r.Times) == 0 {
		return fmt.Errorf("%w: daily requires at least one time", ErrInvalidRule)
	}
	seen := map[string]bool{}
	for _, t := range r.Times {
		if _, err := ParseClock(t); err != nil {
			return err
		}
		if seen[t] {
			return fmt.Errorf("%w: duplicated time %q", ErrInvalidRule, t)
		}
		seen[t] = true
	}
	return nil
}

// Interval dispara cada N horas dentro del día, partiendo del anchor.
// El anchor solo define el primer horario del día evaluado; no cruza días.
type Interval struct {
	EveryHours int    // 1..24
	Anchor     string // "HH:MM"
}

func (Interval) Kind() Kind { return KindInterval }

func (r Interval) validate() error {
	if r.EveryHours < 1 || r.EveryHours > 24 {
		return fmt.Errorf("%w: every_hours must be in [1,24], got %d", ErrInvalidRule, r.EveryHours)
	}
	if _, err := ParseClock(r.Anchor); err != nil {
		return err
	}
	return nil
}

// AlternateDays dispara una vez cada N días a un horario fijo.
// AnchorDate ("YYYY-MM-DD") es el día 0 de la progresión; se persiste
// junto con la regla para que el módulo no dependa del día de creación.
type AlternateDays struct {
	EveryDays  int
	Time       string // "HH:MM"
	AnchorDate string // "YYYY-MM-DD"
}

func (AlternateDays) Kind() Kind { return KindAlternateDays }

func (r AlternateDays) validate() error {
	if r.EveryDays < 1 {
		return fmt.Errorf("%w: every_days must be >= 1, got %d", ErrInvalidRule, r.EveryDays)
	}
	if _, err := ParseClock(r.Time); err != nil {
		return err
	}
	if _, err := ParseDate(r.AnchorDate); err != nil {
		return err
	}
	return nil
}

// Weekly dispara en los días de semana listados (ISO: lunes=1 .. domingo=7).
type Weekly struct {
	DaysOfWeek []int
	Time       string // "HH:MM"
}

func (Weekly) Kind() Kind { return KindWeekly }

func (r Weekly) validate() error {
	if len(r.DaysOfWeek) == 0 {
		return fmt.Errorf("%w: weekly requires at least one day", ErrInvalidRule)
	}
	seen := map[int]bool{}
	for _, d := range r.DaysOfWeek {
		if d < 1 || d > 7 {
			return fmt.Errorf("%w: day_of_week must be in [1,7], got %d", ErrInvalidRule, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: duplicated day_of_week %d", ErrInvalidRule, d)
		}
		seen[d] = true
	}
	if _, err := ParseClock(r.Time); err != nil {
		return err
	}
	return nil
}

// Validate valida cualquier variante ya construida.
func Validate(r Rule) error {
	if r == nil {
		return fmt.Errorf("%w: missing rule", ErrInvalidRule)
	}
	return r.validate()
}

// ruleEnvelope es la forma JSON con discriminante "kind".
// Campos opcionales según variante; nunca se persiste con campos cruzados.
type ruleEnvelope struct {
	Kind       Kind     `json:"kind"`
	Times      []string `json:"times,omitempty"`
	EveryHours int      `json:"every_hours,omitempty"`
	Anchor     string   `json:"anchor,omitempty"`
	EveryDays  int      `json:"every_days,omitempty"`
	Time       string   `json:"time,omitempty"`
	AnchorDate string   `json:"anchor_date,omitempty"`
	DaysOfWeek []int    `json:"days_of_week,omitempty"`
}

// ParseRule decodifica y valida una regla desde JSON.
// Toda malformación se rechaza acá; la evaluación nunca falla.
func ParseRule(data []byte) (Rule, error) {
	return ParseRuleWithAnchor(data, "")
}

// ParseRuleWithAnchor es ParseRule completando el anchor_date vacío de
// alternate_days con el día dado (el día de creación del item). Así el
// día 0 de la progresión queda siempre persistido explícito.
func ParseRuleWithAnchor(data []byte, defaultAnchorDate string) (Rule, error) {
	var env ruleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	if env.Kind == KindAlternateDays && strings.TrimSpace(env.AnchorDate) == "" {
		env.AnchorDate = defaultAnchorDate
	}

	var r Rule
	switch env.Kind {
	case KindDaily:
		times := append([]string(nil), env.Times...)
		sort.Strings(times)
		r = Daily{Times: times}
	case KindInterval:
		r = Interval{EveryHours: env.EveryHours, Anchor: env.Anchor}
	case KindAlternateDays:
		r = AlternateDays{EveryDays: env.EveryDays, Time: env.Time, AnchorDate: env.AnchorDate}
	case KindWeekly:
		days := append([]int(nil), env.DaysOfWeek...)
		sort.Ints(days)
		r = Weekly{DaysOfWeek: days, Time: env.Time}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, env.Kind)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeRule serializa una regla a su forma JSON con "kind".
func EncodeRule(r Rule) (json.RawMessage, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	var env ruleEnvelope
	switch v := r.(type) {
	case Daily:
		env = ruleEnvelope{Kind: KindDaily, Times: v.Times}
	case Interval:
		env = ruleEnvelope{Kind: KindInterval, EveryHours: v.EveryHours, Anchor: v.Anchor}
	case AlternateDays:
		env = ruleEnvelope{Kind: KindAlternateDays, EveryDays: v.EveryDays, Time: v.Time, AnchorDate: v.AnchorDate}
	case Weekly:
		env = ruleEnvelope{Kind: KindWeekly, DaysOfWeek: v.DaysOfWeek, Time: v.Time}
	default:
		return nil, fmt.Errorf("%w: unknown variant %T", ErrInvalidRule, r)
	}

	return json.Marshal(env)
}

// ParseClock valida "HH:MM" (24h) y devuelve minutos desde medianoche.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidRule, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidRule, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidRule, s)
	}
	return h*60 + m, nil
}

// FormatClock convierte minutos desde medianoche a "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate valida "YYYY-MM-DD" y devuelve la fecha a medianoche UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidRule, s)
	}
	return t, nil
}
