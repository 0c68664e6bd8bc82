package adherence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/devribero/caremind-sub000/internal/domain/items"
	"github.com/devribero/caremind-sub000/internal/domain/ledger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// EventSource es lo único que adherence necesita del ledger.
type EventSource interface {
	ListForRange(ctx context.Context, profileID string, fromDate, toDate time.Time, loc *time.Location) ([]ledger.OccurrenceEvent, error)
}

// KVStore abstrae el cache (redis en prod, fake en tests, nil = sin cache).
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Clasificación de statuses crudos del histórico. Las filas legadas
// (realizado/tomado/cancelado) cuentan igual que sus equivalentes nuevos;
// un status fuera de ambos conjuntos suma al total pero a ningún split.
var successStatuses = map[ledger.Status]bool{
	ledger.StatusConfirmed:   true,
	ledger.LegacyStatusDone:  true,
	ledger.LegacyStatusTaken: true,
}

var failureStatuses = map[ledger.Status]bool{
	ledger.StatusPending:         true,
	ledger.StatusLate:            true,
	ledger.StatusMissed:          true,
	ledger.LegacyStatusCancelled: true,
}

type Service struct {
	source EventSource
	cache  KVStore // opcional
	ttl    time.Duration
	logger *zap.Logger
}

func NewService(source EventSource, cache KVStore, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

type BuildInput struct {
	ProfileID  string
	FromDate   time.Time      // día civil inclusivo
	ToDate     time.Time      // día civil inclusivo
	TypeFilter items.ItemType // opcional; "" = todos
	Loc        *time.Location // zona del perfil
}

// BuildReport reduce las filas del rango a KPIs + los tres desgloses.
// El cómputo en sí no falla con entrada bien formada; los errores vienen
// solo del fetch, y se propagan tal cual al llamador.
func (s *Service) BuildReport(ctx context.Context, in BuildInput) (Report, error) {
	if in.ProfileID == "" {
		return Report{}, ErrInvalidInput
	}
	if in.Loc == nil {
		in.Loc = time.UTC
	}
	if in.FromDate.IsZero() || in.ToDate.IsZero() {
		return Report{}, ErrInvalidInput
	}

	key := s.cacheKey(in)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached Report
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	events, err := s.source.ListForRange(ctx, in.ProfileID, in.FromDate, in.ToDate, in.Loc)
	if err != nil {
		return Report{}, err
	}

	report := Reduce(events, in.TypeFilter, in.Loc)

	if s.cache != nil {
		if raw, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
				// cache indisponible degrada a recomputar, nunca falla el reporte
				s.logger.Debug("report cache set failed",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}

	return report, nil
}

func (s *Service) cacheKey(in BuildInput) string {
	return fmt.Sprintf("adesao:report:%s:%s:%s:%s:%s",
		in.ProfileID,
		in.FromDate.Format("2006-01-02"),
		in.ToDate.Format("2006-01-02"),
		in.TypeFilter,
		in.Loc.String(),
	)
}

// Reduce es la reducción pura: eventos ya traídos → Report.
// Determinista: ordena por scheduled_at ascendente antes de agrupar.
func Reduce(events []ledger.OccurrenceEvent, typeFilter items.ItemType, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}

	sorted := append([]ledger.OccurrenceEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledAt.Before(sorted[j].ScheduledAt)
	})

	report := Report{
		DailyTrend: []DailyBucket{},
		ByTimeOfDay: map[string]TurnoBucket{
			TurnoManha: {},
			TurnoTarde: {},
			TurnoNoite: {},
		},
		ByItemType: map[string]TypeBucket{},
	}

	type dayAgg struct {
		total     int
		confirmed int
	}
	dayTotals := map[string]*dayAgg{}
	dayOrder := []string{}

	var punctualitySum float64
	var punctualityN int

	for _, e := range sorted {
		if typeFilter != "" && e.ItemType != typeFilter {
			continue
		}

		success := successStatuses[e.Status]
		failure := failureStatuses[e.Status]

		report.KPIs.TotalEvents++
		if success {
			report.KPIs.TotalConfirmed++
		} else if failure {
			report.KPIs.TotalMissed++
		}

		// por tipo de item
		tkey := string(e.ItemType)
		if tkey != string(items.ItemTypeMedication) && tkey != string(items.ItemTypeRoutine) {
			tkey = "outros"
		}
		tb := report.ByItemType[tkey]
		tb.Total++
		if success {
			tb.Confirmed++
		}
		report.ByItemType[tkey] = tb

		// tendencia diaria: día civil del perfil, no el día UTC
		day := e.ScheduledAt.In(loc).Format("2006-01-02")
		agg, ok := dayTotals[day]
		if !ok {
			agg = &dayAgg{}
			dayTotals[day] = agg
			dayOrder = append(dayOrder, day)
		}
		agg.total++
		if success {
			agg.confirmed++
		}

		// turno por hora local
		turno := turnoOf(e.ScheduledAt.In(loc).Hour())
		bucket := report.ByTimeOfDay[turno]
		bucket.Total++
		if success {
			bucket.Confirmed++
		} else if failure {
			bucket.Missed++
		}
		report.ByTimeOfDay[turno] = bucket

		// pontualidade: delta con signo, negativo = adelantado
		if e.ConfirmedAt != nil {
			punctualitySum += e.ConfirmedAt.Sub(e.ScheduledAt).Minutes()
			punctualityN++
		}
	}

	// los eventos ya vienen ordenados, dayOrder preserva orden ascendente
	for _, day := range dayOrder {
		agg := dayTotals[day]
		report.DailyTrend = append(report.DailyTrend, DailyBucket{
			Date:       day,
			Total:      agg.total,
			Confirmed:  agg.confirmed,
			Percentage: Percentage(agg.confirmed, agg.total),
		})
	}

	for turno, bucket := range report.ByTimeOfDay {
		bucket.Percentage = Percentage(bucket.Confirmed, bucket.Total)
		report.ByTimeOfDay[turno] = bucket
	}

	for tkey, tb := range report.ByItemType {
		tb.Percentage = Percentage(tb.Confirmed, tb.Total)
		report.ByItemType[tkey] = tb
	}

	report.KPIs.AdherenceRate = Percentage(report.KPIs.TotalConfirmed, report.KPIs.TotalEvents)

	if punctualityN > 0 {
		avg := round2(punctualitySum / float64(punctualityN))
		report.KPIs.AvgPunctualityMinutes = &avg
	}

	return report
}

// turnoOf: manha [06,12), tarde [12,18), noite [18,06).
func turnoOf(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return TurnoManha
	case hour >= 12 && hour < 18:
		return TurnoTarde
	default:
		return TurnoNoite
	}
}
