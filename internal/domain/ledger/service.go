package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devribero/caremind-sub000/internal/domain/items"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("occurrence event not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// allowedTransitions es la tabla exacta de la máquina de estados.
// "atrasado" no aparece: es derivado, no persistible. De "perdido" no se
// sale. Repetir el mismo estado también se rechaza, para que confirmed_at
// tenga una sola semántica (confirmar setea, deshacer limpia).
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusMissed:    true,
	},
	StatusConfirmed: {
		StatusPending: true, // undo
	},
}

type Service struct {
	repo Repository
	now  func() time.Time
	loc  *time.Location
}

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		now:  time.Now,
		loc:  loc,
	}
}

type GetOrCreateInput struct {
	ItemType    items.ItemType
	ItemID      string
	ScheduledAt time.Time
}

// GetOrCreate resuelve la fila única de (perfil, item, día civil).
// Idempotente: si ya existe, se devuelve intacta y el scheduledAt del
// llamador se ignora (gana la primera escritura).
func (s *Service) GetOrCreate(ctx context.Context, profileID string, in GetOrCreateInput) (OccurrenceEvent, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return OccurrenceEvent{}, ErrInvalidInput
	}
	if !items.ValidItemType(in.ItemType) {
		return OccurrenceEvent{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.ItemID) == "" {
		return OccurrenceEvent{}, ErrInvalidInput
	}
	if in.ScheduledAt.IsZero() {
		return OccurrenceEvent{}, ErrInvalidInput
	}

	now := s.now()

	e := OccurrenceEvent{
		ID:          uuid.NewString(),
		ProfileID:   profileID,
		ItemType:    in.ItemType,
		ItemID:      strings.TrimSpace(in.ItemID),
		ScheduledAt: in.ScheduledAt,
		EventDate:   in.ScheduledAt.In(s.loc).Format("2006-01-02"),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Upsert(ctx, e)
}

func (s *Service) GetByID(ctx context.Context, id string) (OccurrenceEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return OccurrenceEvent{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// SetStatus aplica una transición de la máquina de estados.
// Efectos: pendente→confirmado setea confirmed_at = now;
// confirmado→pendente (deshacer) lo limpia; pendente→perdido queda para
// el job de barrido externo, acá solo se expone la transición.
func (s *Service) SetStatus(ctx context.Context, id string, newStatus Status) (OccurrenceEvent, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return OccurrenceEvent{}, err
	}

	if !allowedTransitions[e.Status][newStatus] {
		return OccurrenceEvent{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, newStatus)
	}

	now := s.now()

	var confirmedAt *time.Time
	if newStatus == StatusConfirmed {
		confirmedAt = &now
	}

	return s.repo.UpdateStatus(ctx, id, newStatus, confirmedAt, now)
}

// ListForDay devuelve las filas del perfil cuyo scheduled_at cae en la
// ventana 00:00–23:59 del día civil, en la zona dada.
// El fin de la ventana es la medianoche siguiente por calendario, no
// from+24h: en días de cambio de horario el día civil dura 23 o 25 horas.
func (s *Service) ListForDay(ctx context.Context, profileID string, date time.Time, loc *time.Location) ([]OccurrenceEvent, error) {
	if loc == nil {
		loc = s.loc
	}
	y, m, d := date.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	to := time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return s.repo.ListForRange(ctx, profileID, from, to)
}

// ListForRange: rango inclusivo a granularidad de día, consumido por
// adherence. from y to son días civiles en la zona dada.
func (s *Service) ListForRange(ctx context.Context, profileID string, fromDate, toDate time.Time, loc *time.Location) ([]OccurrenceEvent, error) {
	if loc == nil {
		loc = s.loc
	}
	fy, fm, fd := fromDate.In(loc).Date()
	ty, tm, td := toDate.In(loc).Date()
	from := time.Date(fy, fm, fd, 0, 0, 0, 0, loc)
	to := time.Date(ty, tm, td+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	if to.Before(from) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListForRange(ctx, profileID, from, to)
}

// Now expone el reloj del servicio para derivar estados de display.
func (s *Service) Now() time.Time { return s.now() }
