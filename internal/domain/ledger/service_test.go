package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devribero/caremind-sub000/internal/domain/items"
)

// testRepo implementa Repository en memoria para los tests del servicio.
type testRepo struct {
	byID  map[string]OccurrenceEvent
	byKey map[string]string
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:  map[string]OccurrenceEvent{},
		byKey: map[string]string{},
	}
}

func occurrenceKey(e OccurrenceEvent) string {
	return e.ProfileID + "|" + string(e.ItemType) + "|" + e.ItemID + "|" + e.EventDate
}

func (r *testRepo) Upsert(_ context.Context, e OccurrenceEvent) (OccurrenceEvent, error) {
	key := occurrenceKey(e)
	if id, ok := r.byKey[key]; ok {
		return r.byID[id], nil
	}
	r.byID[e.ID] = e
	r.byKey[key] = e.ID
	return e, nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (OccurrenceEvent, error) {
	e, ok := r.byID[id]
	if !ok {
		return OccurrenceEvent{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) UpdateStatus(_ context.Context, id string, status Status, confirmedAt *time.Time, updatedAt time.Time) (OccurrenceEvent, error) {
	e, ok := r.byID[id]
	if !ok {
		return OccurrenceEvent{}, ErrNotFound
	}
	e.Status = status
	e.ConfirmedAt = confirmedAt
	e.UpdatedAt = updatedAt
	r.byID[id] = e
	return e, nil
}

func (r *testRepo) ListForRange(_ context.Context, profileID string, from, to time.Time) ([]OccurrenceEvent, error) {
	out := []OccurrenceEvent{}
	for _, e := range r.byID {
		if e.ProfileID != profileID {
			continue
		}
		if e.ScheduledAt.Before(from) || e.ScheduledAt.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *testRepo) {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	repo := newTestRepo()
	svc := NewService(repo, loc)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 1, 12, 0, 0, 0, loc)
	}
	return svc, repo
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := GetOrCreateInput{
		ItemType:    items.ItemTypeMedication,
		ItemID:      "item-1",
		ScheduledAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	first, err := svc.GetOrCreate(ctx, "profile-1", in)
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if first.Status != StatusPending {
		t.Fatalf("expected pendente, got %s", first.Status)
	}

	// segunda llamada con otro scheduledAt del mismo día: gana la primera fila
	in.ScheduledAt = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	second, err := svc.GetOrCreate(ctx, "profile-1", in)
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same row, got %s and %s", first.ID, second.ID)
	}
	if !second.ScheduledAt.Equal(first.ScheduledAt) {
		t.Fatal("expected original scheduled_at to win")
	}
}

func TestGetOrCreate_EventDateUsesProfileZone(t *testing.T) {
	svc, _ := newTestService(t)

	// 01:00 UTC del 2 de marzo = 22:00 del 1 de marzo en São Paulo
	e, err := svc.GetOrCreate(context.Background(), "profile-1", GetOrCreateInput{
		ItemType:    items.ItemTypeRoutine,
		ItemID:      "item-1",
		ScheduledAt: time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if e.EventDate != "2025-03-01" {
		t.Fatalf("expected event_date 2025-03-01, got %s", e.EventDate)
	}
}

func TestGetOrCreate_RejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	valid := GetOrCreateInput{
		ItemType:    items.ItemTypeMedication,
		ItemID:      "item-1",
		ScheduledAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	if _, err := svc.GetOrCreate(ctx, "", valid); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty profile: expected ErrInvalidInput, got %v", err)
	}

	in := valid
	in.ItemType = "vitamina"
	if _, err := svc.GetOrCreate(ctx, "profile-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad item type: expected ErrInvalidInput, got %v", err)
	}

	in = valid
	in.ItemID = "  "
	if _, err := svc.GetOrCreate(ctx, "profile-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank item id: expected ErrInvalidInput, got %v", err)
	}

	in = valid
	in.ScheduledAt = time.Time{}
	if _, err := svc.GetOrCreate(ctx, "profile-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero scheduled_at: expected ErrInvalidInput, got %v", err)
	}
}

func TestSetStatus_ConfirmSetsConfirmedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.GetOrCreate(ctx, "profile-1", GetOrCreateInput{
		ItemType:    items.ItemTypeMedication,
		ItemID:      "item-1",
		ScheduledAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}

	confirmed, err := svc.SetStatus(ctx, e.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Fatalf("expected confirmado, got %s", confirmed.Status)
	}
	if confirmed.ConfirmedAt == nil || !confirmed.ConfirmedAt.Equal(svc.now()) {
		t.Fatalf("expected confirmed_at = now, got %v", confirmed.ConfirmedAt)
	}
}

func TestSetStatus_UndoClearsConfirmedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, _ := svc.GetOrCreate(ctx, "profile-1", GetOrCreateInput{
		ItemType:    items.ItemTypeMedication,
		ItemID:      "item-1",
		ScheduledAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	if _, err := svc.SetStatus(ctx, e.ID, StatusConfirmed); err != nil {
		t.Fatalf("confirm error: %v", err)
	}

	undone, err := svc.SetStatus(ctx, e.ID, StatusPending)
	if err != nil {
		t.Fatalf("undo error: %v", err)
	}
	if undone.Status != StatusPending {
		t.Fatalf("expected pendente, got %s", undone.Status)
	}
	if undone.ConfirmedAt != nil {
		t.Fatalf("expected confirmed_at cleared, got %v", undone.ConfirmedAt)
	}
}

func TestSetStatus_RejectsInvalidTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, _ := svc.GetOrCreate(ctx, "profile-1", GetOrCreateInput{
		ItemType:    items.ItemTypeMedication,
		ItemID:      "item-1",
		ScheduledAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	})

	// atrasado es derivado, nunca persistible
	if _, err := svc.SetStatus(ctx, e.ID, StatusLate); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pendente -> atrasado: expected ErrInvalidTransition, got %v", err)
	}
	// repetir estado se rechaza
	if _, err := svc.SetStatus(ctx, e.ID, StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pendente -> pendente: expected ErrInvalidTransition, got %v", err)
	}

	// de perdido no se sale
	if _, err := svc.SetStatus(ctx, e.ID, StatusMissed); err != nil {
		t.Fatalf("pendente -> perdido error: %v", err)
	}
	if _, err := svc.SetStatus(ctx, e.ID, StatusConfirmed); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("perdido -> confirmado: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, e.ID, StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("perdido -> pendente: expected ErrInvalidTransition, got %v", err)
	}
}

func TestSetStatus_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.SetStatus(context.Background(), "no-such-id", StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEffectiveStatus(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, loc)

	pendingPast := OccurrenceEvent{Status: StatusPending, ScheduledAt: now.Add(-time.Hour)}
	if got := EffectiveStatus(pendingPast, now); got != StatusLate {
		t.Errorf("pending past: expected atrasado, got %s", got)
	}

	pendingFuture := OccurrenceEvent{Status: StatusPending, ScheduledAt: now.Add(time.Hour)}
	if got := EffectiveStatus(pendingFuture, now); got != StatusPending {
		t.Errorf("pending future: expected pendente, got %s", got)
	}

	confirmedPast := OccurrenceEvent{Status: StatusConfirmed, ScheduledAt: now.Add(-time.Hour)}
	if got := EffectiveStatus(confirmedPast, now); got != StatusConfirmed {
		t.Errorf("confirmed: expected confirmado, got %s", got)
	}
}

func TestListForDay_FallBackDayKeepsLastHour(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	svc := NewService(newTestRepo(), ny)
	svc.now = func() time.Time {
		return time.Date(2025, 11, 2, 12, 0, 0, 0, ny)
	}
	ctx := context.Background()

	// 2025-11-02 dura 25 horas en Nueva York; la última hora del día
	// sigue perteneciendo a la ventana civil
	e, err := svc.GetOrCreate(ctx, "profile-1", GetOrCreateInput{
		ItemType:    items.ItemTypeMedication,
		ItemID:      "item-1",
		ScheduledAt: time.Date(2025, 11, 2, 23, 30, 0, 0, ny),
	})
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}

	out, err := svc.ListForDay(ctx, "profile-1", time.Date(2025, 11, 2, 0, 0, 0, 0, ny), ny)
	if err != nil {
		t.Fatalf("ListForDay error: %v", err)
	}
	if len(out) != 1 || out[0].ID != e.ID {
		t.Fatalf("expected the 23:30 event in the civil-day window, got %d events", len(out))
	}
}

func TestListForDay_SpringForwardExcludesNextMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	svc := NewService(newTestRepo(), ny)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 9, 12, 0, 0, 0, ny)
	}
	ctx := context.Background()

	// 2025-03-09 dura 23 horas; la medianoche del 10 no entra en el 9
	e, err := svc.GetOrCreate(ctx, "profile-1", GetOrCreateInput{
		ItemType:    items.ItemTypeMedication,
		ItemID:      "item-1",
		ScheduledAt: time.Date(2025, 3, 10, 0, 0, 0, 0, ny),
	})
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}

	out, err := svc.ListForDay(ctx, "profile-1", time.Date(2025, 3, 9, 0, 0, 0, 0, ny), ny)
	if err != nil {
		t.Fatalf("ListForDay error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty window on the 23-hour day, got %d events", len(out))
	}

	out, err = svc.ListForDay(ctx, "profile-1", time.Date(2025, 3, 10, 0, 0, 0, 0, ny), ny)
	if err != nil {
		t.Fatalf("ListForDay error: %v", err)
	}
	if len(out) != 1 || out[0].ID != e.ID {
		t.Fatalf("expected the midnight event on its own day, got %d events", len(out))
	}
}

func TestListForRange_RejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(t)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.ListForRange(context.Background(), "profile-1", from, to, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
