package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devribero/caremind-sub000/internal/domain/items"
	"github.com/devribero/caremind-sub000/internal/domain/ledger"
)

func sampleEvent(id string, scheduledAt time.Time) ledger.OccurrenceEvent {
	return ledger.OccurrenceEvent{
		ID:          id,
		ProfileID:   "profile-1",
		ItemType:    items.ItemTypeMedication,
		ItemID:      "item-1",
		ScheduledAt: scheduledAt,
		EventDate:   scheduledAt.Format("2006-01-02"),
		Status:      ledger.StatusPending,
	}
}

func TestLedgerRepo_UpsertFirstWriteWins(t *testing.T) {
	repo := NewLedgerRepo()
	ctx := context.Background()

	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	first, err := repo.Upsert(ctx, sampleEvent("evt-1", at))
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	// misma clave compuesta con otro id y otro horario
	second, err := repo.Upsert(ctx, sampleEvent("evt-2", at.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing row back, got %s", second.ID)
	}
	if !second.ScheduledAt.Equal(at) {
		t.Fatal("expected original scheduled_at to win")
	}

	// evt-2 nunca llegó a existir; el sentinel es el del dominio
	if _, err := repo.GetByID(ctx, "evt-2"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ledger.ErrNotFound, got %v", err)
	}
}

func TestLedgerRepo_ListForRangeOrdered(t *testing.T) {
	repo := NewLedgerRepo()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	// insertado fuera de orden
	for i, id := range []string{"evt-c", "evt-a", "evt-b"} {
		e := sampleEvent(id, base.AddDate(0, 0, 2-i))
		e.ItemID = "item-" + id // claves compuestas distintas
		if _, err := repo.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert error: %v", err)
		}
	}

	out, err := repo.ListForRange(ctx, "profile-1", base, base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("ListForRange error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 events, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].ScheduledAt.Before(out[i-1].ScheduledAt) {
			t.Fatal("expected ascending scheduled_at order")
		}
	}
}
