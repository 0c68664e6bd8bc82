package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/devribero/caremind-sub000/internal/domain/ledger"
)

type ledgerRepo struct {
	mu    sync.Mutex
	byID  map[string]ledger.OccurrenceEvent
	byKey map[string]string // clave compuesta -> id
}

func NewLedgerRepo() ledger.Repository {
	return &ledgerRepo{
		byID:  make(map[string]ledger.OccurrenceEvent),
		byKey: make(map[string]string),
	}
}

// compositeKey replica el índice único de historico_eventos.
func compositeKey(e ledger.OccurrenceEvent) string {
	return e.ProfileID + "|" + string(e.ItemType) + "|" + e.ItemID + "|" + e.EventDate
}

func (r *ledgerRepo) Upsert(ctx context.Context, e ledger.OccurrenceEvent) (ledger.OccurrenceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return ledger.OccurrenceEvent{}, errors.New("event id required")
	}

	key := compositeKey(e)
	if existingID, ok := r.byKey[key]; ok {
		// gana la primera escritura; la fila existente vuelve intacta
		return r.byID[existingID], nil
	}

	r.byID[e.ID] = e
	r.byKey[key] = e.ID
	return e, nil
}

func (r *ledgerRepo) GetByID(ctx context.Context, id string) (ledger.OccurrenceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return ledger.OccurrenceEvent{}, ledger.ErrNotFound
	}
	return e, nil
}

func (r *ledgerRepo) UpdateStatus(ctx context.Context, id string, status ledger.Status, confirmedAt *time.Time, updatedAt time.Time) (ledger.OccurrenceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return ledger.OccurrenceEvent{}, ledger.ErrNotFound
	}

	e.Status = status
	e.ConfirmedAt = confirmedAt
	e.UpdatedAt = updatedAt
	r.byID[id] = e

	return e, nil
}

func (r *ledgerRepo) ListForRange(ctx context.Context, profileID string, from, to time.Time) ([]ledger.OccurrenceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ledger.OccurrenceEvent, 0)
	for _, e := range r.byID {
		if e.ProfileID != profileID {
			continue
		}
		if e.ScheduledAt.Before(from) || e.ScheduledAt.After(to) {
			continue
		}
		out = append(out, e)
	}

	// mismo orden que el adapter de postgres
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})

	return out, nil
}
