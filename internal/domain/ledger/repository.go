package ledger

import (
	"context"
	"time"
)

// Repository persiste filas de historico_eventos.
//
// Upsert debe comportarse como "insert if absent" atómico sobre la clave
// (profile_id, item_type, item_id, event_date): si la fila ya existe la
// devuelve sin tocarla (gana la primera escritura). Las implementaciones
// se apoyan en el índice único, no en leer-y-escribir.
type Repository interface {
	Upsert(ctx context.Context, e OccurrenceEvent) (OccurrenceEvent, error)
	GetByID(ctx context.Context, id string) (OccurrenceEvent, error)
	UpdateStatus(ctx context.Context, id string, status Status, confirmedAt *time.Time, updatedAt time.Time) (OccurrenceEvent, error)

	// ListForRange devuelve las filas con scheduled_at dentro de
	// [from, to], orden ascendente por scheduled_at (la reducción de
	// analytics exige orden estable).
	ListForRange(ctx context.Context, profileID string, from, to time.Time) ([]OccurrenceEvent, error)
}
