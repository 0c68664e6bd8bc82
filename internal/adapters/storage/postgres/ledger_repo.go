package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/devribero/caremind-sub000/internal/domain/items"
	"github.com/devribero/caremind-sub000/internal/domain/ledger"
)

const eventColumns = `
			id, profile_id,
			item_type, item_id,
			scheduled_at, event_date,
			status, confirmed_at,
			created_at, updated_at`

type LedgerRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewLedgerRepo(db *sql.DB, logger *zap.Logger) *LedgerRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerRepo{db: db, logger: logger}
}

// Upsert es el "insert if absent" atómico sobre la clave única
// (profile_id, item_type, item_id, event_date). El DO UPDATE no-op hace
// que RETURNING devuelva también la fila preexistente en un solo viaje:
// sin leer-y-escribir, la carrera entre dos dispositivos queda cerrada
// por el índice. Gana la primera escritura.
func (r *LedgerRepo) Upsert(ctx context.Context, e ledger.OccurrenceEvent) (ledger.OccurrenceEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO historico_eventos (`+eventColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6::date,$7,$8,$9,$10)
		ON CONFLICT (profile_id, item_type, item_id, event_date)
		DO UPDATE SET profile_id = historico_eventos.profile_id
		RETURNING `+eventColumns,
		e.ID,
		e.ProfileID,
		string(e.ItemType),
		e.ItemID,
		e.ScheduledAt,
		e.EventDate,
		string(e.Status),
		e.ConfirmedAt,
		e.CreatedAt,
		e.UpdatedAt,
	)

	out, err := scanEvent(row)
	if err != nil {
		return ledger.OccurrenceEvent{}, err
	}

	if out.ID != e.ID {
		r.logger.Debug("historico upsert hit existing row",
			zap.String("profile_id", e.ProfileID),
			zap.String("item_id", e.ItemID),
			zap.String("event_date", e.EventDate),
		)
	}

	return out, nil
}

func (r *LedgerRepo) GetByID(ctx context.Context, id string) (ledger.OccurrenceEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ledger.OccurrenceEvent{}, ledger.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM historico_eventos
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return ledger.OccurrenceEvent{}, ledger.ErrNotFound
	}
	return e, err
}

func (r *LedgerRepo) UpdateStatus(ctx context.Context, id string, status ledger.Status, confirmedAt *time.Time, updatedAt time.Time) (ledger.OccurrenceEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ledger.OccurrenceEvent{}, ledger.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE historico_eventos
		SET status = $2, confirmed_at = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+eventColumns,
		id,
		string(status),
		confirmedAt,
		updatedAt,
	)

	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return ledger.OccurrenceEvent{}, ledger.ErrNotFound
	}
	return e, err
}

func (r *LedgerRepo) ListForRange(ctx context.Context, profileID string, from, to time.Time) ([]ledger.OccurrenceEvent, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, nil
	}

	// orden ascendente estable: insumo determinista para analytics
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM historico_eventos
		WHERE profile_id = $1
		  AND scheduled_at >= $2
		  AND scheduled_at <= $3
		ORDER BY scheduled_at ASC, id ASC
	`, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ledger.OccurrenceEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func scanEvent(row rowScanner) (ledger.OccurrenceEvent, error) {
	var e ledger.OccurrenceEvent
	var itemType, status string
	var eventDate time.Time
	var confirmedAt sql.NullTime

	if err := row.Scan(
		&e.ID,
		&e.ProfileID,
		&itemType,
		&e.ItemID,
		&e.ScheduledAt,
		&eventDate,
		&status,
		&confirmedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return ledger.OccurrenceEvent{}, err
	}

	e.ItemType = items.ItemType(itemType)
	e.EventDate = eventDate.Format("2006-01-02")
	e.Status = ledger.Status(status)
	if confirmedAt.Valid {
		t := confirmedAt.Time
		e.ConfirmedAt = &t
	}

	return e, nil
}
