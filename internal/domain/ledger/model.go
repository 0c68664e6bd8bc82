package ledger

import (
	"time"

	"github.com/devribero/caremind-sub000/internal/domain/items"
)

type Status string

const (
	StatusPending   Status = "pendente"
	StatusConfirmed Status = "confirmado"
	StatusLate      Status = "atrasado" // solo derivado, nunca persistido
	StatusMissed    Status = "perdido"
)

// Statuses legados que aún existen en filas antiguas del histórico.
// Se leen y se clasifican en analytics; las escrituras nuevas no los producen.
const (
	LegacyStatusDone      Status = "realizado"
	LegacyStatusTaken     Status = "tomado"
	LegacyStatusCancelled Status = "cancelado"
)

// OccurrenceEvent es una fila de historico_eventos: el ciclo de vida de
// un instante programado de un item en un día civil concreto.
// Invariante: a lo sumo una fila por (profile, item_type, item_id, event_date).
type OccurrenceEvent struct {
	ID string

	ProfileID string
	ItemType  items.ItemType
	ItemID    string

	// ScheduledAt es el instante programado (fecha + horario de la regla).
	// EventDate es el día civil "YYYY-MM-DD" en la zona del perfil; forma
	// parte de la clave única, así el upsert cierra la carrera entre
	// dispositivos sin depender de comparar instantes.
	ScheduledAt time.Time
	EventDate   string

	Status      Status
	ConfirmedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus deriva el estado para display: una ocurrencia pendiente
// cuyo instante ya pasó se muestra atrasada, sin persistir la transición
// (persistirla quedaría obsoleta sola con el paso del reloj).
func EffectiveStatus(e OccurrenceEvent, now time.Time) Status {
	if e.Status == StatusPending && e.ScheduledAt.Before(now) {
		return StatusLate
	}
	return e.Status
}
