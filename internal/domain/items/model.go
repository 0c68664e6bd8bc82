package items

import (
	"time"

	"github.com/devribero/caremind-sub000/internal/domain/schedule"
)

type ItemType string

const (
	ItemTypeMedication ItemType = "medicamento"
	ItemTypeRoutine    ItemType = "rotina"
)

func ValidItemType(t ItemType) bool {
	return t == ItemTypeMedication || t == ItemTypeRoutine
}

// ScheduledItem es la cosa agendable (medicamento o rutina) del perfil.
// El CRUD completo vive en el backend gestionado; acá solo el recorte
// que el motor necesita para evaluar "qué toca hoy".
// La regla es inmutable una vez adjunta: editar reemplaza el valor entero.
type ScheduledItem struct {
	ID        string
	ProfileID string

	Type ItemType
	Name string

	Rule schedule.Rule

	CreatedAt time.Time
	UpdatedAt time.Time
}
