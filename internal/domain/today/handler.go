// Package today arma la vista "qué toca hoy": evalúa las reglas del
// perfil y las cruza con el ledger del día. Solo lectura; no persiste.
package today

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devribero/caremind-sub000/internal/domain/items"
	"github.com/devribero/caremind-sub000/internal/domain/ledger"
	"github.com/devribero/caremind-sub000/internal/domain/schedule"
	"github.com/devribero/caremind-sub000/internal/middleware"
)

func RegisterRoutes(r chi.Router, itemsSvc *items.Service, ledgerSvc *ledger.Service, defaultLoc *time.Location) {
	r.Get("/profiles/{profileID}/due", dueHandler(itemsSvc, ledgerSvc, defaultLoc))
}

// dueEntryResponse es una entrada de la lista "para hoy": el item, sus
// horarios del día y el estado de la ocurrencia si ya existe en el ledger.
// scheduled_at es el instante del primer horario del día en la zona
// pedida (o el de la fila ya persistida), listo para el get-or-create.
type dueEntryResponse struct {
	ItemID      string         `json:"item_id"`
	ItemType    items.ItemType `json:"item_type"`
	Name        string         `json:"name"`
	Times       []string       `json:"times"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Status      ledger.Status  `json:"status"`
	EventID     *string        `json:"event_id,omitempty"`
}

// dueHandler godoc
// @Summary Qué toca en la fecha
// @Description Evalúa las reglas de todos los items del perfil para la fecha dada y cruza con las filas del ledger de ese día para saber el estado de cada ocurrencia. Sin fecha se usa el día actual en la zona del perfil.
// @Tags today
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param date query string false "Día civil YYYY-MM-DD"
// @Param tz query string false "Zona IANA; default la del servicio"
// @Success 200 {array} dueEntryResponse
// @Failure 400 {string} string "date/tz inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /profiles/{profileID}/due [get]
func dueHandler(itemsSvc *items.Service, ledgerSvc *ledger.Service, defaultLoc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		profileID := chi.URLParam(r, "profileID")

		loc := defaultLoc
		if v := strings.TrimSpace(r.URL.Query().Get("tz")); v != "" {
			parsed, err := time.LoadLocation(v)
			if err != nil {
				http.Error(w, "invalid tz", http.StatusBadRequest)
				return
			}
			loc = parsed
		}

		now := ledgerSvc.Now()

		date := now.In(loc)
		if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
			parsed, err := time.ParseInLocation("2006-01-02", v, loc)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = parsed
		}

		list, err := itemsSvc.ListByProfile(r.Context(), profileID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		dayEvents, err := ledgerSvc.ListForDay(r.Context(), profileID, date, loc)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// una fila por (item_type, item_id) por día civil
		byItem := make(map[string]ledger.OccurrenceEvent, len(dayEvents))
		for _, e := range dayEvents {
			byItem[string(e.ItemType)+"|"+e.ItemID] = e
		}

		out := make([]dueEntryResponse, 0, len(list))
		for _, it := range list {
			res := schedule.EvaluateDue(it.Rule, date)
			if !res.Due {
				continue
			}

			entry := dueEntryResponse{
				ItemID:   it.ID,
				ItemType: it.Type,
				Name:     it.Name,
				Times:    res.Times,
				Status:   ledger.StatusPending,
			}
			// las reglas ya validadas nunca fallan acá
			if at, err := schedule.DueInstant(date, res.Times[0], loc); err == nil {
				entry.ScheduledAt = at
			}
			if e, ok := byItem[string(it.Type)+"|"+it.ID]; ok {
				entry.Status = ledger.EffectiveStatus(e, now)
				entry.ScheduledAt = e.ScheduledAt
				id := e.ID
				entry.EventID = &id
			}

			out = append(out, entry)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON se repite en los handlers de cada módulo a propósito:
// todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
