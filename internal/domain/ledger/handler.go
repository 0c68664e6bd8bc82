package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devribero/caremind-sub000/internal/domain/items"
	"github.com/devribero/caremind-sub000/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, defaultLoc *time.Location) {
	r.Route("/profiles/{profileID}/events", func(er chi.Router) {
		er.Post("/", getOrCreateHandler(svc))
		er.Get("/", listForDayHandler(svc, defaultLoc))
		er.Post("/{eventID}/status", setStatusHandler(svc))
	})
}

// getOrCreateRequest identifica la ocurrencia del día: item + instante
// programado (RFC3339). El día civil sale del scheduled_at.
type getOrCreateRequest struct {
	ItemType    string `json:"item_type" enums:"medicamento,rotina"`
	ItemID      string `json:"item_id"`
	ScheduledAt string `json:"scheduled_at"` // RFC3339
}

type setStatusRequest struct {
	Status Status `json:"status" enums:"pendente,confirmado,perdido"`
}

// eventResponse es una fila del histórico. effective_status deriva
// "atrasado" de una pendiente vencida; nunca se persiste.
type eventResponse struct {
	ID              string     `json:"id"`
	ProfileID       string     `json:"profile_id"`
	ItemType        string     `json:"item_type"`
	ItemID          string     `json:"item_id"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	EventDate       string     `json:"event_date"`
	Status          Status     `json:"status"`
	EffectiveStatus Status     `json:"effective_status"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// getOrCreateHandler godoc
// @Summary Obtener o crear la ocurrencia del día
// @Description Idempotente: una sola fila por (perfil, tipo, item, día civil). Si la fila ya existe se devuelve intacta y el scheduled_at enviado se ignora (gana la primera escritura).
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param payload body getOrCreateRequest true "Identidad de la ocurrencia"
// @Success 200 {object} eventResponse
// @Failure 400 {string} string "invalid json / scheduled_at inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /profiles/{profileID}/events [post]
func getOrCreateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req getOrCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			http.Error(w, "scheduled_at must be RFC3339", http.StatusBadRequest)
			return
		}

		e, err := svc.GetOrCreate(r.Context(), chi.URLParam(r, "profileID"), GetOrCreateInput{
			ItemType:    items.ItemType(strings.TrimSpace(req.ItemType)),
			ItemID:      req.ItemID,
			ScheduledAt: scheduledAt,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(e, svc.Now()))
	}
}

// listForDayHandler godoc
// @Summary Listar ocurrencias de un día
// @Description Filas del perfil con scheduled_at dentro de la ventana 00:00–23:59 del día civil, en la zona dada. Lo usa el cliente para reconciliar "esto ya está confirmado".
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param date query string false "Día civil YYYY-MM-DD; default hoy"
// @Param tz query string false "Zona IANA; default la del servicio"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "date/tz inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /profiles/{profileID}/events [get]
func listForDayHandler(svc *Service, defaultLoc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		loc := defaultLoc
		if v := strings.TrimSpace(r.URL.Query().Get("tz")); v != "" {
			parsed, err := time.LoadLocation(v)
			if err != nil {
				http.Error(w, "invalid tz", http.StatusBadRequest)
				return
			}
			loc = parsed
		}

		now := svc.Now()

		date := now.In(loc)
		if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
			parsed, err := time.ParseInLocation("2006-01-02", v, loc)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = parsed
		}

		events, err := svc.ListForDay(r.Context(), chi.URLParam(r, "profileID"), date, loc)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(events))
		for _, e := range events {
			out = append(out, toEventResponse(e, now))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// setStatusHandler godoc
// @Summary Transicionar el estado de una ocurrencia
// @Description Aplica la máquina de estados: pendente→confirmado (marca hecha, setea confirmed_at), confirmado→pendente (deshacer, lo limpia), pendente→perdido (job de barrido externo). Cualquier otra transición se rechaza; de perdido no se sale.
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param eventID path string true "ID de la ocurrencia"
// @Param payload body setStatusRequest true "Estado destino"
// @Success 200 {object} eventResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "transición inválida"
// @Router /profiles/{profileID}/events/{eventID}/status [post]
func setStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		eventID := chi.URLParam(r, "eventID")

		// la ocurrencia existe y pertenece al perfil de la ruta
		e, err := svc.GetByID(r.Context(), eventID)
		if err != nil || e.ProfileID != chi.URLParam(r, "profileID") {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.SetStatus(r.Context(), eventID, req.Status)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidTransition):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "event not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(updated, svc.Now()))
	}
}

func toEventResponse(e OccurrenceEvent, now time.Time) eventResponse {
	return eventResponse{
		ID:              e.ID,
		ProfileID:       e.ProfileID,
		ItemType:        string(e.ItemType),
		ItemID:          e.ItemID,
		ScheduledAt:     e.ScheduledAt,
		EventDate:       e.EventDate,
		Status:          e.Status,
		EffectiveStatus: EffectiveStatus(e, now),
		ConfirmedAt:     e.ConfirmedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// writeJSON se repite en los handlers de cada módulo a propósito:
// todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
