package items

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devribero/caremind-sub000/internal/domain/schedule"
	"github.com/devribero/caremind-sub000/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/profiles/{profileID}/items", func(ir chi.Router) {
		ir.Post("/", createItemHandler(svc))
		ir.Get("/", listItemsHandler(svc))
		ir.Get("/{itemID}", getItemHandler(svc))
		ir.Put("/{itemID}", updateItemHandler(svc))
		ir.Delete("/{itemID}", deleteItemHandler(svc))
	})
}

// itemRequest es el cuerpo para crear/editar un item agendable.
// La regla viaja como JSON con discriminante "kind".
type itemRequest struct {
	Type ItemType        `json:"type" enums:"medicamento,rotina"`
	Name string          `json:"name"`
	Rule json.RawMessage `json:"rule"`
}

// itemResponse representa un item agendable del perfil.
type itemResponse struct {
	ID        string          `json:"id"`
	ProfileID string          `json:"profile_id"`
	Type      ItemType        `json:"type"`
	Name      string          `json:"name"`
	Rule      json.RawMessage `json:"rule"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// createItemHandler godoc
// @Summary Crear item agendable
// @Description Crea un medicamento o rutina con su regla de recurrencia. La regla se valida acá; la evaluación nunca falla después.
// @Tags items
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param payload body itemRequest true "Item con regla (kind: daily|interval|alternate_days|weekly)"
// @Success 201 {object} itemResponse
// @Failure 400 {string} string "invalid json / regla inválida"
// @Failure 401 {string} string "unauthorized"
// @Router /profiles/{profileID}/items [post]
func createItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		profileID := chi.URLParam(r, "profileID")

		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		it, err := svc.Create(r.Context(), profileID, CreateInput{
			Type: req.Type,
			Name: req.Name,
			Rule: req.Rule,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

// listItemsHandler godoc
// @Summary Listar items del perfil
// @Tags items
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Success 200 {array} itemResponse
// @Failure 401 {string} string "unauthorized"
// @Router /profiles/{profileID}/items [get]
func listItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		out, err := svc.ListByProfile(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]itemResponse, 0, len(out))
		for _, it := range out {
			resp = append(resp, toItemResponse(it))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// getItemHandler godoc
// @Summary Obtener un item
// @Tags items
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param itemID path string true "ID del item"
// @Success 200 {object} itemResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "item not found"
// @Router /profiles/{profileID}/items/{itemID} [get]
func getItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		it, err := svc.GetByID(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil || it.ProfileID != chi.URLParam(r, "profileID") {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

// updateItemHandler godoc
// @Summary Reemplazar la regla de un item
// @Description Editar un item reemplaza la regla entera (las reglas son inmutables una vez adjuntas a ocurrencias).
// @Tags items
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param itemID path string true "ID del item"
// @Param payload body itemRequest true "Nombre opcional + regla nueva"
// @Success 200 {object} itemResponse
// @Failure 400 {string} string "invalid json / regla inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "item not found"
// @Router /profiles/{profileID}/items/{itemID} [put]
func updateItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		itemID := chi.URLParam(r, "itemID")

		it, err := svc.GetByID(r.Context(), itemID)
		if err != nil || it.ProfileID != chi.URLParam(r, "profileID") {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.ReplaceRule(r.Context(), itemID, req.Name, req.Rule)
		if err != nil {
			if errors.Is(err, schedule.ErrInvalidRule) || errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(updated))
	}
}

// deleteItemHandler godoc
// @Summary Borrar un item
// @Tags items
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param itemID path string true "ID del item"
// @Success 204 {string} string ""
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "item not found"
// @Router /profiles/{profileID}/items/{itemID} [delete]
func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		it, err := svc.GetByID(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil || it.ProfileID != chi.URLParam(r, "profileID") {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), it.ID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toItemResponse(it ScheduledItem) itemResponse {
	rule, _ := schedule.EncodeRule(it.Rule)
	return itemResponse{
		ID:        it.ID,
		ProfileID: it.ProfileID,
		Type:      it.Type,
		Name:      it.Name,
		Rule:      rule,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

// writeJSON se repite en los handlers de cada módulo a propósito:
// todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
