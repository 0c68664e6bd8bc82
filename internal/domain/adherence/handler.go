package adherence

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
	r.Get("/profiles/{profileID}/reports/adherence", buildReportHandler(svc, defaultLoc))
}

// buildReportHandler godoc
// @Summary Reporte de adherencia
// @Description Reduce las ocurrencias del rango [from, to] (inclusivo, a día civil en la zona del perfil) a KPIs, tendencia diaria, desglose por turno y comparación por tipo de item. El cómputo nunca falla con entrada bien formada; los errores vienen del fetch.
// @Tags adherence
// @Produce json
// @Param X-Debug-User-ID header string false "Solo modo dev"
// @Param profileID path string true "ID del perfil"
// @Param from query string true "Día civil YYYY-MM-DD"
// @Param to query string true "Día civil YYYY-MM-DD"
// @Param type query string false "Filtro de tipo: medicamento|rotina"
// @Param tz query string false "Zona IANA; default la del servicio"
// @Success 200 {object} Report
// @Failure 400 {string} string "from/to/type/tz inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /profiles/{profileID}/reports/adherence [get]
func buildReportHandler(svc *Service, defaultLoc *time.Location) http.HandlerFunc {
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

		from, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(r.URL.Query().Get("from")), loc)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(r.URL.Query().Get("to")), loc)
		if err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if to.Before(from) {
			http.Error(w, "to must not be before from", http.StatusBadRequest)
			return
		}

		var typeFilter items.ItemType
		if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
			typeFilter = items.ItemType(v)
			if !items.ValidItemType(typeFilter) {
				http.Error(w, "type must be medicamento or rotina", http.StatusBadRequest)
				return
			}
		}

		report, err := svc.BuildReport(r.Context(), BuildInput{
			ProfileID:  chi.URLParam(r, "profileID"),
			FromDate:   from,
			ToDate:     to,
			TypeFilter: typeFilter,
			Loc:        loc,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

// writeJSON se repite en los handlers de cada módulo a propósito:
// todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
