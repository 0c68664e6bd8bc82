package adherence

import "math"

// Turnos del día para el desglose de desempeño.
// noite cruza medianoche: [18:00, 06:00).
const (
	TurnoManha = "manha" // [06:00, 12:00)
	TurnoTarde = "tarde" // [12:00, 18:00)
	TurnoNoite = "noite" // [18:00, 06:00)
)

// Report es la vista derivada de adherencia. No se persiste: se computa
// fresca por consulta (el cache redis solo recorta recargas repetidas).
type Report struct {
	KPIs        KPIs                   `json:"kpis"`
	DailyTrend  []DailyBucket          `json:"tendencia_diaria"`
	ByTimeOfDay map[string]TurnoBucket `json:"por_turno"`
	ByItemType  map[string]TypeBucket  `json:"por_tipo"`
}

type KPIs struct {
	TotalEvents    int     `json:"total_eventos"`
	TotalConfirmed int     `json:"total_confirmados"`
	TotalMissed    int     `json:"total_esquecidos"`
	AdherenceRate  float64 `json:"taxa_adesao_total"`

	// Media con signo de (confirmed_at - scheduled_at) en minutos.
	// nil cuando no hay muestras; nunca se coerciona a 0.
	AvgPunctualityMinutes *float64 `json:"pontualidade_media_minutos"`
}

type DailyBucket struct {
	Date       string  `json:"data"` // día civil del perfil, "YYYY-MM-DD"
	Total      int     `json:"total"`
	Confirmed  int     `json:"confirmados"`
	Percentage float64 `json:"percentual"`
}

type TurnoBucket struct {
	Total      int     `json:"total"`
	Confirmed  int     `json:"confirmados"`
	Missed     int     `json:"perdidos"`
	Percentage float64 `json:"percentual"`
}

type TypeBucket struct {
	Total      int     `json:"total"`
	Confirmed  int     `json:"confirmados"`
	Percentage float64 `json:"percentual"`
}

// Percentage calcula confirmados/total*100 con 2 decimales.
// Corta en total == 0: la división por cero nunca se lanza.
func Percentage(confirmed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(confirmed) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
