package config

import (
	"os"
	"strconv"
	"time"
)

// Config del servicio. Todo viene de env vars con defaults de dev;
// el backend gestionado inyecta los valores reales en deploy.
type Config struct {
	HTTPPort string

	// DSN de Postgres; vacío = repos in-memory (modo dev).
	DatabaseDSN string

	// Addr de Redis; vacío = sin cache de reportes.
	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// Zona por defecto del perfil: los días civiles (ventana del día,
	// tendencia diaria) se computan acá salvo override por request.
	DefaultTimezone string

	ReportCacheTTL time.Duration

	Log struct {
		Level  string
		Format string
	}

	// Verificador de tokens del servicio de cuentas; vacío = modo dev
	// (header X-Debug-User-ID).
	Accounts struct {
		BaseURL string
		APIKey  string
	}
}

func Load() *Config {
	cfg := &Config{}

	cfg.HTTPPort = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DB_DSN", "")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.DefaultTimezone = getEnv("CAREMIND_DEFAULT_TZ", "America/Sao_Paulo")

	cfg.ReportCacheTTL = time.Duration(getEnvInt("REPORT_CACHE_TTL_SECONDS", 60)) * time.Second

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Accounts.BaseURL = getEnv("ACCOUNTS_BASE_URL", "")
	cfg.Accounts.APIKey = getEnv("ACCOUNTS_API_KEY", "")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
