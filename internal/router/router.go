package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/devribero/caremind-sub000/docs"
	mem "github.com/devribero/caremind-sub000/internal/adapters/storage/memory"
	pg "github.com/devribero/caremind-sub000/internal/adapters/storage/postgres"
	"github.com/devribero/caremind-sub000/internal/domain/adherence"
	"github.com/devribero/caremind-sub000/internal/domain/items"
	"github.com/devribero/caremind-sub000/internal/domain/ledger"
	"github.com/devribero/caremind-sub000/internal/domain/today"
	"github.com/devribero/caremind-sub000/internal/middleware"
	"github.com/devribero/caremind-sub000/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: cache de reportes (nil = sin cache).
	ReportCache    adherence.KVStore
	ReportCacheTTL time.Duration

	// Zona por defecto del perfil para días civiles.
	Location *time.Location

	Logger *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		itemsRepo  items.Repository
		ledgerRepo ledger.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		itemsRepo = pg.NewItemsRepo(db)
		ledgerRepo = pg.NewLedgerRepo(db, logger)
	} else {
		itemsRepo = mem.NewItemsRepo()
		ledgerRepo = mem.NewLedgerRepo()
	}

	// Services por módulo
	itemsSvc := items.NewService(itemsRepo, loc)
	ledgerSvc := ledger.NewService(ledgerRepo, loc)
	adherenceSvc := adherence.NewService(ledgerSvc, opts.ReportCache, opts.ReportCacheTTL, logger)

	// Rutas por módulo
	items.RegisterRoutes(r, itemsSvc)
	ledger.RegisterRoutes(r, ledgerSvc, loc)
	today.RegisterRoutes(r, itemsSvc, ledgerSvc, loc)
	adherence.RegisterRoutes(r, adherenceSvc, loc)

	return r
}
