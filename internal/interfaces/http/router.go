package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-sync/internal/application/auth"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// SyncRunner es lo que el router necesita del pipeline de sincronización.
type SyncRunner interface {
	SyncAll(ctx context.Context) (*entity.SyncSummary, error)
	SyncRetrospective(ctx context.Context, startDate, endDate string) (*entity.SyncSummary, error)
	Busy() bool
}

// UpstreamHealthChecker verifica la disponibilidad del API remoto.
type UpstreamHealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// DBPinger verifica la conexión a la base (lo satisface *pgxpool.Pool).
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SchedulerStatus expone el estado del scheduler al endpoint de status.
type SchedulerStatus interface {
	Schedule() string
	NextRun() time.Time
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Pipeline  SyncRunner
	AuthUC    *auth.AuthUseCase
	Scheduler SchedulerStatus
	Upstream  UpstreamHealthChecker
	DB        DBPinger
	JWTSecret string
	AppName   string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB, deps.Upstream, deps.AppName)
	app.Get("/", healthHandler.Info)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")

	// Auth (público): emite el token del operador
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Token)

	// Rutas de sincronización (requieren Bearer Token)
	syncGroup := api.Group("/sync", AuthMiddleware(deps.JWTSecret))
	syncHandler := NewSyncHandler(deps.Pipeline, deps.Scheduler, deps.Log)
	syncGroup.Post("/manual", syncHandler.Manual)
	syncGroup.Get("/status", syncHandler.Status)
	syncGroup.Post("/retrospective", syncHandler.Retrospective)
}
