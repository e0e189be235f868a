package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stock-sync/internal/application/auth"
	appsync "github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/internal/infrastructure/auditlog"
	"github.com/jhoicas/stock-sync/internal/infrastructure/moysklad"
	"github.com/jhoicas/stock-sync/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-sync/internal/infrastructure/warehousefile"
	httpRouter "github.com/jhoicas/stock-sync/internal/interfaces/http"
	"github.com/jhoicas/stock-sync/internal/scheduler"
	"github.com/jhoicas/stock-sync/pkg/config"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	audit, err := auditlog.NewFileSink(cfg.Sync.AuditLogFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("bitácora de sincronización")
	}

	stockRepo := postgres.NewStockRecordRepository(pool)
	warehouses := warehousefile.NewSource(cfg.Sync.WarehousesFile, audit, log)
	apiClient := moysklad.NewClient(moysklad.Config{
		URL:           cfg.API.URL,
		EntityBaseURL: cfg.API.EntityBaseURL,
		Token:         cfg.API.Token,
		Login:         cfg.API.Login,
		Password:      cfg.API.Password,
		DefaultMoment: cfg.API.Moment,
	}, log)

	pipeline := appsync.NewPipeline(apiClient, stockRepo, warehouses, audit, log, cfg.Sync.UTCOffsetHours)

	cronHandle, err := scheduler.Setup(cfg.Sync.CronSchedule, func(ctx context.Context) error {
		_, err := pipeline.SyncAll(ctx)
		return err
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del scheduler")
	}

	authUC := auth.NewAuthUseCase(
		auth.OperatorCredentials{
			User:         cfg.JWT.OperatorUser,
			PasswordHash: cfg.JWT.OperatorHash,
		},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Sync API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Pipeline:  pipeline,
		AuthUC:    authUC,
		Scheduler: cronHandle,
		Upstream:  apiClient,
		DB:        pool,
		JWTSecret: cfg.JWT.Secret,
		AppName:   cfg.App.Name,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	cronHandle.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
