package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// SyncHandler expone el disparo manual, el status del scheduler y la
// sincronización retrospectiva.
type SyncHandler struct {
	pipeline  SyncRunner
	scheduler SchedulerStatus
	log       *logger.Logger
}

// NewSyncHandler construye el handler.
func NewSyncHandler(pipeline SyncRunner, scheduler SchedulerStatus, log *logger.Logger) *SyncHandler {
	return &SyncHandler{pipeline: pipeline, scheduler: scheduler, log: log.Component("http")}
}

// Manual godoc
// @Summary      Disparo manual de sincronización
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  dto.SyncStartedResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sync/manual [post]
func (h *SyncHandler) Manual(c *fiber.Ctx) error {
	if h.pipeline.Busy() {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_IN_PROGRESS", Message: domain.ErrSyncAlreadyRunning.Error()})
	}

	// Arranque asíncrono: la respuesta no espera al pipeline. Si otra corrida
	// ganó la carrera entre Busy() y el arranque, el mutex del pipeline la
	// resuelve y aquí solo se registra.
	go func() {
		summary, err := h.pipeline.SyncAll(context.Background())
		if err != nil {
			h.log.Error().Err(err).Msg("sincronización manual no ejecutada")
			return
		}
		h.log.Info().
			Int("total", summary.Total).
			Int("success", summary.Success).
			Int("failed", summary.Failed).
			Msg("sincronización manual finalizada")
	}()

	return c.Status(fiber.StatusAccepted).JSON(dto.SyncStartedResponse{
		Message:   "Sincronización iniciada",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Status godoc
// @Summary      Estado del scheduler de sincronización
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	out := dto.SyncStatusResponse{
		CronSchedule: h.scheduler.Schedule(),
		Running:      h.pipeline.Busy(),
	}
	if next := h.scheduler.NextRun(); !next.IsZero() {
		out.NextRun = next.UTC().Format(time.RFC3339)
	}
	return c.JSON(out)
}

// Retrospective godoc
// @Summary      Sincronización retrospectiva por rango de fechas
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RetrospectiveRequest  true  "Rango inclusivo YYYY-MM-DD"
// @Success      202   {object}  dto.SyncStartedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sync/retrospective [post]
func (h *SyncHandler) Retrospective(c *fiber.Ctx) error {
	var in dto.RetrospectiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	// La validación del rango falla antes de arrancar cualquier trabajo.
	if _, err := sync.GenerateDateRange(in.StartDate, in.EndDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if h.pipeline.Busy() {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_IN_PROGRESS", Message: domain.ErrSyncAlreadyRunning.Error()})
	}

	startDate, endDate := in.StartDate, in.EndDate
	go func() {
		summary, err := h.pipeline.SyncRetrospective(context.Background(), startDate, endDate)
		if err != nil {
			h.log.Error().Err(err).Msg("sincronización retrospectiva no ejecutada")
			return
		}
		h.log.Info().
			Int("total", summary.Total).
			Int("success", summary.Success).
			Int("failed", summary.Failed).
			Msg("sincronización retrospectiva finalizada")
	}()

	return c.Status(fiber.StatusAccepted).JSON(dto.SyncStartedResponse{
		Message:   "Sincronización retrospectiva iniciada",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
