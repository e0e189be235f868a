package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-sync/internal/application/dto"
)

// HealthHandler expone el descriptor del servicio y el health check.
type HealthHandler struct {
	db       DBPinger
	upstream UpstreamHealthChecker
	appName  string
}

// NewHealthHandler construye el handler.
func NewHealthHandler(db DBPinger, upstream UpstreamHealthChecker, appName string) *HealthHandler {
	return &HealthHandler{db: db, upstream: upstream, appName: appName}
}

// Info godoc
// @Summary      Descriptor del servicio
// @Tags         service
// @Produce      json
// @Success      200  {object}  dto.ServiceInfoResponse
// @Router       / [get]
func (h *HealthHandler) Info(c *fiber.Ctx) error {
	return c.JSON(dto.ServiceInfoResponse{
		Service: h.appName,
		Version: "1.0.0",
		Status:  "running",
		Endpoints: map[string]string{
			"health":            "/health",
			"authToken":         "/api/auth/token",
			"syncManual":        "/api/sync/manual",
			"syncStatus":        "/api/sync/status",
			"syncRetrospective": "/api/sync/retrospective",
		},
	})
}

// Health godoc
// @Summary      Estado del servicio y sus dependencias
// @Tags         service
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	dbStatus := "connected"
	if err := h.db.Ping(c.Context()); err != nil {
		dbStatus = "disconnected"
	}
	apiStatus := "unreachable"
	if h.upstream.HealthCheck(c.Context()) {
		apiStatus = "ok"
	}
	return c.JSON(dto.HealthResponse{
		Status:      "ok",
		Database:    dbStatus,
		UpstreamAPI: apiStatus,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}
