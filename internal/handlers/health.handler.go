package handlers

import (
	"github.com/fasthttp/router"
	xhttp "github.com/nimasrn/clinic-whatsapp/pkg/http"
	"github.com/nimasrn/clinic-whatsapp/pkg/logger"
)

type HealthService interface {
	Get() error
}
type HealthHandler struct {
	healthService HealthService
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.healthService.Get(); err != nil {
		logger.Warn("health check failed", "error", err)
		writeError(ctx, xhttp.StatusServiceUnavailable, err.Error())
		return
	}
	ctx.Response.SetBodyString("success")
}
