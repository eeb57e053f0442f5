package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/application/stats"
)

// StatsHandler expone los agregados del panel de facturación (solo admin).
type StatsHandler struct {
	uc *stats.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *stats.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Get devuelve el resumen de facturación.
// GET /api/billing/stats
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StatsEnvelope{Success: true, Stats: out})
}
