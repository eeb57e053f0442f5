package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-api/internal/application/billing"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
)

// ServiceHandler CRUD del catálogo de servicios (protegido).
type ServiceHandler struct {
	uc *billing.ServiceUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *billing.ServiceUseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

// List lista los servicios activos.
// GET /api/billing/services
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	services, err := h.uc.ListServices(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ServiceListEnvelope{Success: true, Services: services})
}

// Create da de alta un servicio.
// POST /api/billing/services/create
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("cuerpo inválido"))
	}
	service, err := h.uc.CreateService(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ServiceEnvelope{
		Success: true,
		Message: "servicio creado",
		Service: service,
	})
}

// Update actualiza un servicio (incluye activar/desactivar).
// PUT /api/billing/services/:id
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("cuerpo inválido"))
	}
	service, err := h.uc.UpdateService(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ServiceEnvelope{
		Success: true,
		Message: "servicio actualizado",
		Service: service,
	})
}

// Delete elimina un servicio sin facturas asociadas.
// DELETE /api/billing/services/:id
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteService(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "servicio eliminado"})
}
