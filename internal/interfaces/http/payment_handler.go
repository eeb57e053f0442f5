package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-api/internal/application/billing"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
)

// PaymentHandler registra pagos contra facturas (protegido).
type PaymentHandler struct {
	uc *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Create registra un pago y devuelve la factura recalculada.
// POST /api/billing/payments/create
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("cuerpo inválido"))
	}
	payment, invoice, err := h.uc.RecordPayment(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PaymentEnvelope{
		Success: true,
		Message: "pago registrado",
		Payment: payment,
		Invoice: invoice,
	})
}
