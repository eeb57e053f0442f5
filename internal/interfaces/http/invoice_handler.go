package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-api/internal/application/billing"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas y sus líneas (protegido).
type InvoiceHandler struct {
	invoiceUC *billing.InvoiceUseCase
	pdfUC     *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoiceUC *billing.InvoiceUseCase, pdfUC *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, pdfUC: pdfUC}
}

// List lista facturas con filtros y paginación.
// GET /api/billing/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.ListInvoicesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("parámetros de consulta inválidos"))
	}
	invoices, pagination, err := h.invoiceUC.ListInvoices(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InvoiceListEnvelope{
		Success:    true,
		Invoices:   invoices,
		Pagination: pagination,
	})
}

// Create crea una factura con sus líneas.
// POST /api/billing/invoices/create
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("cuerpo inválido"))
	}
	invoice, err := h.invoiceUC.CreateInvoice(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InvoiceEnvelope{
		Success: true,
		Message: "factura creada",
		Invoice: invoice,
	})
}

// GetByID obtiene el detalle completo de una factura.
// GET /api/billing/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InvoiceEnvelope{Success: true, Invoice: invoice})
}

// Update actualiza los campos editables de la cabecera.
// PUT /api/billing/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("cuerpo inválido"))
	}
	invoice, err := h.invoiceUC.UpdateInvoice(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InvoiceEnvelope{
		Success: true,
		Message: "factura actualizada",
		Invoice: invoice,
	})
}

// Delete elimina una factura con líneas y pagos en cascada (solo admin).
// DELETE /api/billing/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoiceUC.DeleteInvoice(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "factura eliminada"})
}

// PDF descarga la representación PDF de la factura.
// GET /api/billing/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.GenerateInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// AddItem agrega una línea a la factura.
// POST /api/billing/invoices/:id/items
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	var in dto.InvoiceItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("cuerpo inválido"))
	}
	invoice, err := h.invoiceUC.AddItem(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InvoiceEnvelope{
		Success: true,
		Message: "línea agregada",
		Invoice: invoice,
	})
}

// UpdateItem actualiza una línea de la factura.
// PUT /api/billing/invoices/:id/items/:itemId
func (h *InvoiceHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("cuerpo inválido"))
	}
	invoice, err := h.invoiceUC.UpdateItem(c.Context(), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InvoiceEnvelope{
		Success: true,
		Message: "línea actualizada",
		Invoice: invoice,
	})
}

// RemoveItem elimina una línea de la factura.
// DELETE /api/billing/invoices/:id/items/:itemId
func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.RemoveItem(c.Context(), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InvoiceEnvelope{
		Success: true,
		Message: "línea eliminada",
		Invoice: invoice,
	})
}
