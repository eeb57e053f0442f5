package billing

import (
	"time"

	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
)

// Conversión entidad -> DTO. Las fechas de negocio salen como YYYY-MM-DD;
// los timestamps como RFC 3339. Los slices van siempre no nulos para que el
// JSON serialice [] en vez de null.

func invoiceToResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		PatientID:     inv.PatientID,
		Status:        inv.Status,
		InvoiceDate:   inv.InvoiceDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		Discount:      inv.Discount,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		Balance:       inv.Balance,
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     inv.UpdatedAt.Format(time.RFC3339),
		Items:         []dto.InvoiceItemResponse{},
		Payments:      []dto.PaymentResponse{},
	}
}

func rowToResponse(row *repository.InvoiceRow) dto.InvoiceResponse {
	resp := invoiceToResponse(&row.Invoice)
	resp.PatientName = row.PatientName
	resp.PatientEmail = row.PatientEmail
	resp.PatientPhone = row.PatientPhone
	resp.CreatedByName = row.CreatedByName
	return resp
}

func itemsToResponses(items []*repository.ItemRow) []dto.InvoiceItemResponse {
	out := make([]dto.InvoiceItemResponse, 0, len(items))
	for _, row := range items {
		out = append(out, dto.InvoiceItemResponse{
			ID:          row.Item.ID,
			ServiceID:   row.Item.ServiceID,
			ServiceName: row.ServiceName,
			Description: row.Item.Description,
			Quantity:    row.Item.Quantity,
			UnitPrice:   row.Item.UnitPrice,
			Total:       row.Item.Total,
		})
	}
	return out
}

func paymentsToResponses(payments []*repository.PaymentRow) []dto.PaymentResponse {
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, row := range payments {
		out = append(out, dto.PaymentResponse{
			ID:              row.Payment.ID,
			InvoiceID:       row.Payment.InvoiceID,
			Amount:          row.Payment.Amount,
			PaymentMethod:   row.Payment.PaymentMethod,
			PaymentDate:     row.Payment.PaymentDate.Format(dateLayout),
			ReferenceNumber: row.Payment.ReferenceNumber,
			Notes:           row.Payment.Notes,
			ProcessedBy:     row.Payment.ProcessedBy,
			ProcessedByName: row.ProcessedByName,
			CreatedAt:       row.Payment.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
