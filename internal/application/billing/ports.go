package billing

import (
	"context"

	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// de facturación atados a la tx. Toda mutación del agregado factura (cabecera,
// líneas, pagos) corre aquí: se bloquea la fila de la factura, se re-leen los
// hijos, se recalcula y se persiste, o nada de lo anterior (rollback).
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		serviceRepo repository.ServiceRepository,
		patientRepo repository.PatientRepository,
	) error) error
}

// ClinicInfo datos del emisor que encabezan la representación PDF.
type ClinicInfo struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
	Email   string
}

// InvoicePDFGenerator genera la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		clinic ClinicInfo,
		invoice *entity.Invoice,
		patient *entity.Patient,
		items []*repository.ItemRow,
	) ([]byte, error)
}
