package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/clinica-api/internal/domain"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
)

// PDFUseCase genera la representación PDF de una factura.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	patientRepo repository.PatientRepository
	generator   InvoicePDFGenerator
	clinic      ClinicInfo
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	generator InvoicePDFGenerator,
	clinic ClinicInfo,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		patientRepo: patientRepo,
		generator:   generator,
		clinic:      clinic,
	}
}

// GenerateInvoicePDF arma el PDF de la factura y devuelve los bytes junto
// con el nombre de archivo sugerido (factura_<número>.pdf).
func (uc *PDFUseCase) GenerateInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	patient, err := uc.patientRepo.GetByID(inv.PatientID)
	if err != nil {
		return nil, "", err
	}
	items, err := uc.invoiceRepo.ListItems(invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, uc.clinic, inv, patient, items)
	if err != nil {
		return nil, "", fmt.Errorf("generando PDF de la factura %s: %w", inv.InvoiceNumber, err)
	}
	filename := fmt.Sprintf("factura_%s.pdf", inv.InvoiceNumber)
	return pdfBytes, filename, nil
}
