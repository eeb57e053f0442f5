package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain"
	domainbilling "github.com/tu-usuario/clinica-api/internal/domain/billing"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
	"github.com/tu-usuario/clinica-api/pkg/clock"
)

// PaymentUseCase registra abonos contra facturas. Un pago nunca se edita ni
// se elimina; el efecto financiero se refleja recalculando la factura en la
// misma transacción.
type PaymentUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	clk         clock.Clock
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	clk clock.Clock,
) *PaymentUseCase {
	return &PaymentUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		clk:         clk,
	}
}

// RecordPayment valida y registra un pago, recalculando paid_amount, balance
// y status de la factura en la misma transacción. Se acepta el sobrepago:
// la factura queda en paid con balance negativo.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, userID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, *dto.InvoiceResponse, error) {
	fieldErrs := map[string]string{}
	if in.InvoiceID == "" {
		fieldErrs["invoice_id"] = "requerido"
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		fieldErrs["amount"] = "debe ser mayor que cero"
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		fieldErrs["payment_method"] = "método de pago no soportado"
	}
	paymentDate, err := time.Parse(dateLayout, in.PaymentDate)
	if err != nil {
		fieldErrs["payment_date"] = "fecha inválida, formato YYYY-MM-DD"
	}
	if len(fieldErrs) > 0 {
		return nil, nil, domain.NewValidationError(fieldErrs)
	}

	payment := &entity.Payment{
		ID:              uuid.New().String(),
		InvoiceID:       in.InvoiceID,
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		PaymentDate:     paymentDate,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		ProcessedBy:     userID,
		CreatedAt:       uc.clk.Now(),
	}
	var inv *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.ServiceRepository,
		_ repository.PatientRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetByIDForUpdate(in.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			// La factura destino no existe: 404, no error de validación.
			return domain.ErrNotFound
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		paid, err := paymentRepo.SumByInvoice(in.InvoiceID)
		if err != nil {
			return err
		}
		inv.PaidAmount = paid
		domainbilling.Recompute(inv)
		inv.UpdatedAt = uc.clk.Now()
		return invoiceRepo.Update(inv)
	})
	if err != nil {
		return nil, nil, err
	}

	row := &repository.PaymentRow{Payment: *payment}
	if processedBy, err := uc.userRepo.GetByID(userID); err == nil && processedBy != nil {
		row.ProcessedByName = processedBy.DisplayName()
	}
	paymentResp := paymentsToResponses([]*repository.PaymentRow{row})[0]
	invoiceResp := invoiceToResponse(inv)
	return &paymentResp, &invoiceResp, nil
}
