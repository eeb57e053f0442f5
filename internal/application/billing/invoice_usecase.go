package billing

import (
	"context"
	"errors"
	"fmt"
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

const dateLayout = "2006-01-02"

// createMaxAttempts reintentos de la transacción de creación ante una colisión
// del consecutivo (constraint único de invoice_number).
const createMaxAttempts = 3

// InvoiceUseCase casos de uso del agregado factura: CRUD de cabecera y líneas.
// Toda mutación corre en una transacción que bloquea la factura, re-lee los
// hijos, recalcula los campos derivados y persiste — o hace rollback completo.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	serviceRepo repository.ServiceRepository
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
	clk         clock.Clock
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	serviceRepo repository.ServiceRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	clk clock.Clock,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		serviceRepo: serviceRepo,
		patientRepo: patientRepo,
		userRepo:    userRepo,
		clk:         clk,
	}
}

// CreateInvoice crea una factura con sus líneas anidadas en una sola
// transacción. El consecutivo se genera dentro de la transacción y se
// reintenta completa ante una colisión del constraint único.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	fieldErrs := map[string]string{}

	// 1) Validación de cabecera
	if in.PatientID == "" {
		fieldErrs["patient_id"] = "requerido"
	}
	invoiceDate, err := time.Parse(dateLayout, in.InvoiceDate)
	if err != nil {
		fieldErrs["invoice_date"] = "fecha inválida, formato YYYY-MM-DD"
	}
	dueDate, err := time.Parse(dateLayout, in.DueDate)
	if err != nil {
		fieldErrs["due_date"] = "fecha inválida, formato YYYY-MM-DD"
	}
	if in.TaxRate.LessThan(decimal.Zero) {
		fieldErrs["tax_rate"] = "no puede ser negativo"
	}
	if in.Discount.LessThan(decimal.Zero) {
		fieldErrs["discount"] = "no puede ser negativo"
	}

	// 2) Validar paciente y servicios (solo lectura, fuera de la tx)
	var patient *entity.Patient
	if in.PatientID != "" {
		patient, err = uc.patientRepo.GetByID(in.PatientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			fieldErrs["patient_id"] = "paciente no existe"
		}
	}
	servicesByID := make(map[string]*entity.Service)
	for i, item := range in.Items {
		key := fmt.Sprintf("items[%d]", i)
		if item.ServiceID == "" {
			fieldErrs[key+".service_id"] = "requerido"
			continue
		}
		if item.Quantity.LessThan(decimal.Zero) {
			fieldErrs[key+".quantity"] = "no puede ser negativa"
		}
		if item.UnitPrice != nil && item.UnitPrice.LessThan(decimal.Zero) {
			fieldErrs[key+".unit_price"] = "no puede ser negativo"
		}
		if _, ok := servicesByID[item.ServiceID]; ok {
			continue
		}
		svc, err := uc.serviceRepo.GetByID(item.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			fieldErrs[key+".service_id"] = "servicio no existe"
			continue
		}
		servicesByID[item.ServiceID] = svc
	}
	if len(fieldErrs) > 0 {
		return nil, domain.NewValidationError(fieldErrs)
	}

	// 3) Construir el agregado completo antes de insertar: líneas con total,
	// subtotal derivado y recálculo de impuestos/total/saldo.
	now := uc.clk.Now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		PatientID:   in.PatientID,
		Status:      entity.InvoiceStatusDraft,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		TaxRate:     in.TaxRate,
		Discount:    in.Discount,
		Notes:       in.Notes,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*entity.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		svc := servicesByID[it.ServiceID]
		unitPrice := svc.Price // precio del catálogo al momento de crear la línea
		if it.UnitPrice != nil {
			unitPrice = *it.UnitPrice
		}
		items = append(items, &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			ServiceID:   it.ServiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   unitPrice,
			Total:       domainbilling.ItemTotal(it.Quantity, unitPrice),
		})
	}
	inv.Subtotal = domainbilling.Subtotal(items)
	domainbilling.Recompute(inv)

	// 4) Transacción con reintento: leer el último consecutivo, asignar el
	// siguiente e insertar. Una creación concurrente puede ganar la carrera;
	// el constraint único la detecta y se reintenta desde cero.
	for attempt := 1; ; attempt++ {
		err = uc.txRunner.RunBilling(ctx, func(
			invoiceRepo repository.InvoiceRepository,
			_ repository.PaymentRepository,
			_ repository.ServiceRepository,
			_ repository.PatientRepository,
		) error {
			last, err := invoiceRepo.LastInvoiceNumber()
			if err != nil {
				return err
			}
			inv.InvoiceNumber = domainbilling.NextInvoiceNumber(last, now)
			if err := invoiceRepo.Create(inv); err != nil {
				return err
			}
			for _, item := range items {
				if err := invoiceRepo.CreateItem(item); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil || !errors.Is(err, domain.ErrDuplicate) || attempt >= createMaxAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	itemRows := make([]*repository.ItemRow, 0, len(items))
	for _, item := range items {
		itemRows = append(itemRows, &repository.ItemRow{
			Item:        *item,
			ServiceName: servicesByID[item.ServiceID].Name,
		})
	}
	return uc.buildResponse(inv, patient, itemRows, nil), nil
}

// GetInvoice obtiene una factura con líneas, pagos y datos del paciente.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.ListItems(id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByInvoice(id)
	if err != nil {
		return nil, err
	}
	patient, err := uc.patientRepo.GetByID(inv.PatientID)
	if err != nil {
		return nil, err
	}
	return uc.buildResponse(inv, patient, items, payments), nil
}

// ListInvoices lista facturas con filtros de estado, paciente y rango de
// fechas; paginación 1-indexada.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, in dto.ListInvoicesRequest) ([]dto.InvoiceResponse, dto.Pagination, error) {
	page := dto.PageRequest{Page: in.Page, PageSize: in.PageSize}
	page.Normalize()

	filter := repository.InvoiceFilter{
		Status:    in.Status,
		PatientID: in.PatientID,
		Limit:     page.PageSize,
		Offset:    page.Offset(),
	}
	fieldErrs := map[string]string{}
	if in.StartDate != "" {
		t, err := time.Parse(dateLayout, in.StartDate)
		if err != nil {
			fieldErrs["start_date"] = "fecha inválida, formato YYYY-MM-DD"
		} else {
			filter.StartDate = &t
		}
	}
	if in.EndDate != "" {
		t, err := time.Parse(dateLayout, in.EndDate)
		if err != nil {
			fieldErrs["end_date"] = "fecha inválida, formato YYYY-MM-DD"
		} else {
			filter.EndDate = &t
		}
	}
	if len(fieldErrs) > 0 {
		return nil, dto.Pagination{}, domain.NewValidationError(fieldErrs)
	}

	total, err := uc.invoiceRepo.Count(filter)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	rows, err := uc.invoiceRepo.List(filter)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	out := make([]dto.InvoiceResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToResponse(row))
	}
	return out, dto.NewPagination(total, page), nil
}

// UpdateInvoice actualiza los campos editables de la cabecera (paciente,
// fechas, tax_rate, descuento, notas) y recalcula los derivados. El número,
// el estado y los montos derivados son de solo lectura.
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	fieldErrs := map[string]string{}
	var invoiceDate, dueDate *time.Time
	if in.InvoiceDate != nil {
		t, err := time.Parse(dateLayout, *in.InvoiceDate)
		if err != nil {
			fieldErrs["invoice_date"] = "fecha inválida, formato YYYY-MM-DD"
		} else {
			invoiceDate = &t
		}
	}
	if in.DueDate != nil {
		t, err := time.Parse(dateLayout, *in.DueDate)
		if err != nil {
			fieldErrs["due_date"] = "fecha inválida, formato YYYY-MM-DD"
		} else {
			dueDate = &t
		}
	}
	if in.TaxRate != nil && in.TaxRate.LessThan(decimal.Zero) {
		fieldErrs["tax_rate"] = "no puede ser negativo"
	}
	if in.Discount != nil && in.Discount.LessThan(decimal.Zero) {
		fieldErrs["discount"] = "no puede ser negativo"
	}
	if in.PatientID != nil {
		patient, err := uc.patientRepo.GetByID(*in.PatientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			fieldErrs["patient_id"] = "paciente no existe"
		}
	}
	if len(fieldErrs) > 0 {
		return nil, domain.NewValidationError(fieldErrs)
	}

	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
		_ repository.ServiceRepository,
		_ repository.PatientRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if in.PatientID != nil {
			inv.PatientID = *in.PatientID
		}
		if invoiceDate != nil {
			inv.InvoiceDate = *invoiceDate
		}
		if dueDate != nil {
			inv.DueDate = *dueDate
		}
		if in.TaxRate != nil {
			inv.TaxRate = *in.TaxRate
		}
		if in.Discount != nil {
			inv.Discount = *in.Discount
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		// Re-derivar el subtotal de las líneas y recalcular
		subtotal, err := invoiceRepo.SumItemTotals(id)
		if err != nil {
			return err
		}
		inv.Subtotal = subtotal
		domainbilling.Recompute(inv)
		inv.UpdatedAt = uc.clk.Now()
		return invoiceRepo.Update(inv)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetInvoice(ctx, id)
}

// DeleteInvoice elimina la factura; líneas y pagos caen en cascada.
// Operación administrativa: el router la restringe a admin.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, id string) error {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	return uc.invoiceRepo.Delete(id)
}

// buildResponse arma la respuesta completa de una factura.
func (uc *InvoiceUseCase) buildResponse(
	inv *entity.Invoice,
	patient *entity.Patient,
	items []*repository.ItemRow,
	payments []*repository.PaymentRow,
) *dto.InvoiceResponse {
	resp := invoiceToResponse(inv)
	if patient != nil {
		resp.PatientName = patient.FullName()
		resp.PatientEmail = patient.Email
		resp.PatientPhone = patient.PhoneNumber
	}
	if inv.CreatedBy != "" {
		if creator, err := uc.userRepo.GetByID(inv.CreatedBy); err == nil && creator != nil {
			resp.CreatedByName = creator.DisplayName()
		}
	}
	resp.Items = itemsToResponses(items)
	resp.Payments = paymentsToResponses(payments)
	return &resp
}
