package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain"
	domainbilling "github.com/tu-usuario/clinica-api/internal/domain/billing"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
)

// Operaciones sobre líneas de una factura existente. Cada mutación bloquea
// la cabecera, aplica el cambio, re-deriva el subtotal desde las líneas
// persistidas y recalcula los campos derivados — todo en una transacción.

// AddItem agrega una línea a la factura y recalcula la cabecera.
func (uc *InvoiceUseCase) AddItem(ctx context.Context, invoiceID string, in dto.InvoiceItemRequest) (*dto.InvoiceResponse, error) {
	fieldErrs := map[string]string{}
	if in.ServiceID == "" {
		fieldErrs["service_id"] = "requerido"
	}
	if in.Quantity.LessThan(decimal.Zero) {
		fieldErrs["quantity"] = "no puede ser negativa"
	}
	if in.UnitPrice != nil && in.UnitPrice.LessThan(decimal.Zero) {
		fieldErrs["unit_price"] = "no puede ser negativo"
	}
	var svc *entity.Service
	if in.ServiceID != "" {
		var err error
		svc, err = uc.serviceRepo.GetByID(in.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			fieldErrs["service_id"] = "servicio no existe"
		}
	}
	if len(fieldErrs) > 0 {
		return nil, domain.NewValidationError(fieldErrs)
	}

	unitPrice := svc.Price
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
		_ repository.ServiceRepository,
		_ repository.PatientRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		item := &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			ServiceID:   in.ServiceID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   unitPrice,
			Total:       domainbilling.ItemTotal(in.Quantity, unitPrice),
		}
		if err := invoiceRepo.CreateItem(item); err != nil {
			return err
		}
		return uc.recomputeLocked(invoiceRepo, inv)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetInvoice(ctx, invoiceID)
}

// UpdateItem actualiza una línea existente y recalcula la cabecera.
// Campos nil no se tocan; el servicio de la línea es inmutable.
func (uc *InvoiceUseCase) UpdateItem(ctx context.Context, invoiceID, itemID string, in dto.UpdateItemRequest) (*dto.InvoiceResponse, error) {
	fieldErrs := map[string]string{}
	if in.Quantity != nil && in.Quantity.LessThan(decimal.Zero) {
		fieldErrs["quantity"] = "no puede ser negativa"
	}
	if in.UnitPrice != nil && in.UnitPrice.LessThan(decimal.Zero) {
		fieldErrs["unit_price"] = "no puede ser negativo"
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
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		item, err := invoiceRepo.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil || item.InvoiceID != invoiceID {
			return domain.ErrNotFound
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
		item.Total = domainbilling.ItemTotal(item.Quantity, item.UnitPrice)
		if err := invoiceRepo.UpdateItem(item); err != nil {
			return err
		}
		return uc.recomputeLocked(invoiceRepo, inv)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetInvoice(ctx, invoiceID)
}

// RemoveItem elimina una línea y recalcula la cabecera.
func (uc *InvoiceUseCase) RemoveItem(ctx context.Context, invoiceID, itemID string) (*dto.InvoiceResponse, error) {
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
		_ repository.ServiceRepository,
		_ repository.PatientRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		item, err := invoiceRepo.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil || item.InvoiceID != invoiceID {
			return domain.ErrNotFound
		}
		if err := invoiceRepo.DeleteItem(itemID); err != nil {
			return err
		}
		return uc.recomputeLocked(invoiceRepo, inv)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetInvoice(ctx, invoiceID)
}

// recomputeLocked re-deriva el subtotal desde las líneas persistidas,
// recalcula los campos derivados y persiste la cabecera. Requiere la fila
// de la factura ya bloqueada en la transacción actual.
func (uc *InvoiceUseCase) recomputeLocked(invoiceRepo repository.InvoiceRepository, inv *entity.Invoice) error {
	subtotal, err := invoiceRepo.SumItemTotals(inv.ID)
	if err != nil {
		return err
	}
	inv.Subtotal = subtotal
	domainbilling.Recompute(inv)
	inv.UpdatedAt = uc.clk.Now()
	return invoiceRepo.Update(inv)
}
