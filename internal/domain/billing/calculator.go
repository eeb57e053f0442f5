// Package billing contiene el motor financiero de facturas: aritmética
// decimal de punto fijo (2 decimales) y la regla de transición de estados.
// Todo es puro: sin I/O, sin reloj, sin acceso a base de datos.
package billing

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ItemTotal calcula el total de una línea: cantidad × precio unitario,
// redondeado a 2 decimales (moneda de punto fijo).
func ItemTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// Subtotal suma los totales de todas las líneas de la factura.
func Subtotal(items []*entity.InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Total)
	}
	return sum
}

// Recompute deriva tax_amount, total_amount, balance y status a partir de
// (subtotal, discount, tax_rate, paid_amount, estado previo). Debe invocarse
// después de cada mutación de la factura o de sus líneas/pagos, con Subtotal
// y PaidAmount ya re-derivados de los hijos.
//
// Regla de estado (primera coincidencia gana):
//  1. balance <= 0 y paid_amount > 0        -> paid
//  2. paid_amount > 0 y balance > 0         -> partial
//  3. paid_amount == 0 y estado != draft    -> pending
//  4. resto (paid_amount == 0, draft)       -> sin cambio
func Recompute(inv *entity.Invoice) {
	afterDiscount := inv.Subtotal.Sub(inv.Discount)
	// El impuesto se cuantiza a 2 decimales; total y balance se derivan de
	// forma aditiva para que las invariantes de suma se cumplan exactas.
	inv.TaxAmount = afterDiscount.Mul(inv.TaxRate).Div(hundred).Round(2)
	inv.TotalAmount = afterDiscount.Add(inv.TaxAmount)
	inv.Balance = inv.TotalAmount.Sub(inv.PaidAmount)

	switch {
	case inv.Balance.LessThanOrEqual(decimal.Zero) && inv.PaidAmount.GreaterThan(decimal.Zero):
		inv.Status = entity.InvoiceStatusPaid
	case inv.PaidAmount.GreaterThan(decimal.Zero) && inv.Balance.GreaterThan(decimal.Zero):
		inv.Status = entity.InvoiceStatusPartial
	case inv.PaidAmount.IsZero() && inv.Status != entity.InvoiceStatusDraft:
		inv.Status = entity.InvoiceStatusPending
	}
}
