package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. La transición es derivada: el motor de facturación
// la recalcula en cada mutación a partir de (balance, paid_amount, estado previo).
const (
	InvoiceStatusDraft     = "draft"     // Creada, sin pagos; editable
	InvoiceStatusPending   = "pending"   // Emitida, sin pagos registrados
	InvoiceStatusPartial   = "partial"   // Con pagos, saldo pendiente
	InvoiceStatusPaid      = "paid"      // Saldo en cero con al menos un pago
	InvoiceStatusCancelled = "cancelled" // Anulada (operación administrativa)
)

// InvoiceStatusNames nombre legible por estado (para la respuesta de estadísticas).
var InvoiceStatusNames = map[string]string{
	InvoiceStatusDraft:     "Draft",
	InvoiceStatusPending:   "Pending",
	InvoiceStatusPartial:   "Partially Paid",
	InvoiceStatusPaid:      "Paid",
	InvoiceStatusCancelled: "Cancelled",
}

// Invoice es la raíz del agregado de facturación: subtotal, impuestos, total,
// pagado y saldo son campos derivados; la única fuente de verdad son las líneas
// y los pagos hijos.
type Invoice struct {
	ID            string
	InvoiceNumber string // único e inmutable una vez asignado (INV-YYYYMMDD-NNNN)
	PatientID     string
	Status        string
	InvoiceDate   time.Time
	DueDate       time.Time
	Subtotal      decimal.Decimal // Σ item.Total
	TaxRate       decimal.Decimal // porcentaje (8 = 8%)
	TaxAmount     decimal.Decimal // (Subtotal - Discount) * TaxRate/100
	Discount      decimal.Decimal
	TotalAmount   decimal.Decimal // (Subtotal - Discount) + TaxAmount
	PaidAmount    decimal.Decimal // Σ payment.Amount
	Balance       decimal.Decimal // TotalAmount - PaidAmount
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
