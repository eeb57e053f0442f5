package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
)

// PaymentRow pago con el nombre de quien lo procesó resuelto por join.
type PaymentRow struct {
	Payment         entity.Payment
	ProcessedByName string // full_name con fallback a username
}

// PaymentRepository define el puerto de persistencia para Payment.
// Los pagos solo se crean; la superficie observada no los edita ni elimina.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	ListByInvoice(invoiceID string) ([]*PaymentRow, error)
	// SumByInvoice re-deriva paid_amount desde los pagos persistidos.
	SumByInvoice(invoiceID string) (decimal.Decimal, error)
}
