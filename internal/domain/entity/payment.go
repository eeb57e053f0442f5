package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago soportados.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodCheck        = "check"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodInsurance    = "insurance"
	PaymentMethodOther        = "other"
)

// ValidPaymentMethod verifica que el método esté dentro del catálogo soportado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodCheck,
		PaymentMethodBankTransfer, PaymentMethodInsurance, PaymentMethodOther:
		return true
	}
	return false
}

// Payment es un abono aplicado contra una factura. Los pagos solo se crean;
// no se editan ni se eliminan desde la API.
type Payment struct {
	ID              string
	InvoiceID       string
	Amount          decimal.Decimal // > 0
	PaymentMethod   string
	PaymentDate     time.Time
	ReferenceNumber string
	Notes           string
	ProcessedBy     string
	CreatedAt       time.Time
}
