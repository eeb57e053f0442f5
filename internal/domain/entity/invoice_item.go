package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea facturable de una factura.
// UnitPrice se copia del servicio al crear la línea (cambios posteriores de
// tarifa no afectan facturas ya emitidas) y puede sobreescribirse.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	ServiceID   string
	Description string          // texto libre; si va vacío se muestra el nombre del servicio
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal // Quantity * UnitPrice
}
