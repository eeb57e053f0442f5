package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service es un ítem facturable del catálogo de la clínica.
// No puede eliminarse mientras alguna línea de factura lo referencie
// (protect-on-delete a nivel de FK).
type Service struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
