package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount facturas agrupadas por estado.
type StatusCount struct {
	Status string
	Count  int
}

// MonthRevenue ingresos de un mes calendario ("YYYY-MM").
type MonthRevenue struct {
	Month   string
	Revenue decimal.Decimal
}

// StatsRepository consultas de agregación de solo lectura sobre facturas y pagos.
type StatsRepository interface {
	// CountInvoices total de facturas registradas.
	CountInvoices(ctx context.Context) (int, error)
	// Totals ingresos (Σ total_amount) y pagado (Σ paid_amount) globales.
	// Usa COALESCE para devolver cero si no hay facturas.
	Totals(ctx context.Context) (revenue, paid decimal.Decimal, err error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	// RevenueSince Σ total_amount de facturas con invoice_date >= from.
	RevenueSince(ctx context.Context, from time.Time) (decimal.Decimal, error)
	// RevenueByMonth ingresos agrupados por mes calendario desde from.
	// Los meses sin facturas no aparecen; el caso de uso rellena con cero.
	RevenueByMonth(ctx context.Context, from time.Time) ([]MonthRevenue, error)
}
