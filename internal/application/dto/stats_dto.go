package dto

import "github.com/shopspring/decimal"

// StatusBreakdown conteo de facturas por estado con nombre legible.
type StatusBreakdown struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthRevenue ingresos de un mes calendario.
type MonthRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
}

// BillingStats agregados de facturación para GET /api/billing/stats.
type BillingStats struct {
	TotalInvoices  int                        `json:"total_invoices"`
	TotalRevenue   decimal.Decimal            `json:"total_revenue"`
	TotalPaid      decimal.Decimal            `json:"total_paid"`
	TotalPending   decimal.Decimal            `json:"total_pending"` // revenue - paid
	RecentRevenue  decimal.Decimal            `json:"recent_revenue"` // últimos 30 días
	ByStatus       map[string]StatusBreakdown `json:"by_status"`
	MonthlyRevenue []MonthRevenue             `json:"monthly_revenue"` // 6 meses calendario
}

// StatsEnvelope respuesta del endpoint de estadísticas.
type StatsEnvelope struct {
	Success bool          `json:"success"`
	Stats   *BillingStats `json:"stats"`
}
