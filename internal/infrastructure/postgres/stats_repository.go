package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de agregación de solo lectura para el panel.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// CountInvoices total de facturas registradas.
func (r *StatsRepo) CountInvoices(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// Totals ingresos y pagado globales; COALESCE devuelve cero sin facturas.
func (r *StatsRepo) Totals(ctx context.Context) (revenue, paid decimal.Decimal, err error) {
	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(paid_amount), 0)
		FROM invoices`).Scan(&revenue, &paid)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invoice totals: %w", err)
	}
	return revenue, paid, nil
}

// CountByStatus facturas agrupadas por estado.
func (r *StatsRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT status, COUNT(*) FROM invoices GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	var list []repository.StatusCount
	for rows.Next() {
		var c repository.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// RevenueSince Σ total_amount de facturas con invoice_date >= from.
func (r *StatsRepo) RevenueSince(ctx context.Context, from time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE invoice_date >= $1`,
		from).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("recent revenue: %w", err)
	}
	return sum, nil
}

// RevenueByMonth ingresos agrupados por mes calendario desde from.
// Los meses sin facturación no aparecen en el resultado.
func (r *StatsRepo) RevenueByMonth(ctx context.Context, from time.Time) ([]repository.MonthRevenue, error) {
	rows, err := r.q.Query(ctx, `
		SELECT to_char(date_trunc('month', invoice_date), 'YYYY-MM') AS month,
		       COALESCE(SUM(total_amount), 0)
		FROM invoices
		WHERE invoice_date >= $1
		GROUP BY month
		ORDER BY month`, from)
	if err != nil {
		return nil, fmt.Errorf("revenue by month: %w", err)
	}
	defer rows.Close()

	var list []repository.MonthRevenue
	for rows.Next() {
		var m repository.MonthRevenue
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, fmt.Errorf("scan month revenue: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
