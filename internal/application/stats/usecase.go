// Package stats agrega los indicadores del panel de facturación:
// totales globales, desglose por estado, ingresos recientes y la
// tendencia de los últimos seis meses calendario.
package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
	"github.com/tu-usuario/clinica-api/pkg/clock"
)

const (
	recentWindowDays = 30
	trendMonths      = 6
)

// StatsUseCase calcula los agregados de facturación. Las ventanas de tiempo
// se anclan al Clock inyectado para que los cortes sean deterministas en tests.
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	clk       clock.Clock
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(statsRepo repository.StatsRepository, clk clock.Clock) *StatsUseCase {
	return &StatsUseCase{statsRepo: statsRepo, clk: clk}
}

// GetStats arma el resumen completo del panel.
func (uc *StatsUseCase) GetStats(ctx context.Context) (*dto.BillingStats, error) {
	now := uc.clk.Now()

	total, err := uc.statsRepo.CountInvoices(ctx)
	if err != nil {
		return nil, err
	}
	revenue, paid, err := uc.statsRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := uc.statsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := uc.statsRepo.RevenueSince(ctx, now.AddDate(0, 0, -recentWindowDays))
	if err != nil {
		return nil, err
	}

	// Tendencia mensual: seis meses calendario terminando en el mes actual.
	// Los meses sin facturación se rellenan con cero.
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)
	byMonth, err := uc.statsRepo.RevenueByMonth(ctx, firstMonth)
	if err != nil {
		return nil, err
	}
	revenueByMonth := make(map[string]decimal.Decimal, len(byMonth))
	for _, m := range byMonth {
		revenueByMonth[m.Month] = m.Revenue
	}
	monthly := make([]dto.MonthRevenue, 0, trendMonths)
	for i := 0; i < trendMonths; i++ {
		month := firstMonth.AddDate(0, i, 0).Format("2006-01")
		rev, ok := revenueByMonth[month]
		if !ok {
			rev = decimal.Zero
		}
		monthly = append(monthly, dto.MonthRevenue{Month: month, Revenue: rev})
	}

	byStatus := make(map[string]dto.StatusBreakdown, len(counts))
	for _, c := range counts {
		name, ok := entity.InvoiceStatusNames[c.Status]
		if !ok {
			name = c.Status
		}
		byStatus[c.Status] = dto.StatusBreakdown{Name: name, Count: c.Count}
	}

	return &dto.BillingStats{
		TotalInvoices:  total,
		TotalRevenue:   revenue,
		TotalPaid:      paid,
		TotalPending:   revenue.Sub(paid),
		RecentRevenue:  recent,
		ByStatus:       byStatus,
		MonthlyRevenue: monthly,
	}, nil
}
