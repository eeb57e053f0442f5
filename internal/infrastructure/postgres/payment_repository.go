package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago.
func (r *PaymentRepo) Create(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, amount, payment_method, payment_date,
			reference_number, notes, processed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.InvoiceID, payment.Amount, payment.PaymentMethod, payment.PaymentDate,
		nullIfEmpty(payment.ReferenceNumber), nullIfEmpty(payment.Notes),
		nullIfEmpty(payment.ProcessedBy), payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByInvoice lista los pagos de una factura, del más reciente al más antiguo.
func (r *PaymentRepo) ListByInvoice(invoiceID string) ([]*repository.PaymentRow, error) {
	query := `
		SELECT p.id, p.invoice_id, p.amount, p.payment_method, p.payment_date,
		       COALESCE(p.reference_number, ''), COALESCE(p.notes, ''),
		       COALESCE(p.processed_by, ''), p.created_at,
		       COALESCE(NULLIF(u.full_name, ''), u.username, '')
		FROM payments p
		LEFT JOIN users u ON u.id = p.processed_by
		WHERE p.invoice_id = $1
		ORDER BY p.payment_date DESC, p.created_at DESC`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []*repository.PaymentRow
	for rows.Next() {
		var row repository.PaymentRow
		if err := rows.Scan(
			&row.Payment.ID, &row.Payment.InvoiceID, &row.Payment.Amount,
			&row.Payment.PaymentMethod, &row.Payment.PaymentDate,
			&row.Payment.ReferenceNumber, &row.Payment.Notes,
			&row.Payment.ProcessedBy, &row.Payment.CreatedAt,
			&row.ProcessedByName,
		); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// SumByInvoice re-deriva paid_amount desde los pagos persistidos.
func (r *PaymentRepo) SumByInvoice(invoiceID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`,
		invoiceID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}
