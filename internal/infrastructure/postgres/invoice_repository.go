package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/domain"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, patient_id, status, invoice_date, due_date,
	subtotal, tax_rate, tax_amount, discount, total_amount, paid_amount, balance,
	notes, created_by, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber, invoice.PatientID, invoice.Status,
		invoice.InvoiceDate, invoice.DueDate,
		invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.Discount,
		invoice.TotalAmount, invoice.PaidAmount, invoice.Balance,
		nullIfEmpty(invoice.Notes), nullIfEmpty(invoice.CreatedBy),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update persiste los campos mutables y derivados de la cabecera.
// El número de factura es inmutable y no se toca.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET patient_id   = $2,
		    status       = $3,
		    invoice_date = $4,
		    due_date     = $5,
		    subtotal     = $6,
		    tax_rate     = $7,
		    tax_amount   = $8,
		    discount     = $9,
		    total_amount = $10,
		    paid_amount  = $11,
		    balance      = $12,
		    notes        = $13,
		    updated_at   = $14
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.PatientID, invoice.Status, invoice.InvoiceDate, invoice.DueDate,
		invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.Discount,
		invoice.TotalAmount, invoice.PaidAmount, invoice.Balance,
		nullIfEmpty(invoice.Notes), invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la factura; líneas y pagos caen en cascada (FK ON DELETE CASCADE).
func (r *InvoiceRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la cabecera de una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate obtiene la cabecera bloqueando la fila (SELECT ... FOR UPDATE).
// Serializa la recomputación por factura; solo tiene sentido dentro de una tx.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return r.getByID(id, true)
}

func (r *InvoiceRepo) getByID(id string, forUpdate bool) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var inv entity.Invoice
	var notes, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.PatientID, &inv.Status,
		&inv.InvoiceDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Discount,
		&inv.TotalAmount, &inv.PaidAmount, &inv.Balance,
		&notes, &createdBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if notes != nil {
		inv.Notes = *notes
	}
	if createdBy != nil {
		inv.CreatedBy = *createdBy
	}
	return &inv, nil
}

// LastInvoiceNumber devuelve el número de la factura más reciente por orden
// de inserción, o "" si la tabla está vacía.
func (r *InvoiceRepo) LastInvoiceNumber() (string, error) {
	var number string
	err := r.q.QueryRow(context.Background(), `
		SELECT invoice_number FROM invoices
		ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return number, nil
}

// filterClause arma el WHERE dinámico compartido por List y Count.
func filterClause(f repository.InvoiceFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if f.PatientID != "" {
		args = append(args, f.PatientID)
		conds = append(conds, fmt.Sprintf("i.patient_id = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conds = append(conds, fmt.Sprintf("i.invoice_date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conds = append(conds, fmt.Sprintf("i.invoice_date <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List lista facturas con los datos del paciente y del creador resueltos por
// join, de la más reciente a la más antigua.
func (r *InvoiceRepo) List(f repository.InvoiceFilter) ([]*repository.InvoiceRow, error) {
	where, args := filterClause(f)
	query := `
		SELECT i.id, i.invoice_number, i.patient_id, i.status, i.invoice_date, i.due_date,
		       i.subtotal, i.tax_rate, i.tax_amount, i.discount, i.total_amount, i.paid_amount, i.balance,
		       i.notes, i.created_by, i.created_at, i.updated_at,
		       p.first_name, p.last_name, COALESCE(p.email, ''), COALESCE(p.phone_number, ''),
		       COALESCE(NULLIF(u.full_name, ''), u.username, '')
		FROM invoices i
		JOIN patients p ON p.id = i.patient_id
		LEFT JOIN users u ON u.id = i.created_by` + where + `
		ORDER BY i.invoice_date DESC, i.created_at DESC`
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*repository.InvoiceRow
	for rows.Next() {
		var row repository.InvoiceRow
		var notes, createdBy *string
		var firstName, lastName string
		if err := rows.Scan(
			&row.Invoice.ID, &row.Invoice.InvoiceNumber, &row.Invoice.PatientID, &row.Invoice.Status,
			&row.Invoice.InvoiceDate, &row.Invoice.DueDate,
			&row.Invoice.Subtotal, &row.Invoice.TaxRate, &row.Invoice.TaxAmount, &row.Invoice.Discount,
			&row.Invoice.TotalAmount, &row.Invoice.PaidAmount, &row.Invoice.Balance,
			&notes, &createdBy, &row.Invoice.CreatedAt, &row.Invoice.UpdatedAt,
			&firstName, &lastName, &row.PatientEmail, &row.PatientPhone,
			&row.CreatedByName,
		); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		if notes != nil {
			row.Invoice.Notes = *notes
		}
		if createdBy != nil {
			row.Invoice.CreatedBy = *createdBy
		}
		row.PatientName = strings.TrimSpace(firstName + " " + lastName)
		list = append(list, &row)
	}
	return list, rows.Err()
}

// Count cuenta las facturas que cumplen el filtro.
func (r *InvoiceRepo) Count(f repository.InvoiceFilter) (int, error) {
	where, args := filterClause(f)
	var n int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM invoices i`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// CreateItem persiste una línea de factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, service_id, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ServiceID, nullIfEmpty(item.Description),
		item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// UpdateItem actualiza descripción, cantidad, precio y total de una línea.
func (r *InvoiceRepo) UpdateItem(item *entity.InvoiceItem) error {
	query := `
		UPDATE invoice_items
		SET description = $2, quantity = $3, unit_price = $4, total = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, nullIfEmpty(item.Description), item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("update invoice item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem elimina una línea de factura.
func (r *InvoiceRepo) DeleteItem(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoice_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetItem obtiene una línea por ID.
func (r *InvoiceRepo) GetItem(id string) (*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, service_id, COALESCE(description, ''), quantity, unit_price, total
		FROM invoice_items WHERE id = $1`
	var item entity.InvoiceItem
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&item.ID, &item.InvoiceID, &item.ServiceID, &item.Description,
		&item.Quantity, &item.UnitPrice, &item.Total,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice item: %w", err)
	}
	return &item, nil
}

// ListItems lista las líneas de una factura con el nombre del servicio.
func (r *InvoiceRepo) ListItems(invoiceID string) ([]*repository.ItemRow, error) {
	query := `
		SELECT it.id, it.invoice_id, it.service_id, COALESCE(it.description, ''),
		       it.quantity, it.unit_price, it.total, s.name
		FROM invoice_items it
		JOIN services s ON s.id = it.service_id
		WHERE it.invoice_id = $1
		ORDER BY s.name, it.id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var list []*repository.ItemRow
	for rows.Next() {
		var row repository.ItemRow
		if err := rows.Scan(
			&row.Item.ID, &row.Item.InvoiceID, &row.Item.ServiceID, &row.Item.Description,
			&row.Item.Quantity, &row.Item.UnitPrice, &row.Item.Total, &row.ServiceName,
		); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// SumItemTotals re-deriva el subtotal desde las líneas persistidas.
func (r *InvoiceRepo) SumItemTotals(invoiceID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(total), 0) FROM invoice_items WHERE invoice_id = $1`,
		invoiceID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum item totals: %w", err)
	}
	return sum, nil
}
