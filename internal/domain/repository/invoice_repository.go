package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
)

// InvoiceFilter criterios de listado de facturas.
type InvoiceFilter struct {
	Status    string
	PatientID string
	StartDate *time.Time // invoice_date >= StartDate
	EndDate   *time.Time // invoice_date <= EndDate
	Limit     int
	Offset    int
}

// InvoiceRow fila de listado con los datos del paciente y del creador ya
// resueltos por join. Lo produce la DB; el caso de uso lo convierte en DTO.
type InvoiceRow struct {
	Invoice       entity.Invoice
	PatientName   string
	PatientEmail  string
	PatientPhone  string
	CreatedByName string // full_name con fallback a username
}

// ItemRow línea de factura con el nombre del servicio resuelto por join.
type ItemRow struct {
	Item        entity.InvoiceItem
	ServiceName string
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// Las implementaciones aceptan pool o tx; las mutaciones del motor financiero
// siempre corren dentro de una transacción del TxRunner.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	// Update persiste todos los campos mutables + derivados de la cabecera.
	Update(invoice *entity.Invoice) error
	// Delete elimina la factura; items y pagos caen en cascada (FK).
	Delete(id string) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila de la factura (SELECT ... FOR UPDATE).
	// Solo tiene sentido dentro de una transacción: serializa la recomputación
	// por factura frente a mutaciones concurrentes de líneas y pagos.
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	// LastInvoiceNumber devuelve el número de la última factura por orden de
	// inserción, o "" si no existe ninguna.
	LastInvoiceNumber() (string, error)
	List(f InvoiceFilter) ([]*InvoiceRow, error)
	Count(f InvoiceFilter) (int, error)

	CreateItem(item *entity.InvoiceItem) error
	UpdateItem(item *entity.InvoiceItem) error
	DeleteItem(id string) error
	GetItem(id string) (*entity.InvoiceItem, error)
	ListItems(invoiceID string) ([]*ItemRow, error)
	// SumItemTotals re-deriva el subtotal desde las líneas persistidas.
	SumItemTotals(invoiceID string) (decimal.Decimal, error)
}
