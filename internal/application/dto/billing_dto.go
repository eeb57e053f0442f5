package dto

import "github.com/shopspring/decimal"

// Las fechas viajan como strings YYYY-MM-DD; los casos de uso las parsean y
// reportan errores por campo en el mapa de validación.

// InvoiceItemRequest línea de factura (servicio, cantidad, precio unitario).
// UnitPrice nil toma el precio vigente del catálogo.
type InvoiceItemRequest struct {
	ServiceID   string           `json:"service_id"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateInvoiceRequest body para POST /api/billing/invoices/create.
type CreateInvoiceRequest struct {
	PatientID   string               `json:"patient_id"`
	InvoiceDate string               `json:"invoice_date"`
	DueDate     string               `json:"due_date"`
	TaxRate     decimal.Decimal      `json:"tax_rate"`
	Discount    decimal.Decimal      `json:"discount"`
	Notes       string               `json:"notes,omitempty"`
	Items       []InvoiceItemRequest `json:"items,omitempty"`
}

// UpdateInvoiceRequest body para PUT/PATCH de una factura. Campos nil no se
// tocan. Los campos derivados (subtotal, impuestos, totales, estado y número)
// son de solo lectura: el motor los recalcula.
type UpdateInvoiceRequest struct {
	PatientID   *string          `json:"patient_id,omitempty"`
	InvoiceDate *string          `json:"invoice_date,omitempty"`
	DueDate     *string          `json:"due_date,omitempty"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

// UpdateItemRequest body para actualizar una línea. Campos nil no se tocan;
// el servicio de la línea es inmutable (eliminar y crear otra línea si cambia).
type UpdateItemRequest struct {
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreatePaymentRequest body para POST /api/billing/payments/create.
type CreatePaymentRequest struct {
	InvoiceID       string          `json:"invoice_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentDate     string          `json:"payment_date"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// ListInvoicesRequest filtros y paginación para GET /api/billing/invoices.
type ListInvoicesRequest struct {
	Status    string `query:"status"`
	PatientID string `query:"patient_id"`
	StartDate string `query:"start_date"` // YYYY-MM-DD
	EndDate   string `query:"end_date"`   // YYYY-MM-DD
	Page      int    `query:"page"`
	PageSize  int    `query:"page_size"`
}

// InvoiceItemResponse línea de factura en respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID              string          `json:"id"`
	InvoiceID       string          `json:"invoice_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentDate     string          `json:"payment_date"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	ProcessedBy     string          `json:"processed_by,omitempty"`
	ProcessedByName string          `json:"processed_by_name,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

// InvoiceResponse factura con paciente resuelto; Items y Payments van
// completos en el detalle y vacíos en los listados.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	PatientID     string                `json:"patient_id"`
	PatientName   string                `json:"patient_name,omitempty"`
	PatientEmail  string                `json:"patient_email,omitempty"`
	PatientPhone  string                `json:"patient_phone,omitempty"`
	Status        string                `json:"status"`
	InvoiceDate   string                `json:"invoice_date"`
	DueDate       string                `json:"due_date"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxRate       decimal.Decimal       `json:"tax_rate"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	Discount      decimal.Decimal       `json:"discount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	Balance       decimal.Decimal       `json:"balance"`
	Notes         string                `json:"notes,omitempty"`
	CreatedBy     string                `json:"created_by,omitempty"`
	CreatedByName string                `json:"created_by_name,omitempty"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
	Items         []InvoiceItemResponse `json:"items"`
	Payments      []PaymentResponse     `json:"payments"`
}

// InvoiceEnvelope respuesta de detalle/mutación de una factura.
type InvoiceEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Invoice *InvoiceResponse `json:"invoice"`
}

// InvoiceListEnvelope respuesta del listado de facturas.
type InvoiceListEnvelope struct {
	Success    bool              `json:"success"`
	Invoices   []InvoiceResponse `json:"invoices"`
	Pagination Pagination        `json:"pagination"`
}

// PaymentEnvelope respuesta al registrar un pago: incluye la factura con
// paid_amount, balance y status ya recalculados.
type PaymentEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Payment *PaymentResponse `json:"payment"`
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

// CreateServiceRequest body para crear un servicio del catálogo.
type CreateServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
}

// UpdateServiceRequest body para actualizar un servicio. Campos nil no se tocan.
type UpdateServiceRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// ServiceResponse servicio del catálogo en respuestas.
type ServiceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// ServiceEnvelope respuesta de detalle/mutación de un servicio.
type ServiceEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Service *ServiceResponse `json:"service"`
}

// ServiceListEnvelope respuesta del listado de servicios activos.
type ServiceListEnvelope struct {
	Success  bool              `json:"success"`
	Services []ServiceResponse `json:"services"`
}
