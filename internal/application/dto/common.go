package dto

// PageRequest paginación 1-indexada para listados (?page=&page_size=).
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Normalize aplica valores por defecto y topes.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset desplazamiento SQL equivalente a la página solicitada.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Pagination metadatos de página en las respuestas de listado.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPagination calcula total_pages con redondeo hacia arriba.
func NewPagination(total int, p PageRequest) Pagination {
	return Pagination{
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: (total + p.PageSize - 1) / p.PageSize,
	}
}

// ErrorResponse cuerpo de error con el envelope success=false.
// Errors lleva el mapa campo->mensaje en errores de validación.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// NewError construye un error simple.
func NewError(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// NewValidationError construye un error de validación con detalle por campo.
func NewValidationError(message string, errs map[string]string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Errors: errs}
}

// MessageResponse respuesta de éxito sin payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
