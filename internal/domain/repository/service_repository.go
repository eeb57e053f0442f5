package repository

import "github.com/tu-usuario/clinica-api/internal/domain/entity"

// ServiceRepository define el puerto de persistencia para el catálogo de servicios.
type ServiceRepository interface {
	Create(service *entity.Service) error
	Update(service *entity.Service) error
	// Delete retorna domain.ErrServiceInUse si alguna línea de factura
	// referencia el servicio (protect-on-delete).
	Delete(id string) error
	GetByID(id string) (*entity.Service, error)
	// ListActive lista los servicios activos ordenados por nombre.
	ListActive() ([]*entity.Service, error)
}
