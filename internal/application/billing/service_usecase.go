package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
	"github.com/tu-usuario/clinica-api/pkg/clock"
)

// ServiceUseCase CRUD del catálogo de servicios facturables.
type ServiceUseCase struct {
	serviceRepo repository.ServiceRepository
	clk         clock.Clock
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(serviceRepo repository.ServiceRepository, clk clock.Clock) *ServiceUseCase {
	return &ServiceUseCase{serviceRepo: serviceRepo, clk: clk}
}

// ListServices lista los servicios activos ordenados por nombre.
func (uc *ServiceUseCase) ListServices(ctx context.Context) ([]dto.ServiceResponse, error) {
	services, err := uc.serviceRepo.ListActive()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, serviceToResponse(svc))
	}
	return out, nil
}

// CreateService da de alta un servicio en el catálogo.
func (uc *ServiceUseCase) CreateService(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	fieldErrs := map[string]string{}
	if in.Name == "" {
		fieldErrs["name"] = "requerido"
	}
	if in.Price.LessThan(decimal.Zero) {
		fieldErrs["price"] = "no puede ser negativo"
	}
	if len(fieldErrs) > 0 {
		return nil, domain.NewValidationError(fieldErrs)
	}
	now := uc.clk.Now()
	svc := &entity.Service{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.serviceRepo.Create(svc); err != nil {
		return nil, err
	}
	resp := serviceToResponse(svc)
	return &resp, nil
}

// UpdateService actualiza un servicio; campos nil no se tocan. Desactivar
// (is_active=false) lo oculta del catálogo sin afectar facturas existentes.
func (uc *ServiceUseCase) UpdateService(ctx context.Context, id string, in dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	fieldErrs := map[string]string{}
	if in.Name != nil && *in.Name == "" {
		fieldErrs["name"] = "requerido"
	}
	if in.Price != nil && in.Price.LessThan(decimal.Zero) {
		fieldErrs["price"] = "no puede ser negativo"
	}
	if len(fieldErrs) > 0 {
		return nil, domain.NewValidationError(fieldErrs)
	}
	svc, err := uc.serviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		svc.Name = *in.Name
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.Price != nil {
		svc.Price = *in.Price
	}
	if in.Category != nil {
		svc.Category = *in.Category
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
	svc.UpdatedAt = uc.clk.Now()
	if err := uc.serviceRepo.Update(svc); err != nil {
		return nil, err
	}
	resp := serviceToResponse(svc)
	return &resp, nil
}

// DeleteService elimina un servicio del catálogo. Si alguna línea de factura
// lo referencia el repositorio retorna domain.ErrServiceInUse (HTTP 409);
// la alternativa es desactivarlo.
func (uc *ServiceUseCase) DeleteService(ctx context.Context, id string) error {
	svc, err := uc.serviceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if svc == nil {
		return domain.ErrNotFound
	}
	return uc.serviceRepo.Delete(id)
}

func serviceToResponse(svc *entity.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		Price:       svc.Price,
		Category:    svc.Category,
		IsActive:    svc.IsActive,
		CreatedAt:   svc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   svc.UpdatedAt.Format(time.RFC3339),
	}
}
