package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appbilling "github.com/tu-usuario/clinica-api/internal/application/billing"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain"
	"github.com/tu-usuario/clinica-api/pkg/clock"
)

func newServiceUC(s *fakeStore) *appbilling.ServiceUseCase {
	return appbilling.NewServiceUseCase(&fakeServiceRepo{s}, clock.Fixed(testNow))
}

func TestCreateService_AltaYValidacion(t *testing.T) {
	s := newFakeStore()
	uc := newServiceUC(s)

	resp, err := uc.CreateService(context.Background(), dto.CreateServiceRequest{
		Name:     "Radiografía",
		Price:    decimal.RequireFromString("45.00"),
		Category: "Imágenes",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsActive, "los servicios nacen activos")
	assert.NotEmpty(t, resp.ID)

	_, err = uc.CreateService(context.Background(), dto.CreateServiceRequest{
		Price: decimal.RequireFromString("-1"),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "price")
}

func TestListServices_SoloActivosOrdenados(t *testing.T) {
	s := newFakeStore()
	s.addService("svc-b", "Vacunación", "30.00")
	s.addService("svc-a", "Consulta general", "100.00")
	s.addService("svc-c", "Servicio retirado", "10.00")
	s.services["svc-c"].IsActive = false
	uc := newServiceUC(s)

	list, err := uc.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Consulta general", list[0].Name)
	assert.Equal(t, "Vacunación", list[1].Name)
}

func TestUpdateService_CamposParcialesYDesactivacion(t *testing.T) {
	s := newFakeStore()
	s.addService("svc-1", "Consulta general", "100.00")
	uc := newServiceUC(s)

	price := decimal.RequireFromString("120.00")
	inactive := false
	resp, err := uc.UpdateService(context.Background(), "svc-1", dto.UpdateServiceRequest{
		Price:    &price,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(price))
	assert.False(t, resp.IsActive)
	assert.Equal(t, "Consulta general", resp.Name, "los campos no enviados no cambian")

	_, err = uc.UpdateService(context.Background(), "svc-fantasma", dto.UpdateServiceRequest{Price: &price})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteService_ProtegidoSiEstaFacturado(t *testing.T) {
	s := seededStore()
	invUC := newInvoiceUC(s)
	uc := newServiceUC(s)

	_, err := invUC.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
		Items: []dto.InvoiceItemRequest{
			{ServiceID: "svc-consulta", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	err = uc.DeleteService(context.Background(), "svc-consulta")
	require.ErrorIs(t, err, domain.ErrServiceInUse, "un servicio facturado no puede eliminarse")

	// uno sin referencias sí se elimina
	require.NoError(t, uc.DeleteService(context.Background(), "svc-examen"))
	err = uc.DeleteService(context.Background(), "svc-examen")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
