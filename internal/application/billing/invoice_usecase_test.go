package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appbilling "github.com/tu-usuario/clinica-api/internal/application/billing"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain"
	"github.com/tu-usuario/clinica-api/pkg/clock"
)

func newInvoiceUC(s *fakeStore) *appbilling.InvoiceUseCase {
	return appbilling.NewInvoiceUseCase(
		&fakeTxRunner{s},
		&fakeInvoiceRepo{s},
		&fakePaymentRepo{s},
		&fakeServiceRepo{s},
		&fakePatientRepo{s},
		&fakeUserRepo{s},
		clock.Fixed(testNow),
	)
}

func seededStore() *fakeStore {
	s := newFakeStore()
	s.addPatient("pat-1", "Ana", "García")
	s.addService("svc-consulta", "Consulta general", "100.00")
	s.addService("svc-examen", "Examen de laboratorio", "25.00")
	s.addUser("usr-1", "recepcion", "María Pérez", "receptionist")
	return s
}

func TestCreateInvoice_CalculaTotalesYNumera(t *testing.T) {
	s := seededStore()
	uc := newInvoiceUC(s)

	resp, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
		TaxRate:     decimal.RequireFromString("8"),
		Discount:    decimal.RequireFromString("10"),
		Items: []dto.InvoiceItemRequest{
			{ServiceID: "svc-consulta", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-20250315-0001", resp.InvoiceNumber)
	assert.Equal(t, "draft", resp.Status)
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("100.00")), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.TaxAmount.Equal(decimal.RequireFromString("7.20")), "tax: %s", resp.TaxAmount)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("97.20")), "total: %s", resp.TotalAmount)
	assert.True(t, resp.PaidAmount.IsZero())
	assert.True(t, resp.Balance.Equal(resp.TotalAmount))
	assert.Equal(t, "Ana García", resp.PatientName)
	assert.Equal(t, "María Pérez", resp.CreatedByName)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Consulta general", resp.Items[0].ServiceName)

	// segunda factura del mismo día incrementa el consecutivo
	resp2, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-20250315-0002", resp2.InvoiceNumber)
}

func TestCreateInvoice_PrecioDelCatalogoYSobrescrito(t *testing.T) {
	s := seededStore()
	uc := newInvoiceUC(s)

	precio := decimal.RequireFromString("80.00")
	resp, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
		Items: []dto.InvoiceItemRequest{
			{ServiceID: "svc-examen", Quantity: decimal.NewFromInt(3)},              // 3 × 25.00 del catálogo
			{ServiceID: "svc-consulta", Quantity: decimal.NewFromInt(1), UnitPrice: &precio}, // precio manual
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("155.00")), "subtotal: %s", resp.Subtotal)
}

func TestCreateInvoice_ReintentaAnteColisionDelConsecutivo(t *testing.T) {
	s := seededStore()
	s.dupOnCreate = 1 // el primer insert choca con el constraint único
	uc := newInvoiceUC(s)

	resp, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.createInvoiceCalls, "debe reintentar la transacción completa")
	assert.NotEmpty(t, resp.InvoiceNumber)
}

func TestCreateInvoice_AgotaReintentos(t *testing.T) {
	s := seededStore()
	s.dupOnCreate = 10 // más colisiones que reintentos
	uc := newInvoiceUC(s)

	_, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 3, s.createInvoiceCalls)
}

func TestCreateInvoice_ValidacionPorCampo(t *testing.T) {
	s := seededStore()
	uc := newInvoiceUC(s)

	_, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-inexistente",
		InvoiceDate: "15/03/2025", // formato inválido
		DueDate:     "2025-04-15",
		TaxRate:     decimal.RequireFromString("-1"),
		Items: []dto.InvoiceItemRequest{
			{ServiceID: "svc-fantasma", Quantity: decimal.NewFromInt(1)},
			{ServiceID: "svc-consulta", Quantity: decimal.NewFromInt(-2)},
		},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "patient_id")
	assert.Contains(t, verr.Fields, "invoice_date")
	assert.Contains(t, verr.Fields, "tax_rate")
	assert.Contains(t, verr.Fields, "items[0].service_id")
	assert.Contains(t, verr.Fields, "items[1].quantity")
	assert.Empty(t, s.invoices, "nada debe persistirse ante una validación fallida")
}

func TestCreateInvoice_ErrorEnLineaPropagaYAborta(t *testing.T) {
	s := seededStore()
	s.failCreateItem = errors.New("disco lleno")
	uc := newInvoiceUC(s)

	_, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
		Items: []dto.InvoiceItemRequest{
			{ServiceID: "svc-consulta", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicate, "un error ajeno al consecutivo no debe reintentarse")
	assert.Equal(t, 1, s.createInvoiceCalls)
}

func TestGetInvoice_NoExiste(t *testing.T) {
	uc := newInvoiceUC(seededStore())
	_, err := uc.GetInvoice(context.Background(), "inv-fantasma")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListInvoices_FiltrosYPaginacion(t *testing.T) {
	s := seededStore()
	s.addPatient("pat-2", "Luis", "Rojas")
	uc := newInvoiceUC(s)

	for i := 0; i < 3; i++ {
		_, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
			PatientID:   "pat-1",
			InvoiceDate: "2025-03-10",
			DueDate:     "2025-04-10",
		})
		require.NoError(t, err)
	}
	_, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-2",
		InvoiceDate: "2025-01-05",
		DueDate:     "2025-02-05",
	})
	require.NoError(t, err)

	// filtro por paciente
	list, page, err := uc.ListInvoices(context.Background(), dto.ListInvoicesRequest{PatientID: "pat-2"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, page.Total)

	// filtro por rango de fechas
	list, page, err = uc.ListInvoices(context.Background(), dto.ListInvoicesRequest{
		StartDate: "2025-03-01", EndDate: "2025-03-31",
	})
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, 3, page.Total)

	// paginación: 4 facturas, páginas de 3
	list, page, err = uc.ListInvoices(context.Background(), dto.ListInvoicesRequest{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	// fecha malformada en el filtro
	_, _, err = uc.ListInvoices(context.Background(), dto.ListInvoicesRequest{StartDate: "ayer"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateInvoice_RecalculaDerivados(t *testing.T) {
	s := seededStore()
	uc := newInvoiceUC(s)

	created, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
		Items: []dto.InvoiceItemRequest{
			{ServiceID: "svc-consulta", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	taxRate := decimal.RequireFromString("8")
	discount := decimal.RequireFromString("10")
	updated, err := uc.UpdateInvoice(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		TaxRate:  &taxRate,
		Discount: &discount,
	})
	require.NoError(t, err)

	assert.True(t, updated.TaxAmount.Equal(decimal.RequireFromString("7.20")), "tax: %s", updated.TaxAmount)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("97.20")), "total: %s", updated.TotalAmount)
	// número y estado no cambian
	assert.Equal(t, created.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, "draft", updated.Status)
}

func TestUpdateInvoice_NoExiste(t *testing.T) {
	uc := newInvoiceUC(seededStore())
	notes := "sin efecto"
	_, err := uc.UpdateInvoice(context.Background(), "inv-fantasma", dto.UpdateInvoiceRequest{Notes: &notes})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteInvoice_CascadaDeHijos(t *testing.T) {
	s := seededStore()
	uc := newInvoiceUC(s)
	payUC := newPaymentUC(s)

	created, err := uc.CreateInvoice(context.Background(), "usr-1", dto.CreateInvoiceRequest{
		PatientID:   "pat-1",
		InvoiceDate: "2025-03-15",
		DueDate:     "2025-04-15",
		Items: []dto.InvoiceItemRequest{
			{ServiceID: "svc-consulta", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)
	_, _, err = payUC.RecordPayment(context.Background(), "usr-1", dto.CreatePaymentRequest{
		InvoiceID:     created.ID,
		Amount:        decimal.RequireFromString("50.00"),
		PaymentMethod: "cash",
		PaymentDate:   "2025-03-16",
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteInvoice(context.Background(), created.ID))
	assert.Empty(t, s.invoices)
	assert.Empty(t, s.items, "las líneas caen en cascada")
	assert.Empty(t, s.payments, "los pagos caen en cascada")

	err = uc.DeleteInvoice(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
