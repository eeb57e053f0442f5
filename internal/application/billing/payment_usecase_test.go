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

func newPaymentUC(s *fakeStore) *appbilling.PaymentUseCase {
	return appbilling.NewPaymentUseCase(
		&fakeTxRunner{s},
		&fakeInvoiceRepo{s},
		&fakePaymentRepo{s},
		&fakeUserRepo{s},
		clock.Fixed(testNow),
	)
}

// crea una factura de 97.20 (100 - 10 de descuento, 8% de impuesto)
func invoiceDe9720(t *testing.T, s *fakeStore) *dto.InvoiceResponse {
	t.Helper()
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
	require.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("97.20")))
	return resp
}

func TestRecordPayment_PagoParcialYLuegoTotal(t *testing.T) {
	s := seededStore()
	inv := invoiceDe9720(t, s)
	uc := newPaymentUC(s)

	// abono parcial: 50.00 -> partial, saldo 47.20
	pay, after, err := uc.RecordPayment(context.Background(), "usr-1", dto.CreatePaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.RequireFromString("50.00"),
		PaymentMethod: "cash",
		PaymentDate:   "2025-03-16",
	})
	require.NoError(t, err)
	assert.Equal(t, "María Pérez", pay.ProcessedByName)
	assert.Equal(t, "partial", after.Status)
	assert.True(t, after.PaidAmount.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, after.Balance.Equal(decimal.RequireFromString("47.20")), "balance: %s", after.Balance)

	// abono del saldo exacto -> paid, saldo cero
	_, after, err = uc.RecordPayment(context.Background(), "usr-1", dto.CreatePaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.RequireFromString("47.20"),
		PaymentMethod: "card",
		PaymentDate:   "2025-03-17",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", after.Status)
	assert.True(t, after.Balance.IsZero())
}

func TestRecordPayment_SobrepagoQuedaPagada(t *testing.T) {
	s := seededStore()
	inv := invoiceDe9720(t, s)
	uc := newPaymentUC(s)

	_, after, err := uc.RecordPayment(context.Background(), "usr-1", dto.CreatePaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.RequireFromString("100.00"),
		PaymentMethod: "insurance",
		PaymentDate:   "2025-03-16",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", after.Status)
	assert.True(t, after.Balance.Equal(decimal.RequireFromString("-2.80")), "balance: %s", after.Balance)
}

func TestRecordPayment_Validacion(t *testing.T) {
	s := seededStore()
	inv := invoiceDe9720(t, s)
	uc := newPaymentUC(s)

	cases := []struct {
		nombre string
		req    dto.CreatePaymentRequest
		campo  string
	}{
		{"monto cero", dto.CreatePaymentRequest{
			InvoiceID: inv.ID, Amount: decimal.Zero, PaymentMethod: "cash", PaymentDate: "2025-03-16",
		}, "amount"},
		{"monto negativo", dto.CreatePaymentRequest{
			InvoiceID: inv.ID, Amount: decimal.RequireFromString("-5"), PaymentMethod: "cash", PaymentDate: "2025-03-16",
		}, "amount"},
		{"método desconocido", dto.CreatePaymentRequest{
			InvoiceID: inv.ID, Amount: decimal.NewFromInt(10), PaymentMethod: "bitcoin", PaymentDate: "2025-03-16",
		}, "payment_method"},
		{"fecha malformada", dto.CreatePaymentRequest{
			InvoiceID: inv.ID, Amount: decimal.NewFromInt(10), PaymentMethod: "cash", PaymentDate: "mañana",
		}, "payment_date"},
		{"sin factura", dto.CreatePaymentRequest{
			Amount: decimal.NewFromInt(10), PaymentMethod: "cash", PaymentDate: "2025-03-16",
		}, "invoice_id"},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			_, _, err := uc.RecordPayment(context.Background(), "usr-1", tc.req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.campo)
		})
	}
	assert.Empty(t, s.payments, "ningún pago debe persistirse")
}

func TestRecordPayment_FacturaInexistenteEs404(t *testing.T) {
	s := seededStore()
	uc := newPaymentUC(s)

	_, _, err := uc.RecordPayment(context.Background(), "usr-1", dto.CreatePaymentRequest{
		InvoiceID:     "inv-fantasma",
		Amount:        decimal.NewFromInt(10),
		PaymentMethod: "cash",
		PaymentDate:   "2025-03-16",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.payments)
}
