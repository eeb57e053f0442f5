package billing_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-api/internal/domain"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
	"github.com/tu-usuario/clinica-api/internal/domain/repository"
)

// fakeStore backend en memoria compartido por los repositorios fake.
// Los repos reciben punteros a este store, igual que los reales comparten
// el pool; el txRunner fake simplemente invoca el callback sobre los mismos.
type fakeStore struct {
	invoices     map[string]*entity.Invoice
	invoiceOrder []string // ids por orden de inserción (LastInvoiceNumber)
	items        map[string]*entity.InvoiceItem
	payments     map[string]*entity.Payment
	services     map[string]*entity.Service
	patients     map[string]*entity.Patient
	users        map[string]*entity.User

	// dupOnCreate hace que los próximos N Create de factura fallen con
	// ErrDuplicate, simulando una colisión del consecutivo por concurrencia.
	dupOnCreate        int
	createInvoiceCalls int
	// failCreateItem inyecta un error al crear líneas (prueba de atomicidad).
	failCreateItem error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invoices: map[string]*entity.Invoice{},
		items:    map[string]*entity.InvoiceItem{},
		payments: map[string]*entity.Payment{},
		services: map[string]*entity.Service{},
		patients: map[string]*entity.Patient{},
		users:    map[string]*entity.User{},
	}
}

func (s *fakeStore) addPatient(id, first, last string) {
	s.patients[id] = &entity.Patient{ID: id, FirstName: first, LastName: last}
}

func (s *fakeStore) addService(id, name string, price string) {
	s.services[id] = &entity.Service{
		ID: id, Name: name, Price: decimal.RequireFromString(price), IsActive: true,
	}
}

func (s *fakeStore) addUser(id, username, fullName, role string) {
	s.users[id] = &entity.User{ID: id, Username: username, FullName: fullName, Role: role, IsActive: true}
}

// ── invoice repo ─────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct{ s *fakeStore }

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.s.createInvoiceCalls++
	if r.s.dupOnCreate > 0 {
		r.s.dupOnCreate--
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	r.s.invoiceOrder = append(r.s.invoiceOrder, inv.ID)
	return nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	if _, ok := r.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.invoices, id)
	// cascada, como las FK ON DELETE CASCADE del esquema
	for itemID, item := range r.s.items {
		if item.InvoiceID == id {
			delete(r.s.items, itemID)
		}
	}
	for payID, pay := range r.s.payments {
		if pay.InvoiceID == id {
			delete(r.s.payments, payID)
		}
	}
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return r.GetByID(id)
}

func (r *fakeInvoiceRepo) LastInvoiceNumber() (string, error) {
	if len(r.s.invoiceOrder) == 0 {
		return "", nil
	}
	last := r.s.invoiceOrder[len(r.s.invoiceOrder)-1]
	return r.s.invoices[last].InvoiceNumber, nil
}

func (r *fakeInvoiceRepo) List(f repository.InvoiceFilter) ([]*repository.InvoiceRow, error) {
	ids := make([]string, 0, len(r.s.invoices))
	for id := range r.s.invoices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var rows []*repository.InvoiceRow
	for _, id := range ids {
		inv := r.s.invoices[id]
		if !matchesFilter(inv, f) {
			continue
		}
		row := &repository.InvoiceRow{Invoice: *inv}
		if p := r.s.patients[inv.PatientID]; p != nil {
			row.PatientName = p.FullName()
			row.PatientEmail = p.Email
			row.PatientPhone = p.PhoneNumber
		}
		if u := r.s.users[inv.CreatedBy]; u != nil {
			row.CreatedByName = u.DisplayName()
		}
		rows = append(rows, row)
	}
	if f.Offset > 0 {
		if f.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[f.Offset:]
		}
	}
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}
	return rows, nil
}

func (r *fakeInvoiceRepo) Count(f repository.InvoiceFilter) (int, error) {
	n := 0
	for _, inv := range r.s.invoices {
		if matchesFilter(inv, f) {
			n++
		}
	}
	return n, nil
}

func matchesFilter(inv *entity.Invoice, f repository.InvoiceFilter) bool {
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	if f.PatientID != "" && inv.PatientID != f.PatientID {
		return false
	}
	if f.StartDate != nil && inv.InvoiceDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && inv.InvoiceDate.After(*f.EndDate) {
		return false
	}
	return true
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if r.s.failCreateItem != nil {
		return r.s.failCreateItem
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) UpdateItem(item *entity.InvoiceItem) error {
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) DeleteItem(id string) error {
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

func (r *fakeInvoiceRepo) GetItem(id string) (*entity.InvoiceItem, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeInvoiceRepo) ListItems(invoiceID string) ([]*repository.ItemRow, error) {
	ids := make([]string, 0)
	for id, item := range r.s.items {
		if item.InvoiceID == invoiceID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	rows := make([]*repository.ItemRow, 0, len(ids))
	for _, id := range ids {
		item := r.s.items[id]
		row := &repository.ItemRow{Item: *item}
		if svc := r.s.services[item.ServiceID]; svc != nil {
			row.ServiceName = svc.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *fakeInvoiceRepo) SumItemTotals(invoiceID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range r.s.items {
		if item.InvoiceID == invoiceID {
			sum = sum.Add(item.Total)
		}
	}
	return sum, nil
}

// ── payment repo ─────────────────────────────────────────────────────────────

type fakePaymentRepo struct{ s *fakeStore }

func (r *fakePaymentRepo) Create(p *entity.Payment) error {
	cp := *p
	r.s.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) ListByInvoice(invoiceID string) ([]*repository.PaymentRow, error) {
	ids := make([]string, 0)
	for id, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	rows := make([]*repository.PaymentRow, 0, len(ids))
	for _, id := range ids {
		p := r.s.payments[id]
		row := &repository.PaymentRow{Payment: *p}
		if u := r.s.users[p.ProcessedBy]; u != nil {
			row.ProcessedByName = u.DisplayName()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *fakePaymentRepo) SumByInvoice(invoiceID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// ── service / patient / user repos ───────────────────────────────────────────

type fakeServiceRepo struct{ s *fakeStore }

func (r *fakeServiceRepo) Create(svc *entity.Service) error {
	cp := *svc
	r.s.services[svc.ID] = &cp
	return nil
}

func (r *fakeServiceRepo) Update(svc *entity.Service) error {
	if _, ok := r.s.services[svc.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *svc
	r.s.services[svc.ID] = &cp
	return nil
}

func (r *fakeServiceRepo) Delete(id string) error {
	for _, item := range r.s.items {
		if item.ServiceID == id {
			return domain.ErrServiceInUse
		}
	}
	if _, ok := r.s.services[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}

func (r *fakeServiceRepo) GetByID(id string) (*entity.Service, error) {
	svc, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	cp := *svc
	return &cp, nil
}

func (r *fakeServiceRepo) ListActive() ([]*entity.Service, error) {
	out := make([]*entity.Service, 0)
	for _, svc := range r.s.services {
		if svc.IsActive {
			cp := *svc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakePatientRepo struct{ s *fakeStore }

func (r *fakePatientRepo) GetByID(id string) (*entity.Patient, error) {
	p, ok := r.s.patients[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) FindByUsername(username string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// ── tx runner ────────────────────────────────────────────────────────────────

// fakeTxRunner invoca el callback con los repos fake sobre el mismo store.
// No simula rollback: los tests de atomicidad verifican la propagación del
// error, no el estado intermedio.
type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) RunBilling(_ context.Context, fn func(
	repository.InvoiceRepository,
	repository.PaymentRepository,
	repository.ServiceRepository,
	repository.PatientRepository,
) error) error {
	return fn(
		&fakeInvoiceRepo{t.s},
		&fakePaymentRepo{t.s},
		&fakeServiceRepo{t.s},
		&fakePatientRepo{t.s},
	)
}

// fecha base de los tests: 15 de marzo de 2025, mediodía UTC.
var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
