package entity

import "time"

// Patient proyección de solo lectura del directorio de pacientes.
// El núcleo de facturación confía en que la referencia existe y solo
// expone nombre y datos de contacto vía join.
type Patient struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	CreatedAt   time.Time
}

// FullName nombre completo para mostrar en facturas y PDFs.
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
