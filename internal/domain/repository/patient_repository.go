package repository

import "github.com/tu-usuario/clinica-api/internal/domain/entity"

// PatientRepository acceso de solo lectura al directorio de pacientes.
// El CRUD de pacientes vive fuera del núcleo de facturación.
type PatientRepository interface {
	GetByID(id string) (*entity.Patient, error)
}
