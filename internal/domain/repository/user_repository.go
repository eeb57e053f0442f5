package repository

import "github.com/tu-usuario/clinica-api/internal/domain/entity"

// UserRepository acceso al directorio del personal (login y joins de nombres).
// La administración de cuentas vive fuera del núcleo de facturación.
type UserRepository interface {
	FindByUsername(username string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}
