package entity

import "time"

// Roles del personal de la clínica.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

// User cuenta del personal. created_by / processed_by en facturación
// referencian este directorio.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Role         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName nombre a mostrar: full_name con fallback a username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
