package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-api/internal/application/auth"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain"
)

// AuthHandler maneja el login del personal.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login autentica username/password y devuelve un JWT.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("cuerpo inválido"))
	}
	fieldErrs := map[string]string{}
	if in.Username == "" {
		fieldErrs["username"] = "requerido"
	}
	if in.Password == "" {
		fieldErrs["password"] = "requerido"
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewValidationError("datos inválidos", fieldErrs))
	}
	out, err := h.uc.Login(in)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.NewError("cuenta desactivada"))
		}
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			// Usuario desconocido y contraseña errada responden igual:
			// no conviene revelar qué usuarios existen.
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("credenciales inválidas"))
		}
		return respondError(c, err)
	}
	return c.JSON(out)
}
