package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-api/internal/application/dto"
	"github.com/tu-usuario/clinica-api/internal/domain"
)

// respondError mapea errores de dominio a códigos HTTP con el envelope estándar.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewValidationError("datos inválidos", verr.Fields))
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("datos inválidos"))
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.NewError("recurso no encontrado"))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("credenciales inválidas"))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.NewError("acceso denegado"))
	case errors.Is(err, domain.ErrServiceInUse):
		return c.Status(fiber.StatusConflict).JSON(dto.NewError("el servicio está referenciado por facturas; desactívelo en su lugar"))
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.NewError("conflicto con el estado actual"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError(err.Error()))
	}
}
