package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-sync/internal/application/dto"
	pkgjwt "github.com/jhoicas/stock-sync/pkg/jwt"
)

const localsUserKey = "auth_user"

// AuthMiddleware valida el Bearer Token y carga el usuario en locals.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "header Authorization requerido"})
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "se espera esquema Bearer"})
		}
		user, err := pkgjwt.Parse(secret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(localsUserKey, user)
		return c.Next()
	}
}

// GetUser devuelve el usuario autenticado cargado por AuthMiddleware.
func GetUser(c *fiber.Ctx) string {
	if v, ok := c.Locals(localsUserKey).(string); ok {
		return v
	}
	return ""
}
