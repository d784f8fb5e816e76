package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/services"
)

const contextUserKey = "current_user"

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

func currentCaller(c *fiber.Ctx) services.Caller {
	user, _ := currentUser(c)
	return services.CallerFromUser(user)
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	claims, err := handler.parseToken(c.Cookies(accessCookieName), tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	user, err := handler.authService.ActiveUser(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextUserKey, user)
	return c.Next()
}

func (handler *Handler) AdminOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAdmin() {
		return apiError(c, fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}
