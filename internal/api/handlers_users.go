package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/models"
)

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	filter := models.UserFilter{Role: c.Query("role"), Page: page}
	users, count, err := handler.userService.List(currentCaller(c), filter)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	results := make([]userResponse, 0, len(users))
	for _, user := range users {
		results = append(results, newUserResponse(user))
	}
	return respondPage(c, count, results)
}
