package api

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/observability"
	"github.com/terraincognita07/worktrace/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

func invalidQuery(field string, message string) error {
	return &services.Error{Kind: services.KindValidation, Message: message, Fields: map[string]string{field: message}}
}

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindAuthorization:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError maps typed service failures onto status codes. Anything
// else is logged and reported as a 500 without detail.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	var serviceErr *services.Error
	if errors.As(err, &serviceErr) {
		body := fiber.Map{"error": serviceErr.Error()}
		if len(serviceErr.Fields) > 0 {
			body["fields"] = serviceErr.Fields
		}
		return c.Status(statusForKind(serviceErr.Kind)).JSON(body)
	}
	if services.IsUniqueViolation(err) {
		return apiError(c, fiber.StatusConflict, "resource already exists")
	}
	handler.logger.Error("request failed",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("request_id", observability.RequestID(c.UserContext())),
		slog.Any("error", err),
	)
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func parseBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(target); err != nil {
		return &services.Error{Kind: services.KindValidation, Message: "invalid request body"}
	}
	return nil
}

func pathID(c *fiber.Ctx) (uint, error) {
	value, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || value == 0 {
		return 0, &services.Error{Kind: services.KindNotFound, Message: "not found"}
	}
	return uint(value), nil
}

func optionalUintQuery(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil, invalidQuery(name, name+" must be a positive integer")
	}
	result := uint(value)
	return &result, nil
}

func optionalBoolQuery(c *fiber.Ctx, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidQuery(name, name+" must be true or false")
	}
	return &value, nil
}
