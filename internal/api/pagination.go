package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/models"
)

type paginatedResponse struct {
	Count   int64 `json:"count"`
	Results any   `json:"results"`
}

// parsePage reads page and page_size; page_size is clamped to MaxPageSize.
func parsePage(c *fiber.Ctx) (models.Page, error) {
	page := models.Page{Number: 1, Size: models.DefaultPageSize}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil || number < 1 {
			return models.Page{}, invalidQuery("page", "page must be a positive integer")
		}
		page.Number = number
	}
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return models.Page{}, invalidQuery("page_size", "page_size must be a positive integer")
		}
		page.Size = min(size, models.MaxPageSize)
	}
	return page, nil
}

func respondPage(c *fiber.Ctx, count int64, results any) error {
	return c.JSON(paginatedResponse{Count: count, Results: results})
}
