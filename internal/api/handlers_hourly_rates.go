package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/services"
)

type hourlyRateRequest struct {
	Client        *uint          `json:"client"`
	Project       *uint          `json:"project"`
	Amount        decimalInput   `json:"amount"`
	Currency      *string        `json:"currency"`
	EffectiveFrom *string        `json:"effective_from"`
	EffectiveTo   optionalString `json:"effective_to"`
}

func (request hourlyRateRequest) input() services.HourlyRateInput {
	return services.HourlyRateInput{
		ClientID:      request.Client,
		ProjectID:     request.Project,
		Amount:        request.Amount.Ptr(),
		Currency:      request.Currency,
		EffectiveFrom: request.EffectiveFrom,
		EffectiveTo:   request.EffectiveTo.Ptr(),
	}
}

func (handler *Handler) ListHourlyRates(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	clientID, err := optionalUintQuery(c, "client")
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	projectID, err := optionalUintQuery(c, "project")
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	filter := models.HourlyRateFilter{
		ClientID:  clientID,
		ProjectID: projectID,
		Currency:  strings.ToUpper(strings.TrimSpace(c.Query("currency"))),
		Page:      page,
	}
	rates, count, err := handler.hourlyRateService.List(currentCaller(c), filter)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	results := make([]hourlyRateResponse, 0, len(rates))
	for _, rate := range rates {
		results = append(results, newHourlyRateResponse(rate))
	}
	return respondPage(c, count, results)
}

func (handler *Handler) GetHourlyRate(c *fiber.Ctx) error {
	rateID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	rate, err := handler.hourlyRateService.Get(currentCaller(c), rateID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newHourlyRateResponse(rate))
}

func (handler *Handler) CreateHourlyRate(c *fiber.Ctx) error {
	request := hourlyRateRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	rate, err := handler.hourlyRateService.Create(caller, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "create", "hourly_rate", rate.ID)
	return c.Status(fiber.StatusCreated).JSON(newHourlyRateResponse(rate))
}

func (handler *Handler) UpdateHourlyRate(c *fiber.Ctx) error {
	rateID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	request := hourlyRateRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	rate, err := handler.hourlyRateService.Update(currentCaller(c), rateID, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newHourlyRateResponse(rate))
}

func (handler *Handler) DeleteHourlyRate(c *fiber.Ctx) error {
	rateID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	if err := handler.hourlyRateService.Delete(caller, rateID); err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "delete", "hourly_rate", rateID)
	return c.SendStatus(fiber.StatusNoContent)
}
