package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/services"
)

type projectRequest struct {
	Name           *string      `json:"name"`
	Client         *uint        `json:"client"`
	Description    *string      `json:"description"`
	Status         *string      `json:"status"`
	Visibility     *string      `json:"visibility"`
	BillingType    *string      `json:"billing_type"`
	PackHours      decimalInput `json:"pack_hours"`
	PackTotalValue decimalInput `json:"pack_total_value"`
	HourlyRate     decimalInput `json:"hourly_rate"`
	Currency       *string      `json:"currency"`
}

func (request projectRequest) input() services.ProjectInput {
	return services.ProjectInput{
		Name:           request.Name,
		ClientID:       request.Client,
		Description:    request.Description,
		Status:         request.Status,
		Visibility:     request.Visibility,
		BillingType:    request.BillingType,
		PackHours:      request.PackHours.Ptr(),
		PackTotalValue: request.PackTotalValue.Ptr(),
		HourlyRate:     request.HourlyRate.Ptr(),
		Currency:       request.Currency,
	}
}

type projectStatusRequest struct {
	Status string `json:"status"`
}

func (handler *Handler) ListProjects(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	clientID, err := optionalUintQuery(c, "client")
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	filter := models.ProjectFilter{
		ClientID:   clientID,
		Status:     c.Query("status"),
		Visibility: c.Query("visibility"),
		Search:     c.Query("search"),
		Page:       page,
	}
	projects, count, err := handler.projectService.List(currentCaller(c), filter)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	results := make([]projectResponse, 0, len(projects))
	for _, project := range projects {
		results = append(results, newProjectResponse(project))
	}
	return respondPage(c, count, results)
}

func (handler *Handler) GetProject(c *fiber.Ctx) error {
	projectID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	project, err := handler.projectService.Get(currentCaller(c), projectID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newProjectResponse(project))
}

func (handler *Handler) CreateProject(c *fiber.Ctx) error {
	request := projectRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	project, err := handler.projectService.Create(caller, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "create", "project", project.ID)
	return c.Status(fiber.StatusCreated).JSON(newProjectResponse(project))
}

func (handler *Handler) UpdateProject(c *fiber.Ctx) error {
	projectID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	request := projectRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	project, err := handler.projectService.Update(currentCaller(c), projectID, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newProjectResponse(project))
}

func (handler *Handler) SetProjectStatus(c *fiber.Ctx) error {
	projectID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	request := projectStatusRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	project, err := handler.projectService.SetStatus(caller, projectID, request.Status)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "set_status", "project", project.ID)
	return c.JSON(newProjectResponse(project))
}

// DeleteProject archives; entries and ledger history stay intact.
func (handler *Handler) DeleteProject(c *fiber.Ctx) error {
	projectID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	if err := handler.projectService.Archive(caller, projectID); err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "archive", "project", projectID)
	return c.SendStatus(fiber.StatusNoContent)
}
