package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/services"
)

type assignmentRequest struct {
	Project  *uint   `json:"project"`
	User     *uint   `json:"user"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (request assignmentRequest) input() services.AssignmentInput {
	return services.AssignmentInput{
		ProjectID: request.Project,
		UserID:    request.User,
		Role:      request.Role,
		IsActive:  request.IsActive,
	}
}

func (handler *Handler) ListAssignments(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	projectID, err := optionalUintQuery(c, "project")
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	userID, err := optionalUintQuery(c, "user")
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	isActive, err := optionalBoolQuery(c, "is_active")
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	filter := models.AssignmentFilter{
		ProjectID: projectID,
		UserID:    userID,
		Role:      c.Query("role"),
		IsActive:  isActive,
		Page:      page,
	}
	assignments, count, err := handler.assignmentService.List(currentCaller(c), filter)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	results := make([]assignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		results = append(results, newAssignmentResponse(assignment))
	}
	return respondPage(c, count, results)
}

func (handler *Handler) GetAssignment(c *fiber.Ctx) error {
	assignmentID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	assignment, err := handler.assignmentService.Get(currentCaller(c), assignmentID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newAssignmentResponse(assignment))
}

func (handler *Handler) CreateAssignment(c *fiber.Ctx) error {
	request := assignmentRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	assignment, err := handler.assignmentService.Create(caller, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "create", "project_assignment", assignment.ID)
	return c.Status(fiber.StatusCreated).JSON(newAssignmentResponse(assignment))
}

func (handler *Handler) UpdateAssignment(c *fiber.Ctx) error {
	assignmentID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	request := assignmentRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	assignment, err := handler.assignmentService.Update(currentCaller(c), assignmentID, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newAssignmentResponse(assignment))
}

func (handler *Handler) DeleteAssignment(c *fiber.Ctx) error {
	assignmentID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	if err := handler.assignmentService.Delete(caller, assignmentID); err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "delete", "project_assignment", assignmentID)
	return c.SendStatus(fiber.StatusNoContent)
}
