package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/db"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/observability"
	"github.com/terraincognita07/worktrace/internal/services"
)

type timeEntryRequest struct {
	Project         *uint          `json:"project"`
	User            *uint          `json:"user"`
	Date            *string        `json:"date"`
	Start           optionalString `json:"start"`
	End             optionalString `json:"end"`
	DurationMinutes *int           `json:"duration_minutes"`
	Task            *string        `json:"task"`
	Notes           *string        `json:"notes"`
	Billable        *bool          `json:"billable"`
}

func (request timeEntryRequest) input() services.TimeEntryInput {
	return services.TimeEntryInput{
		ProjectID:       request.Project,
		UserID:          request.User,
		Date:            request.Date,
		Start:           request.Start.Ptr(),
		End:             request.End.Ptr(),
		ClockSet:        request.Start.Set || request.End.Set,
		DurationMinutes: request.DurationMinutes,
		Task:            request.Task,
		Notes:           request.Notes,
		Billable:        request.Billable,
	}
}

// parseEntryFilter reads the filters shared by time entry lists and reports.
func parseEntryFilter(c *fiber.Ctx) (models.TimeEntryFilter, error) {
	filter := models.TimeEntryFilter{Search: c.Query("search")}
	var err error
	if filter.ClientID, err = optionalUintQuery(c, "client"); err != nil {
		return filter, err
	}
	if filter.ProjectID, err = optionalUintQuery(c, "project"); err != nil {
		return filter, err
	}
	if filter.UserID, err = optionalUintQuery(c, "user"); err != nil {
		return filter, err
	}
	if filter.Billable, err = optionalBoolQuery(c, "billable"); err != nil {
		return filter, err
	}
	if filter.From, filter.To, err = services.ParseDateRange(c.Query("from"), c.Query("to")); err != nil {
		return filter, err
	}
	return filter, nil
}

func (handler *Handler) ListTimeEntries(c *fiber.Ctx) error {
	filter, err := parseEntryFilter(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if filter.Page, err = parsePage(c); err != nil {
		return handler.respondServiceError(c, err)
	}
	filter.Ordering = c.Query("ordering")
	if !db.IsValidTimeEntryOrdering(filter.Ordering) {
		return handler.respondServiceError(c, invalidQuery("ordering", "ordering must be one of date, -date, created_at, -created_at, duration_minutes, -duration_minutes"))
	}

	entries, count, err := handler.timeEntryService.List(currentCaller(c), filter)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	priced, err := handler.timeEntryService.Price(entries)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	results := make([]timeEntryResponse, 0, len(priced))
	for _, item := range priced {
		results = append(results, newTimeEntryResponse(item))
	}
	return respondPage(c, count, results)
}

func (handler *Handler) GetTimeEntry(c *fiber.Ctx) error {
	entryID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	entry, err := handler.timeEntryService.Get(currentCaller(c), entryID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return handler.respondTimeEntry(c, fiber.StatusOK, entry)
}

func (handler *Handler) CreateTimeEntry(c *fiber.Ctx) error {
	request := timeEntryRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	entry, err := handler.timeEntryService.Create(caller, request.input())
	if err != nil {
		return handler.respondEntryWriteError(c, err)
	}
	return handler.respondStoredEntry(c, fiber.StatusCreated, caller, entry)
}

func (handler *Handler) UpdateTimeEntry(c *fiber.Ctx) error {
	entryID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	request := timeEntryRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	entry, err := handler.timeEntryService.Update(caller, entryID, request.input())
	if err != nil {
		return handler.respondEntryWriteError(c, err)
	}
	return handler.respondStoredEntry(c, fiber.StatusOK, caller, entry)
}

func (handler *Handler) DeleteTimeEntry(c *fiber.Ctx) error {
	entryID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	if err := handler.timeEntryService.Delete(caller, entryID); err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "delete", "time_entry", entryID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) respondEntryWriteError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrConflict) {
		observability.ObserveOverlapRejection()
	}
	return handler.respondServiceError(c, err)
}

// respondStoredEntry reloads the entry so the response carries its user and
// project the same way list and detail responses do.
func (handler *Handler) respondStoredEntry(c *fiber.Ctx, status int, caller services.Caller, entry models.TimeEntry) error {
	reloaded, err := handler.timeEntryService.Get(caller, entry.ID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return handler.respondTimeEntry(c, status, reloaded)
}

func (handler *Handler) respondTimeEntry(c *fiber.Ctx, status int, entry models.TimeEntry) error {
	priced, err := handler.timeEntryService.Price([]models.TimeEntry{entry})
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(status).JSON(newTimeEntryResponse(priced[0]))
}
