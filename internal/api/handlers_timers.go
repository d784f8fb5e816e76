package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/observability"
	"github.com/terraincognita07/worktrace/internal/services"
)

const timerEventStart = "start"

type startTimerRequest struct {
	Project uint   `json:"project"`
	Notes   string `json:"notes"`
}

type stopTimerRequest struct {
	Summary  string `json:"summary"`
	Task     string `json:"task"`
	Billable *bool  `json:"billable"`
}

func transitionResult(err error) string {
	if err != nil {
		return "rejected"
	}
	return "ok"
}

func (handler *Handler) ListTimers(c *fiber.Ctx) error {
	timers, err := handler.timerService.List(currentCaller(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	now := handler.now()
	results := make([]timerResponse, 0, len(timers))
	for _, timer := range timers {
		results = append(results, newTimerResponse(timer, now))
	}
	return respondPage(c, int64(len(results)), results)
}

func (handler *Handler) GetTimer(c *fiber.Ctx) error {
	timerID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	timer, err := handler.timerService.Get(currentCaller(c), timerID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newTimerResponse(timer, handler.now()))
}

func (handler *Handler) StartTimer(c *fiber.Ctx) error {
	request := startTimerRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	now := handler.now()
	timer, err := handler.timerService.Start(caller, request.Project, request.Notes, now)
	observability.ObserveTimerTransition(timerEventStart, transitionResult(err))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "timer_start", "time_entry_timer", timer.ID,
		slog.Uint64("project_id", uint64(timer.ProjectID)))
	return c.Status(fiber.StatusCreated).JSON(newTimerResponse(timer, now))
}

func (handler *Handler) PauseTimer(c *fiber.Ctx) error {
	return handler.transitionTimer(c, services.TimerEventPause, handler.timerService.Pause)
}

func (handler *Handler) ResumeTimer(c *fiber.Ctx) error {
	return handler.transitionTimer(c, services.TimerEventResume, handler.timerService.Resume)
}

type timerTransition func(caller services.Caller, timerID uint, now time.Time) (models.TimeEntryTimer, error)

func (handler *Handler) transitionTimer(c *fiber.Ctx, event string, transition timerTransition) error {
	timerID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	now := handler.now()
	timer, err := transition(caller, timerID, now)
	observability.ObserveTimerTransition(event, transitionResult(err))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "timer_"+event, "time_entry_timer", timer.ID)
	return c.JSON(newTimerResponse(timer, now))
}

// StopTimer converts the timer into a time entry and answers with that entry.
func (handler *Handler) StopTimer(c *fiber.Ctx) error {
	timerID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	request := stopTimerRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}

	caller := currentCaller(c)
	input := services.StopInput{Summary: request.Summary, Task: request.Task, Billable: request.Billable}
	entry, err := handler.timerService.Stop(caller, timerID, input, handler.now(), handler.location)
	observability.ObserveTimerTransition(services.TimerEventStop, transitionResult(err))
	if err != nil {
		return handler.respondEntryWriteError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "timer_stop", "time_entry_timer", timerID,
		slog.Uint64("time_entry_id", uint64(entry.ID)),
		slog.Int("duration_minutes", entry.DurationMinutes),
	)
	return handler.respondStoredEntry(c, fiber.StatusCreated, caller, entry)
}
