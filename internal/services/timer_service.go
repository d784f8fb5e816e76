package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/worktrace/internal/models"
)

const DefaultTimerTask = "Logged work"

type TimerRepository interface {
	FindByID(timerID uint) (models.TimeEntryTimer, bool, error)
	List(userID *uint) ([]models.TimeEntryTimer, error)
	HasRunning(userID uint, exceptTimerID uint) (bool, error)
	Create(timer *models.TimeEntryTimer) error
	SaveState(timer *models.TimeEntryTimer) error
	Finalize(timer models.TimeEntryTimer, entry *models.TimeEntry, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error
}

type ProjectReader interface {
	FindByID(projectID uint) (models.Project, bool, error)
}

type StopInput struct {
	Summary  string
	Task     string
	Billable *bool
}

type TimerService struct {
	timers      TimerRepository
	projects    ProjectReader
	assignments AssignmentChecker
	overlap     OverlapPolicy
}

func NewTimerService(timers TimerRepository, projects ProjectReader, assignments AssignmentChecker, overlap OverlapPolicy) *TimerService {
	return &TimerService{
		timers:      timers,
		projects:    projects,
		assignments: assignments,
		overlap:     overlap,
	}
}

// ElapsedSeconds is banked time plus the current running segment, if any.
func ElapsedSeconds(timer models.TimeEntryTimer, now time.Time) int64 {
	elapsed := timer.AccumulatedSeconds
	if timer.Status == models.TimerStatusRunning && timer.LastResumedAt != nil {
		elapsed += segmentSeconds(*timer.LastResumedAt, now)
	}
	return elapsed
}

// StoppedDurationMinutes rounds up and never returns less than one minute.
func StoppedDurationMinutes(elapsedSeconds int64) int {
	minutes := (elapsedSeconds + 59) / 60
	if minutes < 1 {
		minutes = 1
	}
	return int(minutes)
}

func segmentSeconds(from time.Time, to time.Time) int64 {
	seconds := int64(to.Sub(from) / time.Second)
	if seconds < 0 {
		return 0
	}
	return seconds
}

func (service *TimerService) List(caller Caller) ([]models.TimeEntryTimer, error) {
	if caller.IsAdmin() {
		return service.timers.List(nil)
	}
	userID := caller.UserID
	return service.timers.List(&userID)
}

func (service *TimerService) Get(caller Caller, timerID uint) (models.TimeEntryTimer, error) {
	timer, found, err := service.timers.FindByID(timerID)
	if err != nil {
		return models.TimeEntryTimer{}, err
	}
	if !found || (!caller.IsAdmin() && timer.UserID != caller.UserID) {
		return models.TimeEntryTimer{}, notFoundError("timer")
	}
	return timer, nil
}

func (service *TimerService) Start(caller Caller, projectID uint, notes string, now time.Time) (models.TimeEntryTimer, error) {
	project, found, err := service.projects.FindByID(projectID)
	if err != nil {
		return models.TimeEntryTimer{}, err
	}
	if !found {
		return models.TimeEntryTimer{}, notFoundError("project")
	}
	if err := requireProjectAccess(service.assignments, caller, project); err != nil {
		return models.TimeEntryTimer{}, err
	}

	running, err := service.timers.HasRunning(caller.UserID, 0)
	if err != nil {
		return models.TimeEntryTimer{}, err
	}
	if running {
		return models.TimeEntryTimer{}, errTimerAlreadyRunning()
	}

	startedAt := now.UTC()
	timer := models.TimeEntryTimer{
		ProjectID:     project.ID,
		UserID:        caller.UserID,
		Status:        models.TimerStatusRunning,
		StartedAt:     startedAt,
		LastResumedAt: &startedAt,
		Notes:         strings.TrimSpace(notes),
	}
	if err := service.timers.Create(&timer); err != nil {
		if IsUniqueViolation(err) {
			return models.TimeEntryTimer{}, errTimerAlreadyRunning()
		}
		return models.TimeEntryTimer{}, err
	}
	timer.Project = project
	return timer, nil
}

func (service *TimerService) Pause(caller Caller, timerID uint, now time.Time) (models.TimeEntryTimer, error) {
	timer, err := service.Get(caller, timerID)
	if err != nil {
		return models.TimeEntryTimer{}, err
	}
	if err := fireTimerEvent(timer, TimerEventPause); err != nil {
		return models.TimeEntryTimer{}, err
	}

	if timer.LastResumedAt != nil {
		timer.AccumulatedSeconds += segmentSeconds(*timer.LastResumedAt, now)
	}
	timer.LastResumedAt = nil
	timer.Status = models.TimerStatusPaused
	if err := service.timers.SaveState(&timer); err != nil {
		return models.TimeEntryTimer{}, err
	}
	return timer, nil
}

func (service *TimerService) Resume(caller Caller, timerID uint, now time.Time) (models.TimeEntryTimer, error) {
	timer, err := service.Get(caller, timerID)
	if err != nil {
		return models.TimeEntryTimer{}, err
	}
	if err := fireTimerEvent(timer, TimerEventResume); err != nil {
		return models.TimeEntryTimer{}, err
	}

	running, err := service.timers.HasRunning(timer.UserID, timer.ID)
	if err != nil {
		return models.TimeEntryTimer{}, err
	}
	if running {
		return models.TimeEntryTimer{}, errTimerAlreadyRunning()
	}

	resumedAt := now.UTC()
	timer.LastResumedAt = &resumedAt
	timer.Status = models.TimerStatusRunning
	if err := service.timers.SaveState(&timer); err != nil {
		if IsUniqueViolation(err) {
			return models.TimeEntryTimer{}, errTimerAlreadyRunning()
		}
		return models.TimeEntryTimer{}, err
	}
	return timer, nil
}

// Stop converts the timer into a time entry and removes the timer in one
// transaction. Date and clock times come from started_at and now in location.
// A session spanning a full day or more cannot be expressed as two clock
// times and is stored as a duration-only entry.
func (service *TimerService) Stop(caller Caller, timerID uint, input StopInput, now time.Time, location *time.Location) (models.TimeEntry, error) {
	timer, err := service.Get(caller, timerID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if err := fireTimerEvent(timer, TimerEventStop); err != nil {
		return models.TimeEntry{}, err
	}
	if location == nil {
		location = time.UTC
	}

	startLocal := timer.StartedAt.In(location).Truncate(time.Second)
	endLocal := now.In(location).Truncate(time.Second)
	if !endLocal.After(startLocal) {
		endLocal = startLocal.Add(time.Minute)
	}
	var start, end *string
	if endLocal.Sub(startLocal) < 24*time.Hour {
		startClock := startLocal.Format(ClockLayout)
		endClock := endLocal.Format(ClockLayout)
		start, end = &startClock, &endClock
	}

	task := strings.TrimSpace(input.Task)
	if task == "" {
		task = DefaultTimerTask
	}
	billable := true
	if input.Billable != nil {
		billable = *input.Billable
	}

	entry := models.TimeEntry{
		ProjectID:       timer.ProjectID,
		UserID:          timer.UserID,
		Date:            CalendarDate(startLocal),
		Start:           start,
		End:             end,
		DurationMinutes: StoppedDurationMinutes(ElapsedSeconds(timer, now)),
		Task:            task,
		Notes:           strings.TrimSpace(input.Summary),
		Billable:        billable,
	}

	var check func([]models.TimeEntry) error
	if !service.overlap.Allow {
		check = func(existing []models.TimeEntry) error {
			return CheckNoOverlap(entry, existing, service.overlap)
		}
	}
	scanFrom, scanTo := ScanWindow(entry)
	if err := service.timers.Finalize(timer, &entry, scanFrom, scanTo, check); err != nil {
		return models.TimeEntry{}, err
	}
	entry.Project = timer.Project
	return entry, nil
}

func fireTimerEvent(timer models.TimeEntryTimer, event string) error {
	machine, err := NewTimerMachine(timer)
	if err != nil {
		return err
	}
	_, err = machine.Fire(event)
	return err
}

func errTimerAlreadyRunning() error {
	return conflictError("you already have a running timer; stop it before starting another")
}
