package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/models"
)

type TimeEntryRepository interface {
	FindByID(entryID uint) (models.TimeEntry, bool, error)
	List(filter models.TimeEntryFilter) ([]models.TimeEntry, int64, error)
	Create(entry *models.TimeEntry, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error
	Update(entry *models.TimeEntry, previousProjectID uint, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error
	Delete(entry models.TimeEntry) error
}

// TimeEntryInput carries create and patch payloads. Nil fields are left
// untouched on update. ClockSet marks that start/end were sent, even as null.
type TimeEntryInput struct {
	ProjectID       *uint
	UserID          *uint
	Date            *string
	Start           *string
	End             *string
	ClockSet        bool
	DurationMinutes *int
	Task            *string
	Notes           *string
	Billable        *bool
}

// touchesDuration reports whether a patch changes the clock times or the
// duration. Other patches keep the stored duration as it is.
func (input TimeEntryInput) touchesDuration() bool {
	return input.ClockSet || input.Start != nil || input.End != nil || input.DurationMinutes != nil
}

// PricedEntry is a time entry with its resolved rate. Amount is nil when the
// entry is not billable or no rate applies.
type PricedEntry struct {
	Entry  models.TimeEntry
	Rate   *ResolvedRate
	Amount *decimal.Decimal
}

type TimeEntryService struct {
	entries     TimeEntryRepository
	projects    ProjectReader
	assignments AssignmentChecker
	rates       HourlyRateLookup
	overlap     OverlapPolicy
}

func NewTimeEntryService(entries TimeEntryRepository, projects ProjectReader, assignments AssignmentChecker, rates HourlyRateLookup, overlap OverlapPolicy) *TimeEntryService {
	return &TimeEntryService{
		entries:     entries,
		projects:    projects,
		assignments: assignments,
		rates:       rates,
		overlap:     overlap,
	}
}

func (service *TimeEntryService) List(caller Caller, filter models.TimeEntryFilter) ([]models.TimeEntry, int64, error) {
	if scope := caller.ClientScope(); scope != nil {
		filter.ClientID = scope
	}
	return service.entries.List(filter)
}

func (service *TimeEntryService) Get(caller Caller, entryID uint) (models.TimeEntry, error) {
	entry, found, err := service.entries.FindByID(entryID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if !found || !caller.CanViewProject(entry.Project) {
		return models.TimeEntry{}, notFoundError("time entry")
	}
	return entry, nil
}

func (service *TimeEntryService) Create(caller Caller, input TimeEntryInput) (models.TimeEntry, error) {
	errs := fieldErrors{}
	if input.ProjectID == nil || *input.ProjectID == 0 {
		errs.add("project", "project is required")
	}
	if input.Date == nil || strings.TrimSpace(*input.Date) == "" {
		errs.add("date", "date is required")
	}
	if input.Task == nil || strings.TrimSpace(*input.Task) == "" {
		errs.add("task", "task is required")
	}
	if err := errs.err(); err != nil {
		return models.TimeEntry{}, err
	}

	entry := models.TimeEntry{UserID: caller.UserID, Billable: true}
	if input.UserID != nil && *input.UserID != 0 {
		entry.UserID = *input.UserID
	}
	if err := applyEntryInput(&entry, input); err != nil {
		return models.TimeEntry{}, err
	}

	project, err := service.authorizeEntry(caller, entry)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if err := NormalizeEntryTimes(&entry, true); err != nil {
		return models.TimeEntry{}, err
	}

	scanFrom, scanTo := ScanWindow(entry)
	if err := service.entries.Create(&entry, scanFrom, scanTo, service.overlapCheck(entry)); err != nil {
		return models.TimeEntry{}, err
	}
	entry.Project = project
	return entry, nil
}

func (service *TimeEntryService) Update(caller Caller, entryID uint, input TimeEntryInput) (models.TimeEntry, error) {
	entry, err := service.Get(caller, entryID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if !caller.IsAdmin() && entry.UserID != caller.UserID {
		return models.TimeEntry{}, forbiddenError("you can only change your own time entries")
	}
	if input.UserID != nil && *input.UserID != entry.UserID && !caller.IsAdmin() {
		return models.TimeEntry{}, forbiddenError("you can only log your own time")
	}

	previousProjectID := entry.ProjectID
	if input.UserID != nil && *input.UserID != 0 {
		entry.UserID = *input.UserID
	}
	if input.Task != nil && strings.TrimSpace(*input.Task) == "" {
		return models.TimeEntry{}, fieldError("task", "task is required")
	}
	if err := applyEntryInput(&entry, input); err != nil {
		return models.TimeEntry{}, err
	}

	project, err := service.authorizeEntry(caller, entry)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if err := NormalizeEntryTimes(&entry, input.touchesDuration()); err != nil {
		return models.TimeEntry{}, err
	}

	scanFrom, scanTo := ScanWindow(entry)
	if err := service.entries.Update(&entry, previousProjectID, scanFrom, scanTo, service.overlapCheck(entry)); err != nil {
		return models.TimeEntry{}, err
	}
	entry.Project = project
	return entry, nil
}

func (service *TimeEntryService) Delete(caller Caller, entryID uint) error {
	entry, err := service.Get(caller, entryID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && entry.UserID != caller.UserID {
		return forbiddenError("you can only delete your own time entries")
	}
	return service.entries.Delete(entry)
}

// Price resolves the rate of every entry against the rate rows as of the
// entry date.
func (service *TimeEntryService) Price(entries []models.TimeEntry) ([]PricedEntry, error) {
	book := NewRateBook(service.rates)
	priced := make([]PricedEntry, 0, len(entries))
	for _, entry := range entries {
		item := PricedEntry{Entry: entry}
		rate, ok, err := book.Resolve(entry.Project, entry.Date)
		if err != nil {
			return nil, err
		}
		if ok {
			item.Rate = &rate
			if entry.Billable {
				amount := EntryAmount(entry.DurationMinutes, rate.Amount)
				item.Amount = &amount
			}
		}
		priced = append(priced, item)
	}
	return priced, nil
}

func (service *TimeEntryService) authorizeEntry(caller Caller, entry models.TimeEntry) (models.Project, error) {
	project, found, err := service.projects.FindByID(entry.ProjectID)
	if err != nil {
		return models.Project{}, err
	}
	if !found {
		return models.Project{}, notFoundError("project")
	}

	if !caller.IsAdmin() {
		if entry.UserID != caller.UserID {
			return models.Project{}, forbiddenError("you can only log your own time")
		}
		if err := requireProjectAccess(service.assignments, caller, project); err != nil {
			return models.Project{}, err
		}
		return project, nil
	}

	if entry.UserID != caller.UserID {
		assigned, err := service.assignments.HasActiveAssignment(project.ID, entry.UserID)
		if err != nil {
			return models.Project{}, err
		}
		if !assigned {
			return models.Project{}, fieldError("user", "user is not assigned to this project")
		}
	}
	return project, nil
}

func (service *TimeEntryService) overlapCheck(entry models.TimeEntry) func([]models.TimeEntry) error {
	if service.overlap.Allow {
		return nil
	}
	policy := service.overlap
	return func(existing []models.TimeEntry) error {
		return CheckNoOverlap(entry, existing, policy)
	}
}

func applyEntryInput(entry *models.TimeEntry, input TimeEntryInput) error {
	if input.ProjectID != nil && *input.ProjectID != 0 {
		entry.ProjectID = *input.ProjectID
	}
	if input.Date != nil {
		day, err := ParseDate(*input.Date)
		if err != nil {
			return fieldError("date", "enter a valid date (YYYY-MM-DD)")
		}
		entry.Date = day
	}
	if input.ClockSet || input.Start != nil || input.End != nil {
		entry.Start = trimmedOrNil(input.Start)
		entry.End = trimmedOrNil(input.End)
	}
	if input.DurationMinutes != nil {
		entry.DurationMinutes = *input.DurationMinutes
	}
	if input.Task != nil {
		entry.Task = strings.TrimSpace(*input.Task)
	}
	if input.Notes != nil {
		entry.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.Billable != nil {
		entry.Billable = *input.Billable
	}
	return nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
