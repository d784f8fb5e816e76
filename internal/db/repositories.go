package db

import (
	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
)

type Repositories struct {
	Users       *UserRepository
	Clients     *ClientRepository
	Projects    *ProjectRepository
	Assignments *AssignmentRepository
	Rates       *HourlyRateRepository
	Entries     *TimeEntryRepository
	Timers      *TimerRepository
	Ledger      *LedgerRepository
	Settings    *SettingsRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Clients:     NewClientRepository(database),
		Projects:    NewProjectRepository(database),
		Assignments: NewAssignmentRepository(database),
		Rates:       NewHourlyRateRepository(database),
		Entries:     NewTimeEntryRepository(database),
		Timers:      NewTimerRepository(database),
		Ledger:      NewLedgerRepository(database),
		Settings:    NewSettingsRepository(database),
	}
}

func paginate(query *gorm.DB, page models.Page) *gorm.DB {
	if page.Size <= 0 {
		return query
	}
	return query.Offset(page.Offset()).Limit(page.Size)
}

func likePattern(search string) string {
	return "%" + search + "%"
}
