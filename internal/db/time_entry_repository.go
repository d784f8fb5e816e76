package db

import (
	"strings"
	"time"

	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var timeEntryOrderings = map[string]string{
	"date":              "date ASC, start_time ASC, id ASC",
	"-date":             "date DESC, start_time DESC, id DESC",
	"created_at":        "created_at ASC, id ASC",
	"-created_at":       "created_at DESC, id DESC",
	"duration_minutes":  "duration_minutes ASC, id ASC",
	"-duration_minutes": "duration_minutes DESC, id DESC",
}

const defaultTimeEntryOrdering = "-date"

type TimeEntryRepository struct {
	database *gorm.DB
}

func NewTimeEntryRepository(database *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{database: database}
}

func IsValidTimeEntryOrdering(ordering string) bool {
	_, ok := timeEntryOrderings[ordering]
	return ok || ordering == ""
}

func (repo *TimeEntryRepository) FindByID(entryID uint) (models.TimeEntry, bool, error) {
	entry := models.TimeEntry{}
	result := repo.database.
		Preload("Project").
		Preload("User").
		Where("id = ?", entryID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.TimeEntry{}, false, result.Error
	}
	return entry, result.RowsAffected > 0, nil
}

func (repo *TimeEntryRepository) List(filter models.TimeEntryFilter) ([]models.TimeEntry, int64, error) {
	query := repo.filtered(filter)
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		query = query.Where("lower(task) LIKE ? OR lower(notes) LIKE ?", likePattern(search), likePattern(search))
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	ordering, ok := timeEntryOrderings[filter.Ordering]
	if !ok {
		ordering = timeEntryOrderings[defaultTimeEntryOrdering]
	}
	entries := make([]models.TimeEntry, 0)
	if err := paginate(query, filter.Page).
		Preload("Project").
		Preload("User").
		Order(ordering).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

// ListForReport returns every matching entry with project, client and user
// loaded, without pagination.
func (repo *TimeEntryRepository) ListForReport(filter models.TimeEntryFilter) ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0)
	if err := repo.filtered(filter).
		Preload("Project").
		Preload("Project.Client").
		Preload("User").
		Order("date ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *TimeEntryRepository) ListBillableHourlyByClient(clientID uint) ([]models.TimeEntry, error) {
	hourlyProjects := repo.database.Model(&models.Project{}).
		Select("id").
		Where("client_id = ? AND billing_type = ?", clientID, models.BillingHourly)

	entries := make([]models.TimeEntry, 0)
	if err := repo.database.
		Preload("Project").
		Where("billable = ? AND project_id IN (?)", true, hourlyProjects).
		Order("date ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *TimeEntryRepository) Create(entry *models.TimeEntry, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		return insertTimeEntry(tx, entry, scanFrom, scanTo, check)
	})
}

// Update rewrites the entry and refreshes the rollup of its project and, when
// the entry moved, of the project it left.
func (repo *TimeEntryRepository) Update(entry *models.TimeEntry, previousProjectID uint, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := runOverlapCheck(tx, entry.UserID, scanFrom, scanTo, check); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(entry).Error; err != nil {
			return err
		}
		if err := refreshProjectMetrics(tx, entry.ProjectID); err != nil {
			return err
		}
		if previousProjectID != 0 && previousProjectID != entry.ProjectID {
			return refreshProjectMetrics(tx, previousProjectID)
		}
		return nil
	})
}

func (repo *TimeEntryRepository) Delete(entry models.TimeEntry) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TimeEntry{}, entry.ID).Error; err != nil {
			return err
		}
		return refreshProjectMetrics(tx, entry.ProjectID)
	})
}

func (repo *TimeEntryRepository) filtered(filter models.TimeEntryFilter) *gorm.DB {
	query := repo.database.Model(&models.TimeEntry{})
	if filter.ClientID != nil {
		clientProjects := repo.database.Model(&models.Project{}).Select("id").Where("client_id = ?", *filter.ClientID)
		query = query.Where("project_id IN (?)", clientProjects)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date < ?", filter.To.AddDate(0, 0, 1))
	}
	if filter.Billable != nil {
		query = query.Where("billable = ?", *filter.Billable)
	}
	return query
}

// insertTimeEntry runs the overlap check against the user's entries inside
// [scanFrom, scanTo), stores the entry and refreshes the project rollup.
func insertTimeEntry(tx *gorm.DB, entry *models.TimeEntry, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error {
	if err := runOverlapCheck(tx, entry.UserID, scanFrom, scanTo, check); err != nil {
		return err
	}
	if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
		return err
	}
	return refreshProjectMetrics(tx, entry.ProjectID)
}

func runOverlapCheck(tx *gorm.DB, userID uint, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error {
	if check == nil {
		return nil
	}
	existing := make([]models.TimeEntry, 0)
	if err := tx.
		Where("user_id = ? AND date >= ? AND date < ?", userID, scanFrom, scanTo).
		Order("date ASC, id ASC").
		Find(&existing).Error; err != nil {
		return err
	}
	return check(existing)
}

type projectMinutes struct {
	Total int64 `gorm:"column:total"`
}

// refreshProjectMetrics recomputes total_logged_minutes and last_logged_at
// from the project's entries.
func refreshProjectMetrics(tx *gorm.DB, projectID uint) error {
	var minutes projectMinutes
	if err := tx.Model(&models.TimeEntry{}).
		Select("COALESCE(SUM(duration_minutes), 0) AS total").
		Where("project_id = ?", projectID).
		Scan(&minutes).Error; err != nil {
		return err
	}

	var latest models.TimeEntry
	result := tx.Select("id", "created_at").
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&latest)
	if result.Error != nil {
		return result.Error
	}
	var lastLoggedAt *time.Time
	if result.RowsAffected > 0 {
		lastLoggedAt = &latest.CreatedAt
	}

	return tx.Model(&models.Project{}).Where("id = ?", projectID).UpdateColumns(map[string]any{
		"total_logged_minutes": minutes.Total,
		"last_logged_at":       lastLoggedAt,
	}).Error
}
