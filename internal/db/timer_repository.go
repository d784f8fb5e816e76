package db

import (
	"time"

	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TimerRepository struct {
	database *gorm.DB
}

func NewTimerRepository(database *gorm.DB) *TimerRepository {
	return &TimerRepository{database: database}
}

func (repo *TimerRepository) FindByID(timerID uint) (models.TimeEntryTimer, bool, error) {
	timer := models.TimeEntryTimer{}
	result := repo.database.Preload("Project").Where("id = ?", timerID).Limit(1).Find(&timer)
	if result.Error != nil {
		return models.TimeEntryTimer{}, false, result.Error
	}
	return timer, result.RowsAffected > 0, nil
}

// List returns all timers, or only userID's when set.
func (repo *TimerRepository) List(userID *uint) ([]models.TimeEntryTimer, error) {
	query := repo.database.Preload("Project")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	timers := make([]models.TimeEntryTimer, 0)
	if err := query.Order("started_at DESC, id DESC").Find(&timers).Error; err != nil {
		return nil, err
	}
	return timers, nil
}

func (repo *TimerRepository) HasRunning(userID uint, exceptTimerID uint) (bool, error) {
	var running int64
	if err := repo.database.Model(&models.TimeEntryTimer{}).
		Where("user_id = ? AND status = ? AND id <> ?", userID, models.TimerStatusRunning, exceptTimerID).
		Count(&running).Error; err != nil {
		return false, err
	}
	return running > 0, nil
}

func (repo *TimerRepository) Create(timer *models.TimeEntryTimer) error {
	return repo.database.Omit(clause.Associations).Create(timer).Error
}

func (repo *TimerRepository) SaveState(timer *models.TimeEntryTimer) error {
	return repo.database.Model(&models.TimeEntryTimer{}).Where("id = ?", timer.ID).Updates(map[string]any{
		"status":              timer.Status,
		"last_resumed_at":     timer.LastResumedAt,
		"accumulated_seconds": timer.AccumulatedSeconds,
	}).Error
}

// Finalize stores the entry produced by stopping timer and deletes the timer
// in the same transaction.
func (repo *TimerRepository) Finalize(timer models.TimeEntryTimer, entry *models.TimeEntry, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := insertTimeEntry(tx, entry, scanFrom, scanTo, check); err != nil {
			return err
		}
		return tx.Delete(&models.TimeEntryTimer{}, timer.ID).Error
	})
}
