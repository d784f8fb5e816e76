package db

import (
	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

// Load returns the singleton settings row, creating it with defaults on first
// access.
func (repo *SettingsRepository) Load() (models.SystemSettings, error) {
	settings := models.SystemSettings{}
	err := repo.database.
		Where(models.SystemSettings{ID: models.SystemSettingsID}).
		Attrs(models.SystemSettings{SMTPPort: 587, SMTPUseTLS: true}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return models.SystemSettings{}, err
	}
	return settings, nil
}

func (repo *SettingsRepository) Save(settings *models.SystemSettings) error {
	settings.ID = models.SystemSettingsID
	return repo.database.Save(settings).Error
}
