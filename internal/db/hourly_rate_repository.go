package db

import (
	"strings"

	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
)

type HourlyRateRepository struct {
	database *gorm.DB
}

func NewHourlyRateRepository(database *gorm.DB) *HourlyRateRepository {
	return &HourlyRateRepository{database: database}
}

func (repo *HourlyRateRepository) FindByID(rateID uint) (models.HourlyRate, bool, error) {
	rate := models.HourlyRate{}
	result := repo.database.Where("id = ?", rateID).Limit(1).Find(&rate)
	if result.Error != nil {
		return models.HourlyRate{}, false, result.Error
	}
	return rate, result.RowsAffected > 0, nil
}

func (repo *HourlyRateRepository) List(filter models.HourlyRateFilter) ([]models.HourlyRate, int64, error) {
	query := repo.database.Model(&models.HourlyRate{})
	if filter.ClientID != nil {
		query = query.Where("scope_kind = ? AND scope_id = ?", models.RateScopeClient, *filter.ClientID)
	}
	if filter.ProjectID != nil {
		query = query.Where("scope_kind = ? AND scope_id = ?", models.RateScopeProject, *filter.ProjectID)
	}
	if currency := strings.ToUpper(strings.TrimSpace(filter.Currency)); currency != "" {
		query = query.Where("currency = ?", currency)
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	rates := make([]models.HourlyRate, 0)
	if err := paginate(query, filter.Page).Order("effective_from DESC, id DESC").Find(&rates).Error; err != nil {
		return nil, 0, err
	}
	return rates, count, nil
}

// ListByScope returns every rate row of one client or project, newest first.
func (repo *HourlyRateRepository) ListByScope(scope models.RateScope) ([]models.HourlyRate, error) {
	rates := make([]models.HourlyRate, 0)
	if err := repo.database.
		Where("scope_kind = ? AND scope_id = ?", scope.Kind, scope.ID).
		Order("effective_from DESC, id DESC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (repo *HourlyRateRepository) Create(rate *models.HourlyRate) error {
	return repo.database.Create(rate).Error
}

func (repo *HourlyRateRepository) Update(rate *models.HourlyRate) error {
	return repo.database.Save(rate).Error
}

func (repo *HourlyRateRepository) Delete(rateID uint) error {
	return repo.database.Delete(&models.HourlyRate{}, rateID).Error
}
