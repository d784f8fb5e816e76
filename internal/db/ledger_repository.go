package db

import (
	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
)

type LedgerRepository struct {
	database *gorm.DB
}

func NewLedgerRepository(database *gorm.DB) *LedgerRepository {
	return &LedgerRepository{database: database}
}

func (repo *LedgerRepository) ListByClient(clientID uint) ([]models.ClientAccountEntry, error) {
	entries := make([]models.ClientAccountEntry, 0)
	if err := repo.database.
		Where("client_id = ?", clientID).
		Order("occurred_at DESC, created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *LedgerRepository) Record(entry *models.ClientAccountEntry) error {
	return repo.database.Create(entry).Error
}
