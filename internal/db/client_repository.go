package db

import (
	"strings"

	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClientRepository struct {
	database *gorm.DB
}

func NewClientRepository(database *gorm.DB) *ClientRepository {
	return &ClientRepository{database: database}
}

func (repo *ClientRepository) FindByID(clientID uint) (models.Client, bool, error) {
	client := models.Client{}
	result := repo.database.Where("id = ?", clientID).Limit(1).Find(&client)
	if result.Error != nil {
		return models.Client{}, false, result.Error
	}
	return client, result.RowsAffected > 0, nil
}

func (repo *ClientRepository) List(filter models.ClientFilter) ([]models.Client, int64, error) {
	query := repo.database.Model(&models.Client{})
	if filter.ClientID != nil {
		query = query.Where("id = ?", *filter.ClientID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", likePattern(search), likePattern(search))
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	clients := make([]models.Client, 0)
	if err := paginate(query, filter.Page).Order("name ASC, id ASC").Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, count, nil
}

// EmailTaken checks clients other than exceptClientID and every user that is
// not one of that client's own logins.
func (repo *ClientRepository) EmailTaken(email string, exceptClientID uint) (bool, error) {
	var clients int64
	if err := repo.database.Model(&models.Client{}).
		Where("lower(trim(email)) = ? AND id <> ?", email, exceptClientID).
		Count(&clients).Error; err != nil {
		return false, err
	}
	if clients > 0 {
		return true, nil
	}

	var users int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ? AND (client_id IS NULL OR client_id <> ?)", email, exceptClientID).
		Count(&users).Error; err != nil {
		return false, err
	}
	return users > 0, nil
}

func (repo *ClientRepository) CreateWithUser(client *models.Client, user *models.User) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(client).Error; err != nil {
			return err
		}
		user.ClientID = &client.ID
		return tx.Omit(clause.Associations).Create(user).Error
	})
}

// Update saves the client and moves its client-role logins that still use
// previousEmail over to the new address.
func (repo *ClientRepository) Update(client *models.Client, previousEmail string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(client).Error; err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(previousEmail), client.Email) {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("client_id = ? AND role = ? AND lower(trim(email)) = ?", client.ID, models.RoleClient, strings.ToLower(strings.TrimSpace(previousEmail))).
			Update("email", client.Email).Error
	})
}

func (repo *ClientRepository) Deactivate(clientID uint) error {
	return repo.database.Model(&models.Client{}).Where("id = ?", clientID).Update("is_active", false).Error
}
