package db

import (
	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository struct {
	database *gorm.DB
}

func NewAssignmentRepository(database *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{database: database}
}

func (repo *AssignmentRepository) FindByID(assignmentID uint) (models.ProjectAssignment, bool, error) {
	assignment := models.ProjectAssignment{}
	result := repo.database.Preload("Project").Preload("User").Where("id = ?", assignmentID).Limit(1).Find(&assignment)
	if result.Error != nil {
		return models.ProjectAssignment{}, false, result.Error
	}
	return assignment, result.RowsAffected > 0, nil
}

func (repo *AssignmentRepository) List(filter models.AssignmentFilter) ([]models.ProjectAssignment, int64, error) {
	query := repo.database.Model(&models.ProjectAssignment{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	assignments := make([]models.ProjectAssignment, 0)
	if err := paginate(query, filter.Page).
		Preload("Project").
		Preload("User").
		Order("project_id ASC, user_id ASC").
		Find(&assignments).Error; err != nil {
		return nil, 0, err
	}
	return assignments, count, nil
}

func (repo *AssignmentRepository) HasActiveAssignment(projectID uint, userID uint) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.ProjectAssignment{}).
		Where("project_id = ? AND user_id = ? AND is_active = ?", projectID, userID, true).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *AssignmentRepository) Create(assignment *models.ProjectAssignment) error {
	return repo.database.Omit(clause.Associations).Create(assignment).Error
}

func (repo *AssignmentRepository) Update(assignment *models.ProjectAssignment) error {
	return repo.database.Omit(clause.Associations).Save(assignment).Error
}

func (repo *AssignmentRepository) Delete(assignmentID uint) error {
	return repo.database.Delete(&models.ProjectAssignment{}, assignmentID).Error
}
