package db

import (
	"strings"

	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	database *gorm.DB
}

func NewProjectRepository(database *gorm.DB) *ProjectRepository {
	return &ProjectRepository{database: database}
}

func (repo *ProjectRepository) FindByID(projectID uint) (models.Project, bool, error) {
	project := models.Project{}
	result := repo.database.Preload("Client").Where("id = ?", projectID).Limit(1).Find(&project)
	if result.Error != nil {
		return models.Project{}, false, result.Error
	}
	return project, result.RowsAffected > 0, nil
}

func (repo *ProjectRepository) List(filter models.ProjectFilter) ([]models.Project, int64, error) {
	query := repo.database.Model(&models.Project{})
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Visibility != "" {
		query = query.Where("visibility = ?", filter.Visibility)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		query = query.Where("lower(name) LIKE ? OR lower(description) LIKE ?", likePattern(search), likePattern(search))
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	projects := make([]models.Project, 0)
	if err := paginate(query, filter.Page).Preload("Client").Order("name ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, count, nil
}

func (repo *ProjectRepository) ListByClient(clientID uint) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	if err := repo.database.Where("client_id = ?", clientID).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (repo *ProjectRepository) ListProjectIDs() ([]uint, error) {
	projectIDs := make([]uint, 0)
	if err := repo.database.Model(&models.Project{}).Order("id ASC").Pluck("id", &projectIDs).Error; err != nil {
		return nil, err
	}
	return projectIDs, nil
}

func (repo *ProjectRepository) Create(project *models.Project) error {
	return repo.database.Omit(clause.Associations).Create(project).Error
}

// Update leaves the metric rollup columns alone; only entry writes move them.
func (repo *ProjectRepository) Update(project *models.Project) error {
	return repo.database.Omit(clause.Associations, "total_logged_minutes", "last_logged_at", "created_by_id").Save(project).Error
}

func (repo *ProjectRepository) UpdateStatus(projectID uint, status string) error {
	return repo.database.Model(&models.Project{}).Where("id = ?", projectID).Update("status", status).Error
}

func (repo *ProjectRepository) RefreshProjectMetrics(projectID uint) error {
	return refreshProjectMetrics(repo.database, projectID)
}
