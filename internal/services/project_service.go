package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/models"
)

type ProjectRepository interface {
	FindByID(projectID uint) (models.Project, bool, error)
	List(filter models.ProjectFilter) ([]models.Project, int64, error)
	Create(project *models.Project) error
	Update(project *models.Project) error
	UpdateStatus(projectID uint, status string) error
}

// ProjectInput is a create or patch payload. For the decimal fields a nil
// pointer leaves the value untouched and an empty string clears it.
type ProjectInput struct {
	Name           *string
	ClientID       *uint
	Description    *string
	Status         *string
	Visibility     *string
	BillingType    *string
	PackHours      *string
	PackTotalValue *string
	HourlyRate     *string
	Currency       *string
}

type ProjectService struct {
	projects ProjectRepository
	clients  ClientReader
}

func NewProjectService(projects ProjectRepository, clients ClientReader) *ProjectService {
	return &ProjectService{projects: projects, clients: clients}
}

func (service *ProjectService) List(caller Caller, filter models.ProjectFilter) ([]models.Project, int64, error) {
	if scope := caller.ClientScope(); scope != nil {
		filter.ClientID = scope
	}
	return service.projects.List(filter)
}

func (service *ProjectService) Get(caller Caller, projectID uint) (models.Project, error) {
	project, found, err := service.projects.FindByID(projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !found || !caller.CanViewProject(project) {
		return models.Project{}, notFoundError("project")
	}
	return project, nil
}

func (service *ProjectService) Create(caller Caller, input ProjectInput) (models.Project, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Project{}, err
	}

	project := models.Project{
		Status:      models.ProjectStatusActive,
		Visibility:  models.VisibilityInternal,
		BillingType: models.BillingHourly,
		Currency:    models.DefaultCurrency,
		CreatedByID: caller.UserID,
	}
	errs := fieldErrors{}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		errs.add("name", "name is required")
	}
	if input.ClientID == nil || *input.ClientID == 0 {
		errs.add("client", "client is required")
	}
	if err := errs.err(); err != nil {
		return models.Project{}, err
	}

	if err := service.applyInput(&project, input); err != nil {
		return models.Project{}, err
	}
	if err := service.projects.Create(&project); err != nil {
		return models.Project{}, err
	}
	return service.reload(project.ID)
}

func (service *ProjectService) Update(caller Caller, projectID uint, input ProjectInput) (models.Project, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Project{}, err
	}
	project, err := service.Get(caller, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return models.Project{}, fieldError("name", "name is required")
	}
	if err := service.applyInput(&project, input); err != nil {
		return models.Project{}, err
	}
	if err := service.projects.Update(&project); err != nil {
		return models.Project{}, err
	}
	return service.reload(project.ID)
}

func (service *ProjectService) SetStatus(caller Caller, projectID uint, status string) (models.Project, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Project{}, err
	}
	if _, err := service.Get(caller, projectID); err != nil {
		return models.Project{}, err
	}
	status = strings.TrimSpace(status)
	if !models.IsValidProjectStatus(status) {
		return models.Project{}, fieldError("status", "status must be active, paused or archived")
	}
	if err := service.projects.UpdateStatus(projectID, status); err != nil {
		return models.Project{}, err
	}
	return service.reload(projectID)
}

// Archive is the delete path: projects keep their history.
func (service *ProjectService) Archive(caller Caller, projectID uint) error {
	_, err := service.SetStatus(caller, projectID, models.ProjectStatusArchived)
	return err
}

func (service *ProjectService) reload(projectID uint) (models.Project, error) {
	project, found, err := service.projects.FindByID(projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !found {
		return models.Project{}, notFoundError("project")
	}
	return project, nil
}

func (service *ProjectService) applyInput(project *models.Project, input ProjectInput) error {
	errs := fieldErrors{}

	if input.Name != nil {
		project.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.ClientID != nil && *input.ClientID != project.ClientID {
		_, found, err := service.clients.FindByID(*input.ClientID)
		if err != nil {
			return err
		}
		if !found {
			errs.add("client", "client not found")
		}
		project.ClientID = *input.ClientID
	}
	if input.Status != nil {
		project.Status = strings.TrimSpace(*input.Status)
		if !models.IsValidProjectStatus(project.Status) {
			errs.add("status", "status must be active, paused or archived")
		}
	}
	if input.Visibility != nil {
		project.Visibility = strings.TrimSpace(*input.Visibility)
		if !models.IsValidVisibility(project.Visibility) {
			errs.add("visibility", "visibility must be internal or client")
		}
	}
	if input.BillingType != nil {
		project.BillingType = strings.TrimSpace(*input.BillingType)
	}
	if input.Currency != nil {
		project.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}

	applyDecimal(&project.PackHours, input.PackHours, "pack_hours", errs)
	applyDecimal(&project.PackTotalValue, input.PackTotalValue, "pack_total_value", errs)
	applyDecimal(&project.HourlyRate, input.HourlyRate, "hourly_rate", errs)

	validateProjectBilling(*project, errs)
	return errs.err()
}

func applyDecimal(target *decimal.NullDecimal, raw *string, field string, errs fieldErrors) {
	if raw == nil {
		return
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		*target = decimal.NullDecimal{}
		return
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		errs.add(field, "enter a valid number")
		return
	}
	*target = decimal.NewNullDecimal(parsed)
}

// validateProjectBilling: pack projects need positive pack hours, pack value
// and overtime rate; hourly projects need a positive rate and no pack terms.
func validateProjectBilling(project models.Project, errs fieldErrors) {
	positive := func(value decimal.NullDecimal) bool {
		return value.Valid && value.Decimal.IsPositive()
	}
	unset := func(value decimal.NullDecimal) bool {
		return !value.Valid || value.Decimal.IsZero()
	}

	switch project.BillingType {
	case models.BillingPack:
		if !positive(project.PackHours) {
			errs.add("pack_hours", "pack hours must be greater than zero for pack projects")
		}
		if !positive(project.PackTotalValue) {
			errs.add("pack_total_value", "pack total value must be greater than zero for pack projects")
		}
		if !positive(project.HourlyRate) {
			errs.add("hourly_rate", "hourly rate must be greater than zero")
		}
	case models.BillingHourly:
		if !unset(project.PackHours) {
			errs.add("pack_hours", "pack hours should not be set for hourly projects")
		}
		if !unset(project.PackTotalValue) {
			errs.add("pack_total_value", "pack total value should not be set for hourly projects")
		}
		if !positive(project.HourlyRate) {
			errs.add("hourly_rate", "hourly rate must be greater than zero")
		}
	default:
		errs.add("billing_type", "billing type must be hourly or pack")
	}

	if len(project.Currency) != 3 {
		errs.add("currency", "currency must be a three-letter code")
	}
}
