package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	FindByID(assignmentID uint) (models.ProjectAssignment, bool, error)
	List(filter models.AssignmentFilter) ([]models.ProjectAssignment, int64, error)
	Create(assignment *models.ProjectAssignment) error
	Update(assignment *models.ProjectAssignment) error
	Delete(assignmentID uint) error
}

type UserReader interface {
	FindByID(userID uint) (models.User, error)
}

type AssignmentInput struct {
	ProjectID *uint
	UserID    *uint
	Role      *string
	IsActive  *bool
}

type AssignmentService struct {
	assignments AssignmentRepository
	projects    ProjectReader
	users       UserReader
}

func NewAssignmentService(assignments AssignmentRepository, projects ProjectReader, users UserReader) *AssignmentService {
	return &AssignmentService{assignments: assignments, projects: projects, users: users}
}

func (service *AssignmentService) List(caller Caller, filter models.AssignmentFilter) ([]models.ProjectAssignment, int64, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, 0, err
	}
	return service.assignments.List(filter)
}

func (service *AssignmentService) Get(caller Caller, assignmentID uint) (models.ProjectAssignment, error) {
	if err := requireAdmin(caller); err != nil {
		return models.ProjectAssignment{}, err
	}
	assignment, found, err := service.assignments.FindByID(assignmentID)
	if err != nil {
		return models.ProjectAssignment{}, err
	}
	if !found {
		return models.ProjectAssignment{}, notFoundError("assignment")
	}
	return assignment, nil
}

func (service *AssignmentService) Create(caller Caller, input AssignmentInput) (models.ProjectAssignment, error) {
	if err := requireAdmin(caller); err != nil {
		return models.ProjectAssignment{}, err
	}
	errs := fieldErrors{}
	if input.ProjectID == nil || *input.ProjectID == 0 {
		errs.add("project", "project is required")
	}
	if input.UserID == nil || *input.UserID == 0 {
		errs.add("user", "user is required")
	}
	if err := errs.err(); err != nil {
		return models.ProjectAssignment{}, err
	}

	assignment := models.ProjectAssignment{Role: models.AssignmentMember, IsActive: true}
	if err := service.apply(&assignment, input); err != nil {
		return models.ProjectAssignment{}, err
	}
	if err := service.assignments.Create(&assignment); err != nil {
		if IsUniqueViolation(err) {
			return models.ProjectAssignment{}, conflictError("user is already assigned to this project")
		}
		return models.ProjectAssignment{}, err
	}
	return service.Get(caller, assignment.ID)
}

func (service *AssignmentService) Update(caller Caller, assignmentID uint, input AssignmentInput) (models.ProjectAssignment, error) {
	assignment, err := service.Get(caller, assignmentID)
	if err != nil {
		return models.ProjectAssignment{}, err
	}
	if err := service.apply(&assignment, input); err != nil {
		return models.ProjectAssignment{}, err
	}
	if err := service.assignments.Update(&assignment); err != nil {
		if IsUniqueViolation(err) {
			return models.ProjectAssignment{}, conflictError("user is already assigned to this project")
		}
		return models.ProjectAssignment{}, err
	}
	return service.Get(caller, assignment.ID)
}

func (service *AssignmentService) Delete(caller Caller, assignmentID uint) error {
	if _, err := service.Get(caller, assignmentID); err != nil {
		return err
	}
	return service.assignments.Delete(assignmentID)
}

func (service *AssignmentService) apply(assignment *models.ProjectAssignment, input AssignmentInput) error {
	if input.ProjectID != nil && *input.ProjectID != 0 {
		assignment.ProjectID = *input.ProjectID
	}
	if input.UserID != nil && *input.UserID != 0 {
		assignment.UserID = *input.UserID
	}
	if input.Role != nil {
		assignment.Role = strings.TrimSpace(*input.Role)
	}
	if input.IsActive != nil {
		assignment.IsActive = *input.IsActive
	}
	if assignment.Role != models.AssignmentMember && assignment.Role != models.AssignmentManager {
		return fieldError("role", "role must be member or manager")
	}

	project, found, err := service.projects.FindByID(assignment.ProjectID)
	if err != nil {
		return err
	}
	if !found {
		return notFoundError("project")
	}
	user, err := service.users.FindByID(assignment.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError("user")
	}
	if err != nil {
		return err
	}

	if !user.IsAdmin() && (user.ClientID == nil || *user.ClientID != project.ClientID) {
		return fieldError("user", "only admins or users of the project's client may be assigned")
	}
	assignment.Project = project
	assignment.User = user
	return nil
}
