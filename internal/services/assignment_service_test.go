package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/worktrace/internal/models"
)

type stubAssignmentRepository struct {
	assignments map[uint]models.ProjectAssignment
	nextID      uint
}

func (stub *stubAssignmentRepository) FindByID(assignmentID uint) (models.ProjectAssignment, bool, error) {
	assignment, found := stub.assignments[assignmentID]
	return assignment, found, nil
}

func (stub *stubAssignmentRepository) List(filter models.AssignmentFilter) ([]models.ProjectAssignment, int64, error) {
	assignments := make([]models.ProjectAssignment, 0, len(stub.assignments))
	for _, assignment := range stub.assignments {
		assignments = append(assignments, assignment)
	}
	return assignments, int64(len(assignments)), nil
}

func (stub *stubAssignmentRepository) Create(assignment *models.ProjectAssignment) error {
	for _, existing := range stub.assignments {
		if existing.ProjectID == assignment.ProjectID && existing.UserID == assignment.UserID {
			return errors.New("UNIQUE constraint failed: project_assignments.project_id, project_assignments.user_id")
		}
	}
	stub.nextID++
	assignment.ID = stub.nextID
	stub.assignments[assignment.ID] = *assignment
	return nil
}

func (stub *stubAssignmentRepository) Update(assignment *models.ProjectAssignment) error {
	stub.assignments[assignment.ID] = *assignment
	return nil
}

func (stub *stubAssignmentRepository) Delete(assignmentID uint) error {
	delete(stub.assignments, assignmentID)
	return nil
}

func newAssignmentFixture() (*AssignmentService, *stubAssignmentRepository) {
	repo := &stubAssignmentRepository{assignments: make(map[uint]models.ProjectAssignment)}
	projects := &stubProjectReader{projects: map[uint]models.Project{4: {ID: 4, ClientID: 2, Name: "Support"}}}
	users := &stubUserReader{users: map[uint]models.User{
		1:  {ID: 1, Role: models.RoleAdmin},
		11: {ID: 11, Role: models.RoleClient, ClientID: uintPtr(2)},
		12: {ID: 12, Role: models.RoleClient, ClientID: uintPtr(3)},
	}}
	return NewAssignmentService(repo, projects, users), repo
}

func TestAssignmentCreate(t *testing.T) {
	service, repo := newAssignmentFixture()
	admin := Caller{UserID: 1, Role: models.RoleAdmin}

	assignment, err := service.Create(admin, AssignmentInput{ProjectID: uintPtr(4), UserID: uintPtr(11)})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if assignment.Role != models.AssignmentMember || !assignment.IsActive {
		t.Fatalf("unexpected defaults: %+v", assignment)
	}
	if _, err := service.Create(admin, AssignmentInput{ProjectID: uintPtr(4), UserID: uintPtr(11)}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected duplicate assignment conflict, got %v", err)
	}
	if _, err := service.Create(admin, AssignmentInput{ProjectID: uintPtr(4), UserID: uintPtr(1), Role: stringPtr("manager")}); err != nil {
		t.Fatalf("expected admin to be assignable anywhere, got %v", err)
	}
	if len(repo.assignments) != 2 {
		t.Fatalf("expected two assignments, got %d", len(repo.assignments))
	}
}

func TestAssignmentValidation(t *testing.T) {
	service, _ := newAssignmentFixture()
	admin := Caller{UserID: 1, Role: models.RoleAdmin}

	_, err := service.Create(admin, AssignmentInput{ProjectID: uintPtr(4), UserID: uintPtr(12)})
	var serviceErr *Error
	if !errors.As(err, &serviceErr) || serviceErr.Fields["user"] == "" {
		t.Fatalf("expected other client's user to fail on user, got %v", err)
	}
	if _, err := service.Create(admin, AssignmentInput{ProjectID: uintPtr(4), UserID: uintPtr(11), Role: stringPtr("owner")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected unknown role to fail, got %v", err)
	}
	if _, err := service.Create(admin, AssignmentInput{ProjectID: uintPtr(4), UserID: uintPtr(99)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown user to be not found, got %v", err)
	}
	member := Caller{UserID: 11, Role: models.RoleClient, ClientID: uintPtr(2)}
	if _, _, err := service.List(member, models.AssignmentFilter{}); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected admin-only listing, got %v", err)
	}
}

func TestAssignmentDeactivateAndDelete(t *testing.T) {
	service, repo := newAssignmentFixture()
	admin := Caller{UserID: 1, Role: models.RoleAdmin}
	assignment, err := service.Create(admin, AssignmentInput{ProjectID: uintPtr(4), UserID: uintPtr(11)})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	updated, err := service.Update(admin, assignment.ID, AssignmentInput{IsActive: boolPtr(false)})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("expected inactive assignment")
	}
	if err := service.Delete(admin, assignment.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if len(repo.assignments) != 0 {
		t.Fatalf("expected assignment to be removed")
	}
	if err := service.Delete(admin, assignment.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}
}
