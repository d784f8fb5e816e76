package services

import "github.com/terraincognita07/worktrace/internal/models"

// Caller is the authenticated identity every operation runs on behalf of.
type Caller struct {
	UserID   uint
	Role     string
	ClientID *uint
}

func CallerFromUser(user *models.User) Caller {
	if user == nil {
		return Caller{}
	}
	return Caller{UserID: user.ID, Role: user.Role, ClientID: user.ClientID}
}

func (caller Caller) IsAdmin() bool {
	return caller.Role == models.RoleAdmin
}

func (caller Caller) BelongsToClient(clientID uint) bool {
	return caller.ClientID != nil && *caller.ClientID == clientID
}

func (caller Caller) CanViewClient(clientID uint) bool {
	return caller.IsAdmin() || caller.BelongsToClient(clientID)
}

func (caller Caller) CanViewProject(project models.Project) bool {
	return caller.CanViewClient(project.ClientID)
}

// ClientScope returns the client filter applied to list queries. Admins get nil.
func (caller Caller) ClientScope() *uint {
	if caller.IsAdmin() {
		return nil
	}
	if caller.ClientID == nil {
		none := uint(0)
		return &none
	}
	scoped := *caller.ClientID
	return &scoped
}

func requireAdmin(caller Caller) error {
	if !caller.IsAdmin() {
		return forbiddenError("admin role required")
	}
	return nil
}

type AssignmentChecker interface {
	HasActiveAssignment(projectID uint, userID uint) (bool, error)
}

// requireProjectAccess enforces that a non-admin caller works only on projects
// they are actively assigned to.
func requireProjectAccess(assignments AssignmentChecker, caller Caller, project models.Project) error {
	if caller.IsAdmin() {
		return nil
	}
	if !caller.CanViewProject(project) {
		return forbiddenError("project belongs to another client")
	}
	assigned, err := assignments.HasActiveAssignment(project.ID, caller.UserID)
	if err != nil {
		return err
	}
	if !assigned {
		return forbiddenError("you are not assigned to this project")
	}
	return nil
}
