package services

import (
	"strings"

	"github.com/terraincognita07/worktrace/internal/models"
)

type UserLister interface {
	ListActive(filter models.UserFilter) ([]models.User, int64, error)
}

type UserService struct {
	users UserLister
}

func NewUserService(users UserLister) *UserService {
	return &UserService{users: users}
}

func (service *UserService) List(caller Caller, filter models.UserFilter) ([]models.User, int64, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, 0, err
	}
	filter.Role = strings.TrimSpace(filter.Role)
	if filter.Role != "" && filter.Role != models.RoleAdmin && filter.Role != models.RoleClient {
		return nil, 0, fieldError("role", "role must be admin or client")
	}
	return service.users.ListActive(filter)
}
