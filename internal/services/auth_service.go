package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/security"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserEmailExists = errors.New("user email exists")
)

type AuthUserRepository interface {
	CountUsers() (int64, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func (service *AuthService) RequiresInitialSetup() (bool, error) {
	count, err := service.users.CountUsers()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for unknown, inactive or
// mismatching accounts alike.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	user, err := service.users.FindByNormalizedEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive || !PasswordMatches(user.PasswordHash, password) {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

// ActiveUser loads the user behind a token; deactivated users are rejected.
func (service *AuthService) ActiveUser(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (service *AuthService) CreateAdmin(emailRaw string, password string, firstName string, lastName string) (models.User, error) {
	email := NormalizeEmail(emailRaw)
	if email == "" {
		return models.User{}, fieldError("email", "enter a valid email address")
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, fieldError("password", "use at least 8 characters with upper case, lower case and a digit")
	}
	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrUserEmailExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := service.users.Create(&user); err != nil {
		if IsUniqueViolation(err) {
			return models.User{}, ErrUserEmailExists
		}
		return models.User{}, err
	}
	return user, nil
}

// ResetPassword replaces the password with a generated one and forces a
// change on next login.
func (service *AuthService) ResetPassword(emailRaw string) (models.User, string, error) {
	email := NormalizeEmail(emailRaw)
	if email == "" {
		return models.User{}, "", fieldError("email", "enter a valid email address")
	}
	user, err := service.users.FindByNormalizedEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", ErrUserNotFound
	}
	if err != nil {
		return models.User{}, "", err
	}

	password, err := security.GeneratePassword(security.InitialPasswordLength)
	if err != nil {
		return models.User{}, "", err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}
	if err := service.users.UpdatePassword(user.ID, hash, true); err != nil {
		return models.User{}, "", fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = hash
	user.MustChangePassword = true
	return user, password, nil
}

// ChangePassword verifies the current password and clears the forced-change
// flag.
func (service *AuthService) ChangePassword(userID uint, currentPassword string, newPassword string) error {
	user, err := service.ActiveUser(userID)
	if err != nil {
		return err
	}
	if !PasswordMatches(user.PasswordHash, currentPassword) {
		return fieldError("current_password", "current password is incorrect")
	}
	if currentPassword == newPassword {
		return fieldError("new_password", "choose a password different from the current one")
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return fieldError("new_password", "use at least 8 characters with upper case, lower case and a digit")
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := service.users.UpdatePassword(user.ID, hash, false); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
