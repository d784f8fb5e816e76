package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/security"
)

type ClientRepository interface {
	FindByID(clientID uint) (models.Client, bool, error)
	List(filter models.ClientFilter) ([]models.Client, int64, error)
	EmailTaken(email string, exceptClientID uint) (bool, error)
	CreateWithUser(client *models.Client, user *models.User) error
	Update(client *models.Client, previousEmail string) error
	Deactivate(clientID uint) error
}

type ClientInput struct {
	Name            *string
	Email           *string
	VAT             *string
	Notes           *string
	IsActive        *bool
	BrandingLogo    *string
	DefaultCurrency *string
}

type ClientService struct {
	clients ClientRepository
}

func NewClientService(clients ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

func (service *ClientService) List(caller Caller, filter models.ClientFilter) ([]models.Client, int64, error) {
	if scope := caller.ClientScope(); scope != nil {
		filter.ClientID = scope
	}
	return service.clients.List(filter)
}

func (service *ClientService) Get(caller Caller, clientID uint) (models.Client, error) {
	client, found, err := service.clients.FindByID(clientID)
	if err != nil {
		return models.Client{}, err
	}
	if !found || !caller.CanViewClient(client.ID) {
		return models.Client{}, notFoundError("client")
	}
	return client, nil
}

// Create stores the client together with its client-role login and returns
// the generated password. The password is not recoverable afterwards.
func (service *ClientService) Create(caller Caller, input ClientInput) (models.Client, string, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Client{}, "", err
	}

	client := models.Client{IsActive: true, DefaultCurrency: models.DefaultCurrency}
	errs := fieldErrors{}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		errs.add("name", "name is required")
	}
	if input.Email == nil || strings.TrimSpace(*input.Email) == "" {
		errs.add("email", "email is required")
	}
	if err := errs.err(); err != nil {
		return models.Client{}, "", err
	}
	if err := service.applyInput(&client, input); err != nil {
		return models.Client{}, "", err
	}

	password, err := security.GeneratePassword(security.InitialPasswordLength)
	if err != nil {
		return models.Client{}, "", fmt.Errorf("generate client password: %w", err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return models.Client{}, "", err
	}

	user := models.User{
		Email:        client.Email,
		PasswordHash: hash,
		FirstName:    client.Name,
		Role:         models.RoleClient,
		IsActive:     true,
	}
	if err := service.clients.CreateWithUser(&client, &user); err != nil {
		if IsUniqueViolation(err) {
			return models.Client{}, "", fieldError("email", "a client or user with this email already exists")
		}
		return models.Client{}, "", err
	}
	return client, password, nil
}

func (service *ClientService) Update(caller Caller, clientID uint, input ClientInput) (models.Client, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Client{}, err
	}
	client, err := service.Get(caller, clientID)
	if err != nil {
		return models.Client{}, err
	}
	previousEmail := client.Email
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return models.Client{}, fieldError("name", "name is required")
	}
	if err := service.applyInput(&client, input); err != nil {
		return models.Client{}, err
	}
	if err := service.clients.Update(&client, previousEmail); err != nil {
		if IsUniqueViolation(err) {
			return models.Client{}, fieldError("email", "a client or user with this email already exists")
		}
		return models.Client{}, err
	}
	return client, nil
}

// Deactivate is the delete path: clients are soft-disabled, never removed.
func (service *ClientService) Deactivate(caller Caller, clientID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if _, err := service.Get(caller, clientID); err != nil {
		return err
	}
	return service.clients.Deactivate(clientID)
}

func (service *ClientService) applyInput(client *models.Client, input ClientInput) error {
	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if email == "" {
			return fieldError("email", "enter a valid email address")
		}
		if email != NormalizeEmail(client.Email) {
			taken, err := service.clients.EmailTaken(email, client.ID)
			if err != nil {
				return err
			}
			if taken {
				return fieldError("email", "a client or user with this email already exists")
			}
		}
		client.Email = email
	}
	if input.VAT != nil {
		client.VAT = strings.TrimSpace(*input.VAT)
	}
	if input.Notes != nil {
		client.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
	if input.BrandingLogo != nil {
		client.BrandingLogo = strings.TrimSpace(*input.BrandingLogo)
	}
	if input.DefaultCurrency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.DefaultCurrency))
		if len(currency) != 3 {
			return fieldError("default_currency", "currency must be a three-letter code")
		}
		client.DefaultCurrency = currency
	}
	return nil
}
