package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/worktrace/internal/models"
)

type stubClientRepository struct {
	clients      map[uint]models.Client
	users        []models.User
	userEmails   map[string]bool
	nextID       uint
	emailUpdates []string
}

func newStubClientRepository() *stubClientRepository {
	return &stubClientRepository{clients: make(map[uint]models.Client), userEmails: make(map[string]bool), nextID: 1}
}

func (stub *stubClientRepository) FindByID(clientID uint) (models.Client, bool, error) {
	client, found := stub.clients[clientID]
	return client, found, nil
}

func (stub *stubClientRepository) List(filter models.ClientFilter) ([]models.Client, int64, error) {
	clients := make([]models.Client, 0)
	for _, client := range stub.clients {
		if filter.ClientID != nil && client.ID != *filter.ClientID {
			continue
		}
		clients = append(clients, client)
	}
	return clients, int64(len(clients)), nil
}

func (stub *stubClientRepository) EmailTaken(email string, exceptClientID uint) (bool, error) {
	for _, client := range stub.clients {
		if client.ID != exceptClientID && client.Email == email {
			return true, nil
		}
	}
	return stub.userEmails[email], nil
}

func (stub *stubClientRepository) CreateWithUser(client *models.Client, user *models.User) error {
	client.ID = stub.nextID
	stub.nextID++
	stub.clients[client.ID] = *client
	user.ClientID = &client.ID
	stub.users = append(stub.users, *user)
	stub.userEmails[user.Email] = true
	return nil
}

func (stub *stubClientRepository) Update(client *models.Client, previousEmail string) error {
	stub.clients[client.ID] = *client
	if previousEmail != client.Email {
		stub.emailUpdates = append(stub.emailUpdates, previousEmail+"->"+client.Email)
	}
	return nil
}

func (stub *stubClientRepository) Deactivate(clientID uint) error {
	client := stub.clients[clientID]
	client.IsActive = false
	stub.clients[clientID] = client
	return nil
}

func TestClientCreateProvisionsLogin(t *testing.T) {
	repo := newStubClientRepository()
	service := NewClientService(repo)
	admin := Caller{UserID: 1, Role: models.RoleAdmin}

	client, password, err := service.Create(admin, ClientInput{Name: stringPtr(" Acme "), Email: stringPtr(" Billing@Acme.test ")})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if client.Name != "Acme" || client.Email != "billing@acme.test" || !client.IsActive || client.DefaultCurrency != "EUR" {
		t.Fatalf("unexpected client: %+v", client)
	}
	if len(password) != 12 {
		t.Fatalf("expected 12 character password, got %q", password)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one provisioned user, got %d", len(repo.users))
	}
	user := repo.users[0]
	if user.Role != models.RoleClient || user.FirstName != "Acme" || user.ClientID == nil || *user.ClientID != client.ID {
		t.Fatalf("unexpected provisioned user: %+v", user)
	}
	if !PasswordMatches(user.PasswordHash, password) {
		t.Fatalf("expected stored hash to match returned password")
	}

	_, _, err = service.Create(admin, ClientInput{Name: stringPtr("Copy"), Email: stringPtr("billing@acme.test")})
	var serviceErr *Error
	if !errors.As(err, &serviceErr) || serviceErr.Fields["email"] == "" {
		t.Fatalf("expected duplicate email to fail on email, got %v", err)
	}
}

func TestClientUpdatePropagatesEmail(t *testing.T) {
	repo := newStubClientRepository()
	service := NewClientService(repo)
	admin := Caller{UserID: 1, Role: models.RoleAdmin}
	client, _, err := service.Create(admin, ClientInput{Name: stringPtr("Acme"), Email: stringPtr("old@acme.test")})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	updated, err := service.Update(admin, client.ID, ClientInput{Email: stringPtr("new@acme.test"), DefaultCurrency: stringPtr("usd")})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.Email != "new@acme.test" || updated.DefaultCurrency != "USD" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if len(repo.emailUpdates) != 1 || repo.emailUpdates[0] != "old@acme.test->new@acme.test" {
		t.Fatalf("expected email change to reach the repository, got %v", repo.emailUpdates)
	}

	if _, err := service.Update(admin, client.ID, ClientInput{DefaultCurrency: stringPtr("EURO")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected bad currency to fail, got %v", err)
	}
}

func TestClientAccessAndDeactivate(t *testing.T) {
	repo := newStubClientRepository()
	repo.clients[1] = models.Client{ID: 1, Name: "Acme", IsActive: true}
	repo.clients[2] = models.Client{ID: 2, Name: "Beta", IsActive: true}
	service := NewClientService(repo)
	member := Caller{UserID: 5, Role: models.RoleClient, ClientID: uintPtr(1)}

	if _, err := service.Get(member, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected other client to be hidden, got %v", err)
	}
	clients, count, err := service.List(member, models.ClientFilter{})
	if err != nil || count != 1 || clients[0].ID != 1 {
		t.Fatalf("expected only own client, got %v (%d, %v)", clients, count, err)
	}
	if err := service.Deactivate(member, 1); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected admin-only deactivate, got %v", err)
	}
	if err := service.Deactivate(Caller{UserID: 1, Role: models.RoleAdmin}, 1); err != nil {
		t.Fatalf("Deactivate() unexpected error: %v", err)
	}
	if repo.clients[1].IsActive {
		t.Fatalf("expected client to be deactivated")
	}
}
