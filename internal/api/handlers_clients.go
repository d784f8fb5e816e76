package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/observability"
	"github.com/terraincognita07/worktrace/internal/services"
)

type clientRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	VAT             *string `json:"vat"`
	Notes           *string `json:"notes"`
	IsActive        *bool   `json:"is_active"`
	BrandingLogo    *string `json:"branding_logo"`
	DefaultCurrency *string `json:"default_currency"`
}

func (request clientRequest) input() services.ClientInput {
	return services.ClientInput{
		Name:            request.Name,
		Email:           request.Email,
		VAT:             request.VAT,
		Notes:           request.Notes,
		IsActive:        request.IsActive,
		BrandingLogo:    request.BrandingLogo,
		DefaultCurrency: request.DefaultCurrency,
	}
}

type createdClientResponse struct {
	clientResponse
	InitialPassword string `json:"initial_password"`
}

type ledgerRequest struct {
	Amount        decimalInput `json:"amount"`
	Currency      string       `json:"currency"`
	OccurredAt    string       `json:"occurred_at"`
	Reference     string       `json:"reference"`
	Description   string       `json:"description"`
	PaymentMethod string       `json:"payment_method"`
	Notes         string       `json:"notes"`
}

func (request ledgerRequest) input() services.LedgerInput {
	return services.LedgerInput{
		Amount:        request.Amount.String(),
		Currency:      request.Currency,
		OccurredAt:    request.OccurredAt,
		Reference:     request.Reference,
		Description:   request.Description,
		PaymentMethod: request.PaymentMethod,
		Notes:         request.Notes,
	}
}

func (handler *Handler) ListClients(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	isActive, err := optionalBoolQuery(c, "is_active")
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	filter := models.ClientFilter{IsActive: isActive, Search: c.Query("search"), Page: page}
	clients, count, err := handler.clientService.List(currentCaller(c), filter)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	results := make([]clientResponse, 0, len(clients))
	for _, client := range clients {
		results = append(results, newClientResponse(client))
	}
	return respondPage(c, count, results)
}

func (handler *Handler) GetClient(c *fiber.Ctx) error {
	clientID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	client, err := handler.clientService.Get(currentCaller(c), clientID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newClientResponse(client))
}

func (handler *Handler) CreateClient(c *fiber.Ctx) error {
	request := clientRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	client, password, err := handler.clientService.Create(caller, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "create", "client", client.ID)
	return c.Status(fiber.StatusCreated).JSON(createdClientResponse{
		clientResponse:  newClientResponse(client),
		InitialPassword: password,
	})
}

func (handler *Handler) UpdateClient(c *fiber.Ctx) error {
	clientID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	request := clientRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	client, err := handler.clientService.Update(currentCaller(c), clientID, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newClientResponse(client))
}

func (handler *Handler) DeleteClient(c *fiber.Ctx) error {
	clientID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	if err := handler.clientService.Deactivate(caller, clientID); err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "deactivate", "client", clientID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ClientAccount(c *fiber.Ctx) error {
	clientID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	started := time.Now()
	summary, err := handler.billingService.SummarizeAccount(currentCaller(c), clientID)
	observability.ObserveAccountSummary(time.Since(started))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newAccountSummaryResponse(summary))
}

func (handler *Handler) RecordPayment(c *fiber.Ctx) error {
	return handler.recordLedgerEntry(c, models.EntryTypePayment)
}

func (handler *Handler) RecordCharge(c *fiber.Ctx) error {
	return handler.recordLedgerEntry(c, models.EntryTypeCharge)
}

func (handler *Handler) recordLedgerEntry(c *fiber.Ctx, entryType string) error {
	clientID, err := pathID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	request := ledgerRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}

	caller := currentCaller(c)
	record := handler.billingService.RecordCharge
	if entryType == models.EntryTypePayment {
		record = handler.billingService.RecordPayment
	}
	entry, err := record(caller, clientID, request.input(), handler.today())
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	observability.ObserveLedgerEntry(entryType)
	handler.audit.LogAction(c.UserContext(), caller.UserID, "record_"+entryType, "client_account_entry", entry.ID,
		slog.Uint64("client_id", uint64(clientID)),
		slog.String("amount", services.FormatMoney(entry.Amount)),
		slog.String("currency", entry.Currency),
	)
	return c.Status(fiber.StatusCreated).JSON(newLedgerEntryResponse(entry))
}
