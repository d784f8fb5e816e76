package services

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/models"
)

type ClientReader interface {
	FindByID(clientID uint) (models.Client, bool, error)
}

type BillingProjectReader interface {
	ListByClient(clientID uint) ([]models.Project, error)
}

type BillingEntryReader interface {
	ListBillableHourlyByClient(clientID uint) ([]models.TimeEntry, error)
}

type LedgerRepository interface {
	ListByClient(clientID uint) ([]models.ClientAccountEntry, error)
	Record(entry *models.ClientAccountEntry) error
}

type PackProjectSummary struct {
	ID             uint
	Name           string
	PackHours      decimal.NullDecimal
	PackTotalValue decimal.Decimal
	Currency       string
	Status         string
}

type HourlyProjectSummary struct {
	ID              uint
	Name            string
	BillableMinutes int64
	BillableHours   decimal.Decimal
	Amount          decimal.Decimal
	Currency        string
}

type AccountSummary struct {
	Client         models.Client
	TotalCharged   decimal.Decimal
	TotalPaid      decimal.Decimal
	Balance        decimal.Decimal
	Currency       string
	Entries        []models.ClientAccountEntry
	PackTotalDue   decimal.Decimal
	PackProjects   []PackProjectSummary
	HourlyTotalDue decimal.Decimal
	HourlyProjects []HourlyProjectSummary
}

type LedgerInput struct {
	Amount        string
	Currency      string
	OccurredAt    string
	Reference     string
	Description   string
	PaymentMethod string
	Notes         string
}

type BillingService struct {
	clients         ClientReader
	projects        BillingProjectReader
	entries         BillingEntryReader
	ledger          LedgerRepository
	rates           HourlyRateLookup
	defaultCurrency string
}

func NewBillingService(clients ClientReader, projects BillingProjectReader, entries BillingEntryReader, ledger LedgerRepository, rates HourlyRateLookup, defaultCurrency string) *BillingService {
	if strings.TrimSpace(defaultCurrency) == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return &BillingService{
		clients:         clients,
		projects:        projects,
		entries:         entries,
		ledger:          ledger,
		rates:           rates,
		defaultCurrency: defaultCurrency,
	}
}

func (service *BillingService) SummarizeAccount(caller Caller, clientID uint) (AccountSummary, error) {
	client, err := service.visibleClient(caller, clientID)
	if err != nil {
		return AccountSummary{}, err
	}

	ledgerEntries, err := service.ledger.ListByClient(client.ID)
	if err != nil {
		return AccountSummary{}, err
	}
	projects, err := service.projects.ListByClient(client.ID)
	if err != nil {
		return AccountSummary{}, err
	}
	billableEntries, err := service.entries.ListBillableHourlyByClient(client.ID)
	if err != nil {
		return AccountSummary{}, err
	}

	summary := AccountSummary{
		Client:         client,
		Entries:        ledgerEntries,
		PackProjects:   []PackProjectSummary{},
		HourlyProjects: []HourlyProjectSummary{},
	}

	ledgerCharged := decimal.Zero
	totalPaid := decimal.Zero
	for _, entry := range ledgerEntries {
		switch entry.EntryType {
		case models.EntryTypeCharge:
			ledgerCharged = ledgerCharged.Add(entry.Amount)
		case models.EntryTypePayment:
			totalPaid = totalPaid.Add(entry.Amount)
		}
	}

	packTotal := decimal.Zero
	sort.SliceStable(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	for _, project := range projects {
		if project.BillingType != models.BillingPack || !project.PackTotalValue.Valid || !project.PackTotalValue.Decimal.IsPositive() {
			continue
		}
		packTotal = packTotal.Add(project.PackTotalValue.Decimal)
		summary.PackProjects = append(summary.PackProjects, PackProjectSummary{
			ID:             project.ID,
			Name:           project.Name,
			PackHours:      project.PackHours,
			PackTotalValue: project.PackTotalValue.Decimal,
			Currency:       project.Currency,
			Status:         project.Status,
		})
	}

	hourlyTotal := decimal.Zero
	book := NewRateBook(service.rates)
	rows := make(map[uint]*HourlyProjectSummary)
	for _, entry := range billableEntries {
		if !entry.Billable || entry.Project.BillingType != models.BillingHourly {
			continue
		}
		rate, ok, err := book.Resolve(entry.Project, entry.Date)
		if err != nil {
			return AccountSummary{}, err
		}
		if !ok {
			continue
		}
		amount := EntryAmount(entry.DurationMinutes, rate.Amount)
		hourlyTotal = hourlyTotal.Add(amount)

		row, exists := rows[entry.ProjectID]
		if !exists {
			row = &HourlyProjectSummary{ID: entry.ProjectID, Name: entry.Project.Name, Amount: decimal.Zero}
			rows[entry.ProjectID] = row
		}
		row.BillableMinutes += int64(entry.DurationMinutes)
		row.Amount = row.Amount.Add(amount)
		row.Currency = entry.Project.Currency
	}
	for _, row := range rows {
		row.BillableHours = MinutesToHours(row.BillableMinutes)
		row.Amount = RoundCents(row.Amount)
		summary.HourlyProjects = append(summary.HourlyProjects, *row)
	}
	sort.Slice(summary.HourlyProjects, func(i, j int) bool {
		return summary.HourlyProjects[i].ID < summary.HourlyProjects[j].ID
	})

	summary.PackTotalDue = RoundCents(packTotal)
	summary.HourlyTotalDue = RoundCents(hourlyTotal)
	summary.TotalCharged = ledgerCharged.Add(summary.PackTotalDue).Add(summary.HourlyTotalDue)
	summary.TotalPaid = totalPaid
	summary.Balance = summary.TotalCharged.Sub(summary.TotalPaid)
	summary.Currency = service.summaryCurrency(ledgerEntries, summary.PackProjects, billableEntries)
	return summary, nil
}

func (service *BillingService) summaryCurrency(ledgerEntries []models.ClientAccountEntry, packProjects []PackProjectSummary, entries []models.TimeEntry) string {
	for _, entry := range ledgerEntries {
		if entry.Currency != "" {
			return entry.Currency
		}
	}
	for _, project := range packProjects {
		if project.Currency != "" {
			return project.Currency
		}
	}
	for _, entry := range entries {
		if entry.Project.Currency != "" {
			return entry.Project.Currency
		}
	}
	return service.defaultCurrency
}

func (service *BillingService) RecordPayment(caller Caller, clientID uint, input LedgerInput, today time.Time) (models.ClientAccountEntry, error) {
	return service.record(caller, clientID, models.EntryTypePayment, input, today)
}

// RecordCharge books a manual invoice against the client account.
func (service *BillingService) RecordCharge(caller Caller, clientID uint, input LedgerInput, today time.Time) (models.ClientAccountEntry, error) {
	return service.record(caller, clientID, models.EntryTypeCharge, input, today)
}

func (service *BillingService) record(caller Caller, clientID uint, entryType string, input LedgerInput, today time.Time) (models.ClientAccountEntry, error) {
	if err := requireAdmin(caller); err != nil {
		return models.ClientAccountEntry{}, err
	}
	client, found, err := service.clients.FindByID(clientID)
	if err != nil {
		return models.ClientAccountEntry{}, err
	}
	if !found {
		return models.ClientAccountEntry{}, notFoundError("client")
	}

	errs := fieldErrors{}
	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil {
		errs.add("amount", "enter a valid amount")
	} else if amount = RoundCents(amount); !amount.IsPositive() {
		errs.add("amount", "amount must be greater than zero")
	}

	occurredAt := CalendarDate(today)
	if raw := strings.TrimSpace(input.OccurredAt); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			errs.add("occurred_at", "enter a valid date (YYYY-MM-DD)")
		}
		occurredAt = parsed
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = client.DefaultCurrency
	}
	if currency == "" {
		currency = service.defaultCurrency
	}
	if len(currency) != 3 {
		errs.add("currency", "currency must be a three-letter code")
	}
	if err := errs.err(); err != nil {
		return models.ClientAccountEntry{}, err
	}

	recordedBy := caller.UserID
	entry := models.ClientAccountEntry{
		ClientID:      client.ID,
		EntryType:     entryType,
		Amount:        amount,
		Currency:      currency,
		OccurredAt:    occurredAt,
		Reference:     strings.TrimSpace(input.Reference),
		Description:   strings.TrimSpace(input.Description),
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Notes:         strings.TrimSpace(input.Notes),
		RecordedByID:  &recordedBy,
	}
	if err := service.ledger.Record(&entry); err != nil {
		return models.ClientAccountEntry{}, err
	}
	return entry, nil
}

func (service *BillingService) visibleClient(caller Caller, clientID uint) (models.Client, error) {
	client, found, err := service.clients.FindByID(clientID)
	if err != nil {
		return models.Client{}, err
	}
	if !found {
		return models.Client{}, notFoundError("client")
	}
	if !caller.CanViewClient(client.ID) {
		return models.Client{}, forbiddenError("you cannot access this client")
	}
	return client, nil
}
