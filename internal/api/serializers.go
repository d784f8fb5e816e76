package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/services"
)

const dateLayout = "2006-01-02"

func money(amount decimal.Decimal) string {
	return services.FormatMoney(amount)
}

func nullableDecimal(value decimal.NullDecimal) *string {
	if !value.Valid {
		return nil
	}
	formatted := value.Decimal.String()
	return &formatted
}

func nullableDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(dateLayout)
	return &formatted
}

type userResponse struct {
	ID                 uint   `json:"id"`
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	FullName           string `json:"full_name"`
	Role               string `json:"role"`
	Client             *uint  `json:"client"`
	IsActive           bool   `json:"is_active"`
	MustChangePassword bool   `json:"must_change_password"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:                 user.ID,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		FullName:           user.FullName(),
		Role:               user.Role,
		Client:             user.ClientID,
		IsActive:           user.IsActive,
		MustChangePassword: user.MustChangePassword,
	}
}

type clientResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	VAT             string    `json:"vat"`
	Notes           string    `json:"notes"`
	IsActive        bool      `json:"is_active"`
	BrandingLogo    string    `json:"branding_logo"`
	DefaultCurrency string    `json:"default_currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newClientResponse(client models.Client) clientResponse {
	return clientResponse{
		ID:              client.ID,
		Name:            client.Name,
		Email:           client.Email,
		VAT:             client.VAT,
		Notes:           client.Notes,
		IsActive:        client.IsActive,
		BrandingLogo:    client.BrandingLogo,
		DefaultCurrency: client.DefaultCurrency,
		CreatedAt:       client.CreatedAt,
		UpdatedAt:       client.UpdatedAt,
	}
}

type projectResponse struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Client             uint       `json:"client"`
	ClientName         string     `json:"client_name"`
	Description        string     `json:"description"`
	Status             string     `json:"status"`
	Visibility         string     `json:"visibility"`
	BillingType        string     `json:"billing_type"`
	PackHours          *string    `json:"pack_hours"`
	PackTotalValue     *string    `json:"pack_total_value"`
	HourlyRate         *string    `json:"hourly_rate"`
	Currency           string     `json:"currency"`
	CreatedBy          uint       `json:"created_by"`
	TotalLoggedMinutes int64      `json:"total_logged_minutes"`
	TotalLoggedHours   string     `json:"total_logged_hours"`
	LastLoggedAt       *time.Time `json:"last_logged_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func newProjectResponse(project models.Project) projectResponse {
	return projectResponse{
		ID:                 project.ID,
		Name:               project.Name,
		Client:             project.ClientID,
		ClientName:         project.Client.Name,
		Description:        project.Description,
		Status:             project.Status,
		Visibility:         project.Visibility,
		BillingType:        project.BillingType,
		PackHours:          nullableDecimal(project.PackHours),
		PackTotalValue:     nullableDecimal(project.PackTotalValue),
		HourlyRate:         nullableDecimal(project.HourlyRate),
		Currency:           project.Currency,
		CreatedBy:          project.CreatedByID,
		TotalLoggedMinutes: project.TotalLoggedMinutes,
		TotalLoggedHours:   money(services.LoggedHours(project.TotalLoggedMinutes)),
		LastLoggedAt:       project.LastLoggedAt,
		CreatedAt:          project.CreatedAt,
		UpdatedAt:          project.UpdatedAt,
	}
}

type assignmentResponse struct {
	ID          uint      `json:"id"`
	Project     uint      `json:"project"`
	ProjectName string    `json:"project_name"`
	User        uint      `json:"user"`
	UserEmail   string    `json:"user_email"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAssignmentResponse(assignment models.ProjectAssignment) assignmentResponse {
	return assignmentResponse{
		ID:          assignment.ID,
		Project:     assignment.ProjectID,
		ProjectName: assignment.Project.Name,
		User:        assignment.UserID,
		UserEmail:   assignment.User.Email,
		Role:        assignment.Role,
		IsActive:    assignment.IsActive,
		CreatedAt:   assignment.CreatedAt,
	}
}

type hourlyRateResponse struct {
	ID            uint      `json:"id"`
	Client        *uint     `json:"client"`
	Project       *uint     `json:"project"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	EffectiveFrom string    `json:"effective_from"`
	EffectiveTo   *string   `json:"effective_to"`
	CreatedAt     time.Time `json:"created_at"`
}

func newHourlyRateResponse(rate models.HourlyRate) hourlyRateResponse {
	response := hourlyRateResponse{
		ID:            rate.ID,
		Amount:        money(rate.Amount),
		Currency:      rate.Currency,
		EffectiveFrom: rate.EffectiveFrom.Format(dateLayout),
		EffectiveTo:   nullableDate(rate.EffectiveTo),
		CreatedAt:     rate.CreatedAt,
	}
	scopeID := rate.ScopeID
	switch rate.ScopeKind {
	case models.RateScopeClient:
		response.Client = &scopeID
	case models.RateScopeProject:
		response.Project = &scopeID
	}
	return response
}

type timeEntryResponse struct {
	ID              uint      `json:"id"`
	Project         uint      `json:"project"`
	ProjectName     string    `json:"project_name"`
	User            uint      `json:"user"`
	UserName        string    `json:"user_name"`
	Date            string    `json:"date"`
	Start           *string   `json:"start"`
	End             *string   `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Task            string    `json:"task"`
	Notes           string    `json:"notes"`
	Billable        bool      `json:"billable"`
	HourlyRate      *string   `json:"hourly_rate"`
	Currency        *string   `json:"currency"`
	Amount          *string   `json:"amount"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newTimeEntryResponse(priced services.PricedEntry) timeEntryResponse {
	entry := priced.Entry
	response := timeEntryResponse{
		ID:              entry.ID,
		Project:         entry.ProjectID,
		ProjectName:     entry.Project.Name,
		User:            entry.UserID,
		Date:            entry.Date.Format(dateLayout),
		Start:           entry.Start,
		End:             entry.End,
		DurationMinutes: entry.DurationMinutes,
		Task:            entry.Task,
		Notes:           entry.Notes,
		Billable:        entry.Billable,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
	}
	if entry.User.ID != 0 {
		response.UserName = entry.User.FullName()
	}
	if priced.Rate != nil {
		rate := money(priced.Rate.Amount)
		currency := priced.Rate.Currency
		response.HourlyRate = &rate
		response.Currency = &currency
	}
	if priced.Amount != nil {
		amount := money(*priced.Amount)
		response.Amount = &amount
	}
	return response
}

type timerResponse struct {
	ID                 uint       `json:"id"`
	Project            uint       `json:"project"`
	ProjectName        string     `json:"project_name"`
	User               uint       `json:"user"`
	Status             string     `json:"status"`
	StartedAt          time.Time  `json:"started_at"`
	LastResumedAt      *time.Time `json:"last_resumed_at"`
	AccumulatedSeconds int64      `json:"accumulated_seconds"`
	ElapsedSeconds     int64      `json:"elapsed_seconds"`
	Notes              string     `json:"notes"`
}

func newTimerResponse(timer models.TimeEntryTimer, now time.Time) timerResponse {
	return timerResponse{
		ID:                 timer.ID,
		Project:            timer.ProjectID,
		ProjectName:        timer.Project.Name,
		User:               timer.UserID,
		Status:             timer.Status,
		StartedAt:          timer.StartedAt,
		LastResumedAt:      timer.LastResumedAt,
		AccumulatedSeconds: timer.AccumulatedSeconds,
		ElapsedSeconds:     services.ElapsedSeconds(timer, now),
		Notes:              timer.Notes,
	}
}

type ledgerEntryResponse struct {
	ID            uint      `json:"id"`
	Client        uint      `json:"client"`
	EntryType     string    `json:"entry_type"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	OccurredAt    string    `json:"occurred_at"`
	Reference     string    `json:"reference"`
	Description   string    `json:"description"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes"`
	RecordedBy    *uint     `json:"recorded_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func newLedgerEntryResponse(entry models.ClientAccountEntry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:            entry.ID,
		Client:        entry.ClientID,
		EntryType:     entry.EntryType,
		Amount:        money(entry.Amount),
		Currency:      entry.Currency,
		OccurredAt:    entry.OccurredAt.Format(dateLayout),
		Reference:     entry.Reference,
		Description:   entry.Description,
		PaymentMethod: entry.PaymentMethod,
		Notes:         entry.Notes,
		RecordedBy:    entry.RecordedByID,
		CreatedAt:     entry.CreatedAt,
	}
}

type packProjectResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	PackHours      *string `json:"pack_hours"`
	PackTotalValue string  `json:"pack_total_value"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"`
}

type hourlyProjectResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	BillableMinutes int64  `json:"billable_minutes"`
	BillableHours   string `json:"billable_hours"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
}

type accountClientResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type accountSummaryResponse struct {
	Client         accountClientResponse   `json:"client"`
	TotalCharged   string                  `json:"total_charged"`
	TotalPaid      string                  `json:"total_paid"`
	Balance        string                  `json:"balance"`
	Currency       string                  `json:"currency"`
	Entries        []ledgerEntryResponse   `json:"entries"`
	PackTotalDue   string                  `json:"pack_total_due"`
	PackProjects   []packProjectResponse   `json:"pack_projects"`
	HourlyTotalDue string                  `json:"hourly_total_due"`
	HourlyProjects []hourlyProjectResponse `json:"hourly_projects"`
}

func newAccountSummaryResponse(summary services.AccountSummary) accountSummaryResponse {
	response := accountSummaryResponse{
		Client:         accountClientResponse{ID: summary.Client.ID, Name: summary.Client.Name},
		TotalCharged:   money(summary.TotalCharged),
		TotalPaid:      money(summary.TotalPaid),
		Balance:        money(summary.Balance),
		Currency:       summary.Currency,
		Entries:        make([]ledgerEntryResponse, 0, len(summary.Entries)),
		PackTotalDue:   money(summary.PackTotalDue),
		PackProjects:   make([]packProjectResponse, 0, len(summary.PackProjects)),
		HourlyTotalDue: money(summary.HourlyTotalDue),
		HourlyProjects: make([]hourlyProjectResponse, 0, len(summary.HourlyProjects)),
	}
	for _, entry := range summary.Entries {
		response.Entries = append(response.Entries, newLedgerEntryResponse(entry))
	}
	for _, project := range summary.PackProjects {
		response.PackProjects = append(response.PackProjects, packProjectResponse{
			ID:             project.ID,
			Name:           project.Name,
			PackHours:      nullableDecimal(project.PackHours),
			PackTotalValue: money(project.PackTotalValue),
			Currency:       project.Currency,
			Status:         project.Status,
		})
	}
	for _, project := range summary.HourlyProjects {
		response.HourlyProjects = append(response.HourlyProjects, hourlyProjectResponse{
			ID:              project.ID,
			Name:            project.Name,
			BillableMinutes: project.BillableMinutes,
			BillableHours:   money(project.BillableHours),
			Amount:          money(project.Amount),
			Currency:        project.Currency,
		})
	}
	return response
}

type reportRowResponse struct {
	Client             string  `json:"client"`
	Project            string  `json:"project"`
	User               string  `json:"user"`
	TotalMinutes       int64   `json:"total_minutes"`
	BillableMinutes    int64   `json:"billable_minutes"`
	NonBillableMinutes int64   `json:"non_billable_minutes"`
	TotalAmount        *string `json:"total_amount"`
}

func newReportRowResponse(row services.ReportRow) reportRowResponse {
	response := reportRowResponse{
		Client:             row.Client,
		Project:            row.Project,
		User:               row.User,
		TotalMinutes:       row.TotalMinutes,
		BillableMinutes:    row.BillableMinutes,
		NonBillableMinutes: row.NonBillableMinutes,
	}
	if row.TotalAmount != nil {
		amount := money(*row.TotalAmount)
		response.TotalAmount = &amount
	}
	return response
}

type settingsResponse struct {
	CompanyName        string    `json:"company_name"`
	CompanyLegalName   string    `json:"company_legal_name"`
	CompanyEmail       string    `json:"company_email"`
	CompanyPhone       string    `json:"company_phone"`
	CompanyWebsite     string    `json:"company_website"`
	CompanyVAT         string    `json:"company_vat"`
	CompanyAddress     string    `json:"company_address"`
	SupportEmail       string    `json:"support_email"`
	BillingEmail       string    `json:"billing_email"`
	DefaultSenderName  string    `json:"default_sender_name"`
	DefaultSenderEmail string    `json:"default_sender_email"`
	ReplyToEmail       string    `json:"reply_to_email"`
	BrandingLogo       string    `json:"branding_logo"`
	SMTPHost           string    `json:"smtp_host"`
	SMTPPort           int       `json:"smtp_port"`
	SMTPUsername       string    `json:"smtp_username"`
	SMTPPasswordSet    bool      `json:"smtp_password_set"`
	SMTPUseTLS         bool      `json:"smtp_use_tls"`
	SMTPUseSSL         bool      `json:"smtp_use_ssl"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newSettingsResponse(settings models.SystemSettings) settingsResponse {
	return settingsResponse{
		CompanyName:        settings.CompanyName,
		CompanyLegalName:   settings.CompanyLegalName,
		CompanyEmail:       settings.CompanyEmail,
		CompanyPhone:       settings.CompanyPhone,
		CompanyWebsite:     settings.CompanyWebsite,
		CompanyVAT:         settings.CompanyVAT,
		CompanyAddress:     settings.CompanyAddress,
		SupportEmail:       settings.SupportEmail,
		BillingEmail:       settings.BillingEmail,
		DefaultSenderName:  settings.DefaultSenderName,
		DefaultSenderEmail: settings.DefaultSenderEmail,
		ReplyToEmail:       settings.ReplyToEmail,
		BrandingLogo:       settings.BrandingLogo,
		SMTPHost:           settings.SMTPHost,
		SMTPPort:           settings.SMTPPort,
		SMTPUsername:       settings.SMTPUsername,
		SMTPPasswordSet:    settings.SMTPPassword != "",
		SMTPUseTLS:         settings.SMTPUseTLS,
		SMTPUseSSL:         settings.SMTPUseSSL,
		UpdatedAt:          settings.UpdatedAt,
	}
}
