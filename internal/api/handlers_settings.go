package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/services"
)

type settingsRequest struct {
	CompanyName        *string        `json:"company_name"`
	CompanyLegalName   *string        `json:"company_legal_name"`
	CompanyEmail       *string        `json:"company_email"`
	CompanyPhone       *string        `json:"company_phone"`
	CompanyWebsite     *string        `json:"company_website"`
	CompanyVAT         *string        `json:"company_vat"`
	CompanyAddress     *string        `json:"company_address"`
	SupportEmail       *string        `json:"support_email"`
	BillingEmail       *string        `json:"billing_email"`
	DefaultSenderName  *string        `json:"default_sender_name"`
	DefaultSenderEmail *string        `json:"default_sender_email"`
	ReplyToEmail       *string        `json:"reply_to_email"`
	BrandingLogo       *string        `json:"branding_logo"`
	RemoveBrandingLogo bool           `json:"remove_branding_logo"`
	SMTPHost           *string        `json:"smtp_host"`
	SMTPPort           *int           `json:"smtp_port"`
	SMTPUsername       *string        `json:"smtp_username"`
	SMTPPassword       optionalString `json:"smtp_password"`
	SMTPUseTLS         *bool          `json:"smtp_use_tls"`
	SMTPUseSSL         *bool          `json:"smtp_use_ssl"`
}

func (request settingsRequest) input() services.SettingsInput {
	return services.SettingsInput{
		CompanyName:        request.CompanyName,
		CompanyLegalName:   request.CompanyLegalName,
		CompanyEmail:       request.CompanyEmail,
		CompanyPhone:       request.CompanyPhone,
		CompanyWebsite:     request.CompanyWebsite,
		CompanyVAT:         request.CompanyVAT,
		CompanyAddress:     request.CompanyAddress,
		SupportEmail:       request.SupportEmail,
		BillingEmail:       request.BillingEmail,
		DefaultSenderName:  request.DefaultSenderName,
		DefaultSenderEmail: request.DefaultSenderEmail,
		ReplyToEmail:       request.ReplyToEmail,
		BrandingLogo:       request.BrandingLogo,
		RemoveBrandingLogo: request.RemoveBrandingLogo,
		SMTPHost:           request.SMTPHost,
		SMTPPort:           request.SMTPPort,
		SMTPUsername:       request.SMTPUsername,
		SMTPPassword:       request.SMTPPassword.Ptr(),
		SMTPUseTLS:         request.SMTPUseTLS,
		SMTPUseSSL:         request.SMTPUseSSL,
	}
}

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settingsService.Load(currentCaller(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(newSettingsResponse(settings))
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	request := settingsRequest{}
	if err := parseBody(c, &request); err != nil {
		return handler.respondServiceError(c, err)
	}
	caller := currentCaller(c)
	settings, err := handler.settingsService.Update(caller, request.input())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.audit.LogAction(c.UserContext(), caller.UserID, "update", "system_settings", settings.ID)
	return c.JSON(newSettingsResponse(settings))
}
