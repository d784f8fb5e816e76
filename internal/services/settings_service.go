package services

import (
	"strings"

	"github.com/terraincognita07/worktrace/internal/models"
)

type SystemSettingsRepository interface {
	Load() (models.SystemSettings, error)
	Save(settings *models.SystemSettings) error
}

// SettingsInput is a partial update. SMTPPassword is write-only: nil keeps the
// stored secret, an empty string clears it.
type SettingsInput struct {
	CompanyName        *string
	CompanyLegalName   *string
	CompanyEmail       *string
	CompanyPhone       *string
	CompanyWebsite     *string
	CompanyVAT         *string
	CompanyAddress     *string
	SupportEmail       *string
	BillingEmail       *string
	DefaultSenderName  *string
	DefaultSenderEmail *string
	ReplyToEmail       *string
	BrandingLogo       *string
	RemoveBrandingLogo bool
	SMTPHost           *string
	SMTPPort           *int
	SMTPUsername       *string
	SMTPPassword       *string
	SMTPUseTLS         *bool
	SMTPUseSSL         *bool
}

type SettingsService struct {
	settings SystemSettingsRepository
}

func NewSettingsService(settings SystemSettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (service *SettingsService) Load(caller Caller) (models.SystemSettings, error) {
	if err := requireAdmin(caller); err != nil {
		return models.SystemSettings{}, err
	}
	return service.settings.Load()
}

// CompanyName is readable by every caller; reports print it as a heading.
func (service *SettingsService) CompanyName() (string, error) {
	settings, err := service.settings.Load()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(settings.CompanyName), nil
}

func (service *SettingsService) Update(caller Caller, input SettingsInput) (models.SystemSettings, error) {
	settings, err := service.Load(caller)
	if err != nil {
		return models.SystemSettings{}, err
	}

	texts := []struct {
		source *string
		target *string
	}{
		{input.CompanyName, &settings.CompanyName},
		{input.CompanyLegalName, &settings.CompanyLegalName},
		{input.CompanyPhone, &settings.CompanyPhone},
		{input.CompanyWebsite, &settings.CompanyWebsite},
		{input.CompanyVAT, &settings.CompanyVAT},
		{input.CompanyAddress, &settings.CompanyAddress},
		{input.DefaultSenderName, &settings.DefaultSenderName},
		{input.BrandingLogo, &settings.BrandingLogo},
		{input.SMTPHost, &settings.SMTPHost},
		{input.SMTPUsername, &settings.SMTPUsername},
	}
	for _, text := range texts {
		if text.source != nil {
			*text.target = strings.TrimSpace(*text.source)
		}
	}

	errs := fieldErrors{}
	emails := []struct {
		field  string
		source *string
		target *string
	}{
		{"company_email", input.CompanyEmail, &settings.CompanyEmail},
		{"support_email", input.SupportEmail, &settings.SupportEmail},
		{"billing_email", input.BillingEmail, &settings.BillingEmail},
		{"default_sender_email", input.DefaultSenderEmail, &settings.DefaultSenderEmail},
		{"reply_to_email", input.ReplyToEmail, &settings.ReplyToEmail},
	}
	for _, email := range emails {
		if email.source == nil {
			continue
		}
		raw := strings.TrimSpace(*email.source)
		if raw == "" {
			*email.target = ""
			continue
		}
		normalized := NormalizeEmail(raw)
		if normalized == "" {
			errs.add(email.field, "enter a valid email address")
			continue
		}
		*email.target = normalized
	}

	if input.RemoveBrandingLogo {
		settings.BrandingLogo = ""
	}
	if input.SMTPPort != nil {
		if *input.SMTPPort < 1 || *input.SMTPPort > 65535 {
			errs.add("smtp_port", "port must be between 1 and 65535")
		}
		settings.SMTPPort = *input.SMTPPort
	}
	if input.SMTPPassword != nil {
		settings.SMTPPassword = *input.SMTPPassword
	}
	if input.SMTPUseTLS != nil {
		settings.SMTPUseTLS = *input.SMTPUseTLS
	}
	if input.SMTPUseSSL != nil {
		settings.SMTPUseSSL = *input.SMTPUseSSL
	}
	if settings.SMTPUseTLS && settings.SMTPUseSSL {
		errs.add("smtp_use_ssl", "enable either TLS or SSL, not both")
	}
	if err := errs.err(); err != nil {
		return models.SystemSettings{}, err
	}

	if err := service.settings.Save(&settings); err != nil {
		return models.SystemSettings{}, err
	}
	return settings, nil
}
