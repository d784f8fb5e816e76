package models

import "time"

const SystemSettingsID = 1

type SystemSettings struct {
	ID                 uint `gorm:"primaryKey"`
	CompanyName        string
	CompanyLegalName   string
	CompanyEmail       string
	CompanyPhone       string
	CompanyWebsite     string
	CompanyVAT         string `gorm:"column:company_vat"`
	CompanyAddress     string
	SupportEmail       string
	BillingEmail       string
	DefaultSenderName  string
	DefaultSenderEmail string
	ReplyToEmail       string
	BrandingLogo       string
	SMTPHost           string `gorm:"column:smtp_host"`
	SMTPPort           int    `gorm:"column:smtp_port;not null;default:587"`
	SMTPUsername       string `gorm:"column:smtp_username"`
	SMTPPassword       string `gorm:"column:smtp_password"`
	SMTPUseTLS         bool   `gorm:"column:smtp_use_tls;not null"`
	SMTPUseSSL         bool   `gorm:"column:smtp_use_ssl;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (SystemSettings) TableName() string {
	return "system_settings"
}
