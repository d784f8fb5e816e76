package models

import "time"

const DefaultCurrency = "EUR"

type Client struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Email           string `gorm:"not null"`
	VAT             string `gorm:"column:vat;not null;default:''"`
	Notes           string `gorm:"not null;default:''"`
	IsActive        bool   `gorm:"not null"`
	BrandingLogo    string `gorm:"not null;default:''"`
	DefaultCurrency string `gorm:"not null;default:EUR"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
