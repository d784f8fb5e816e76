package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProjectStatusActive   = "active"
	ProjectStatusPaused   = "paused"
	ProjectStatusArchived = "archived"

	VisibilityInternal = "internal"
	VisibilityClient   = "client"

	BillingHourly = "hourly"
	BillingPack   = "pack"
)

type Project struct {
	ID                 uint                `gorm:"primaryKey"`
	Name               string              `gorm:"not null"`
	ClientID           uint                `gorm:"not null;index"`
	Client             Client              `gorm:"foreignKey:ClientID"`
	Description        string              `gorm:"not null;default:''"`
	Status             string              `gorm:"not null;default:active"`
	Visibility         string              `gorm:"not null;default:internal"`
	BillingType        string              `gorm:"not null;default:hourly"`
	PackHours          decimal.NullDecimal `gorm:"type:text"`
	PackTotalValue     decimal.NullDecimal `gorm:"type:text"`
	HourlyRate         decimal.NullDecimal `gorm:"type:text"`
	Currency           string              `gorm:"not null;default:EUR"`
	CreatedByID        uint                `gorm:"not null"`
	TotalLoggedMinutes int64               `gorm:"not null;default:0"`
	LastLoggedAt       *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func IsValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusActive, ProjectStatusPaused, ProjectStatusArchived:
		return true
	default:
		return false
	}
}

func IsValidVisibility(visibility string) bool {
	return visibility == VisibilityInternal || visibility == VisibilityClient
}
