package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RateScopeKind string

const (
	RateScopeClient  RateScopeKind = "client"
	RateScopeProject RateScopeKind = "project"
)

// RateScope names the single entity an hourly rate applies to.
type RateScope struct {
	Kind RateScopeKind
	ID   uint
}

func ClientScope(clientID uint) RateScope {
	return RateScope{Kind: RateScopeClient, ID: clientID}
}

func ProjectScope(projectID uint) RateScope {
	return RateScope{Kind: RateScopeProject, ID: projectID}
}

func (scope RateScope) Valid() bool {
	return scope.ID != 0 && (scope.Kind == RateScopeClient || scope.Kind == RateScopeProject)
}

type HourlyRate struct {
	ID            uint            `gorm:"primaryKey"`
	ScopeKind     RateScopeKind   `gorm:"not null"`
	ScopeID       uint            `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:text;not null"`
	Currency      string          `gorm:"not null;default:EUR"`
	EffectiveFrom time.Time       `gorm:"type:date;not null"`
	EffectiveTo   *time.Time      `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (rate HourlyRate) Scope() RateScope {
	return RateScope{Kind: rate.ScopeKind, ID: rate.ScopeID}
}

func (rate *HourlyRate) SetScope(scope RateScope) {
	rate.ScopeKind = scope.Kind
	rate.ScopeID = scope.ID
}

// Covers reports whether day falls inside the validity window.
func (rate HourlyRate) Covers(day time.Time) bool {
	if rate.EffectiveFrom.After(day) {
		return false
	}
	return rate.EffectiveTo == nil || !rate.EffectiveTo.Before(day)
}
