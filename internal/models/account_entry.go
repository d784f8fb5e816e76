package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EntryTypeCharge  = "charge"
	EntryTypePayment = "payment"
)

// ClientAccountEntry is an immutable ledger line; Amount is always positive.
type ClientAccountEntry struct {
	ID            uint            `gorm:"primaryKey"`
	ClientID      uint            `gorm:"not null"`
	EntryType     string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:text;not null"`
	Currency      string          `gorm:"not null;default:EUR"`
	OccurredAt    time.Time       `gorm:"type:date;not null"`
	Reference     string          `gorm:"not null;default:''"`
	Description   string          `gorm:"not null;default:''"`
	PaymentMethod string          `gorm:"not null;default:''"`
	Notes         string          `gorm:"not null;default:''"`
	RecordedByID  *uint
	CreatedAt     time.Time
}

// Signed returns the contribution to the client balance.
func (entry ClientAccountEntry) Signed() decimal.Decimal {
	if entry.EntryType == EntryTypePayment {
		return entry.Amount.Neg()
	}
	return entry.Amount
}
