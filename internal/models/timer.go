package models

import "time"

const (
	TimerStatusRunning = "running"
	TimerStatusPaused  = "paused"
)

type TimeEntryTimer struct {
	ID                 uint    `gorm:"primaryKey"`
	ProjectID          uint    `gorm:"not null"`
	Project            Project `gorm:"foreignKey:ProjectID"`
	UserID             uint    `gorm:"not null"`
	User               User    `gorm:"foreignKey:UserID"`
	Status             string  `gorm:"not null"`
	StartedAt          time.Time
	LastResumedAt      *time.Time
	AccumulatedSeconds int64  `gorm:"not null;default:0"`
	Notes              string `gorm:"not null;default:''"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
