package models

import "time"

type TimeEntry struct {
	ID              uint      `gorm:"primaryKey"`
	ProjectID       uint      `gorm:"not null"`
	Project         Project   `gorm:"foreignKey:ProjectID"`
	UserID          uint      `gorm:"not null"`
	User            User      `gorm:"foreignKey:UserID"`
	Date            time.Time `gorm:"type:date;not null"`
	Start           *string   `gorm:"column:start_time"`
	End             *string   `gorm:"column:end_time"`
	DurationMinutes int       `gorm:"not null;default:0"`
	Task            string    `gorm:"not null"`
	Notes           string    `gorm:"not null;default:''"`
	Billable        bool      `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (entry TimeEntry) HasClockTimes() bool {
	return entry.Start != nil && entry.End != nil
}
