package models

import "time"

const (
	AssignmentMember  = "member"
	AssignmentManager = "manager"
)

type ProjectAssignment struct {
	ID        uint    `gorm:"primaryKey"`
	ProjectID uint    `gorm:"not null"`
	Project   Project `gorm:"foreignKey:ProjectID"`
	UserID    uint    `gorm:"not null"`
	User      User    `gorm:"foreignKey:UserID"`
	Role      string  `gorm:"not null;default:member"`
	IsActive  bool    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
