package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

type User struct {
	ID                 uint   `gorm:"primaryKey"`
	Email              string `gorm:"not null"`
	PasswordHash       string `gorm:"not null"`
	FirstName          string `gorm:"not null;default:''"`
	LastName           string `gorm:"not null;default:''"`
	Role               string `gorm:"not null;default:admin"`
	ClientID           *uint
	IsActive           bool `gorm:"not null"`
	MustChangePassword bool `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (user User) IsAdmin() bool {
	return user.Role == RoleAdmin
}

// FullName falls back to the email when no name is set.
func (user User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name == "" {
		return user.Email
	}
	return name
}
