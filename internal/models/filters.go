package models

import "time"

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Page is a 1-based page request; a zero Size disables pagination.
type Page struct {
	Number int
	Size   int
}

func (page Page) Offset() int {
	if page.Number <= 1 || page.Size <= 0 {
		return 0
	}
	return (page.Number - 1) * page.Size
}

type ClientFilter struct {
	ClientID *uint
	IsActive *bool
	Search   string
	Page     Page
}

type ProjectFilter struct {
	ClientID   *uint
	Status     string
	Visibility string
	Search     string
	Page       Page
}

type AssignmentFilter struct {
	ProjectID *uint
	UserID    *uint
	Role      string
	IsActive  *bool
	Page      Page
}

type HourlyRateFilter struct {
	ClientID  *uint
	ProjectID *uint
	Currency  string
	Page      Page
}

type TimeEntryFilter struct {
	ClientID  *uint
	ProjectID *uint
	UserID    *uint
	From      *time.Time
	To        *time.Time
	Billable  *bool
	Search    string
	Ordering  string
	Page      Page
}

type UserFilter struct {
	Role string
	Page Page
}
