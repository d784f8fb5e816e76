package services

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/models"
)

type ReportEntryReader interface {
	ListForReport(filter models.TimeEntryFilter) ([]models.TimeEntry, error)
}

// ReportRow aggregates one (project, user) pair. TotalAmount is nil when no
// billable entry in the group could be priced.
type ReportRow struct {
	ProjectID          uint
	UserID             uint
	Client             string
	Project            string
	User               string
	TotalMinutes       int64
	BillableMinutes    int64
	NonBillableMinutes int64
	TotalAmount        *decimal.Decimal
}

type ReportService struct {
	entries ReportEntryReader
	rates   HourlyRateLookup
}

func NewReportService(entries ReportEntryReader, rates HourlyRateLookup) *ReportService {
	return &ReportService{entries: entries, rates: rates}
}

func (service *ReportService) Summarize(caller Caller, filter models.TimeEntryFilter) ([]ReportRow, error) {
	if scope := caller.ClientScope(); scope != nil {
		filter.ClientID = scope
	}
	entries, err := service.entries.ListForReport(filter)
	if err != nil {
		return nil, err
	}

	book := NewRateBook(service.rates)
	groups := make(map[[2]uint]*ReportRow)
	for _, entry := range entries {
		key := [2]uint{entry.ProjectID, entry.UserID}
		row, exists := groups[key]
		if !exists {
			row = &ReportRow{
				ProjectID: entry.ProjectID,
				UserID:    entry.UserID,
				Client:    entry.Project.Client.Name,
				Project:   entry.Project.Name,
				User:      entry.User.FullName(),
			}
			groups[key] = row
		}

		minutes := int64(entry.DurationMinutes)
		row.TotalMinutes += minutes
		if !entry.Billable {
			row.NonBillableMinutes += minutes
			continue
		}
		row.BillableMinutes += minutes

		rate, ok, err := book.Resolve(entry.Project, entry.Date)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		amount := EntryAmount(entry.DurationMinutes, rate.Amount)
		if row.TotalAmount == nil {
			row.TotalAmount = &amount
		} else {
			sum := row.TotalAmount.Add(amount)
			row.TotalAmount = &sum
		}
	}

	rows := make([]ReportRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Client != rows[j].Client {
			return rows[i].Client < rows[j].Client
		}
		if rows[i].Project != rows[j].Project {
			return rows[i].Project < rows[j].Project
		}
		if rows[i].User != rows[j].User {
			return rows[i].User < rows[j].User
		}
		return rows[i].ProjectID < rows[j].ProjectID
	})
	return rows, nil
}
