package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/models"
)

type ResolvedRate struct {
	Amount   decimal.Decimal
	Currency string
}

// ResolveRate finds the hourly rate in effect for project on onDate.
// Project-scoped rates win over client-scoped ones; within a scope the rate
// with the latest effective_from covering the date wins. The project's flat
// rate is the last resort. Pack projects are never rate-resolved.
func ResolveRate(project models.Project, projectRates []models.HourlyRate, clientRates []models.HourlyRate, onDate time.Time) (ResolvedRate, bool) {
	if project.BillingType != models.BillingHourly {
		return ResolvedRate{}, false
	}

	day := CalendarDate(onDate)
	if rate, ok := firstCoveringRate(projectRates, day); ok {
		return ResolvedRate{Amount: rate.Amount, Currency: rate.Currency}, true
	}
	if rate, ok := firstCoveringRate(clientRates, day); ok {
		return ResolvedRate{Amount: rate.Amount, Currency: rate.Currency}, true
	}
	if project.HourlyRate.Valid {
		return ResolvedRate{Amount: project.HourlyRate.Decimal, Currency: project.Currency}, true
	}
	return ResolvedRate{}, false
}

func firstCoveringRate(rates []models.HourlyRate, day time.Time) (models.HourlyRate, bool) {
	ordered := make([]models.HourlyRate, len(rates))
	copy(ordered, rates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectiveFrom.After(ordered[j].EffectiveFrom)
	})
	for _, rate := range ordered {
		if rate.Covers(day) {
			return rate, true
		}
	}
	return models.HourlyRate{}, false
}

type HourlyRateLookup interface {
	ListByScope(scope models.RateScope) ([]models.HourlyRate, error)
}

// RateBook memoizes rate rows per scope for the duration of one read.
// Resolution itself always runs against the rows and the entry date.
type RateBook struct {
	lookup HourlyRateLookup
	rows   map[models.RateScope][]models.HourlyRate
}

func NewRateBook(lookup HourlyRateLookup) *RateBook {
	return &RateBook{lookup: lookup, rows: make(map[models.RateScope][]models.HourlyRate)}
}

func (book *RateBook) Resolve(project models.Project, onDate time.Time) (ResolvedRate, bool, error) {
	if project.BillingType != models.BillingHourly {
		return ResolvedRate{}, false, nil
	}
	projectRates, err := book.load(models.ProjectScope(project.ID))
	if err != nil {
		return ResolvedRate{}, false, err
	}
	clientRates, err := book.load(models.ClientScope(project.ClientID))
	if err != nil {
		return ResolvedRate{}, false, err
	}
	rate, ok := ResolveRate(project, projectRates, clientRates, onDate)
	return rate, ok, nil
}

func (book *RateBook) load(scope models.RateScope) ([]models.HourlyRate, error) {
	if rows, ok := book.rows[scope]; ok {
		return rows, nil
	}
	rows, err := book.lookup.ListByScope(scope)
	if err != nil {
		return nil, err
	}
	book.rows[scope] = rows
	return rows, nil
}
