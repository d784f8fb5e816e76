package services

import "github.com/shopspring/decimal"

type ProjectMetricsRefresher interface {
	RefreshProjectMetrics(projectID uint) error
	ListProjectIDs() ([]uint, error)
}

// LoggedHours converts the cached minute rollup for display.
func LoggedHours(totalMinutes int64) decimal.Decimal {
	return MinutesToHours(totalMinutes)
}

// RefreshAllProjectMetrics re-aggregates every project's rollup and returns
// how many projects were refreshed.
func RefreshAllProjectMetrics(refresher ProjectMetricsRefresher) (int, error) {
	projectIDs, err := refresher.ListProjectIDs()
	if err != nil {
		return 0, err
	}
	for _, projectID := range projectIDs {
		if err := refresher.RefreshProjectMetrics(projectID); err != nil {
			return 0, err
		}
	}
	return len(projectIDs), nil
}
