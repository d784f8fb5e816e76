package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestTimeEntriesArePricedAndRefreshProjectMetrics(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t)
	admin := harness.adminCookie(t)
	_, project := harness.seedHourlyProject(t, admin, "acme@example.com", "80")

	entry := timeEntryResponse{}
	harness.expect(t, http.MethodPost, "/api/time-entries", admin, fiber.Map{
		"project": project.ID,
		"date":    "2026-03-02",
		"start":   "09:00",
		"end":     "10:30",
		"task":    "Wireframes",
	}, http.StatusCreated, &entry)
	if entry.DurationMinutes != 90 || !entry.Billable || entry.ProjectName != "Website" || entry.UserName != "Ada Admin" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.HourlyRate == nil || *entry.HourlyRate != "80.00" || entry.Amount == nil || *entry.Amount != "120.00" || *entry.Currency != "EUR" {
		t.Fatalf("unexpected pricing: rate=%v amount=%v", entry.HourlyRate, entry.Amount)
	}

	unbillable := timeEntryResponse{}
	harness.expect(t, http.MethodPost, "/api/time-entries", admin, fiber.Map{
		"project":          project.ID,
		"date":             "2026-03-03",
		"duration_minutes": 45,
		"task":             "Internal sync",
		"billable":         false,
	}, http.StatusCreated, &unbillable)
	if unbillable.Amount != nil || unbillable.HourlyRate == nil || unbillable.Start != nil {
		t.Fatalf("expected unbillable entry to carry a rate but no amount: %+v", unbillable)
	}

	refreshed := projectResponse{}
	harness.expect(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), admin, nil, http.StatusOK, &refreshed)
	if refreshed.TotalLoggedMinutes != 135 || refreshed.TotalLoggedHours != "2.25" || refreshed.LastLoggedAt == nil {
		t.Fatalf("unexpected project metrics: %+v", refreshed)
	}

	conflict := apiErrorBody{}
	harness.expect(t, http.MethodPost, "/api/time-entries", admin, fiber.Map{
		"project": project.ID,
		"date":    "2026-03-02",
		"start":   "10:00",
		"end":     "11:00",
		"task":    "Overlapping",
	}, http.StatusConflict, &conflict)
	if conflict.Error == "" {
		t.Fatal("expected overlap error message")
	}
	harness.expect(t, http.MethodPost, "/api/time-entries", admin, fiber.Map{
		"project": project.ID,
		"date":    "2026-03-02",
		"start":   "10:30",
		"end":     "11:00",
		"task":    "Back to back",
	}, http.StatusCreated, nil)

	updated := timeEntryResponse{}
	harness.expect(t, http.MethodPatch, fmt.Sprintf("/api/time-entries/%d", unbillable.ID), admin, fiber.Map{"billable": true, "duration_minutes": 30}, http.StatusOK, &updated)
	if updated.Amount == nil || *updated.Amount != "40.00" {
		t.Fatalf("expected repriced amount 40.00, got %v", updated.Amount)
	}

	harness.expect(t, http.MethodDelete, fmt.Sprintf("/api/time-entries/%d", entry.ID), admin, nil, http.StatusNoContent, nil)
	harness.expect(t, http.MethodGet, fmt.Sprintf("/api/time-entries/%d", entry.ID), admin, nil, http.StatusNotFound, nil)
	harness.expect(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), admin, nil, http.StatusOK, &refreshed)
	if refreshed.TotalLoggedMinutes != 60 {
		t.Fatalf("expected metrics to drop to 60 minutes, got %d", refreshed.TotalLoggedMinutes)
	}
}

func TestTimeEntryListFiltersAndPagination(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t)
	admin := harness.adminCookie(t)
	_, project := harness.seedHourlyProject(t, admin, "acme@example.com", "80")

	for index, day := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		harness.expect(t, http.MethodPost, "/api/time-entries", admin, fiber.Map{
			"project":          project.ID,
			"date":             day,
			"duration_minutes": 30 * (index + 1),
			"task":             fmt.Sprintf("Task %d", index),
			"notes":            "sprint",
		}, http.StatusCreated, nil)
	}

	list := pageOf[timeEntryResponse]{}
	harness.expect(t, http.MethodGet, "/api/time-entries?from=2026-03-02&to=2026-03-03&ordering=date", admin, nil, http.StatusOK, &list)
	if list.Count != 2 || list.Results[0].Date != "2026-03-02" || list.Results[1].Date != "2026-03-03" {
		t.Fatalf("unexpected range result: %+v", list)
	}

	paged := pageOf[timeEntryResponse]{}
	harness.expect(t, http.MethodGet, "/api/time-entries?page=2&page_size=2&ordering=-duration_minutes", admin, nil, http.StatusOK, &paged)
	if paged.Count != 3 || len(paged.Results) != 1 || paged.Results[0].DurationMinutes != 30 {
		t.Fatalf("unexpected second page: %+v", paged)
	}

	searched := pageOf[timeEntryResponse]{}
	harness.expect(t, http.MethodGet, "/api/time-entries?search=task%201", admin, nil, http.StatusOK, &searched)
	if searched.Count != 1 {
		t.Fatalf("expected one search hit, got %d", searched.Count)
	}

	for _, query := range []string{"ordering=task", "from=03/02/2026", "from=2026-03-05&to=2026-03-01", "page=0", "page_size=-1", "billable=sometimes", "project=x"} {
		harness.expect(t, http.MethodGet, "/api/time-entries?"+query, admin, nil, http.StatusBadRequest, nil)
	}

	clamped := pageOf[timeEntryResponse]{}
	harness.expect(t, http.MethodGet, "/api/time-entries?page_size=1000", admin, nil, http.StatusOK, &clamped)
	if clamped.Count != 3 || len(clamped.Results) != 3 {
		t.Fatalf("expected clamped page to hold all entries, got %+v", clamped)
	}
}

func TestClientUsersNeedAnAssignmentToLogTime(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t)
	admin := harness.adminCookie(t)
	client, project := harness.seedHourlyProject(t, admin, "acme@example.com", "80")
	clientCookie := harness.login(t, "acme@example.com", client.InitialPassword)

	payload := fiber.Map{"project": project.ID, "date": "2026-03-02", "duration_minutes": 60, "task": "Content"}
	harness.expect(t, http.MethodPost, "/api/time-entries", clientCookie, payload, http.StatusForbidden, nil)

	users := pageOf[userResponse]{}
	harness.expect(t, http.MethodGet, "/api/users?role=client", admin, nil, http.StatusOK, &users)
	assignment := assignmentResponse{}
	harness.expect(t, http.MethodPost, "/api/assignments", admin, fiber.Map{
		"project": project.ID,
		"user":    users.Results[0].ID,
	}, http.StatusCreated, &assignment)
	if assignment.Role != "member" || !assignment.IsActive || assignment.ProjectName != "Website" {
		t.Fatalf("unexpected assignment: %+v", assignment)
	}
	harness.expect(t, http.MethodPost, "/api/assignments", admin, fiber.Map{
		"project": project.ID,
		"user":    users.Results[0].ID,
	}, http.StatusConflict, nil)

	own := timeEntryResponse{}
	harness.expect(t, http.MethodPost, "/api/time-entries", clientCookie, payload, http.StatusCreated, &own)
	if own.User != users.Results[0].ID {
		t.Fatalf("expected entry to belong to the client user, got %d", own.User)
	}

	adminEntry := timeEntryResponse{}
	harness.expect(t, http.MethodPost, "/api/time-entries", admin, fiber.Map{
		"project": project.ID, "date": "2026-03-04", "duration_minutes": 15, "task": "QA",
	}, http.StatusCreated, &adminEntry)
	harness.expect(t, http.MethodPatch, fmt.Sprintf("/api/time-entries/%d", adminEntry.ID), clientCookie, fiber.Map{"task": "Mine now"}, http.StatusForbidden, nil)

	harness.expect(t, http.MethodPatch, fmt.Sprintf("/api/assignments/%d", assignment.ID), admin, fiber.Map{"is_active": false}, http.StatusOK, nil)
	harness.expect(t, http.MethodPost, "/api/time-entries", clientCookie, fiber.Map{
		"project": project.ID, "date": "2026-03-05", "duration_minutes": 60, "task": "Blocked",
	}, http.StatusForbidden, nil)
	harness.expect(t, http.MethodGet, "/api/assignments", clientCookie, nil, http.StatusForbidden, nil)
}
