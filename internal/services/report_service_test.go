package services

import (
	"testing"

	"github.com/terraincognita07/worktrace/internal/models"
)

func TestReportSummarizeGroupsByProjectAndUser(t *testing.T) {
	acme := models.Client{ID: 1, Name: "Acme"}
	beta := models.Client{ID: 2, Name: "Beta"}
	support := models.Project{ID: 10, ClientID: 1, Client: acme, Name: "Support", BillingType: models.BillingHourly, HourlyRate: nullDecimal("60")}
	internal := models.Project{ID: 11, ClientID: 1, Client: acme, Name: "Internal", BillingType: models.BillingHourly}
	launch := models.Project{ID: 20, ClientID: 2, Client: beta, Name: "Launch", BillingType: models.BillingHourly, HourlyRate: nullDecimal("100")}
	ana := models.User{ID: 5, FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	bruno := models.User{ID: 6, FirstName: "Bruno", Email: "bruno@example.com"}

	store := newStubEntryStore(
		models.TimeEntry{ID: 1, ProjectID: 10, Project: support, UserID: 5, User: ana, Date: mustDay("2026-03-02"), DurationMinutes: 30, Billable: true},
		models.TimeEntry{ID: 2, ProjectID: 10, Project: support, UserID: 5, User: ana, Date: mustDay("2026-03-03"), DurationMinutes: 45, Billable: true},
		models.TimeEntry{ID: 3, ProjectID: 10, Project: support, UserID: 5, User: ana, Date: mustDay("2026-03-03"), DurationMinutes: 15, Billable: false},
		models.TimeEntry{ID: 4, ProjectID: 10, Project: support, UserID: 6, User: bruno, Date: mustDay("2026-03-03"), DurationMinutes: 60, Billable: true},
		models.TimeEntry{ID: 5, ProjectID: 11, Project: internal, UserID: 5, User: ana, Date: mustDay("2026-03-04"), DurationMinutes: 120, Billable: true},
		models.TimeEntry{ID: 6, ProjectID: 20, Project: launch, UserID: 6, User: bruno, Date: mustDay("2026-03-04"), DurationMinutes: 90, Billable: true},
	)
	service := NewReportService(store, &stubRateLookup{})

	rows, err := service.Summarize(Caller{UserID: 1, Role: models.RoleAdmin}, models.TimeEntryFilter{})
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d: %+v", len(rows), rows)
	}

	order := []string{"Acme/Internal/Ana Silva", "Acme/Support/Ana Silva", "Acme/Support/Bruno", "Beta/Launch/Bruno"}
	for index, row := range rows {
		if got := row.Client + "/" + row.Project + "/" + row.User; got != order[index] {
			t.Fatalf("row %d = %q, want %q", index, got, order[index])
		}
	}

	if rows[0].TotalAmount != nil {
		t.Fatalf("expected nil amount for unpriced project, got %s", rows[0].TotalAmount)
	}
	ana10 := rows[1]
	if ana10.TotalMinutes != 90 || ana10.BillableMinutes != 75 || ana10.NonBillableMinutes != 15 {
		t.Fatalf("unexpected minutes: %+v", ana10)
	}
	if ana10.TotalAmount == nil || ana10.TotalAmount.StringFixed(2) != "75.00" {
		t.Fatalf("expected 75.00, got %v", ana10.TotalAmount)
	}
	if rows[3].TotalAmount == nil || rows[3].TotalAmount.StringFixed(2) != "150.00" {
		t.Fatalf("expected 150.00, got %v", rows[3].TotalAmount)
	}
}

func TestReportSummarizeScopesClientCallers(t *testing.T) {
	acme := models.Project{ID: 10, ClientID: 1, Client: models.Client{ID: 1, Name: "Acme"}, Name: "Support"}
	beta := models.Project{ID: 20, ClientID: 2, Client: models.Client{ID: 2, Name: "Beta"}, Name: "Launch"}
	store := newStubEntryStore(
		models.TimeEntry{ID: 1, ProjectID: 10, Project: acme, UserID: 5, Date: mustDay("2026-03-02"), DurationMinutes: 30},
		models.TimeEntry{ID: 2, ProjectID: 20, Project: beta, UserID: 6, Date: mustDay("2026-03-02"), DurationMinutes: 30},
	)
	service := NewReportService(store, &stubRateLookup{})

	requested := uint(2)
	rows, err := service.Summarize(Caller{UserID: 5, Role: models.RoleClient, ClientID: uintPtr(1)}, models.TimeEntryFilter{ClientID: &requested})
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Client != "Acme" {
		t.Fatalf("expected only the caller's client rows, got %+v", rows)
	}

	rows, err = service.Summarize(Caller{UserID: 9, Role: models.RoleClient}, models.TimeEntryFilter{})
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows for unaffiliated caller, got %+v", rows)
	}
}
