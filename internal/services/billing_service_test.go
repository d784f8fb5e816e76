package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/worktrace/internal/models"
)

type stubLedger struct {
	entries []models.ClientAccountEntry
}

func (stub *stubLedger) ListByClient(clientID uint) ([]models.ClientAccountEntry, error) {
	matched := make([]models.ClientAccountEntry, 0)
	for _, entry := range stub.entries {
		if entry.ClientID == clientID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (stub *stubLedger) Record(entry *models.ClientAccountEntry) error {
	entry.ID = uint(len(stub.entries) + 1)
	stub.entries = append(stub.entries, *entry)
	return nil
}

type billingFixture struct {
	service *BillingService
	ledger  *stubLedger
	entries *stubEntryStore
	admin   Caller
}

// newAcmeFixture models a client with one pack project worth 500, one hourly
// project billed at 80/h with 150 billable minutes and a payment of 40.
func newAcmeFixture() billingFixture {
	acme := models.Client{ID: 1, Name: "Acme", DefaultCurrency: "EUR"}
	pack := models.Project{ID: 10, ClientID: 1, Name: "Website pack", BillingType: models.BillingPack,
		PackHours: nullDecimal("20"), PackTotalValue: nullDecimal("500"), Currency: "EUR", Status: models.ProjectStatusActive}
	hourly := models.Project{ID: 11, ClientID: 1, Name: "Support", BillingType: models.BillingHourly,
		HourlyRate: nullDecimal("80"), Currency: "EUR", Status: models.ProjectStatusActive}

	entries := newStubEntryStore(
		models.TimeEntry{ID: 1, ProjectID: 11, Project: hourly, UserID: 5, Date: mustDay("2026-02-03"), DurationMinutes: 90, Task: "Triage", Billable: true},
		models.TimeEntry{ID: 2, ProjectID: 11, Project: hourly, UserID: 5, Date: mustDay("2026-02-04"), DurationMinutes: 60, Task: "Fixes", Billable: true},
		models.TimeEntry{ID: 3, ProjectID: 11, Project: hourly, UserID: 5, Date: mustDay("2026-02-04"), DurationMinutes: 45, Task: "Internal", Billable: false},
	)
	ledger := &stubLedger{entries: []models.ClientAccountEntry{
		{ID: 1, ClientID: 1, EntryType: models.EntryTypePayment, Amount: mustDecimal("40"), Currency: "EUR", OccurredAt: mustDay("2026-02-10")},
	}}
	projects := &stubProjectReader{projects: map[uint]models.Project{10: pack, 11: hourly}}
	clients := &stubClientReader{clients: map[uint]models.Client{1: acme, 2: {ID: 2, Name: "Globex"}}}

	return billingFixture{
		service: NewBillingService(clients, projects, entries, ledger, &stubRateLookup{}, "EUR"),
		ledger:  ledger,
		entries: entries,
		admin:   Caller{UserID: 1, Role: models.RoleAdmin},
	}
}

func TestSummarizeAccountCombinesPackHourlyAndLedger(t *testing.T) {
	fixture := newAcmeFixture()

	summary, err := fixture.service.SummarizeAccount(fixture.admin, 1)
	if err != nil {
		t.Fatalf("SummarizeAccount() unexpected error: %v", err)
	}

	checks := map[string]string{
		"pack_total_due":   summary.PackTotalDue.StringFixed(2),
		"hourly_total_due": summary.HourlyTotalDue.StringFixed(2),
		"total_charged":    summary.TotalCharged.StringFixed(2),
		"total_paid":       summary.TotalPaid.StringFixed(2),
		"balance":          summary.Balance.StringFixed(2),
	}
	want := map[string]string{
		"pack_total_due":   "500.00",
		"hourly_total_due": "200.00",
		"total_charged":    "700.00",
		"total_paid":       "40.00",
		"balance":          "660.00",
	}
	for key, expected := range want {
		if checks[key] != expected {
			t.Fatalf("%s = %s, want %s", key, checks[key], expected)
		}
	}
	if summary.Currency != "EUR" {
		t.Fatalf("expected EUR, got %q", summary.Currency)
	}
	if len(summary.PackProjects) != 1 || summary.PackProjects[0].ID != 10 {
		t.Fatalf("unexpected pack rows: %+v", summary.PackProjects)
	}
	if len(summary.HourlyProjects) != 1 {
		t.Fatalf("expected one hourly row, got %+v", summary.HourlyProjects)
	}
	row := summary.HourlyProjects[0]
	if row.BillableMinutes != 150 || row.BillableHours.StringFixed(2) != "2.50" || row.Amount.StringFixed(2) != "200.00" {
		t.Fatalf("unexpected hourly row: %+v", row)
	}
}

func TestSummarizeAccountIsIdempotent(t *testing.T) {
	fixture := newAcmeFixture()
	first, err := fixture.service.SummarizeAccount(fixture.admin, 1)
	if err != nil {
		t.Fatalf("SummarizeAccount() unexpected error: %v", err)
	}
	second, err := fixture.service.SummarizeAccount(fixture.admin, 1)
	if err != nil {
		t.Fatalf("SummarizeAccount() unexpected error: %v", err)
	}
	if !first.Balance.Equal(second.Balance) || !first.TotalCharged.Equal(second.TotalCharged) {
		t.Fatalf("expected stable summary, got %s then %s", first.Balance, second.Balance)
	}
	if len(fixture.ledger.entries) != 1 {
		t.Fatalf("summary must not write ledger entries, got %d", len(fixture.ledger.entries))
	}
}

func TestSummarizeAccountSkipsEntriesWithoutRate(t *testing.T) {
	fixture := newAcmeFixture()
	unpriced := models.Project{ID: 12, ClientID: 1, Name: "Unpriced", BillingType: models.BillingHourly, Currency: "USD"}
	fixture.entries.entries[9] = models.TimeEntry{ID: 9, ProjectID: 12, Project: unpriced, UserID: 5,
		Date: mustDay("2026-02-05"), DurationMinutes: 600, Task: "Free", Billable: true}

	summary, err := fixture.service.SummarizeAccount(fixture.admin, 1)
	if err != nil {
		t.Fatalf("SummarizeAccount() unexpected error: %v", err)
	}
	if summary.HourlyTotalDue.StringFixed(2) != "200.00" || len(summary.HourlyProjects) != 1 {
		t.Fatalf("expected unpriced entry to be skipped, got %s with %d rows", summary.HourlyTotalDue, len(summary.HourlyProjects))
	}
}

func TestSummarizeAccountCurrencyFallsBackToDefault(t *testing.T) {
	clients := &stubClientReader{clients: map[uint]models.Client{3: {ID: 3, Name: "Empty"}}}
	service := NewBillingService(clients, &stubProjectReader{}, newStubEntryStore(), &stubLedger{}, &stubRateLookup{}, "GBP")

	summary, err := service.SummarizeAccount(Caller{UserID: 1, Role: models.RoleAdmin}, 3)
	if err != nil {
		t.Fatalf("SummarizeAccount() unexpected error: %v", err)
	}
	if summary.Currency != "GBP" || !summary.Balance.IsZero() {
		t.Fatalf("expected empty GBP summary, got %q balance %s", summary.Currency, summary.Balance)
	}
	if summary.PackProjects == nil || summary.HourlyProjects == nil {
		t.Fatalf("expected empty slices rather than nil")
	}
}

func TestSummarizeAccountVisibility(t *testing.T) {
	fixture := newAcmeFixture()
	member := Caller{UserID: 5, Role: models.RoleClient, ClientID: uintPtr(1)}
	outsider := Caller{UserID: 6, Role: models.RoleClient, ClientID: uintPtr(2)}

	if _, err := fixture.service.SummarizeAccount(member, 1); err != nil {
		t.Fatalf("expected client user to see own account, got %v", err)
	}
	if _, err := fixture.service.SummarizeAccount(outsider, 1); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected authorization error for other client, got %v", err)
	}
	if _, err := fixture.service.SummarizeAccount(fixture.admin, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown client, got %v", err)
	}
}

func TestRecordPaymentReducesBalance(t *testing.T) {
	fixture := newAcmeFixture()
	today := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

	payment, err := fixture.service.RecordPayment(fixture.admin, 1, LedgerInput{Amount: "100.004", Reference: " INV-7 "}, today)
	if err != nil {
		t.Fatalf("RecordPayment() unexpected error: %v", err)
	}
	if payment.Amount.StringFixed(2) != "100.00" || payment.Currency != "EUR" || payment.Reference != "INV-7" {
		t.Fatalf("unexpected payment: %+v", payment)
	}
	if payment.OccurredAt.Format(DateLayout) != "2026-03-01" || payment.RecordedByID == nil || *payment.RecordedByID != 1 {
		t.Fatalf("unexpected payment metadata: %+v", payment)
	}

	summary, err := fixture.service.SummarizeAccount(fixture.admin, 1)
	if err != nil {
		t.Fatalf("SummarizeAccount() unexpected error: %v", err)
	}
	if summary.Balance.StringFixed(2) != "560.00" {
		t.Fatalf("expected balance 560.00 after payment, got %s", summary.Balance.StringFixed(2))
	}

	if _, err := fixture.service.RecordCharge(fixture.admin, 1, LedgerInput{Amount: "25", Currency: "eur", OccurredAt: "2026-03-02"}, today); err != nil {
		t.Fatalf("RecordCharge() unexpected error: %v", err)
	}
	summary, _ = fixture.service.SummarizeAccount(fixture.admin, 1)
	if summary.TotalCharged.StringFixed(2) != "725.00" || summary.Balance.StringFixed(2) != "585.00" {
		t.Fatalf("expected charge to raise totals, got charged %s balance %s", summary.TotalCharged, summary.Balance)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	fixture := newAcmeFixture()
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input LedgerInput
		field string
	}{
		{name: "zero", input: LedgerInput{Amount: "0"}, field: "amount"},
		{name: "rounds to zero", input: LedgerInput{Amount: "0.004"}, field: "amount"},
		{name: "negative", input: LedgerInput{Amount: "-5"}, field: "amount"},
		{name: "garbage", input: LedgerInput{Amount: "ten"}, field: "amount"},
		{name: "bad date", input: LedgerInput{Amount: "5", OccurredAt: "01/03/2026"}, field: "occurred_at"},
		{name: "bad currency", input: LedgerInput{Amount: "5", Currency: "EURO"}, field: "currency"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := fixture.service.RecordPayment(fixture.admin, 1, testCase.input, today)
			var serviceErr *Error
			if !errors.As(err, &serviceErr) || serviceErr.Kind != KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := serviceErr.Fields[testCase.field]; !ok {
				t.Fatalf("expected field %q in %v", testCase.field, serviceErr.Fields)
			}
		})
	}

	member := Caller{UserID: 5, Role: models.RoleClient, ClientID: uintPtr(1)}
	if _, err := fixture.service.RecordPayment(member, 1, LedgerInput{Amount: "5"}, today); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected admin-only payments, got %v", err)
	}
	if len(fixture.ledger.entries) != 1 {
		t.Fatalf("rejected payments must not be stored")
	}
}
