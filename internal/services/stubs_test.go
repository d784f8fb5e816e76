package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/models"
	"gorm.io/gorm"
)

func mustDecimal(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func nullDecimal(raw string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(raw))
}

func stringPtr(value string) *string {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func mustDay(raw string) time.Time {
	day, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return day
}

type stubProjectReader struct {
	projects map[uint]models.Project
	err      error
}

func (stub *stubProjectReader) FindByID(projectID uint) (models.Project, bool, error) {
	if stub.err != nil {
		return models.Project{}, false, stub.err
	}
	project, found := stub.projects[projectID]
	return project, found, nil
}

func (stub *stubProjectReader) ListByClient(clientID uint) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	for _, project := range stub.projects {
		if project.ClientID == clientID {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

type stubClientReader struct {
	clients map[uint]models.Client
}

func (stub *stubClientReader) FindByID(clientID uint) (models.Client, bool, error) {
	client, found := stub.clients[clientID]
	return client, found, nil
}

type stubRateLookup struct {
	rates []models.HourlyRate
	calls int
}

func (stub *stubRateLookup) ListByScope(scope models.RateScope) ([]models.HourlyRate, error) {
	stub.calls++
	matched := make([]models.HourlyRate, 0)
	for _, rate := range stub.rates {
		if rate.Scope() == scope {
			matched = append(matched, rate)
		}
	}
	return matched, nil
}

type stubUserReader struct {
	users map[uint]models.User
}

func (stub *stubUserReader) FindByID(userID uint) (models.User, error) {
	user, found := stub.users[userID]
	if !found {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

// stubEntryStore keeps entries in memory and mimics the transactional
// repository contract: the check runs before anything is written.
type stubEntryStore struct {
	entries  map[uint]models.TimeEntry
	nextID   uint
	refreshs []uint
}

func newStubEntryStore(entries ...models.TimeEntry) *stubEntryStore {
	store := &stubEntryStore{entries: make(map[uint]models.TimeEntry), nextID: 1}
	for _, entry := range entries {
		if entry.ID == 0 {
			entry.ID = store.nextID
		}
		if entry.ID >= store.nextID {
			store.nextID = entry.ID + 1
		}
		store.entries[entry.ID] = entry
	}
	return store
}

func (store *stubEntryStore) window(userID uint, from time.Time, to time.Time) []models.TimeEntry {
	matched := make([]models.TimeEntry, 0)
	for _, entry := range store.entries {
		if entry.UserID != userID || entry.Date.Before(from) || !entry.Date.Before(to) {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func (store *stubEntryStore) FindByID(entryID uint) (models.TimeEntry, bool, error) {
	entry, found := store.entries[entryID]
	return entry, found, nil
}

func (store *stubEntryStore) List(filter models.TimeEntryFilter) ([]models.TimeEntry, int64, error) {
	matched := make([]models.TimeEntry, 0)
	for _, entry := range store.entries {
		if filter.ClientID != nil && entry.Project.ClientID != *filter.ClientID {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (store *stubEntryStore) Create(entry *models.TimeEntry, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error {
	if check != nil {
		if err := check(store.window(entry.UserID, scanFrom, scanTo)); err != nil {
			return err
		}
	}
	entry.ID = store.nextID
	store.nextID++
	store.entries[entry.ID] = *entry
	store.refreshs = append(store.refreshs, entry.ProjectID)
	return nil
}

func (store *stubEntryStore) Update(entry *models.TimeEntry, previousProjectID uint, scanFrom time.Time, scanTo time.Time, check func([]models.TimeEntry) error) error {
	if check != nil {
		if err := check(store.window(entry.UserID, scanFrom, scanTo)); err != nil {
			return err
		}
	}
	store.entries[entry.ID] = *entry
	store.refreshs = append(store.refreshs, entry.ProjectID)
	if previousProjectID != entry.ProjectID {
		store.refreshs = append(store.refreshs, previousProjectID)
	}
	return nil
}

func (store *stubEntryStore) Delete(entry models.TimeEntry) error {
	delete(store.entries, entry.ID)
	store.refreshs = append(store.refreshs, entry.ProjectID)
	return nil
}

func (store *stubEntryStore) ListBillableHourlyByClient(clientID uint) ([]models.TimeEntry, error) {
	matched := make([]models.TimeEntry, 0)
	for _, entry := range store.entries {
		if entry.Project.ClientID == clientID && entry.Billable && entry.Project.BillingType == models.BillingHourly {
			matched = append(matched, entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (store *stubEntryStore) ListForReport(filter models.TimeEntryFilter) ([]models.TimeEntry, error) {
	matched := make([]models.TimeEntry, 0)
	for _, entry := range store.entries {
		if filter.ClientID != nil && entry.Project.ClientID != *filter.ClientID {
			continue
		}
		if filter.Billable != nil && entry.Billable != *filter.Billable {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}
