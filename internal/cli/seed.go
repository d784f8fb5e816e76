package cli

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/worktrace/internal/db"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/services"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures/demo.yaml
var demoFixture []byte

type seedFixture struct {
	Admin   seedAdmin    `yaml:"admin"`
	Clients []seedClient `yaml:"clients"`
}

type seedAdmin struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

type seedClient struct {
	Name     string        `yaml:"name"`
	Email    string        `yaml:"email"`
	VAT      string        `yaml:"vat"`
	Notes    string        `yaml:"notes"`
	Currency string        `yaml:"currency"`
	Rate     *seedRate     `yaml:"rate"`
	Projects []seedProject `yaml:"projects"`
	Payments []seedLedger  `yaml:"payments"`
	Charges  []seedLedger  `yaml:"charges"`
}

type seedRate struct {
	Amount   string `yaml:"amount"`
	Currency string `yaml:"currency"`
	DaysAgo  int    `yaml:"days_ago"`
}

type seedProject struct {
	Name             string      `yaml:"name"`
	Description      string      `yaml:"description"`
	Visibility       string      `yaml:"visibility"`
	BillingType      string      `yaml:"billing_type"`
	PackHours        string      `yaml:"pack_hours"`
	PackTotalValue   string      `yaml:"pack_total_value"`
	HourlyRate       string      `yaml:"hourly_rate"`
	AssignClientUser bool        `yaml:"assign_client_user"`
	Rate             *seedRate   `yaml:"rate"`
	Entries          []seedEntry `yaml:"entries"`
}

type seedEntry struct {
	DaysAgo  int    `yaml:"days_ago"`
	Minutes  int    `yaml:"minutes"`
	Task     string `yaml:"task"`
	Notes    string `yaml:"notes"`
	Billable *bool  `yaml:"billable"`
}

type seedLedger struct {
	Amount        string `yaml:"amount"`
	DaysAgo       int    `yaml:"days_ago"`
	Reference     string `yaml:"reference"`
	Description   string `yaml:"description"`
	PaymentMethod string `yaml:"payment_method"`
}

func newSeedCmd() *cobra.Command {
	var fixturePath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := loadSeedFixture(fixturePath)
			if err != nil {
				return err
			}

			database, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close(database)

			seeder := newSeeder(database, cmd.OutOrStdout(), services.LocalDate(time.Now(), time.Local))
			if err := seeder.run(fixture); err != nil {
				return describeServiceError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Demo data created successfully.")
			return nil
		},
	}
	cmd.Flags().StringVar(&fixturePath, "file", "", "YAML fixture to load instead of the built-in demo data")
	return cmd
}

func loadSeedFixture(path string) (seedFixture, error) {
	raw := demoFixture
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return seedFixture{}, fmt.Errorf("read fixture: %w", err)
		}
		raw = content
	}

	fixture := seedFixture{}
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return seedFixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if fixture.Admin.Email == "" {
		return seedFixture{}, errors.New("fixture needs an admin email")
	}
	return fixture, nil
}

// seeder loads a fixture through the services so the data passes the same
// validation as API writes. Clients whose email is already taken are skipped,
// which makes repeated runs safe.
type seeder struct {
	repos    *db.Repositories
	auth     *services.AuthService
	clients  *services.ClientService
	projects *services.ProjectService
	assign   *services.AssignmentService
	rates    *services.HourlyRateService
	entries  *services.TimeEntryService
	billing  *services.BillingService
	out      io.Writer
	today    time.Time
}

func newSeeder(database *gorm.DB, out io.Writer, today time.Time) *seeder {
	repos := db.NewRepositories(database)
	return &seeder{
		repos:    repos,
		auth:     services.NewAuthService(repos.Users),
		clients:  services.NewClientService(repos.Clients),
		projects: services.NewProjectService(repos.Projects, repos.Clients),
		assign:   services.NewAssignmentService(repos.Assignments, repos.Projects, repos.Users),
		rates:    services.NewHourlyRateService(repos.Rates, repos.Clients, repos.Projects),
		entries:  services.NewTimeEntryService(repos.Entries, repos.Projects, repos.Assignments, repos.Rates, services.OverlapPolicy{}),
		billing:  services.NewBillingService(repos.Clients, repos.Projects, repos.Entries, repos.Ledger, repos.Rates, models.DefaultCurrency),
		out:      out,
		today:    today,
	}
}

func (s *seeder) run(fixture seedFixture) error {
	admin, err := s.ensureAdmin(fixture.Admin)
	if err != nil {
		return err
	}
	caller := services.CallerFromUser(&admin)

	for _, client := range fixture.Clients {
		if err := s.seedClient(caller, client); err != nil {
			return fmt.Errorf("client %s: %w", client.Email, err)
		}
	}
	return nil
}

func (s *seeder) ensureAdmin(spec seedAdmin) (models.User, error) {
	existing, err := s.repos.Users.FindByNormalizedEmail(services.NormalizeEmail(spec.Email))
	if err == nil {
		if !existing.IsAdmin() {
			return models.User{}, fmt.Errorf("%s exists and is not an administrator", existing.Email)
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	admin, err := s.auth.CreateAdmin(spec.Email, spec.Password, spec.FirstName, spec.LastName)
	if err != nil {
		return models.User{}, err
	}
	fmt.Fprintf(s.out, "Created administrator %s\n", admin.Email)
	return admin, nil
}

func (s *seeder) seedClient(caller services.Caller, spec seedClient) error {
	taken, err := s.repos.Clients.EmailTaken(services.NormalizeEmail(spec.Email), 0)
	if err != nil {
		return err
	}
	if taken {
		fmt.Fprintf(s.out, "Skipped client %s (already present)\n", spec.Email)
		return nil
	}

	input := services.ClientInput{
		Name:            &spec.Name,
		Email:           &spec.Email,
		VAT:             &spec.VAT,
		Notes:           &spec.Notes,
		DefaultCurrency: optional(spec.Currency),
	}
	client, password, err := s.clients.Create(caller, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created client %s (login %s, password %s)\n", client.Name, client.Email, password)

	if spec.Rate != nil {
		if err := s.seedRate(caller, services.HourlyRateInput{ClientID: &client.ID}, *spec.Rate); err != nil {
			return err
		}
	}
	clientUser, err := s.repos.Users.FindByNormalizedEmail(client.Email)
	if err != nil {
		return fmt.Errorf("load client user: %w", err)
	}
	for _, project := range spec.Projects {
		if err := s.seedProject(caller, client, clientUser, project); err != nil {
			return fmt.Errorf("project %s: %w", project.Name, err)
		}
	}

	for _, payment := range spec.Payments {
		if _, err := s.billing.RecordPayment(caller, client.ID, s.ledgerInput(payment), s.today); err != nil {
			return err
		}
	}
	for _, charge := range spec.Charges {
		if _, err := s.billing.RecordCharge(caller, client.ID, s.ledgerInput(charge), s.today); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedProject(caller services.Caller, client models.Client, clientUser models.User, spec seedProject) error {
	input := services.ProjectInput{
		Name:           &spec.Name,
		ClientID:       &client.ID,
		Description:    &spec.Description,
		Visibility:     optional(spec.Visibility),
		BillingType:    optional(spec.BillingType),
		PackHours:      optional(spec.PackHours),
		PackTotalValue: optional(spec.PackTotalValue),
		HourlyRate:     optional(spec.HourlyRate),
	}
	project, err := s.projects.Create(caller, input)
	if err != nil {
		return err
	}

	if spec.AssignClientUser {
		role := models.AssignmentMember
		if _, err := s.assign.Create(caller, services.AssignmentInput{ProjectID: &project.ID, UserID: &clientUser.ID, Role: &role}); err != nil {
			return err
		}
	}
	if spec.Rate != nil {
		if err := s.seedRate(caller, services.HourlyRateInput{ProjectID: &project.ID}, *spec.Rate); err != nil {
			return err
		}
	}

	for _, entry := range spec.Entries {
		date := s.dayString(entry.DaysAgo)
		minutes := entry.Minutes
		input := services.TimeEntryInput{
			ProjectID:       &project.ID,
			Date:            &date,
			DurationMinutes: &minutes,
			Task:            &entry.Task,
			Notes:           &entry.Notes,
			Billable:        entry.Billable,
		}
		if _, err := s.entries.Create(caller, input); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedRate(caller services.Caller, input services.HourlyRateInput, spec seedRate) error {
	from := s.dayString(spec.DaysAgo)
	input.Amount = &spec.Amount
	input.EffectiveFrom = &from
	input.Currency = optional(spec.Currency)
	_, err := s.rates.Create(caller, input)
	return err
}

func (s *seeder) ledgerInput(spec seedLedger) services.LedgerInput {
	return services.LedgerInput{
		Amount:        spec.Amount,
		OccurredAt:    s.dayString(spec.DaysAgo),
		Reference:     spec.Reference,
		Description:   spec.Description,
		PaymentMethod: spec.PaymentMethod,
	}
}

func (s *seeder) dayString(daysAgo int) string {
	return s.today.AddDate(0, 0, -daysAgo).Format(services.DateLayout)
}

// optional maps an empty fixture value to "not provided".
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
