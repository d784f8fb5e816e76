package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/terraincognita07/worktrace/internal/db"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/observability"
	"github.com/terraincognita07/worktrace/internal/services"
	"gorm.io/gorm"
)

type Options struct {
	SecretKey        string
	Location         *time.Location
	CookieSecure     bool
	AllowOverlap     bool
	DefaultCurrency  string
	HealthCheckToken string
	Logger           *slog.Logger
	LoginLimiter     LoginLimiter
}

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	healthToken  string
	logger       *slog.Logger
	audit        *observability.AuditLogger
	loginLimiter LoginLimiter
	now          func() time.Time

	repositories      *db.Repositories
	authService       *services.AuthService
	clientService     *services.ClientService
	projectService    *services.ProjectService
	assignmentService *services.AssignmentService
	hourlyRateService *services.HourlyRateService
	timeEntryService  *services.TimeEntryService
	timerService      *services.TimerService
	billingService    *services.BillingService
	reportService     *services.ReportService
	userService       *services.UserService
	settingsService   *services.SettingsService
}

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.LoginLimiter == nil {
		options.LoginLimiter = newAttemptLimiter(loginAttemptLimit, loginAttemptWindow)
	}
	if options.DefaultCurrency == "" {
		options.DefaultCurrency = models.DefaultCurrency
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(options.SecretKey),
		location:     options.Location,
		cookieSecure: options.CookieSecure,
		healthToken:  options.HealthCheckToken,
		logger:       options.Logger,
		audit:        observability.NewAuditLogger(options.Logger),
		loginLimiter: options.LoginLimiter,
		now:          time.Now,
	}
	return handler.withDependencies(database, options), nil
}

func (handler *Handler) withDependencies(database *gorm.DB, options Options) *Handler {
	repos := db.NewRepositories(database)
	overlap := services.OverlapPolicy{Allow: options.AllowOverlap}

	handler.repositories = repos
	handler.authService = services.NewAuthService(repos.Users)
	handler.clientService = services.NewClientService(repos.Clients)
	handler.projectService = services.NewProjectService(repos.Projects, repos.Clients)
	handler.assignmentService = services.NewAssignmentService(repos.Assignments, repos.Projects, repos.Users)
	handler.hourlyRateService = services.NewHourlyRateService(repos.Rates, repos.Clients, repos.Projects)
	handler.timeEntryService = services.NewTimeEntryService(repos.Entries, repos.Projects, repos.Assignments, repos.Rates, overlap)
	handler.timerService = services.NewTimerService(repos.Timers, repos.Projects, repos.Assignments, overlap)
	handler.billingService = services.NewBillingService(repos.Clients, repos.Projects, repos.Entries, repos.Ledger, repos.Rates, options.DefaultCurrency)
	handler.reportService = services.NewReportService(repos.Entries, repos.Rates)
	handler.userService = services.NewUserService(repos.Users)
	handler.settingsService = services.NewSettingsService(repos.Settings)
	return handler
}

func (handler *Handler) today() time.Time {
	return services.LocalDate(handler.now(), handler.location)
}
