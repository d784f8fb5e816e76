package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/models"
)

type HourlyRateRepository interface {
	FindByID(rateID uint) (models.HourlyRate, bool, error)
	List(filter models.HourlyRateFilter) ([]models.HourlyRate, int64, error)
	Create(rate *models.HourlyRate) error
	Update(rate *models.HourlyRate) error
	Delete(rateID uint) error
}

// HourlyRateInput names its scope through exactly one of ClientID and
// ProjectID. EffectiveTo set to an empty string reopens the window.
type HourlyRateInput struct {
	ClientID      *uint
	ProjectID     *uint
	Amount        *string
	Currency      *string
	EffectiveFrom *string
	EffectiveTo   *string
}

type HourlyRateService struct {
	rates    HourlyRateRepository
	clients  ClientReader
	projects ProjectReader
}

func NewHourlyRateService(rates HourlyRateRepository, clients ClientReader, projects ProjectReader) *HourlyRateService {
	return &HourlyRateService{rates: rates, clients: clients, projects: projects}
}

func (service *HourlyRateService) List(caller Caller, filter models.HourlyRateFilter) ([]models.HourlyRate, int64, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, 0, err
	}
	return service.rates.List(filter)
}

func (service *HourlyRateService) Get(caller Caller, rateID uint) (models.HourlyRate, error) {
	if err := requireAdmin(caller); err != nil {
		return models.HourlyRate{}, err
	}
	rate, found, err := service.rates.FindByID(rateID)
	if err != nil {
		return models.HourlyRate{}, err
	}
	if !found {
		return models.HourlyRate{}, notFoundError("hourly rate")
	}
	return rate, nil
}

func (service *HourlyRateService) Create(caller Caller, input HourlyRateInput) (models.HourlyRate, error) {
	if err := requireAdmin(caller); err != nil {
		return models.HourlyRate{}, err
	}
	errs := fieldErrors{}
	if input.Amount == nil {
		errs.add("amount", "amount is required")
	}
	if input.EffectiveFrom == nil {
		errs.add("effective_from", "effective_from is required")
	}
	if scopeCount(input) != 1 {
		errs.add("scope", "set exactly one of client or project")
	}
	if err := errs.err(); err != nil {
		return models.HourlyRate{}, err
	}

	rate := models.HourlyRate{Currency: models.DefaultCurrency}
	if err := service.apply(&rate, input); err != nil {
		return models.HourlyRate{}, err
	}
	if err := service.rates.Create(&rate); err != nil {
		return models.HourlyRate{}, err
	}
	return rate, nil
}

func (service *HourlyRateService) Update(caller Caller, rateID uint, input HourlyRateInput) (models.HourlyRate, error) {
	rate, err := service.Get(caller, rateID)
	if err != nil {
		return models.HourlyRate{}, err
	}
	if scopeCount(input) > 1 {
		return models.HourlyRate{}, fieldError("scope", "set exactly one of client or project")
	}
	if err := service.apply(&rate, input); err != nil {
		return models.HourlyRate{}, err
	}
	if err := service.rates.Update(&rate); err != nil {
		return models.HourlyRate{}, err
	}
	return rate, nil
}

func (service *HourlyRateService) Delete(caller Caller, rateID uint) error {
	if _, err := service.Get(caller, rateID); err != nil {
		return err
	}
	return service.rates.Delete(rateID)
}

func scopeCount(input HourlyRateInput) int {
	count := 0
	if input.ClientID != nil && *input.ClientID != 0 {
		count++
	}
	if input.ProjectID != nil && *input.ProjectID != 0 {
		count++
	}
	return count
}

func (service *HourlyRateService) apply(rate *models.HourlyRate, input HourlyRateInput) error {
	switch {
	case input.ClientID != nil && *input.ClientID != 0:
		_, found, err := service.clients.FindByID(*input.ClientID)
		if err != nil {
			return err
		}
		if !found {
			return notFoundError("client")
		}
		rate.SetScope(models.ClientScope(*input.ClientID))
	case input.ProjectID != nil && *input.ProjectID != 0:
		_, found, err := service.projects.FindByID(*input.ProjectID)
		if err != nil {
			return err
		}
		if !found {
			return notFoundError("project")
		}
		rate.SetScope(models.ProjectScope(*input.ProjectID))
	}
	if !rate.Scope().Valid() {
		return fieldError("scope", "set exactly one of client or project")
	}

	errs := fieldErrors{}
	if input.Amount != nil {
		amount, err := decimal.NewFromString(strings.TrimSpace(*input.Amount))
		switch {
		case err != nil:
			errs.add("amount", "enter a valid amount")
		case !amount.IsPositive():
			errs.add("amount", "amount must be greater than zero")
		default:
			rate.Amount = amount
		}
	}
	if input.Currency != nil {
		rate.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if len(rate.Currency) != 3 {
		errs.add("currency", "currency must be a three-letter code")
	}
	if input.EffectiveFrom != nil {
		day, err := ParseDate(*input.EffectiveFrom)
		if err != nil {
			errs.add("effective_from", "enter a valid date (YYYY-MM-DD)")
		} else {
			rate.EffectiveFrom = day
		}
	}
	if input.EffectiveTo != nil {
		if strings.TrimSpace(*input.EffectiveTo) == "" {
			rate.EffectiveTo = nil
		} else if day, err := ParseDate(*input.EffectiveTo); err != nil {
			errs.add("effective_to", "enter a valid date (YYYY-MM-DD)")
		} else {
			rate.EffectiveTo = &day
		}
	}
	if rate.EffectiveTo != nil && rate.EffectiveTo.Before(rate.EffectiveFrom) {
		errs.add("effective_to", "effective_to must not be before effective_from")
	}
	return errs.err()
}
