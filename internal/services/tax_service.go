package services

import (
	"gscore/internal/models"
	"gscore/internal/repository"
)

// TaxService computes line and shipping tax for a destination, honoring
// the order's tax-exempt status.
type TaxService interface {
	CalcTax(amount float64, dest models.Destination, exempt bool) float64
	CalcShippingTax(amount float64, dest models.Destination, exempt bool) float64
	ExemptStatus(order *models.Order) (bool, string, error)
}

type taxService struct {
	taxRateRepo repository.TaxRateRepository
	userRepo    repository.UserRepository
}

func NewTaxService(taxRateRepo repository.TaxRateRepository, userRepo repository.UserRepository) TaxService {
	return &taxService{taxRateRepo: taxRateRepo, userRepo: userRepo}
}

func (s *taxService) CalcTax(amount float64, dest models.Destination, exempt bool) float64 {
	if exempt || amount == 0 {
		return 0
	}
	rate := s.rateFor(dest, false)
	if rate == 0 {
		return 0
	}
	return Round2(amount * rate / 100)
}

func (s *taxService) CalcShippingTax(amount float64, dest models.Destination, exempt bool) float64 {
	if exempt || amount == 0 {
		return 0
	}
	rate := s.rateFor(dest, true)
	if rate == 0 {
		return 0
	}
	return Round2(amount * rate / 100)
}

// rateFor returns the first applicable percentage for the destination,
// state-specific rates before country-wide ones.
func (s *taxService) rateFor(dest models.Destination, shipping bool) float64 {
	rates, err := s.taxRateRepo.Find(dest.Country, dest.State)
	if err != nil {
		return 0
	}
	for _, rate := range rates {
		if shipping && !rate.Shipping {
			continue
		}
		return rate.Rate
	}
	return 0
}

// ExemptStatus resolves the order's tax-exempt flag and number, falling
// back to the customer's values when the order carries none.
func (s *taxService) ExemptStatus(order *models.Order) (bool, string, error) {
	if order == nil {
		return false, "", nil
	}
	if order.TaxExempt {
		number := order.TaxExemptNumber
		if number == "" {
			if customer, err := s.userRepo.GetByID(order.CustomerID); err == nil && customer != nil {
				number = customer.TaxExemptNumber
			}
		}
		return true, number, nil
	}

	if order.CustomerID != 0 {
		customer, err := s.userRepo.GetByID(order.CustomerID)
		if err != nil {
			return false, "", err
		}
		if customer != nil && customer.TaxExempt {
			return true, customer.TaxExemptNumber, nil
		}
	}
	return false, "", nil
}
