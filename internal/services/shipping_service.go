package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gscore/internal/forms"
	"gscore/internal/models"
	"gscore/internal/repository"
)

const flexibleShippingPrefix = "flexible_shipping_"

// ShippingService recalculates flexible-shipping order items from the
// order's current contents and destination, applying the regional markup
// and reconciling manual cost overrides.
type ShippingService interface {
	CalculateAndUpdate(item *models.OrderShippingItem, order *models.Order, form *forms.OrderSaveForm) error
	RecalculateOrder(order *models.Order, form *forms.OrderSaveForm) error
	BuildPackage(order *models.Order) (models.Package, error)
}

type shippingService struct {
	methodRepo     repository.ShippingMethodRepository
	shippingRepo   repository.ShippingItemRepository
	orderItemRepo  repository.OrderItemRepository
	productRepo    repository.ProductRepository
	couponItemRepo repository.CouponItemRepository
	markup         MarkupService
	tax            TaxService
}

func NewShippingService(
	methodRepo repository.ShippingMethodRepository,
	shippingRepo repository.ShippingItemRepository,
	orderItemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	couponItemRepo repository.CouponItemRepository,
	markup MarkupService,
	tax TaxService,
) ShippingService {
	return &shippingService{
		methodRepo:     methodRepo,
		shippingRepo:   shippingRepo,
		orderItemRepo:  orderItemRepo,
		productRepo:    productRepo,
		couponItemRepo: couponItemRepo,
		markup:         markup,
		tax:            tax,
	}
}

// RecalculateOrder runs the calculation for every shipping item on the
// order, as the items-saved event does.
func (s *shippingService) RecalculateOrder(order *models.Order, form *forms.OrderSaveForm) error {
	if order == nil {
		return nil
	}
	items, err := s.shippingRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.CalculateAndUpdate(item, order, form); err != nil {
			return err
		}
	}
	return nil
}

func (s *shippingService) CalculateAndUpdate(item *models.OrderShippingItem, order *models.Order, form *forms.OrderSaveForm) error {
	if item == nil || order == nil {
		return nil
	}

	siblings, err := s.shippingRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}

	methodID := s.resolveMethodID(item, form, len(siblings))
	if !strings.HasPrefix(methodID, flexibleShippingPrefix) {
		return nil
	}
	instanceID, err := strconv.ParseUint(strings.TrimPrefix(methodID, flexibleShippingPrefix), 10, 32)
	if err != nil {
		return nil
	}

	method, err := s.methodRepo.GetByInstanceID(uint(instanceID))
	if err != nil {
		return err
	}
	if method == nil || method.MethodID != models.FlexibleShippingMethodID || !method.Enabled {
		return nil
	}

	pkg, err := s.BuildPackage(order)
	if err != nil {
		return err
	}

	calculatedCost := 0.0
	label := method.Title
	if len(pkg.Contents) > 0 {
		rates := calculateFlexibleRates(method, pkg)
		if len(rates) > 0 {
			calculatedCost = rates[0].Cost
			label = rates[0].Label
		}
		calculatedCost = s.markup.ApplyMarkup(calculatedCost, pkg.Destination)
	}

	exempt, _, err := s.tax.ExemptStatus(order)
	if err != nil {
		return err
	}
	taxable := method.TaxStatus == "taxable"

	postedCost, hasPosted := s.resolvePostedCost(item, form, len(siblings))
	flagged := form != nil && form.ManualShippingOverride[item.ID]

	// An existing override stays in force, tracking any newly posted cost,
	// until the admin's posted cost comes back in line with the
	// calculation.
	if item.ManualOverride && !flagged {
		if hasPosted && !amountsDiffer(postedCost, calculatedCost) {
			item.ManualOverride = false
			item.ManualOverrideCost = 0
		} else {
			if hasPosted && amountsDiffer(postedCost, item.ManualOverrideCost) {
				item.ManualOverrideCost = postedCost
			}
			item.MethodID = methodID
			item.Total = item.ManualOverrideCost
			item.TotalTax = 0
			if taxable {
				item.TotalTax = s.tax.CalcShippingTax(item.ManualOverrideCost, pkg.Destination, exempt)
			}
			return s.shippingRepo.Update(item)
		}
	} else if flagged || (hasPosted && amountsDiffer(postedCost, item.Total)) {
		// A posted cost that disagrees with the current total, or an
		// explicit override flag, wins over the calculation.
		override := item.Total
		if hasPosted {
			override = postedCost
		}
		item.ManualOverride = true
		item.ManualOverrideCost = override
		item.MethodID = methodID
		item.Total = override
		item.TotalTax = 0
		if taxable {
			item.TotalTax = s.tax.CalcShippingTax(override, pkg.Destination, exempt)
		}
		return s.shippingRepo.Update(item)
	}

	item.MethodID = methodID
	item.Name = label
	item.Total = calculatedCost
	item.TotalTax = 0
	if taxable {
		item.TotalTax = s.tax.CalcShippingTax(calculatedCost, pkg.Destination, exempt)
	}
	return s.shippingRepo.Update(item)
}

// resolveMethodID prefers the item's persisted method id, then an exact
// posted match, then the positional fallback when the order has exactly
// one shipping item and exactly one posted method.
func (s *shippingService) resolveMethodID(item *models.OrderShippingItem, form *forms.OrderSaveForm, siblingCount int) string {
	if item.MethodID != "" {
		return item.MethodID
	}
	if form == nil {
		return ""
	}
	if methodID, ok := form.ShippingMethods[item.ID]; ok {
		return methodID
	}
	if siblingCount == 1 && len(form.ShippingMethods) == 1 {
		for _, methodID := range form.ShippingMethods {
			return methodID
		}
	}
	return ""
}

func (s *shippingService) resolvePostedCost(item *models.OrderShippingItem, form *forms.OrderSaveForm, siblingCount int) (float64, bool) {
	if form == nil {
		return 0, false
	}
	if cost, ok := form.ShippingCosts[item.ID]; ok {
		return cost, true
	}
	if siblingCount == 1 && len(form.PositionalShippingCosts) == 1 {
		return form.PositionalShippingCosts[0], true
	}
	return 0, false
}

// BuildPackage assembles the calculation input from the order's shippable
// line items, totals, coupons and destination.
func (s *shippingService) BuildPackage(order *models.Order) (models.Package, error) {
	pkg := models.Package{
		CustomerID:  order.CustomerID,
		Destination: order.Destination(),
	}

	items, err := s.orderItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return pkg, err
	}
	for _, item := range items {
		productID := item.ProductID
		if item.VariationID != 0 {
			productID = item.VariationID
		}
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return pkg, err
		}
		if product == nil || !product.NeedsShipping {
			continue
		}
		pkg.Contents = append(pkg.Contents, models.PackageItem{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Quantity:    item.Quantity,
			LineTotal:   item.Total,
			LineTax:     item.TotalTax,
			Subtotal:    item.Subtotal,
			SubtotalTax: item.SubtotalTax,
		})
		pkg.ContentsCost += item.Total
	}

	coupons, err := s.couponItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return pkg, err
	}
	for _, coupon := range coupons {
		pkg.AppliedCoupons = append(pkg.AppliedCoupons, coupon.Code)
	}

	return pkg, nil
}

// calculateFlexibleRates evaluates the instance's cost-rule bands against
// the package contents cost. The first matching band produces the rate;
// no match yields no rates.
func calculateFlexibleRates(method *models.ShippingZoneMethod, pkg models.Package) []models.Rate {
	for _, rule := range method.CostRules {
		if pkg.ContentsCost < rule.MinValue {
			continue
		}
		if rule.MaxValue > 0 && pkg.ContentsCost >= rule.MaxValue {
			continue
		}

		cost := rule.Cost
		if rule.CostPerUnit > 0 && rule.PerValue > 0 {
			steps := math.Floor((pkg.ContentsCost - rule.MinValue) / rule.PerValue)
			cost += rule.CostPerUnit * steps
		}
		return []models.Rate{{
			MethodID: fmt.Sprintf("%s%d", flexibleShippingPrefix, method.InstanceID),
			Label:    method.Title,
			Cost:     Round2(cost),
		}}
	}
	return nil
}
