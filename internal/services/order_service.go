package services

import (
	"fmt"

	"gscore/internal/models"
	"gscore/internal/repository"

	"github.com/google/uuid"
)

// OrderService is the order CRUD and total-calculation surface the
// recalculation pipeline and the admin endpoints sit on.
type OrderService interface {
	GetOrder(id uint) (*models.Order, error)
	CreateOrder(order *models.Order, createdBy *models.User) error
	GetLineItems(orderID uint) ([]*models.OrderItem, error)

	CalculateTaxes(order *models.Order) error
	CalculateTotals(order *models.Order) error

	// Quote guards: quote orders reserve no stock and send no emails.
	StockQuantityFor(order *models.Order, item *models.OrderItem) int
	EmailsEnabled(order *models.Order) bool

	SalesRepChoices() ([]models.User, error)
}

type orderService struct {
	orderRepo      repository.OrderRepository
	orderItemRepo  repository.OrderItemRepository
	shippingRepo   repository.ShippingItemRepository
	couponItemRepo repository.CouponItemRepository
	userRepo       repository.UserRepository
	tax            TaxService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	shippingRepo repository.ShippingItemRepository,
	couponItemRepo repository.CouponItemRepository,
	userRepo repository.UserRepository,
	tax TaxService,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		orderItemRepo:  orderItemRepo,
		shippingRepo:   shippingRepo,
		couponItemRepo: couponItemRepo,
		userRepo:       userRepo,
		tax:            tax,
	}
}

func (s *orderService) GetOrder(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder persists a new admin-created order, attributing the
// creating user as sales rep.
func (s *orderService) CreateOrder(order *models.Order, createdBy *models.User) error {
	if order.OrderNumber == "" {
		order.OrderNumber = uuid.NewString()
	}
	if order.SalesRep == "" {
		order.SalesRep = "N/A"
	}
	if createdBy != nil {
		order.CreatedBy = createdBy.ID
		order.IsManualAdminOrder = true
		order.SalesRep = createdBy.Username
	}
	if err := s.orderRepo.Create(order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *orderService) GetLineItems(orderID uint) ([]*models.OrderItem, error) {
	return s.orderItemRepo.GetByOrderID(orderID)
}

// CalculateTaxes recomputes tax on every line and shipping item. Lines
// under manual override are taxed against the overridden totals.
func (s *orderService) CalculateTaxes(order *models.Order) error {
	if order == nil {
		return nil
	}
	exempt, _, err := s.tax.ExemptStatus(order)
	if err != nil {
		return err
	}
	dest := order.Destination()

	items, err := s.orderItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		item.TotalTax = s.tax.CalcTax(item.Total, dest, exempt)
		item.SubtotalTax = s.tax.CalcTax(item.Subtotal, dest, exempt)
		if err := s.orderItemRepo.Update(item); err != nil {
			return err
		}
	}

	shippingItems, err := s.shippingRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	for _, item := range shippingItems {
		item.TotalTax = s.tax.CalcShippingTax(item.Total, dest, exempt)
		if err := s.shippingRepo.Update(item); err != nil {
			return err
		}
	}
	return nil
}

// CalculateTotals rolls the item, shipping, discount and tax sums up into
// the order.
func (s *orderService) CalculateTotals(order *models.Order) error {
	if order == nil {
		return nil
	}

	items, err := s.orderItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	shippingItems, err := s.shippingRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	coupons, err := s.couponItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}

	order.ItemsSubtotal = 0
	order.ItemsTotal = 0
	order.ShippingTotal = 0
	order.DiscountTotal = 0
	order.TotalTax = 0

	for _, item := range items {
		order.ItemsSubtotal += item.Subtotal
		order.ItemsTotal += item.Total
		order.TotalTax += item.TotalTax
	}
	for _, item := range shippingItems {
		order.ShippingTotal += item.Total
		order.TotalTax += item.TotalTax
	}
	for _, coupon := range coupons {
		order.DiscountTotal += coupon.Discount
	}

	total := order.ItemsTotal - order.DiscountTotal + order.ShippingTotal + order.TotalTax
	if total < 0 {
		total = 0
	}
	order.ItemsSubtotal = Round2(order.ItemsSubtotal)
	order.ItemsTotal = Round2(order.ItemsTotal)
	order.ShippingTotal = Round2(order.ShippingTotal)
	order.DiscountTotal = Round2(order.DiscountTotal)
	order.TotalTax = Round2(order.TotalTax)
	order.Total = Round2(total)

	return s.orderRepo.Update(order)
}

func (s *orderService) StockQuantityFor(order *models.Order, item *models.OrderItem) int {
	if order != nil && order.Status == string(models.OrderQuote) {
		return 0
	}
	if item == nil {
		return 0
	}
	return item.Quantity
}

func (s *orderService) EmailsEnabled(order *models.Order) bool {
	return order == nil || order.Status != string(models.OrderQuote)
}

// SalesRepChoices lists the users offered in the sales-rep selector.
func (s *orderService) SalesRepChoices() ([]models.User, error) {
	return s.userRepo.GetByRole(models.RoleClient)
}
