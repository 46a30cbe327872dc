package services

import (
	"fmt"
	"log"

	"gscore/internal/models"
	"gscore/internal/repository"
)

// ErrCouponNotFound is returned when a code cannot be applied because no
// active coupon carries it.
var ErrCouponNotFound = fmt.Errorf("coupon not found")

// CouponService guards applied coupons across a save: the generic
// item-save flow can silently drop coupon associations, so codes are
// backed up before item mutations and reapplied afterward.
type CouponService interface {
	Preserve(order *models.Order, couponAction bool) error
	Restore(order *models.Order, couponAction bool) error
	ApplyCoupon(order *models.Order, code string) error
	RemoveCoupon(order *models.Order, code string) error
}

type couponService struct {
	orderRepo      repository.OrderRepository
	couponRepo     repository.CouponRepository
	couponItemRepo repository.CouponItemRepository
	orderItemRepo  repository.OrderItemRepository
}

func NewCouponService(
	orderRepo repository.OrderRepository,
	couponRepo repository.CouponRepository,
	couponItemRepo repository.CouponItemRepository,
	orderItemRepo repository.OrderItemRepository,
) CouponService {
	return &couponService{
		orderRepo:      orderRepo,
		couponRepo:     couponRepo,
		couponItemRepo: couponItemRepo,
		orderItemRepo:  orderItemRepo,
	}
}

// Preserve snapshots the order's coupon codes into the transient backup.
// Skipped when the request is itself a coupon add/remove, to avoid
// fighting that operation.
func (s *couponService) Preserve(order *models.Order, couponAction bool) error {
	if order == nil || couponAction {
		return nil
	}

	items, err := s.couponItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.Code)
	}
	order.CouponBackup = codes
	return s.orderRepo.Update(order)
}

// Restore drops the order's current coupon items and reapplies every
// backed-up code, then clears the backup. Individual failures are logged
// and skipped; already-applied codes are not rolled back.
func (s *couponService) Restore(order *models.Order, couponAction bool) error {
	if order == nil || couponAction || len(order.CouponBackup) == 0 {
		return nil
	}

	existing, err := s.couponItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	for _, item := range existing {
		if err := s.couponItemRepo.Delete(item.ID); err != nil {
			return err
		}
	}

	for _, code := range order.CouponBackup {
		if err := s.ApplyCoupon(order, code); err != nil {
			log.Printf("failed to reapply coupon %s to order %d: %v", code, order.ID, err)
		}
	}

	order.CouponBackup = nil
	return s.orderRepo.Update(order)
}

// ApplyCoupon computes the discount against the current items subtotal
// and attaches a coupon line.
func (s *couponService) ApplyCoupon(order *models.Order, code string) error {
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return err
	}
	if coupon == nil || !coupon.Active {
		return fmt.Errorf("%w: %s", ErrCouponNotFound, code)
	}

	items, err := s.orderItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Total
	}

	discount := coupon.Amount
	if coupon.Type == models.CouponPercent {
		discount = Round2(subtotal * coupon.Amount / 100)
	}
	if discount > subtotal {
		discount = subtotal
	}

	return s.couponItemRepo.Create(&models.OrderCouponItem{
		OrderID:  order.ID,
		Code:     coupon.Code,
		Discount: discount,
	})
}

// RemoveCoupon drops every coupon line carrying the code. Removing a
// code that is not on the order is a no-op.
func (s *couponService) RemoveCoupon(order *models.Order, code string) error {
	items, err := s.couponItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.Code != code {
			continue
		}
		if err := s.couponItemRepo.Delete(item.ID); err != nil {
			return err
		}
	}
	return nil
}
