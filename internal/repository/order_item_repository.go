package repository

import (
	"errors"

	"gscore/internal/models"

	"gorm.io/gorm"
)

type OrderItemRepository interface {
	Create(item *models.OrderItem) error
	GetByID(id uint) (*models.OrderItem, error)
	GetByOrderID(orderID uint) ([]*models.OrderItem, error)
	Update(item *models.OrderItem) error
	Delete(id uint) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(item *models.OrderItem) error {
	return r.db.Create(item).Error
}

func (r *orderItemRepository) GetByID(id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *orderItemRepository) GetByOrderID(orderID uint) ([]*models.OrderItem, error) {
	var items []*models.OrderItem
	err := r.db.Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

func (r *orderItemRepository) Update(item *models.OrderItem) error {
	return r.db.Save(item).Error
}

func (r *orderItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.OrderItem{}, id).Error
}

type ShippingItemRepository interface {
	Create(item *models.OrderShippingItem) error
	GetByID(id uint) (*models.OrderShippingItem, error)
	GetByOrderID(orderID uint) ([]*models.OrderShippingItem, error)
	Update(item *models.OrderShippingItem) error
	Delete(id uint) error
}

type shippingItemRepository struct {
	db *gorm.DB
}

func NewShippingItemRepository(db *gorm.DB) ShippingItemRepository {
	return &shippingItemRepository{db: db}
}

func (r *shippingItemRepository) Create(item *models.OrderShippingItem) error {
	return r.db.Create(item).Error
}

func (r *shippingItemRepository) GetByID(id uint) (*models.OrderShippingItem, error) {
	var item models.OrderShippingItem
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *shippingItemRepository) GetByOrderID(orderID uint) ([]*models.OrderShippingItem, error) {
	var items []*models.OrderShippingItem
	err := r.db.Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

func (r *shippingItemRepository) Update(item *models.OrderShippingItem) error {
	return r.db.Save(item).Error
}

func (r *shippingItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.OrderShippingItem{}, id).Error
}

type CouponItemRepository interface {
	Create(item *models.OrderCouponItem) error
	GetByOrderID(orderID uint) ([]*models.OrderCouponItem, error)
	Delete(id uint) error
}

type couponItemRepository struct {
	db *gorm.DB
}

func NewCouponItemRepository(db *gorm.DB) CouponItemRepository {
	return &couponItemRepository{db: db}
}

func (r *couponItemRepository) Create(item *models.OrderCouponItem) error {
	return r.db.Create(item).Error
}

func (r *couponItemRepository) GetByOrderID(orderID uint) ([]*models.OrderCouponItem, error) {
	var items []*models.OrderCouponItem
	err := r.db.Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

func (r *couponItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.OrderCouponItem{}, id).Error
}
