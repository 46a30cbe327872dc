package repository

import (
	"errors"

	"gscore/internal/models"

	"gorm.io/gorm"
)

type ShippingMethodRepository interface {
	GetByInstanceID(instanceID uint) (*models.ShippingZoneMethod, error)
}

type shippingMethodRepository struct {
	db *gorm.DB
}

func NewShippingMethodRepository(db *gorm.DB) ShippingMethodRepository {
	return &shippingMethodRepository{db: db}
}

func (r *shippingMethodRepository) GetByInstanceID(instanceID uint) (*models.ShippingZoneMethod, error) {
	var method models.ShippingZoneMethod
	err := r.db.Where("instance_id = ?", instanceID).First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}
