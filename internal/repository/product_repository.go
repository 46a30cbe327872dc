package repository

import (
	"errors"

	"gscore/internal/models"

	"gorm.io/gorm"
)

type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	Update(product *models.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// FieldGroupRepository reads third-party add-on field definitions.
type FieldGroupRepository interface {
	GetByProductID(productID uint) (*models.FieldGroup, error)
}

type fieldGroupRepository struct {
	db *gorm.DB
}

func NewFieldGroupRepository(db *gorm.DB) FieldGroupRepository {
	return &fieldGroupRepository{db: db}
}

func (r *fieldGroupRepository) GetByProductID(productID uint) (*models.FieldGroup, error) {
	var group models.FieldGroup
	err := r.db.Where("product_id = ?", productID).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}
