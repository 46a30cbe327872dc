package repository

import (
	"errors"

	"gscore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(key string) (string, bool, error) {
	var setting models.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return setting.Value, true, nil
}

func (r *settingsRepository) Set(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

type TaxRateRepository interface {
	Find(country, state string) ([]models.TaxRate, error)
}

type taxRateRepository struct {
	db *gorm.DB
}

func NewTaxRateRepository(db *gorm.DB) TaxRateRepository {
	return &taxRateRepository{db: db}
}

// Find returns rates for the destination, state-specific rows first and
// country-wide rows (empty state) after them.
func (r *taxRateRepository) Find(country, state string) ([]models.TaxRate, error) {
	var rates []models.TaxRate
	err := r.db.Where("country = ? AND (state = ? OR state = '')", country, state).
		Order("state DESC").Find(&rates).Error
	return rates, err
}

type RecalcLogRepository interface {
	Create(entry *models.RecalcLog) error
}

type recalcLogRepository struct {
	db *gorm.DB
}

func NewRecalcLogRepository(db *gorm.DB) RecalcLogRepository {
	return &recalcLogRepository{db: db}
}

func (r *recalcLogRepository) Create(entry *models.RecalcLog) error {
	return r.db.Create(entry).Error
}
