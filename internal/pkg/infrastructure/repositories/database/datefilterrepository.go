package database

import (
	"context"

	"gorm.io/gorm"
)

type DateFilterRepository interface {
	GetActive(ctx context.Context) ([]DateFilter, error)
	Seed(ctx context.Context) error
}

type dateFilterRepository struct {
	db *gorm.DB
}

func NewDateFilterRepository(connect ConnectorFunc) (DateFilterRepository, error) {
	impl, _, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&DateFilter{})
	if err != nil {
		return nil, err
	}

	return &dateFilterRepository{
		db: impl,
	}, nil
}

func (d *dateFilterRepository) GetActive(ctx context.Context) ([]DateFilter, error) {
	filters := []DateFilter{}

	err := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&filters).
		Error

	if err != nil {
		return []DateFilter{}, err
	}

	return filters, nil
}

// Seed creates the default quick filters unless any filters exist already.
func (d *dateFilterRepository) Seed(ctx context.Context) error {
	var count int64

	err := d.db.WithContext(ctx).Model(&DateFilter{}).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	defaults := []DateFilter{
		{Label: "10 seconds", Value: "10s", Seconds: 10, IsActive: true, SortOrder: 1},
		{Label: "30 seconds", Value: "30s", Seconds: 30, IsActive: true, SortOrder: 2},
		{Label: "1 minute", Value: "60s", Seconds: 60, IsActive: true, SortOrder: 3},
		{Label: "5 minutes", Value: "5m", Seconds: 300, IsActive: true, SortOrder: 4},
	}

	return d.db.WithContext(ctx).Create(&defaults).Error
}
