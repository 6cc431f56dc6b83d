package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrTenantNotFound = fmt.Errorf("tenant not found")
var ErrRepositoryError = fmt.Errorf("could not fetch data from repository")

type TenantRepository interface {
	GetAll(ctx context.Context) ([]Tenant, error)
	GetActive(ctx context.Context) ([]Tenant, error)
	GetByID(ctx context.Context, tenantID uint) (Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
	SetActive(ctx context.Context, tenantID uint, active bool) error
	UpdateLastSync(ctx context.Context, tenantID uint, syncTime time.Time) error
	Delete(ctx context.Context, tenantID uint) (alarmsDeleted, assetsDeleted int64, err error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(connect ConnectorFunc) (TenantRepository, error) {
	impl, _, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Tenant{}, &Alarm{}, &Asset{}, &DateFilter{})
	if err != nil {
		return nil, err
	}

	return &tenantRepository{
		db: impl,
	}, nil
}

func (d *tenantRepository) GetAll(ctx context.Context) ([]Tenant, error) {
	tenants := []Tenant{}

	err := d.db.WithContext(ctx).
		Order("is_active DESC").
		Order("name ASC").
		Find(&tenants).
		Error

	if err != nil {
		return []Tenant{}, err
	}

	return tenants, nil
}

func (d *tenantRepository) GetActive(ctx context.Context) ([]Tenant, error) {
	tenants := []Tenant{}

	err := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&tenants).
		Error

	if err != nil {
		return []Tenant{}, err
	}

	return tenants, nil
}

func (d *tenantRepository) GetByID(ctx context.Context, tenantID uint) (Tenant, error) {
	tenant := Tenant{}

	result := d.db.WithContext(ctx).First(&tenant, tenantID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Tenant{}, ErrTenantNotFound
		}
		return Tenant{}, result.Error
	}

	return tenant, nil
}

func (d *tenantRepository) Save(ctx context.Context, tenant *Tenant) error {
	return d.db.WithContext(ctx).Save(tenant).Error
}

func (d *tenantRepository) SetActive(ctx context.Context, tenantID uint, active bool) error {
	result := d.db.WithContext(ctx).
		Model(&Tenant{}).
		Where("id = ?", tenantID).
		Update("is_active", active)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}

	return nil
}

func (d *tenantRepository) UpdateLastSync(ctx context.Context, tenantID uint, syncTime time.Time) error {
	return d.db.WithContext(ctx).
		Model(&Tenant{}).
		Where("id = ?", tenantID).
		Update("last_sync_time", syncTime).
		Error
}

// Delete removes the tenant together with everything that was synced for
// it and reports how many rows went away with it.
func (d *tenantRepository) Delete(ctx context.Context, tenantID uint) (int64, int64, error) {
	tenant := Tenant{}

	result := d.db.WithContext(ctx).First(&tenant, tenantID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, 0, ErrTenantNotFound
		}
		return 0, 0, result.Error
	}

	var alarmsDeleted, assetsDeleted int64

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("tenant_id = ?", tenantID).Delete(&Alarm{})
		if res.Error != nil {
			return res.Error
		}
		alarmsDeleted = res.RowsAffected

		res = tx.Where("tenant_id = ?", tenantID).Delete(&Asset{})
		if res.Error != nil {
			return res.Error
		}
		assetsDeleted = res.RowsAffected

		return tx.Delete(&tenant).Error
	})

	if err != nil {
		return 0, 0, err
	}

	return alarmsDeleted, assetsDeleted, nil
}
