package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudmon/dynatrace-mgmt/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAssetNotFound = fmt.Errorf("asset not found")

type AssetRepository interface {
	GetByEntityID(ctx context.Context, entityID string) (Asset, error)
	Save(ctx context.Context, asset *Asset) error
	Query(ctx context.Context, conditions ...ConditionFunc) (types.Collection[Asset], error)
	Stats(ctx context.Context, tenantID uint) ([]types.StatBucket, error)
	DistinctTypes(ctx context.Context, tenantID uint) ([]string, error)
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(connect ConnectorFunc) (AssetRepository, error) {
	impl, _, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Asset{})
	if err != nil {
		return nil, err
	}

	return &assetRepository{
		db: impl,
	}, nil
}

func (d *assetRepository) GetByEntityID(ctx context.Context, entityID string) (Asset, error) {
	asset := Asset{}

	result := d.db.WithContext(ctx).
		Where("dynatrace_entity_id = ?", entityID).
		First(&asset)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Asset{}, ErrAssetNotFound
		}
		return Asset{}, result.Error
	}

	return asset, nil
}

func (d *assetRepository) Save(ctx context.Context, asset *Asset) error {
	if asset.ID != 0 {
		return d.db.WithContext(ctx).Save(asset).Error
	}

	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dynatrace_entity_id"}},
			UpdateAll: true,
		}).
		Create(asset).
		Error
}

func (d *assetRepository) Query(ctx context.Context, conditions ...ConditionFunc) (types.Collection[Asset], error) {
	condition := &Condition{}
	for _, cf := range conditions {
		condition = cf(condition)
	}

	query := d.db.WithContext(ctx).Model(&Asset{})

	if condition.TenantID != nil {
		query = query.Where("tenant_id = ?", *condition.TenantID)
	}
	if condition.Type != "" {
		query = query.Where("type = ?", condition.Type)
	}
	if condition.Status != "" {
		query = query.Where("status = ?", condition.Status)
	}
	if condition.Search != "" {
		query = query.Where("name LIKE ?", "%"+condition.Search+"%")
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return types.Collection[Asset]{}, err
	}

	limit := condition.Limit(10000)

	query = query.Order("created_at DESC").
		Offset(condition.Offset()).
		Limit(limit)

	assets := []Asset{}
	if err := query.Find(&assets).Error; err != nil {
		return types.Collection[Asset]{}, err
	}

	return types.Collection[Asset]{
		Data:       assets,
		Count:      uint64(len(assets)),
		Offset:     uint64(condition.Offset()),
		Limit:      uint64(limit),
		TotalCount: uint64(totalCount),
	}, nil
}

// Stats returns asset counts grouped by type. A tenantID of 0 means all
// tenants.
func (d *assetRepository) Stats(ctx context.Context, tenantID uint) ([]types.StatBucket, error) {
	query := d.db.WithContext(ctx).Model(&Asset{})
	if tenantID != 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}

	typeRows := []struct {
		Type  string
		Count int
	}{}

	err := query.
		Select("type, count(id) as count").
		Group("type").
		Find(&typeRows).
		Error
	if err != nil {
		return nil, err
	}

	buckets := make([]types.StatBucket, 0, len(typeRows))
	for _, row := range typeRows {
		buckets = append(buckets, types.StatBucket{ID: row.Type, Count: row.Count})
	}

	return buckets, nil
}

func (d *assetRepository) DistinctTypes(ctx context.Context, tenantID uint) ([]string, error) {
	assetTypes := []string{}

	err := d.db.WithContext(ctx).
		Model(&Asset{}).
		Where("tenant_id = ? AND type <> ''", tenantID).
		Distinct().
		Order("type ASC").
		Pluck("type", &assetTypes).
		Error

	if err != nil {
		return nil, err
	}

	return assetTypes, nil
}
