package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/facility-management/internal"
	deploymentDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/deployment"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/facility-management/internal/inventory"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) inventory.RepositoryAPI {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) ListStorageItems(ctx context.Context, filter inventory.StorageItemFilter) ([]*inventoryDatamodel.StorageItem, error) {
	query := r.db.WithContext(ctx).Model(&inventoryDatamodel.StorageItem{})
	if filter.ItemType != "" {
		query = query.Where("item_type = ?", filter.ItemType)
	}
	if filter.SubType != "" {
		query = query.Where("UPPER(sub_type) = ?", strings.ToUpper(filter.SubType))
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	query = paginate(query, filter.Limit, filter.Offset)

	var items []*inventoryDatamodel.StorageItem
	err := query.Order("name ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *InventoryRepository) GetStorageItemByID(ctx context.Context, id int64) (*inventoryDatamodel.StorageItem, error) {
	var item inventoryDatamodel.StorageItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrStorageItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) CreateStorageItem(ctx context.Context, item *inventoryDatamodel.StorageItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryRepository) UpdateStorageItem(ctx context.Context, item *inventoryDatamodel.StorageItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InventoryRepository) DeleteStorageItem(ctx context.Context, id int64) error {
	history := r.db.Model(&deploymentDatamodel.DeploymentRecord{}).Select("1").Where("storage_item_id = ?", id)
	return r.guardedDelete(ctx, &inventoryDatamodel.StorageItem{}, id, history, internal.ErrStorageItemNotFound)
}

func (r *InventoryRepository) ListAssets(ctx context.Context, filter inventory.AssetFilter) ([]*inventoryDatamodel.Asset, error) {
	query := r.db.WithContext(ctx).Model(&inventoryDatamodel.Asset{})
	if filter.RoomID != 0 {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.AssetType != "" {
		query = query.Where("asset_type = ?", filter.AssetType)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(tag) LIKE ?", like, like)
	}
	query = paginate(query, filter.Limit, filter.Offset)

	var assets []*inventoryDatamodel.Asset
	err := query.Order("tag ASC").Find(&assets).Error
	return assets, err
}

func (r *InventoryRepository) GetAssetByID(ctx context.Context, id int64) (*inventoryDatamodel.Asset, error) {
	var asset inventoryDatamodel.Asset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (r *InventoryRepository) GetAssetByTag(ctx context.Context, tag string) (*inventoryDatamodel.Asset, error) {
	var asset inventoryDatamodel.Asset
	err := r.db.WithContext(ctx).Where("tag = ?", tag).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

func (r *InventoryRepository) CreateAsset(ctx context.Context, asset *inventoryDatamodel.Asset) error {
	err := r.db.WithContext(ctx).Create(asset).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicate.WithMessage("asset tag already exists")
	}
	return err
}

func (r *InventoryRepository) UpdateAsset(ctx context.Context, asset *inventoryDatamodel.Asset) error {
	err := r.db.WithContext(ctx).Save(asset).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicate.WithMessage("asset tag already exists")
	}
	return err
}

func (r *InventoryRepository) DeleteAsset(ctx context.Context, id int64) error {
	history := r.db.Model(&deploymentDatamodel.DeploymentRecord{}).Select("1").Where("asset_id = ?", id)
	return r.guardedDelete(ctx, &inventoryDatamodel.Asset{}, id, history, internal.ErrAssetNotFound)
}

// guardedDelete removes the row only while no ledger row references it.
func (r *InventoryRepository) guardedDelete(ctx context.Context, model interface{}, id int64, history *gorm.DB, notFound error) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND NOT EXISTS (?)", id, history).
		Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return internal.ErrHasDeploymentHistory
}

func paginate(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
