package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/facility-management/internal"
	deploymentDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/deployment"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/facility-management/internal/deployment"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeploymentRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDeploymentRepository(db *gorm.DB) deployment.RepositoryAPI {
	return &DeploymentRepository{db: db, now: time.Now}
}

// DeployStorageItem locks the item row, checks the request against it, decrements with a
// conditional update and appends the ledger row, all in one transaction.
func (r *DeploymentRepository) DeployStorageItem(ctx context.Context, cmd deployment.StorageItemCommand) (*deploymentDatamodel.DeploymentRecord, error) {
	var record *deploymentDatamodel.DeploymentRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item inventoryDatamodel.StorageItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", cmd.StorageItemID).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrStorageItemNotFound
			}
			return err
		}

		snapshot := deployment.StockSnapshot{
			Quantity:      item.Quantity,
			SubType:       item.SubType,
			SerialNumbers: item.SerialNumbers,
		}
		withdrawal, err := snapshot.Withdraw(cmd.Quantity, cmd.SerialNumber)
		if err != nil {
			return err
		}

		now := r.now()
		updates := map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", cmd.Quantity),
			"updated_at": now,
		}
		if withdrawal.SerialsChanged {
			updates["serial_numbers"] = inventoryDatamodel.SerialNumbers(withdrawal.Remaining)
		}

		res := tx.Model(&inventoryDatamodel.StorageItem{}).
			Where("id = ? AND quantity >= ?", cmd.StorageItemID, cmd.Quantity).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrInsufficientQuantity
		}

		record = &deploymentDatamodel.DeploymentRecord{
			StorageItemID: &cmd.StorageItemID,
			Quantity:      cmd.Quantity,
			SerialNumber:  withdrawal.SerialNumber,
			ToRoomID:      cmd.ToRoomID,
			DeployedAt:    now,
			DeployedBy:    cmd.DeployedBy,
			Remarks:       cmd.Remarks,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeployAsset moves the asset to the destination room and records the previous room.
func (r *DeploymentRepository) DeployAsset(ctx context.Context, cmd deployment.AssetCommand) (*deploymentDatamodel.DeploymentRecord, error) {
	var record *deploymentDatamodel.DeploymentRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset inventoryDatamodel.Asset
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", cmd.AssetID).
			First(&asset).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrAssetNotFound
			}
			return err
		}

		if asset.RoomID == cmd.ToRoomID {
			return internal.ErrAssetAlreadyInRoom
		}

		now := r.now()
		res := tx.Model(&inventoryDatamodel.Asset{}).
			Where("id = ? AND room_id = ?", asset.ID, asset.RoomID).
			Updates(map[string]interface{}{
				"room_id":    cmd.ToRoomID,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrConcurrentUpdate
		}

		fromRoom := asset.RoomID
		record = &deploymentDatamodel.DeploymentRecord{
			AssetID:      &cmd.AssetID,
			Quantity:     1,
			SerialNumber: asset.SerialNumber,
			FromRoomID:   &fromRoom,
			ToRoomID:     cmd.ToRoomID,
			DeployedAt:   now,
			DeployedBy:   cmd.DeployedBy,
			Remarks:      cmd.Remarks,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *DeploymentRepository) HasStorageItemHistory(ctx context.Context, storageItemID int64) (bool, error) {
	return r.exists(ctx, "storage_item_id = ?", storageItemID)
}

func (r *DeploymentRepository) HasAssetHistory(ctx context.Context, assetID int64) (bool, error) {
	return r.exists(ctx, "asset_id = ?", assetID)
}

func (r *DeploymentRepository) exists(ctx context.Context, cond string, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&deploymentDatamodel.DeploymentRecord{}).
		Where(cond, id).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
