package deployment

import "time"

// DeploymentRecord is append-only; rows are never updated or deleted.
type DeploymentRecord struct {
	ID            int64     `gorm:"primaryKey"`
	StorageItemID *int64    `gorm:"column:storage_item_id;index"`
	AssetID       *int64    `gorm:"column:asset_id;index"`
	Quantity      int       `gorm:"column:quantity;not null"`
	SerialNumber  *string   `gorm:"column:serial_number"`
	FromRoomID    *int64    `gorm:"column:from_room_id"`
	ToRoomID      int64     `gorm:"column:to_room_id;index;not null"`
	DeployedAt    time.Time `gorm:"column:deployed_at;not null"`
	DeployedBy    int64     `gorm:"column:deployed_by;not null"`
	Remarks       string    `gorm:"column:remarks"`
}

func (DeploymentRecord) TableName() string {
	return "deployment_records"
}
