package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SerialNumbers is persisted as a JSON array in a text column.
type SerialNumbers []string

func (s SerialNumbers) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SerialNumbers) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = SerialNumbers{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("serial numbers: unsupported type %T", value)
	}
	if len(raw) == 0 {
		*s = SerialNumbers{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("serial numbers: %w", err)
	}
	*s = out
	return nil
}

func (SerialNumbers) GormDataType() string {
	return "text"
}

type StorageItem struct {
	ID            int64         `gorm:"primaryKey"`
	Name          string        `gorm:"column:name;not null"`
	ItemType      string        `gorm:"column:item_type;not null"`
	SubType       *string       `gorm:"column:sub_type"`
	Quantity      int           `gorm:"column:quantity;not null"`
	Unit          string        `gorm:"column:unit"`
	Remarks       string        `gorm:"column:remarks"`
	SerialNumbers SerialNumbers `gorm:"column:serial_numbers"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (StorageItem) TableName() string {
	return "storage_items"
}

type Asset struct {
	ID           int64     `gorm:"primaryKey"`
	Tag          string    `gorm:"column:tag;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	AssetType    string    `gorm:"column:asset_type"`
	SerialNumber *string   `gorm:"column:serial_number"`
	RoomID       int64     `gorm:"column:room_id;index;not null"`
	Remarks      string    `gorm:"column:remarks"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Asset) TableName() string {
	return "assets"
}
