package inventory

import (
	"strings"
	"time"

	"github.com/frahmantamala/facility-management/internal"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
)

// Sub-types whose units are tracked individually by serial number.
const (
	SubTypeCPU         = "CPU"
	SubTypeGPU         = "GPU"
	SubTypeRAM         = "RAM"
	SubTypeSSD         = "SSD"
	SubTypeHDD         = "HDD"
	SubTypeMotherboard = "MOTHERBOARD"
	SubTypePSU         = "PSU"
)

var serializedSubTypes = map[string]struct{}{
	SubTypeCPU:         {},
	SubTypeGPU:         {},
	SubTypeRAM:         {},
	SubTypeSSD:         {},
	SubTypeHDD:         {},
	SubTypeMotherboard: {},
	SubTypePSU:         {},
}

// IsSerializedSubType reports whether units of subType carry individual serial numbers.
func IsSerializedSubType(subType string) bool {
	_, ok := serializedSubTypes[strings.ToUpper(strings.TrimSpace(subType))]
	return ok
}

type StorageItem struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ItemType      string    `json:"item_type"`
	SubType       *string   `json:"sub_type,omitempty"`
	Quantity      int       `json:"quantity"`
	Unit          string    `json:"unit"`
	Remarks       string    `json:"remarks"`
	SerialNumbers []string  `json:"serial_numbers"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *StorageItem) IsSerialized() bool {
	return s.SubType != nil && IsSerializedSubType(*s.SubType)
}

// CheckSerials enforces that a serialized item records at least one serial per unit.
// Uniqueness of the serials is not checked.
func (s *StorageItem) CheckSerials() error {
	if !s.IsSerialized() {
		return nil
	}
	if len(s.SerialNumbers) < s.Quantity {
		return internal.ErrNotEnoughSerials
	}
	return nil
}

type Asset struct {
	ID           int64     `json:"id"`
	Tag          string    `json:"tag"`
	Name         string    `json:"name"`
	AssetType    string    `json:"asset_type"`
	SerialNumber *string   `json:"serial_number,omitempty"`
	RoomID       int64     `json:"room_id"`
	Remarks      string    `json:"remarks"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StorageItemFilter narrows ListStorageItems. Zero values match everything.
type StorageItemFilter struct {
	ItemType string
	SubType  string
	Search   string
	Limit    int
	Offset   int
}

type AssetFilter struct {
	RoomID    int64
	AssetType string
	Search    string
	Limit     int
	Offset    int
}

func normalizeSubType(subType *string) *string {
	if subType == nil {
		return nil
	}
	v := strings.TrimSpace(*subType)
	if v == "" {
		return nil
	}
	if IsSerializedSubType(v) {
		v = strings.ToUpper(v)
	}
	return &v
}

func StorageItemToDataModel(s *StorageItem) *inventoryDatamodel.StorageItem {
	serials := make(inventoryDatamodel.SerialNumbers, len(s.SerialNumbers))
	copy(serials, s.SerialNumbers)
	return &inventoryDatamodel.StorageItem{
		ID:            s.ID,
		Name:          s.Name,
		ItemType:      s.ItemType,
		SubType:       s.SubType,
		Quantity:      s.Quantity,
		Unit:          s.Unit,
		Remarks:       s.Remarks,
		SerialNumbers: serials,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func StorageItemFromDataModel(s *inventoryDatamodel.StorageItem) *StorageItem {
	serials := make([]string, len(s.SerialNumbers))
	copy(serials, s.SerialNumbers)
	return &StorageItem{
		ID:            s.ID,
		Name:          s.Name,
		ItemType:      s.ItemType,
		SubType:       s.SubType,
		Quantity:      s.Quantity,
		Unit:          s.Unit,
		Remarks:       s.Remarks,
		SerialNumbers: serials,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func AssetToDataModel(a *Asset) *inventoryDatamodel.Asset {
	return &inventoryDatamodel.Asset{
		ID:           a.ID,
		Tag:          a.Tag,
		Name:         a.Name,
		AssetType:    a.AssetType,
		SerialNumber: a.SerialNumber,
		RoomID:       a.RoomID,
		Remarks:      a.Remarks,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func AssetFromDataModel(a *inventoryDatamodel.Asset) *Asset {
	return &Asset{
		ID:           a.ID,
		Tag:          a.Tag,
		Name:         a.Name,
		AssetType:    a.AssetType,
		SerialNumber: a.SerialNumber,
		RoomID:       a.RoomID,
		Remarks:      a.Remarks,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
