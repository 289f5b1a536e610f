package inventory

import (
	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/core/common/validation"
)

type CreateStorageItemDTO struct {
	Name          string   `json:"name"`
	ItemType      string   `json:"item_type"`
	SubType       *string  `json:"sub_type"`
	Quantity      int      `json:"quantity"`
	Unit          string   `json:"unit"`
	Remarks       string   `json:"remarks"`
	SerialNumbers []string `json:"serial_numbers"`
}

func (d CreateStorageItemDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("item_type", d.ItemType).Required().MaxLength(64)
	v.Field("quantity", d.Quantity).MinInt(0, internal.ErrCodeInvalidQuantity)
	v.Field("unit", d.Unit).MaxLength(32)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateStorageItemDTO leaves nil fields unchanged. Quantity may only grow.
type UpdateStorageItemDTO struct {
	Name          *string   `json:"name"`
	ItemType      *string   `json:"item_type"`
	SubType       *string   `json:"sub_type"`
	Quantity      *int      `json:"quantity"`
	Unit          *string   `json:"unit"`
	Remarks       *string   `json:"remarks"`
	SerialNumbers *[]string `json:"serial_numbers"`
}

func (d UpdateStorageItemDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required()
		v.Field("name", *d.Name).MaxLength(255)
	}
	if d.ItemType != nil {
		v.Field("item_type", d.ItemType).Required()
	}
	if d.Quantity != nil {
		v.Field("quantity", *d.Quantity).MinInt(0, internal.ErrCodeInvalidQuantity)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CreateAssetDTO struct {
	Tag          string  `json:"tag"`
	Name         string  `json:"name"`
	AssetType    string  `json:"asset_type"`
	SerialNumber *string `json:"serial_number"`
	RoomID       int64   `json:"room_id"`
	Remarks      string  `json:"remarks"`
}

func (d CreateAssetDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("tag", d.Tag).Required().MaxLength(64)
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("asset_type", d.AssetType).MaxLength(64)
	v.Field("room_id", d.RoomID).Required().MinInt(1, internal.ErrCodeInvalidID)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateAssetDTO cannot move the asset; moves go through a deployment.
type UpdateAssetDTO struct {
	Tag          *string `json:"tag"`
	Name         *string `json:"name"`
	AssetType    *string `json:"asset_type"`
	SerialNumber *string `json:"serial_number"`
	Remarks      *string `json:"remarks"`
}

func (d UpdateAssetDTO) Validate() error {
	v := validation.NewValidator()
	if d.Tag != nil {
		v.Field("tag", d.Tag).Required()
		v.Field("tag", *d.Tag).MaxLength(64)
	}
	if d.Name != nil {
		v.Field("name", d.Name).Required()
		v.Field("name", *d.Name).MaxLength(255)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type StorageItemsResponse struct {
	Items  []*StorageItem `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type AssetsResponse struct {
	Assets []*Asset `json:"assets"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}
