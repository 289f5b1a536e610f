package deployment

import (
	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/core/common/validation"
)

// DeployDTO names exactly one of StorageItemID or AssetID.
type DeployDTO struct {
	StorageItemID     *int64  `json:"storage_item_id"`
	AssetID           *int64  `json:"asset_id"`
	Quantity          int     `json:"quantity"`
	DestinationRoomID int64   `json:"destination_room_id"`
	SerialNumber      *string `json:"serial_number"`
	Remarks           string  `json:"remarks"`
}

func (d DeployDTO) Validate() error {
	if (d.StorageItemID == nil) == (d.AssetID == nil) {
		return internal.ErrDeploymentTarget
	}

	v := validation.NewValidator()
	v.Field("destination_room_id", d.DestinationRoomID).Required().MinInt(1, internal.ErrCodeInvalidID)
	if d.StorageItemID != nil {
		v.Field("storage_item_id", *d.StorageItemID).MinInt(1, internal.ErrCodeInvalidID)
	}
	if d.AssetID != nil {
		v.Field("asset_id", *d.AssetID).MinInt(1, internal.ErrCodeInvalidID)
	}
	v.Field("remarks", d.Remarks).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type DeploymentsResponse struct {
	Deployments []LedgerEntry `json:"deployments"`
	Total       int64         `json:"total"`
	Limit       int           `json:"limit"`
	Offset      int           `json:"offset"`
}
