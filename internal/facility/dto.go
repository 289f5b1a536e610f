package facility

import (
	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/core/common/validation"
)

type CreateBuildingDTO struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (d CreateBuildingDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("code", d.Code).MaxLength(32)
	v.Field("address", d.Address).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateBuildingDTO leaves nil fields unchanged.
type UpdateBuildingDTO struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

func (d UpdateBuildingDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required()
		v.Field("name", *d.Name).MaxLength(255)
	}
	if d.Code != nil {
		v.Field("code", *d.Code).MaxLength(32)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CreateFloorDTO struct {
	BuildingID int64  `json:"building_id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
}

func (d CreateFloorDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("building_id", d.BuildingID).Required().MinInt(1, internal.ErrCodeInvalidID)
	v.Field("name", d.Name).Required().MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateFloorDTO struct {
	Name  *string `json:"name"`
	Level *int    `json:"level"`
}

func (d UpdateFloorDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required()
		v.Field("name", *d.Name).MaxLength(100)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CreateRoomDTO struct {
	FloorID  int64  `json:"floor_id"`
	Name     string `json:"name"`
	RoomType string `json:"room_type"`
	Capacity int    `json:"capacity"`
}

func (d CreateRoomDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("floor_id", d.FloorID).Required().MinInt(1, internal.ErrCodeInvalidID)
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("room_type", d.RoomType).MaxLength(64)
	v.Field("capacity", d.Capacity).MinInt(0, internal.ErrCodeValidationFailed)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateRoomDTO struct {
	Name     *string `json:"name"`
	RoomType *string `json:"room_type"`
	Capacity *int    `json:"capacity"`
}

func (d UpdateRoomDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required()
		v.Field("name", *d.Name).MaxLength(100)
	}
	if d.Capacity != nil {
		v.Field("capacity", *d.Capacity).MinInt(0, internal.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type BuildingsResponse struct {
	Buildings []*Building `json:"buildings"`
}

type FloorsResponse struct {
	Floors []*Floor `json:"floors"`
}

type RoomsResponse struct {
	Rooms []*Room `json:"rooms"`
}
