package facility

import (
	"time"

	facilityDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/facility"
)

type Building struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Floor struct {
	ID         int64     `json:"id"`
	BuildingID int64     `json:"building_id"`
	Name       string    `json:"name"`
	Level      int       `json:"level"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Room struct {
	ID        int64     `json:"id"`
	FloorID   int64     `json:"floor_id"`
	Name      string    `json:"name"`
	RoomType  string    `json:"room_type"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomDependents counts the rows that keep a room from being deleted.
type RoomDependents struct {
	Assets    int64
	Schedules int64
}

func (d RoomDependents) Any() bool {
	return d.Assets > 0 || d.Schedules > 0
}

func BuildingToDataModel(b *Building) *facilityDatamodel.Building {
	return &facilityDatamodel.Building{
		ID:          b.ID,
		Name:        b.Name,
		Code:        b.Code,
		Address:     b.Address,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func BuildingFromDataModel(b *facilityDatamodel.Building) *Building {
	return &Building{
		ID:          b.ID,
		Name:        b.Name,
		Code:        b.Code,
		Address:     b.Address,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FloorToDataModel(f *Floor) *facilityDatamodel.Floor {
	return &facilityDatamodel.Floor{
		ID:         f.ID,
		BuildingID: f.BuildingID,
		Name:       f.Name,
		Level:      f.Level,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func FloorFromDataModel(f *facilityDatamodel.Floor) *Floor {
	return &Floor{
		ID:         f.ID,
		BuildingID: f.BuildingID,
		Name:       f.Name,
		Level:      f.Level,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func RoomToDataModel(r *Room) *facilityDatamodel.Room {
	return &facilityDatamodel.Room{
		ID:        r.ID,
		FloorID:   r.FloorID,
		Name:      r.Name,
		RoomType:  r.RoomType,
		Capacity:  r.Capacity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func RoomFromDataModel(r *facilityDatamodel.Room) *Room {
	return &Room{
		ID:        r.ID,
		FloorID:   r.FloorID,
		Name:      r.Name,
		RoomType:  r.RoomType,
		Capacity:  r.Capacity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
