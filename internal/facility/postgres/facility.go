package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/facility-management/internal"
	facilityDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/facility"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	scheduleDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/schedule"
	"github.com/frahmantamala/facility-management/internal/facility"
	"gorm.io/gorm"
)

type FacilityRepository struct {
	db *gorm.DB
}

func NewFacilityRepository(db *gorm.DB) facility.RepositoryAPI {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) ListBuildings(ctx context.Context) ([]*facilityDatamodel.Building, error) {
	var buildings []*facilityDatamodel.Building
	err := r.db.WithContext(ctx).Order("name ASC").Find(&buildings).Error
	return buildings, err
}

func (r *FacilityRepository) GetBuildingByID(ctx context.Context, id int64) (*facilityDatamodel.Building, error) {
	var building facilityDatamodel.Building
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&building).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBuildingNotFound
		}
		return nil, err
	}
	return &building, nil
}

func (r *FacilityRepository) GetBuildingByName(ctx context.Context, name string) (*facilityDatamodel.Building, error) {
	var building facilityDatamodel.Building
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&building).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &building, nil
}

func (r *FacilityRepository) CreateBuilding(ctx context.Context, building *facilityDatamodel.Building) error {
	return translate(r.db.WithContext(ctx).Create(building).Error)
}

func (r *FacilityRepository) UpdateBuilding(ctx context.Context, building *facilityDatamodel.Building) error {
	return translate(r.db.WithContext(ctx).Save(building).Error)
}

func (r *FacilityRepository) DeleteBuilding(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var floors int64
		if err := tx.Model(&facilityDatamodel.Floor{}).Where("building_id = ?", id).Count(&floors).Error; err != nil {
			return err
		}
		if floors > 0 {
			return internal.ErrHasChildren.WithMessage(fmt.Sprintf("building still has %d floor(s)", floors))
		}
		return deleteByID(tx, &facilityDatamodel.Building{}, id, internal.ErrBuildingNotFound)
	})
}

func (r *FacilityRepository) ListFloors(ctx context.Context, buildingID int64) ([]*facilityDatamodel.Floor, error) {
	var floors []*facilityDatamodel.Floor
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("level ASC, id ASC").
		Find(&floors).Error
	return floors, err
}

func (r *FacilityRepository) GetFloorByID(ctx context.Context, id int64) (*facilityDatamodel.Floor, error) {
	var floor facilityDatamodel.Floor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&floor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrFloorNotFound
		}
		return nil, err
	}
	return &floor, nil
}

func (r *FacilityRepository) CreateFloor(ctx context.Context, floor *facilityDatamodel.Floor) error {
	return r.db.WithContext(ctx).Create(floor).Error
}

func (r *FacilityRepository) UpdateFloor(ctx context.Context, floor *facilityDatamodel.Floor) error {
	return r.db.WithContext(ctx).Save(floor).Error
}

func (r *FacilityRepository) DeleteFloor(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rooms int64
		if err := tx.Model(&facilityDatamodel.Room{}).Where("floor_id = ?", id).Count(&rooms).Error; err != nil {
			return err
		}
		if rooms > 0 {
			return internal.ErrHasChildren.WithMessage(fmt.Sprintf("floor still has %d room(s)", rooms))
		}
		return deleteByID(tx, &facilityDatamodel.Floor{}, id, internal.ErrFloorNotFound)
	})
}

func (r *FacilityRepository) ListRooms(ctx context.Context, floorID int64) ([]*facilityDatamodel.Room, error) {
	var rooms []*facilityDatamodel.Room
	query := r.db.WithContext(ctx).Order("name ASC, id ASC")
	if floorID != 0 {
		query = query.Where("floor_id = ?", floorID)
	}
	err := query.Find(&rooms).Error
	return rooms, err
}

func (r *FacilityRepository) GetRoomByID(ctx context.Context, id int64) (*facilityDatamodel.Room, error) {
	var room facilityDatamodel.Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *FacilityRepository) CreateRoom(ctx context.Context, room *facilityDatamodel.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *FacilityRepository) UpdateRoom(ctx context.Context, room *facilityDatamodel.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *FacilityRepository) DeleteRoom(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deps facility.RoomDependents
		if err := tx.Model(&inventoryDatamodel.Asset{}).Where("room_id = ?", id).Count(&deps.Assets).Error; err != nil {
			return err
		}
		if err := tx.Model(&scheduleDatamodel.Schedule{}).Where("room_id = ?", id).Count(&deps.Schedules).Error; err != nil {
			return err
		}
		if deps.Any() {
			return internal.ErrHasChildren.WithMessage(
				fmt.Sprintf("room still has %d asset(s) and %d schedule(s)", deps.Assets, deps.Schedules))
		}
		return deleteByID(tx, &facilityDatamodel.Room{}, id, internal.ErrRoomNotFound)
	})
}

func deleteByID(tx *gorm.DB, model interface{}, id int64, notFound error) error {
	res := tx.Where("id = ?", id).Delete(model)
	if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
		return internal.ErrHasChildren.WithMessage("record is still referenced by deployment history")
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicate.WithCause(err)
	}
	return err
}
