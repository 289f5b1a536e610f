package facility

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/facility-management/internal"
	facilityDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/facility"
)

type RepositoryAPI interface {
	ListBuildings(ctx context.Context) ([]*facilityDatamodel.Building, error)
	GetBuildingByID(ctx context.Context, id int64) (*facilityDatamodel.Building, error)
	GetBuildingByName(ctx context.Context, name string) (*facilityDatamodel.Building, error)
	CreateBuilding(ctx context.Context, building *facilityDatamodel.Building) error
	UpdateBuilding(ctx context.Context, building *facilityDatamodel.Building) error
	// DeleteBuilding refuses with ErrHasChildren while floors exist.
	DeleteBuilding(ctx context.Context, id int64) error

	ListFloors(ctx context.Context, buildingID int64) ([]*facilityDatamodel.Floor, error)
	GetFloorByID(ctx context.Context, id int64) (*facilityDatamodel.Floor, error)
	CreateFloor(ctx context.Context, floor *facilityDatamodel.Floor) error
	UpdateFloor(ctx context.Context, floor *facilityDatamodel.Floor) error
	DeleteFloor(ctx context.Context, id int64) error

	// ListRooms returns every room when floorID is 0.
	ListRooms(ctx context.Context, floorID int64) ([]*facilityDatamodel.Room, error)
	GetRoomByID(ctx context.Context, id int64) (*facilityDatamodel.Room, error)
	CreateRoom(ctx context.Context, room *facilityDatamodel.Room) error
	UpdateRoom(ctx context.Context, room *facilityDatamodel.Room) error
	DeleteRoom(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListBuildings(ctx context.Context) ([]*Building, error) {
	rows, err := s.repo.ListBuildings(ctx)
	if err != nil {
		s.logger.Error("failed to list buildings", "error", err)
		return nil, err
	}

	buildings := make([]*Building, 0, len(rows))
	for _, row := range rows {
		buildings = append(buildings, BuildingFromDataModel(row))
	}
	return buildings, nil
}

func (s *Service) GetBuilding(ctx context.Context, id int64) (*Building, error) {
	row, err := s.repo.GetBuildingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildingFromDataModel(row), nil
}

func (s *Service) CreateBuilding(ctx context.Context, dto CreateBuildingDTO) (*Building, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	existing, err := s.repo.GetBuildingByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrDuplicate.WithMessage("building name already exists")
	}

	building := &Building{
		Name:        name,
		Code:        strings.TrimSpace(dto.Code),
		Address:     dto.Address,
		Description: dto.Description,
	}
	row := BuildingToDataModel(building)
	if err := s.repo.CreateBuilding(ctx, row); err != nil {
		s.logger.Error("failed to create building", "name", name, "error", err)
		return nil, err
	}

	s.logger.Info("building created", "building_id", row.ID)
	return BuildingFromDataModel(row), nil
}

func (s *Service) UpdateBuilding(ctx context.Context, id int64, dto UpdateBuildingDTO) (*Building, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetBuildingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name != row.Name {
			existing, err := s.repo.GetBuildingByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, internal.ErrDuplicate.WithMessage("building name already exists")
			}
		}
		row.Name = name
	}
	if dto.Code != nil {
		row.Code = strings.TrimSpace(*dto.Code)
	}
	if dto.Address != nil {
		row.Address = *dto.Address
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}

	if err := s.repo.UpdateBuilding(ctx, row); err != nil {
		s.logger.Error("failed to update building", "building_id", id, "error", err)
		return nil, err
	}
	return BuildingFromDataModel(row), nil
}

func (s *Service) DeleteBuilding(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBuilding(ctx, id); err != nil {
		s.logDeleteFailure("building", id, err)
		return err
	}
	s.logger.Info("building deleted", "building_id", id)
	return nil
}

func (s *Service) ListFloors(ctx context.Context, buildingID int64) ([]*Floor, error) {
	if _, err := s.repo.GetBuildingByID(ctx, buildingID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListFloors(ctx, buildingID)
	if err != nil {
		s.logger.Error("failed to list floors", "building_id", buildingID, "error", err)
		return nil, err
	}

	floors := make([]*Floor, 0, len(rows))
	for _, row := range rows {
		floors = append(floors, FloorFromDataModel(row))
	}
	return floors, nil
}

func (s *Service) GetFloor(ctx context.Context, id int64) (*Floor, error) {
	row, err := s.repo.GetFloorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FloorFromDataModel(row), nil
}

func (s *Service) CreateFloor(ctx context.Context, dto CreateFloorDTO) (*Floor, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetBuildingByID(ctx, dto.BuildingID); err != nil {
		return nil, err
	}

	row := FloorToDataModel(&Floor{
		BuildingID: dto.BuildingID,
		Name:       strings.TrimSpace(dto.Name),
		Level:      dto.Level,
	})
	if err := s.repo.CreateFloor(ctx, row); err != nil {
		s.logger.Error("failed to create floor", "building_id", dto.BuildingID, "error", err)
		return nil, err
	}

	s.logger.Info("floor created", "floor_id", row.ID, "building_id", row.BuildingID)
	return FloorFromDataModel(row), nil
}

func (s *Service) UpdateFloor(ctx context.Context, id int64, dto UpdateFloorDTO) (*Floor, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetFloorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Level != nil {
		row.Level = *dto.Level
	}

	if err := s.repo.UpdateFloor(ctx, row); err != nil {
		s.logger.Error("failed to update floor", "floor_id", id, "error", err)
		return nil, err
	}
	return FloorFromDataModel(row), nil
}

func (s *Service) DeleteFloor(ctx context.Context, id int64) error {
	if err := s.repo.DeleteFloor(ctx, id); err != nil {
		s.logDeleteFailure("floor", id, err)
		return err
	}
	s.logger.Info("floor deleted", "floor_id", id)
	return nil
}

// ListRooms lists rooms on a floor, or every room when floorID is 0.
func (s *Service) ListRooms(ctx context.Context, floorID int64) ([]*Room, error) {
	if floorID != 0 {
		if _, err := s.repo.GetFloorByID(ctx, floorID); err != nil {
			return nil, err
		}
	}

	rows, err := s.repo.ListRooms(ctx, floorID)
	if err != nil {
		s.logger.Error("failed to list rooms", "floor_id", floorID, "error", err)
		return nil, err
	}

	rooms := make([]*Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, RoomFromDataModel(row))
	}
	return rooms, nil
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*Room, error) {
	row, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return RoomFromDataModel(row), nil
}

func (s *Service) CreateRoom(ctx context.Context, dto CreateRoomDTO) (*Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetFloorByID(ctx, dto.FloorID); err != nil {
		return nil, err
	}

	row := RoomToDataModel(&Room{
		FloorID:  dto.FloorID,
		Name:     strings.TrimSpace(dto.Name),
		RoomType: dto.RoomType,
		Capacity: dto.Capacity,
	})
	if err := s.repo.CreateRoom(ctx, row); err != nil {
		s.logger.Error("failed to create room", "floor_id", dto.FloorID, "error", err)
		return nil, err
	}

	s.logger.Info("room created", "room_id", row.ID, "floor_id", row.FloorID)
	return RoomFromDataModel(row), nil
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, dto UpdateRoomDTO) (*Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.RoomType != nil {
		row.RoomType = *dto.RoomType
	}
	if dto.Capacity != nil {
		row.Capacity = *dto.Capacity
	}

	if err := s.repo.UpdateRoom(ctx, row); err != nil {
		s.logger.Error("failed to update room", "room_id", id, "error", err)
		return nil, err
	}
	return RoomFromDataModel(row), nil
}

func (s *Service) DeleteRoom(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		s.logDeleteFailure("room", id, err)
		return err
	}
	s.logger.Info("room deleted", "room_id", id)
	return nil
}

func (s *Service) logDeleteFailure(kind string, id int64, err error) {
	if errors.Is(err, internal.ErrHasChildren) {
		s.logger.Warn("delete blocked by dependent records", "kind", kind, "id", id)
		return
	}
	if _, ok := internal.IsAppError(err); ok {
		return
	}
	s.logger.Error("delete failed", "kind", kind, "id", id, "error", err)
}
