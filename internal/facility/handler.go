package facility

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/facility-management/internal/transport"
	"github.com/frahmantamala/facility-management/pkg/logger"
)

type ServiceAPI interface {
	ListBuildings(ctx context.Context) ([]*Building, error)
	GetBuilding(ctx context.Context, id int64) (*Building, error)
	CreateBuilding(ctx context.Context, dto CreateBuildingDTO) (*Building, error)
	UpdateBuilding(ctx context.Context, id int64, dto UpdateBuildingDTO) (*Building, error)
	DeleteBuilding(ctx context.Context, id int64) error

	ListFloors(ctx context.Context, buildingID int64) ([]*Floor, error)
	GetFloor(ctx context.Context, id int64) (*Floor, error)
	CreateFloor(ctx context.Context, dto CreateFloorDTO) (*Floor, error)
	UpdateFloor(ctx context.Context, id int64, dto UpdateFloorDTO) (*Floor, error)
	DeleteFloor(ctx context.Context, id int64) error

	ListRooms(ctx context.Context, floorID int64) ([]*Room, error)
	GetRoom(ctx context.Context, id int64) (*Room, error)
	CreateRoom(ctx context.Context, dto CreateRoomDTO) (*Room, error)
	UpdateRoom(ctx context.Context, id int64, dto UpdateRoomDTO) (*Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.Service.ListBuildings(r.Context())
	if err != nil {
		h.Logger.Error("ListBuildings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, BuildingsResponse{Buildings: buildings})
}

func (h *Handler) GetBuilding(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	building, err := h.Service.GetBuilding(r.Context(), id)
	if err != nil {
		h.Logger.Warn("GetBuilding: service error", "error", err, "building_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, building)
}

func (h *Handler) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	var dto CreateBuildingDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	building, err := h.Service.CreateBuilding(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateBuilding: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, building)
}

func (h *Handler) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateBuildingDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	building, err := h.Service.UpdateBuilding(r.Context(), id, dto)
	if err != nil {
		h.Logger.Warn("UpdateBuilding: service error", "error", err, "building_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, building)
}

func (h *Handler) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteBuilding(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFloors(w http.ResponseWriter, r *http.Request) {
	buildingID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	floors, err := h.Service.ListFloors(r.Context(), buildingID)
	if err != nil {
		h.Logger.Warn("ListFloors: service error", "error", err, "building_id", buildingID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, FloorsResponse{Floors: floors})
}

func (h *Handler) GetFloor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	floor, err := h.Service.GetFloor(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, floor)
}

func (h *Handler) CreateFloor(w http.ResponseWriter, r *http.Request) {
	var dto CreateFloorDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	floor, err := h.Service.CreateFloor(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateFloor: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, floor)
}

func (h *Handler) UpdateFloor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateFloorDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	floor, err := h.Service.UpdateFloor(r.Context(), id, dto)
	if err != nil {
		h.Logger.Warn("UpdateFloor: service error", "error", err, "floor_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, floor)
}

func (h *Handler) DeleteFloor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteFloor(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRooms serves both /floors/{id}/rooms and /rooms?floor_id=.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	var floorID int64
	if raw := r.URL.Query().Get("floor_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			h.WriteError(w, http.StatusBadRequest, "invalid floor_id")
			return
		}
		floorID = parsed
	}

	rooms, err := h.Service.ListRooms(r.Context(), floorID)
	if err != nil {
		h.Logger.Warn("ListRooms: service error", "error", err, "floor_id", floorID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RoomsResponse{Rooms: rooms})
}

func (h *Handler) ListFloorRooms(w http.ResponseWriter, r *http.Request) {
	floorID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	rooms, err := h.Service.ListRooms(r.Context(), floorID)
	if err != nil {
		h.Logger.Warn("ListFloorRooms: service error", "error", err, "floor_id", floorID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RoomsResponse{Rooms: rooms})
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	room, err := h.Service.GetRoom(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, room)
}

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoomDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	room, err := h.Service.CreateRoom(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateRoom: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, room)
}

func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateRoomDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	room, err := h.Service.UpdateRoom(r.Context(), id, dto)
	if err != nil {
		h.Logger.Warn("UpdateRoom: service error", "error", err, "room_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, room)
}

func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteRoom(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
