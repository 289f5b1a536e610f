package schedule

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/facility-management/internal/auth"
	"github.com/frahmantamala/facility-management/internal/transport"
	"github.com/frahmantamala/facility-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) ([]*Schedule, error)
	Get(ctx context.Context, id int64) (*Schedule, error)
	Create(ctx context.Context, dto ScheduleDTO, user *auth.User) (*Schedule, error)
	Update(ctx context.Context, id int64, dto ScheduleDTO, user *auth.User) (*Schedule, error)
	Delete(ctx context.Context, id int64, user *auth.User) error
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

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter Filter

	for name, dst := range map[string]*int64{"room_id": &filter.RoomID, "user_id": &filter.UserID} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || v <= 0 {
				h.WriteError(w, http.StatusBadRequest, "invalid "+name)
				return
			}
			*dst = v
		}
	}
	if raw := q.Get("day_of_week"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 0 || day > 6 {
			h.WriteError(w, http.StatusBadRequest, "invalid day_of_week")
			return
		}
		filter.DayOfWeek = &day
	}

	schedules, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("ListSchedules: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SchedulesResponse{Schedules: schedules})
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	s, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.Logger.Warn("GetSchedule: service error", "error", err, "schedule_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.Logger.Error("CreateSchedule: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var dto ScheduleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	s, err := h.Service.Create(r.Context(), dto, user)
	if err != nil {
		h.Logger.Warn("CreateSchedule: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.Logger.Error("UpdateSchedule: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var dto ScheduleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	s, err := h.Service.Update(r.Context(), id, dto, user)
	if err != nil {
		h.Logger.Warn("UpdateSchedule: service error", "error", err, "schedule_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.Logger.Error("DeleteSchedule: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id, user); err != nil {
		h.Logger.Warn("DeleteSchedule: service error", "error", err, "schedule_id", id)
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
