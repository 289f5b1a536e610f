package schedule

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/auth"
	scheduleDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/schedule"
)

// RepositoryAPI persists schedules. Create and Update lock the room and reject
// overlapping slots inside the same transaction as the write.
type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*scheduleDatamodel.Schedule, error)
	GetByID(ctx context.Context, id int64) (*scheduleDatamodel.Schedule, error)
	Create(ctx context.Context, s *scheduleDatamodel.Schedule) error
	Update(ctx context.Context, s *scheduleDatamodel.Schedule) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo    RepositoryAPI
	checker auth.PermissionChecker
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, checker auth.PermissionChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		checker: checker,
		logger:  logger,
	}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Schedule, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	schedules := make([]*Schedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, FromDataModel(row))
	}
	return schedules, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Schedule, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto ScheduleDTO, user *auth.User) (*Schedule, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	slot, err := dto.Slot()
	if err != nil {
		return nil, err
	}

	row := &scheduleDatamodel.Schedule{
		RoomID:    slot.RoomID,
		UserID:    user.ID,
		DayOfWeek: slot.DayOfWeek,
		StartTime: slot.StartClock(),
		EndTime:   slot.EndClock(),
		Title:     strings.TrimSpace(dto.Title),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Warn("failed to create schedule",
			"room_id", row.RoomID, "day_of_week", row.DayOfWeek, "start", row.StartTime, "end", row.EndTime, "error", err)
		return nil, err
	}

	s.logger.Info("schedule created", "schedule_id", row.ID, "room_id", row.RoomID, "user_id", user.ID)
	return FromDataModel(row), nil
}

// Update replaces the slot. Owners may always edit; others need schedule_update.
func (s *Service) Update(ctx context.Context, id int64, dto ScheduleDTO, user *auth.User) (*Schedule, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	slot, err := dto.Slot()
	if err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.mayModify(user, row, auth.ScheduleUpdate) {
		return nil, internal.ErrInsufficientPermissions
	}

	row.RoomID = slot.RoomID
	row.DayOfWeek = slot.DayOfWeek
	row.StartTime = slot.StartClock()
	row.EndTime = slot.EndClock()
	row.Title = strings.TrimSpace(dto.Title)

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Warn("failed to update schedule", "schedule_id", id, "error", err)
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64, user *auth.User) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.mayModify(user, row, auth.ScheduleDelete) {
		return internal.ErrInsufficientPermissions
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete schedule", "schedule_id", id, "error", err)
		return err
	}
	return nil
}

func (s *Service) mayModify(user *auth.User, row *scheduleDatamodel.Schedule, code auth.Code) bool {
	return row.UserID == user.ID || s.checker.HasPermission(user, code)
}
