package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/facility-management/internal"
	facilityDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/facility"
	scheduleDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/schedule"
	"github.com/frahmantamala/facility-management/internal/schedule"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) schedule.RepositoryAPI {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) List(ctx context.Context, filter schedule.Filter) ([]*scheduleDatamodel.Schedule, error) {
	query := r.db.WithContext(ctx).Model(&scheduleDatamodel.Schedule{})
	if filter.RoomID > 0 {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.DayOfWeek != nil {
		query = query.Where("day_of_week = ?", *filter.DayOfWeek)
	}

	var schedules []*scheduleDatamodel.Schedule
	err := query.Order("day_of_week ASC, start_time ASC, id ASC").Find(&schedules).Error
	return schedules, err
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*scheduleDatamodel.Schedule, error) {
	var s scheduleDatamodel.Schedule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepository) Create(ctx context.Context, s *scheduleDatamodel.Schedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFree(tx, s); err != nil {
			return err
		}
		return tx.Create(s).Error
	})
}

func (r *ScheduleRepository) Update(ctx context.Context, s *scheduleDatamodel.Schedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFree(tx, s); err != nil {
			return err
		}
		return tx.Save(s).Error
	})
}

func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&scheduleDatamodel.Schedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrScheduleNotFound
	}
	return nil
}

// ensureFree locks the room row, serialising bookings of that room, then looks
// for a slot on the same day with existing.start < new.end AND new.start < existing.end.
// Times are stored as zero-padded HH:MM so string comparison orders them.
func ensureFree(tx *gorm.DB, s *scheduleDatamodel.Schedule) error {
	var room facilityDatamodel.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", s.RoomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrRoomNotFound
		}
		return err
	}

	var clashes int64
	err = tx.Model(&scheduleDatamodel.Schedule{}).
		Where("room_id = ? AND day_of_week = ?", s.RoomID, s.DayOfWeek).
		Where("start_time < ? AND ? < end_time", s.EndTime, s.StartTime).
		Where("id <> ?", s.ID).
		Count(&clashes).Error
	if err != nil {
		return err
	}
	if clashes > 0 {
		return internal.ErrScheduleConflict
	}
	return nil
}
