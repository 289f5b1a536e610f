package schedule

import (
	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/core/common/validation"
)

type ScheduleDTO struct {
	RoomID    int64  `json:"room_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Title     string `json:"title"`
}

func (d ScheduleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("room_id", d.RoomID).Required().MinInt(1, internal.ErrCodeInvalidID)
	v.Field("day_of_week", d.DayOfWeek).MinInt(0, internal.ErrCodeValidationFailed).MaxInt(6, internal.ErrCodeValidationFailed)
	v.Field("start_time", d.StartTime).Required().TimeOfDay()
	v.Field("end_time", d.EndTime).Required().TimeOfDay()
	v.Field("title", d.Title).MaxLength(200)
	if err := v.Validate(); err != nil {
		return err
	}

	start, _ := validation.ParseTimeOfDay(d.StartTime)
	end, _ := validation.ParseTimeOfDay(d.EndTime)
	if start >= end {
		return internal.NewValidationFieldError("end_time", "end_time must be after start_time", internal.ErrCodeInvalidTime)
	}
	return nil
}

// Slot converts a validated DTO into its interval.
func (d ScheduleDTO) Slot() (Slot, error) {
	return NewSlot(d.RoomID, d.DayOfWeek, d.StartTime, d.EndTime)
}

type SchedulesResponse struct {
	Schedules []*Schedule `json:"schedules"`
}
