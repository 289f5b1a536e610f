package schedule

import (
	"fmt"
	"time"

	"github.com/frahmantamala/facility-management/internal/core/common/validation"
	scheduleDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/schedule"
)

// Schedule is a weekly recurring booking of a room. DayOfWeek follows time.Weekday (0 = Sunday).
type Schedule struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	UserID    int64     `json:"user_id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slot is a half-open [Start, End) interval in minutes after midnight on one weekday.
type Slot struct {
	RoomID    int64
	DayOfWeek int
	Start     int
	End       int
}

func NewSlot(roomID int64, day int, start, end string) (Slot, error) {
	s, err := validation.ParseTimeOfDay(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := validation.ParseTimeOfDay(end)
	if err != nil {
		return Slot{}, err
	}
	return Slot{RoomID: roomID, DayOfWeek: day, Start: s, End: e}, nil
}

// Overlaps reports whether two slots share any minute. Touching boundaries do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	if s.RoomID != o.RoomID || s.DayOfWeek != o.DayOfWeek {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}

// StartClock and EndClock render the slot as zero-padded "HH:MM" so stored values sort lexically.
func (s Slot) StartClock() string {
	return clock(s.Start)
}

func (s Slot) EndClock() string {
	return clock(s.End)
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

type Filter struct {
	RoomID    int64
	UserID    int64
	DayOfWeek *int
}

func ToDataModel(s *Schedule) *scheduleDatamodel.Schedule {
	return &scheduleDatamodel.Schedule{
		ID:        s.ID,
		RoomID:    s.RoomID,
		UserID:    s.UserID,
		DayOfWeek: s.DayOfWeek,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func FromDataModel(s *scheduleDatamodel.Schedule) *Schedule {
	return &Schedule{
		ID:        s.ID,
		RoomID:    s.RoomID,
		UserID:    s.UserID,
		DayOfWeek: s.DayOfWeek,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
