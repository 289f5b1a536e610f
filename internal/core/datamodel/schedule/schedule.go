package schedule

import "time"

type Schedule struct {
	ID        int64     `gorm:"primaryKey"`
	RoomID    int64     `gorm:"column:room_id;index:idx_schedule_room_day;not null"`
	UserID    int64     `gorm:"column:user_id;index;not null"`
	DayOfWeek int       `gorm:"column:day_of_week;index:idx_schedule_room_day;not null"`
	StartTime string    `gorm:"column:start_time;size:5;not null"`
	EndTime   string    `gorm:"column:end_time;size:5;not null"`
	Title     string    `gorm:"column:title"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Schedule) TableName() string {
	return "schedules"
}
