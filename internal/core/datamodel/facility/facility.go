package facility

import "time"

type Building struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Code        string    `gorm:"column:code"`
	Address     string    `gorm:"column:address"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Building) TableName() string {
	return "buildings"
}

type Floor struct {
	ID         int64     `gorm:"primaryKey"`
	BuildingID int64     `gorm:"column:building_id;index;not null"`
	Name       string    `gorm:"column:name;not null"`
	Level      int       `gorm:"column:level;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Floor) TableName() string {
	return "floors"
}

type Room struct {
	ID        int64     `gorm:"primaryKey"`
	FloorID   int64     `gorm:"column:floor_id;index;not null"`
	Name      string    `gorm:"column:name;not null"`
	RoomType  string    `gorm:"column:room_type"`
	Capacity  int       `gorm:"column:capacity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Room) TableName() string {
	return "rooms"
}
