package ticket

import "time"

type Ticket struct {
	ID          int64      `gorm:"primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	Type        string     `gorm:"column:type;size:32;not null"`
	Status      string     `gorm:"column:status;size:32;index;not null"`
	Priority    string     `gorm:"column:priority;size:16;not null"`
	ReporterID  int64      `gorm:"column:reporter_id;index;not null"`
	AssigneeID  *int64     `gorm:"column:assignee_id"`
	RoomID      *int64     `gorm:"column:room_id"`
	AssetID     *int64     `gorm:"column:asset_id"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at"`
	ClosedAt    *time.Time `gorm:"column:closed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Ticket) TableName() string {
	return "tickets"
}

type TicketComment struct {
	ID        int64     `gorm:"primaryKey"`
	TicketID  int64     `gorm:"column:ticket_id;index;not null"`
	AuthorID  int64     `gorm:"column:author_id;not null"`
	Body      string    `gorm:"column:body;not null"`
	IsPrivate bool      `gorm:"column:is_private;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TicketComment) TableName() string {
	return "ticket_comments"
}
