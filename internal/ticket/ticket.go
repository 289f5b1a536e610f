package ticket

import (
	"strings"
	"time"

	"github.com/frahmantamala/facility-management/internal"
	ticketDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/ticket"
)

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusResolved, StatusClosed, StatusOpen},
	StatusResolved:   {StatusClosed, StatusOpen},
	StatusClosed:     {StatusOpen},
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := transitions[st]
	return st, ok
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

const (
	TypeMaintenance = "MAINTENANCE"
	TypeRepair      = "REPAIR"
	TypeRequest     = "REQUEST"
	TypeIncident    = "INCIDENT"
)

var Types = []string{TypeMaintenance, TypeRepair, TypeRequest, TypeIncident}

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

type Ticket struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Status      Status     `json:"status"`
	Priority    string     `json:"priority"`
	ReporterID  int64      `json:"reporter_id"`
	AssigneeID  *int64     `json:"assignee_id,omitempty"`
	RoomID      *int64     `json:"room_id,omitempty"`
	AssetID     *int64     `json:"asset_id,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TransitionTo moves the ticket through the state machine and maintains the lifecycle timestamps.
func (t *Ticket) TransitionTo(to Status, now time.Time) error {
	if !CanTransition(t.Status, to) {
		return internal.NewValidationError(
			"cannot change ticket status from "+string(t.Status)+" to "+string(to),
			internal.ErrCodeInvalidStatus)
	}

	switch to {
	case StatusResolved:
		t.ResolvedAt = &now
	case StatusClosed:
		t.ClosedAt = &now
	case StatusOpen:
		t.ResolvedAt = nil
		t.ClosedAt = nil
	}
	t.Status = to
	t.UpdatedAt = now
	return nil
}

// Involves reports whether userID reported or is assigned to the ticket.
func (t *Ticket) Involves(userID int64) bool {
	return t.ReporterID == userID || (t.AssigneeID != nil && *t.AssigneeID == userID)
}

type Comment struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows List. ReporterID is forced for callers who are not staff.
type Filter struct {
	Status     string
	Priority   string
	ReporterID int64
	AssigneeID int64
	RoomID     int64
	Limit      int
	Offset     int
}

func ToDataModel(t *Ticket) *ticketDatamodel.Ticket {
	return &ticketDatamodel.Ticket{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		Status:      string(t.Status),
		Priority:    t.Priority,
		ReporterID:  t.ReporterID,
		AssigneeID:  t.AssigneeID,
		RoomID:      t.RoomID,
		AssetID:     t.AssetID,
		ResolvedAt:  t.ResolvedAt,
		ClosedAt:    t.ClosedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *ticketDatamodel.Ticket) *Ticket {
	return &Ticket{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		Status:      Status(t.Status),
		Priority:    t.Priority,
		ReporterID:  t.ReporterID,
		AssigneeID:  t.AssigneeID,
		RoomID:      t.RoomID,
		AssetID:     t.AssetID,
		ResolvedAt:  t.ResolvedAt,
		ClosedAt:    t.ClosedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func CommentFromDataModel(c *ticketDatamodel.TicketComment) *Comment {
	return &Comment{
		ID:        c.ID,
		TicketID:  c.TicketID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		IsPrivate: c.IsPrivate,
		CreatedAt: c.CreatedAt,
	}
}
