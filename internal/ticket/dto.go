package ticket

import (
	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/core/common/validation"
)

type CreateTicketDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	RoomID      *int64 `json:"room_id"`
	AssetID     *int64 `json:"asset_id"`
}

func (d CreateTicketDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("description", d.Description).MaxLength(5000)
	v.Field("type", d.Type).OneOf(Types...)
	v.Field("priority", d.Priority).OneOf(Priorities...)
	if d.RoomID != nil {
		v.Field("room_id", *d.RoomID).MinInt(1, internal.ErrCodeInvalidID)
	}
	if d.AssetID != nil {
		v.Field("asset_id", *d.AssetID).MinInt(1, internal.ErrCodeInvalidID)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateTicketDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Priority    *string `json:"priority"`
}

func (d UpdateTicketDTO) Validate() error {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", d.Title).Required()
		v.Field("title", *d.Title).MaxLength(200)
	}
	if d.Type != nil {
		v.Field("type", d.Type).Required()
		v.Field("type", *d.Type).OneOf(Types...)
	}
	if d.Priority != nil {
		v.Field("priority", d.Priority).Required()
		v.Field("priority", *d.Priority).OneOf(Priorities...)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateStatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(
		string(StatusOpen), string(StatusInProgress), string(StatusResolved), string(StatusClosed))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// AssignDTO clears the assignee when AssigneeID is nil.
type AssignDTO struct {
	AssigneeID *int64 `json:"assignee_id"`
}

type CreateCommentDTO struct {
	Body      string `json:"body"`
	IsPrivate bool   `json:"is_private"`
}

func (d CreateCommentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("body", d.Body).Required().MaxLength(5000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type TicketsResponse struct {
	Tickets []*Ticket `json:"tickets"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
}

type CommentsResponse struct {
	Comments []*Comment `json:"comments"`
}
