package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/facility-management/internal"
	ticketDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/ticket"
	userDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/user"
	"github.com/frahmantamala/facility-management/internal/ticket"
	"gorm.io/gorm"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) ticket.RepositoryAPI {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticketDatamodel.Ticket, error) {
	query := r.db.WithContext(ctx).Model(&ticketDatamodel.Ticket{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.ReporterID > 0 {
		query = query.Where("reporter_id = ?", filter.ReporterID)
	}
	if filter.AssigneeID > 0 {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.RoomID > 0 {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var tickets []*ticketDatamodel.Ticket
	err := query.Order("created_at DESC, id DESC").Find(&tickets).Error
	return tickets, err
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*ticketDatamodel.Ticket, error) {
	var t ticketDatamodel.Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) Create(ctx context.Context, t *ticketDatamodel.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TicketRepository) Update(ctx context.Context, t *ticketDatamodel.Ticket) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, t *ticketDatamodel.Ticket, from ticket.Status) error {
	res := r.db.WithContext(ctx).
		Model(&ticketDatamodel.Ticket{}).
		Where("id = ? AND status = ?", t.ID, string(from)).
		Updates(map[string]interface{}{
			"status":      t.Status,
			"resolved_at": t.ResolvedAt,
			"closed_at":   t.ClosedAt,
			"updated_at":  t.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrConcurrentUpdate.WithMessage("ticket status changed concurrently")
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&ticketDatamodel.TicketComment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&ticketDatamodel.Ticket{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrTicketNotFound
		}
		return nil
	})
}

func (r *TicketRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *TicketRepository) ListComments(ctx context.Context, ticketID int64, includePrivate bool) ([]*ticketDatamodel.TicketComment, error) {
	query := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID)
	if !includePrivate {
		query = query.Where("is_private = ?", false)
	}

	var comments []*ticketDatamodel.TicketComment
	err := query.Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, err
}

func (r *TicketRepository) CreateComment(ctx context.Context, c *ticketDatamodel.TicketComment) error {
	return r.db.WithContext(ctx).Create(c).Error
}
