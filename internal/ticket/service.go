package ticket

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/auth"
	ticketDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/ticket"
	"github.com/frahmantamala/facility-management/internal/core/events"
	"github.com/frahmantamala/facility-management/internal/facility"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*ticketDatamodel.Ticket, error)
	GetByID(ctx context.Context, id int64) (*ticketDatamodel.Ticket, error)
	Create(ctx context.Context, t *ticketDatamodel.Ticket) error
	Update(ctx context.Context, t *ticketDatamodel.Ticket) error
	// UpdateStatus persists t only while the stored status still equals from.
	UpdateStatus(ctx context.Context, t *ticketDatamodel.Ticket, from Status) error
	Delete(ctx context.Context, id int64) error
	UserExists(ctx context.Context, userID int64) (bool, error)
	ListComments(ctx context.Context, ticketID int64, includePrivate bool) ([]*ticketDatamodel.TicketComment, error)
	CreateComment(ctx context.Context, c *ticketDatamodel.TicketComment) error
}

type RoomLookup interface {
	GetRoom(ctx context.Context, id int64) (*facility.Room, error)
}

type Service struct {
	repo      RepositoryAPI
	rooms     RoomLookup
	checker   auth.PermissionChecker
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, rooms RoomLookup, checker auth.PermissionChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		rooms:     rooms,
		checker:   checker,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// isStaff reports whether user handles tickets on behalf of the facility team.
func (s *Service) isStaff(user *auth.User) bool {
	return s.checker.HasPermission(user, auth.TicketUpdate)
}

func (s *Service) Create(ctx context.Context, dto CreateTicketDTO, reporter *auth.User) (*Ticket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.RoomID != nil && s.rooms != nil {
		if _, err := s.rooms.GetRoom(ctx, *dto.RoomID); err != nil {
			return nil, err
		}
	}

	t := &Ticket{
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Type:        dto.Type,
		Status:      StatusOpen,
		Priority:    dto.Priority,
		ReporterID:  reporter.ID,
		RoomID:      dto.RoomID,
		AssetID:     dto.AssetID,
	}
	if t.Type == "" {
		t.Type = TypeRequest
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}

	row := ToDataModel(t)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create ticket", "reporter_id", reporter.ID, "error", err)
		return nil, err
	}

	s.logger.Info("ticket created", "ticket_id", row.ID, "reporter_id", reporter.ID)
	return FromDataModel(row), nil
}

// Get returns the ticket when the caller is staff or involved in it.
func (s *Service) Get(ctx context.Context, id int64, user *auth.User) (*Ticket, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t := FromDataModel(row)
	if !s.isStaff(user) && !t.Involves(user.ID) {
		return nil, internal.ErrUnauthorizedAccess
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, filter Filter, user *auth.User) ([]*Ticket, error) {
	if !s.isStaff(user) {
		filter.ReporterID = user.ID
		filter.AssigneeID = 0
	}
	if filter.Status != "" {
		st, ok := ParseStatus(filter.Status)
		if !ok {
			return nil, internal.NewValidationError("unknown ticket status "+filter.Status, internal.ErrCodeInvalidStatus)
		}
		filter.Status = string(st)
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	tickets := make([]*Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, FromDataModel(row))
	}
	return tickets, nil
}

// Update edits descriptive fields. Reporters may edit their own tickets while they are open.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateTicketDTO, user *auth.User) (*Ticket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if !s.isStaff(user) && (t.ReporterID != user.ID || t.Status != StatusOpen) {
		return nil, internal.ErrInsufficientPermissions
	}

	if dto.Title != nil {
		t.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.Type != nil {
		t.Type = *dto.Type
	}
	if dto.Priority != nil {
		t.Priority = *dto.Priority
	}

	row := ToDataModel(t)
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update ticket", "ticket_id", id, "error", err)
		return nil, err
	}
	return FromDataModel(row), nil
}

// UpdateStatus applies a state machine transition. Staff may take any valid
// transition; a reporter may only close or reopen their own ticket.
func (s *Service) UpdateStatus(ctx context.Context, id int64, dto UpdateStatusDTO, user *auth.User) (*Ticket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	to, _ := ParseStatus(dto.Status)

	t, err := s.Get(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if !s.isStaff(user) {
		if t.ReporterID != user.ID || (to != StatusClosed && to != StatusOpen) {
			return nil, internal.ErrInsufficientPermissions
		}
	}

	from := t.Status
	if err := t.TransitionTo(to, s.now()); err != nil {
		return nil, err
	}

	row := ToDataModel(t)
	if err := s.repo.UpdateStatus(ctx, row, from); err != nil {
		s.logger.Error("failed to update ticket status",
			"ticket_id", id, "from", from, "to", to, "error", err)
		return nil, err
	}

	s.logger.Info("ticket status changed", "ticket_id", id, "from", from, "to", to, "user_id", user.ID)
	if err := s.publisher.Publish(ctx, events.NewTicketStatusChangedEvent(id, string(from), string(to), user.ID)); err != nil {
		s.logger.Warn("failed to publish ticket status event", "ticket_id", id, "error", err)
	}
	return FromDataModel(row), nil
}

// Assign sets or clears the assignee. Staff only.
func (s *Service) Assign(ctx context.Context, id int64, dto AssignDTO, user *auth.User) (*Ticket, error) {
	if !s.isStaff(user) {
		return nil, internal.ErrInsufficientPermissions
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.AssigneeID != nil {
		exists, err := s.repo.UserExists(ctx, *dto.AssigneeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, internal.ErrUserNotFound
		}
	}

	row.AssigneeID = dto.AssigneeID
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to assign ticket", "ticket_id", id, "error", err)
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64, user *auth.User) error {
	t, err := s.Get(ctx, id, user)
	if err != nil {
		return err
	}
	if !s.checker.HasPermission(user, auth.TicketDelete) && t.ReporterID != user.ID {
		return internal.ErrInsufficientPermissions
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete ticket", "ticket_id", id, "error", err)
		return err
	}
	return nil
}

func (s *Service) AddComment(ctx context.Context, ticketID int64, dto CreateCommentDTO, user *auth.User) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, ticketID, user); err != nil {
		return nil, err
	}
	if dto.IsPrivate && !s.isStaff(user) {
		return nil, internal.ErrInsufficientPermissions.WithMessage("only staff can add private comments")
	}

	row := &ticketDatamodel.TicketComment{
		TicketID:  ticketID,
		AuthorID:  user.ID,
		Body:      strings.TrimSpace(dto.Body),
		IsPrivate: dto.IsPrivate,
	}
	if err := s.repo.CreateComment(ctx, row); err != nil {
		s.logger.Error("failed to add ticket comment", "ticket_id", ticketID, "error", err)
		return nil, err
	}
	return CommentFromDataModel(row), nil
}

// ListComments hides private comments from callers who are not staff.
func (s *Service) ListComments(ctx context.Context, ticketID int64, user *auth.User) ([]*Comment, error) {
	if _, err := s.Get(ctx, ticketID, user); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListComments(ctx, ticketID, s.isStaff(user))
	if err != nil {
		return nil, err
	}
	comments := make([]*Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, CommentFromDataModel(row))
	}
	return comments, nil
}
