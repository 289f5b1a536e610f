package ticket

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/facility-management/internal/auth"
	"github.com/frahmantamala/facility-management/internal/transport"
	"github.com/frahmantamala/facility-management/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateTicketDTO, reporter *auth.User) (*Ticket, error)
	Get(ctx context.Context, id int64, user *auth.User) (*Ticket, error)
	List(ctx context.Context, filter Filter, user *auth.User) ([]*Ticket, error)
	Update(ctx context.Context, id int64, dto UpdateTicketDTO, user *auth.User) (*Ticket, error)
	UpdateStatus(ctx context.Context, id int64, dto UpdateStatusDTO, user *auth.User) (*Ticket, error)
	Assign(ctx context.Context, id int64, dto AssignDTO, user *auth.User) (*Ticket, error)
	Delete(ctx context.Context, id int64, user *auth.User) error
	AddComment(ctx context.Context, ticketID int64, dto CreateCommentDTO, user *auth.User) (*Comment, error)
	ListComments(ctx context.Context, ticketID int64, user *auth.User) ([]*Comment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request, op string) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.Logger.Error(op + ": user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "ListTickets")
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := Filter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	}
	for name, dst := range map[string]*int64{
		"reporter_id": &filter.ReporterID,
		"assignee_id": &filter.AssigneeID,
		"room_id":     &filter.RoomID,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || v <= 0 {
				h.WriteError(w, http.StatusBadRequest, "invalid "+name)
				return
			}
			*dst = v
		}
	}
	filter.Limit, filter.Offset = h.Pagination(r)

	tickets, err := h.Service.List(r.Context(), filter, user)
	if err != nil {
		h.Logger.Error("ListTickets: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TicketsResponse{Tickets: tickets, Limit: filter.Limit, Offset: filter.Offset})
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "GetTicket")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.Service.Get(r.Context(), id, user)
	if err != nil {
		h.Logger.Warn("GetTicket: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "CreateTicket")
	if !ok {
		return
	}
	var dto CreateTicketDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	t, err := h.Service.Create(r.Context(), dto, user)
	if err != nil {
		h.Logger.Warn("CreateTicket: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "UpdateTicket")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateTicketDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	t, err := h.Service.Update(r.Context(), id, dto, user)
	if err != nil {
		h.Logger.Warn("UpdateTicket: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "UpdateTicketStatus")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	t, err := h.Service.UpdateStatus(r.Context(), id, dto, user)
	if err != nil {
		h.Logger.Warn("UpdateTicketStatus: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) AssignTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "AssignTicket")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var dto AssignDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	t, err := h.Service.Assign(r.Context(), id, dto, user)
	if err != nil {
		h.Logger.Warn("AssignTicket: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "DeleteTicket")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id, user); err != nil {
		h.Logger.Warn("DeleteTicket: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "ListComments")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.Service.ListComments(r.Context(), id, user)
	if err != nil {
		h.Logger.Warn("ListComments: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CommentsResponse{Comments: comments})
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r, "AddComment")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var dto CreateCommentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.AddComment(r.Context(), id, dto, user)
	if err != nil {
		h.Logger.Warn("AddComment: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}
