package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/facility-management/internal/auth"
	"github.com/frahmantamala/facility-management/internal/transport"
	"github.com/frahmantamala/facility-management/pkg/logger"
)

type ServiceAPI interface {
	Me(ctx context.Context, principal *auth.User) (*Profile, error)
	Capabilities(principal *auth.User, resourceType string) map[auth.Resource]auth.Capabilities
	List(ctx context.Context, limit, offset int) ([]*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	UpdateRole(ctx context.Context, id int64, dto UpdateRoleDTO, actor *auth.User) (*User, error)
	SetActive(ctx context.Context, id int64, dto UpdateStatusDTO, actor *auth.User) (*User, error)
	ReplaceGrants(ctx context.Context, id int64, dto ReplaceGrantsDTO, actor *auth.User) (*User, error)
	Delete(ctx context.Context, id int64, actor *auth.User) error
	ListPermissions(ctx context.Context) ([]*Permission, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request, op string) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.Logger.Error(op + ": user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.principal(w, r, "GetCurrentUser")
	if !ok {
		return
	}

	profile, err := h.Service.Me(r.Context(), user)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "user_id", user.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

// GetCapabilities handles GET /users/me/capabilities[?resource=room]
func (h *Handler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	user, ok := h.principal(w, r, "GetCapabilities")
	if !ok {
		return
	}
	caps := h.Service.Capabilities(user, r.URL.Query().Get("resource"))
	h.WriteJSON(w, http.StatusOK, CapabilitiesResponse{Capabilities: caps})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.Pagination(r)
	users, err := h.Service.List(r.Context(), limit, offset)
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users, Limit: limit, Offset: offset})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.Logger.Warn("GetUser: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r, "UpdateRole")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.UpdateRole(r.Context(), id, dto, actor)
	if err != nil {
		h.Logger.Warn("UpdateRole: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r, "UpdateStatus")
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

	u, err := h.Service.SetActive(r.Context(), id, dto, actor)
	if err != nil {
		h.Logger.Warn("UpdateStatus: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ReplaceGrants(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r, "ReplaceGrants")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var dto ReplaceGrantsDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.ReplaceGrants(r.Context(), id, dto, actor)
	if err != nil {
		h.Logger.Warn("ReplaceGrants: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r, "DeleteUser")
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id, actor); err != nil {
		h.Logger.Warn("DeleteUser: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListPermissions(r.Context())
	if err != nil {
		h.Logger.Error("ListPermissions: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PermissionsResponse{Permissions: perms})
}
