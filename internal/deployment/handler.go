package deployment

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/facility-management/internal/auth"
	"github.com/frahmantamala/facility-management/internal/transport"
	"github.com/frahmantamala/facility-management/pkg/logger"
)

type ServiceAPI interface {
	Deploy(ctx context.Context, dto DeployDTO, deployedBy int64) (*Deployment, error)
	ListDeployments(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error)
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

func (h *Handler) CreateDeployment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.Logger.Error("CreateDeployment: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto DeployDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	record, err := h.Service.Deploy(r.Context(), dto, user.ID)
	if err != nil {
		h.Logger.Warn("CreateDeployment: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) ListDeployments(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLedgerFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Limit, filter.Offset = h.Pagination(r)

	entries, total, err := h.Service.ListDeployments(r.Context(), filter)
	if err != nil {
		h.Logger.Error("ListDeployments: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DeploymentsResponse{
		Deployments: entries,
		Total:       total,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

type queryError string

func (e queryError) Error() string {
	return string(e)
}

func parseLedgerFilter(r *http.Request) (LedgerFilter, error) {
	q := r.URL.Query()
	var filter LedgerFilter

	ids := []struct {
		name string
		dst  *int64
	}{
		{"storage_item_id", &filter.StorageItemID},
		{"asset_id", &filter.AssetID},
		{"room_id", &filter.RoomID},
		{"deployed_by", &filter.DeployedBy},
	}
	for _, p := range ids {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			return LedgerFilter{}, queryError("invalid " + p.name)
		}
		*p.dst = v
	}

	times := []struct {
		name string
		dst  **time.Time
	}{
		{"since", &filter.Since},
		{"until", &filter.Until},
	}
	for _, p := range times {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return LedgerFilter{}, queryError("invalid " + p.name + ", expected RFC3339")
		}
		*p.dst = &t
	}

	return filter, nil
}
