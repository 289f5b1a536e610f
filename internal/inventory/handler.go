package inventory

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/facility-management/internal/transport"
	"github.com/frahmantamala/facility-management/pkg/logger"
)

type ServiceAPI interface {
	ListStorageItems(ctx context.Context, filter StorageItemFilter) ([]*StorageItem, error)
	GetStorageItem(ctx context.Context, id int64) (*StorageItem, error)
	CreateStorageItem(ctx context.Context, dto CreateStorageItemDTO) (*StorageItem, error)
	UpdateStorageItem(ctx context.Context, id int64, dto UpdateStorageItemDTO) (*StorageItem, error)
	DeleteStorageItem(ctx context.Context, id int64) error
	ExportStorageItems(ctx context.Context, filter StorageItemFilter) ([]byte, error)

	ListAssets(ctx context.Context, filter AssetFilter) ([]*Asset, error)
	GetAsset(ctx context.Context, id int64) (*Asset, error)
	CreateAsset(ctx context.Context, dto CreateAssetDTO) (*Asset, error)
	UpdateAsset(ctx context.Context, id int64, dto UpdateAssetDTO) (*Asset, error)
	DeleteAsset(ctx context.Context, id int64) error
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

func storageFilter(r *http.Request) StorageItemFilter {
	q := r.URL.Query()
	return StorageItemFilter{
		ItemType: q.Get("item_type"),
		SubType:  q.Get("sub_type"),
		Search:   q.Get("q"),
	}
}

func (h *Handler) ListStorageItems(w http.ResponseWriter, r *http.Request) {
	filter := storageFilter(r)
	filter.Limit, filter.Offset = h.Pagination(r)

	items, err := h.Service.ListStorageItems(r.Context(), filter)
	if err != nil {
		h.Logger.Error("ListStorageItems: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, StorageItemsResponse{Items: items, Limit: filter.Limit, Offset: filter.Offset})
}

func (h *Handler) GetStorageItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.Service.GetStorageItem(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateStorageItem(w http.ResponseWriter, r *http.Request) {
	var dto CreateStorageItemDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	item, err := h.Service.CreateStorageItem(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateStorageItem: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateStorageItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateStorageItemDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	item, err := h.Service.UpdateStorageItem(r.Context(), id, dto)
	if err != nil {
		h.Logger.Warn("UpdateStorageItem: service error", "error", err, "storage_item_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteStorageItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteStorageItem(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportStorageItems(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ExportStorageItems(r.Context(), storageFilter(r))
	if err != nil {
		h.Logger.Error("ExportStorageItems: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	filename := "storage-items-" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("ExportStorageItems: failed to write body", "error", err)
	}
}

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := AssetFilter{
		AssetType: q.Get("asset_type"),
		Search:    q.Get("q"),
	}
	if raw := q.Get("room_id"); raw != "" {
		roomID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || roomID <= 0 {
			h.WriteError(w, http.StatusBadRequest, "invalid room_id")
			return
		}
		filter.RoomID = roomID
	}
	filter.Limit, filter.Offset = h.Pagination(r)

	assets, err := h.Service.ListAssets(r.Context(), filter)
	if err != nil {
		h.Logger.Error("ListAssets: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, AssetsResponse{Assets: assets, Limit: filter.Limit, Offset: filter.Offset})
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	asset, err := h.Service.GetAsset(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, asset)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var dto CreateAssetDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	asset, err := h.Service.CreateAsset(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateAsset: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, asset)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateAssetDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	asset, err := h.Service.UpdateAsset(r.Context(), id, dto)
	if err != nil {
		h.Logger.Warn("UpdateAsset: service error", "error", err, "asset_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteAsset(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
