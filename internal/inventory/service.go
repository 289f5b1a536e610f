package inventory

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/facility-management/internal"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/facility-management/internal/facility"
)

type RepositoryAPI interface {
	ListStorageItems(ctx context.Context, filter StorageItemFilter) ([]*inventoryDatamodel.StorageItem, error)
	GetStorageItemByID(ctx context.Context, id int64) (*inventoryDatamodel.StorageItem, error)
	CreateStorageItem(ctx context.Context, item *inventoryDatamodel.StorageItem) error
	UpdateStorageItem(ctx context.Context, item *inventoryDatamodel.StorageItem) error
	// DeleteStorageItem refuses with ErrHasDeploymentHistory when a ledger row references the item.
	DeleteStorageItem(ctx context.Context, id int64) error

	ListAssets(ctx context.Context, filter AssetFilter) ([]*inventoryDatamodel.Asset, error)
	GetAssetByID(ctx context.Context, id int64) (*inventoryDatamodel.Asset, error)
	GetAssetByTag(ctx context.Context, tag string) (*inventoryDatamodel.Asset, error)
	CreateAsset(ctx context.Context, asset *inventoryDatamodel.Asset) error
	UpdateAsset(ctx context.Context, asset *inventoryDatamodel.Asset) error
	DeleteAsset(ctx context.Context, id int64) error
}

// RoomLookup resolves a room or fails with ErrRoomNotFound.
type RoomLookup interface {
	GetRoom(ctx context.Context, id int64) (*facility.Room, error)
}

// HistoryChecker reports whether the deployment ledger references a record.
type HistoryChecker interface {
	HasStorageItemHistory(ctx context.Context, storageItemID int64) (bool, error)
	HasAssetHistory(ctx context.Context, assetID int64) (bool, error)
}

type Service struct {
	repo    RepositoryAPI
	rooms   RoomLookup
	history HistoryChecker
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, rooms RoomLookup, history HistoryChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		rooms:   rooms,
		history: history,
		logger:  logger,
	}
}

func (s *Service) ListStorageItems(ctx context.Context, filter StorageItemFilter) ([]*StorageItem, error) {
	rows, err := s.repo.ListStorageItems(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list storage items", "error", err)
		return nil, err
	}

	items := make([]*StorageItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, StorageItemFromDataModel(row))
	}
	return items, nil
}

func (s *Service) GetStorageItem(ctx context.Context, id int64) (*StorageItem, error) {
	row, err := s.repo.GetStorageItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return StorageItemFromDataModel(row), nil
}

func (s *Service) CreateStorageItem(ctx context.Context, dto CreateStorageItemDTO) (*StorageItem, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item := &StorageItem{
		Name:          strings.TrimSpace(dto.Name),
		ItemType:      strings.TrimSpace(dto.ItemType),
		SubType:       normalizeSubType(dto.SubType),
		Quantity:      dto.Quantity,
		Unit:          dto.Unit,
		Remarks:       dto.Remarks,
		SerialNumbers: cleanSerials(dto.SerialNumbers),
	}
	if err := item.CheckSerials(); err != nil {
		return nil, err
	}

	row := StorageItemToDataModel(item)
	if err := s.repo.CreateStorageItem(ctx, row); err != nil {
		s.logger.Error("failed to create storage item", "name", item.Name, "error", err)
		return nil, err
	}

	s.logger.Info("storage item created", "storage_item_id", row.ID, "quantity", row.Quantity)
	return StorageItemFromDataModel(row), nil
}

// UpdateStorageItem edits descriptive fields and restocks. Lowering quantity is rejected;
// stock leaves storage only through a deployment.
func (s *Service) UpdateStorageItem(ctx context.Context, id int64, dto UpdateStorageItemDTO) (*StorageItem, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetStorageItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item := StorageItemFromDataModel(row)

	if dto.Quantity != nil {
		if *dto.Quantity < item.Quantity {
			return nil, internal.ErrQuantityDecrease
		}
		item.Quantity = *dto.Quantity
	}
	if dto.Name != nil {
		item.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.ItemType != nil {
		item.ItemType = strings.TrimSpace(*dto.ItemType)
	}
	if dto.SubType != nil {
		item.SubType = normalizeSubType(dto.SubType)
	}
	if dto.Unit != nil {
		item.Unit = *dto.Unit
	}
	if dto.Remarks != nil {
		item.Remarks = *dto.Remarks
	}
	if dto.SerialNumbers != nil {
		item.SerialNumbers = cleanSerials(*dto.SerialNumbers)
	}
	if err := item.CheckSerials(); err != nil {
		return nil, err
	}

	updated := StorageItemToDataModel(item)
	if err := s.repo.UpdateStorageItem(ctx, updated); err != nil {
		s.logger.Error("failed to update storage item", "storage_item_id", id, "error", err)
		return nil, err
	}
	return StorageItemFromDataModel(updated), nil
}

func (s *Service) DeleteStorageItem(ctx context.Context, id int64) error {
	if _, err := s.repo.GetStorageItemByID(ctx, id); err != nil {
		return err
	}

	used, err := s.history.HasStorageItemHistory(ctx, id)
	if err != nil {
		s.logger.Error("failed to check storage item history", "storage_item_id", id, "error", err)
		return err
	}
	if used {
		return internal.ErrHasDeploymentHistory
	}

	if err := s.repo.DeleteStorageItem(ctx, id); err != nil {
		if !errors.Is(err, internal.ErrHasDeploymentHistory) {
			s.logger.Error("failed to delete storage item", "storage_item_id", id, "error", err)
		}
		return err
	}

	s.logger.Info("storage item deleted", "storage_item_id", id)
	return nil
}

func (s *Service) ListAssets(ctx context.Context, filter AssetFilter) ([]*Asset, error) {
	rows, err := s.repo.ListAssets(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list assets", "error", err)
		return nil, err
	}

	assets := make([]*Asset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, AssetFromDataModel(row))
	}
	return assets, nil
}

func (s *Service) GetAsset(ctx context.Context, id int64) (*Asset, error) {
	row, err := s.repo.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return AssetFromDataModel(row), nil
}

func (s *Service) CreateAsset(ctx context.Context, dto CreateAssetDTO) (*Asset, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.rooms.GetRoom(ctx, dto.RoomID); err != nil {
		return nil, err
	}

	tag := strings.TrimSpace(dto.Tag)
	existing, err := s.repo.GetAssetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrDuplicate.WithMessage("asset tag already exists")
	}

	row := AssetToDataModel(&Asset{
		Tag:          tag,
		Name:         strings.TrimSpace(dto.Name),
		AssetType:    dto.AssetType,
		SerialNumber: dto.SerialNumber,
		RoomID:       dto.RoomID,
		Remarks:      dto.Remarks,
	})
	if err := s.repo.CreateAsset(ctx, row); err != nil {
		s.logger.Error("failed to create asset", "tag", tag, "error", err)
		return nil, err
	}

	s.logger.Info("asset created", "asset_id", row.ID, "room_id", row.RoomID)
	return AssetFromDataModel(row), nil
}

func (s *Service) UpdateAsset(ctx context.Context, id int64, dto UpdateAssetDTO) (*Asset, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Tag != nil {
		tag := strings.TrimSpace(*dto.Tag)
		if tag != row.Tag {
			existing, err := s.repo.GetAssetByTag(ctx, tag)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, internal.ErrDuplicate.WithMessage("asset tag already exists")
			}
		}
		row.Tag = tag
	}
	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.AssetType != nil {
		row.AssetType = *dto.AssetType
	}
	if dto.SerialNumber != nil {
		row.SerialNumber = dto.SerialNumber
	}
	if dto.Remarks != nil {
		row.Remarks = *dto.Remarks
	}

	if err := s.repo.UpdateAsset(ctx, row); err != nil {
		s.logger.Error("failed to update asset", "asset_id", id, "error", err)
		return nil, err
	}
	return AssetFromDataModel(row), nil
}

func (s *Service) DeleteAsset(ctx context.Context, id int64) error {
	if _, err := s.repo.GetAssetByID(ctx, id); err != nil {
		return err
	}

	used, err := s.history.HasAssetHistory(ctx, id)
	if err != nil {
		s.logger.Error("failed to check asset history", "asset_id", id, "error", err)
		return err
	}
	if used {
		return internal.ErrHasDeploymentHistory
	}

	if err := s.repo.DeleteAsset(ctx, id); err != nil {
		if !errors.Is(err, internal.ErrHasDeploymentHistory) {
			s.logger.Error("failed to delete asset", "asset_id", id, "error", err)
		}
		return err
	}

	s.logger.Info("asset deleted", "asset_id", id)
	return nil
}

func cleanSerials(in []string) []string {
	out := make([]string, 0, len(in))
	for _, sn := range in {
		if sn = strings.TrimSpace(sn); sn != "" {
			out = append(out, sn)
		}
	}
	return out
}
