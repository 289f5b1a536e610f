package deployment

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/facility-management/internal"
	deploymentDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/deployment"
	"github.com/frahmantamala/facility-management/internal/core/events"
	"github.com/frahmantamala/facility-management/internal/facility"
)

// RepositoryAPI runs each deployment as a single transaction: the stock or room mutation
// and the ledger insert commit together or not at all.
type RepositoryAPI interface {
	DeployStorageItem(ctx context.Context, cmd StorageItemCommand) (*deploymentDatamodel.DeploymentRecord, error)
	DeployAsset(ctx context.Context, cmd AssetCommand) (*deploymentDatamodel.DeploymentRecord, error)
	HasStorageItemHistory(ctx context.Context, storageItemID int64) (bool, error)
	HasAssetHistory(ctx context.Context, assetID int64) (bool, error)
}

// LedgerReader serves the joined read model of the ledger.
type LedgerReader interface {
	ListDeployments(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error)
}

type RoomLookup interface {
	GetRoom(ctx context.Context, id int64) (*facility.Room, error)
}

type Service struct {
	repo      RepositoryAPI
	ledger    LedgerReader
	rooms     RoomLookup
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, ledger LedgerReader, rooms RoomLookup, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		rooms:     rooms,
		publisher: publisher,
		logger:    logger,
	}
}

// Deploy moves stock or an asset into the destination room and appends a ledger entry.
func (s *Service) Deploy(ctx context.Context, dto DeployDTO, deployedBy int64) (*Deployment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.rooms.GetRoom(ctx, dto.DestinationRoomID); err != nil {
		return nil, err
	}

	var (
		record *deploymentDatamodel.DeploymentRecord
		err    error
	)
	if dto.StorageItemID != nil {
		record, err = s.repo.DeployStorageItem(ctx, StorageItemCommand{
			StorageItemID: *dto.StorageItemID,
			Quantity:      dto.Quantity,
			SerialNumber:  dto.SerialNumber,
			ToRoomID:      dto.DestinationRoomID,
			DeployedBy:    deployedBy,
			Remarks:       dto.Remarks,
		})
	} else {
		record, err = s.repo.DeployAsset(ctx, AssetCommand{
			AssetID:    *dto.AssetID,
			ToRoomID:   dto.DestinationRoomID,
			DeployedBy: deployedBy,
			Remarks:    dto.Remarks,
		})
	}
	if err != nil {
		s.logFailure(err, dto, deployedBy)
		return nil, err
	}

	s.logger.Info("deployment recorded",
		"deployment_id", record.ID,
		"storage_item_id", deref(record.StorageItemID),
		"asset_id", deref(record.AssetID),
		"quantity", record.Quantity,
		"to_room_id", record.ToRoomID,
		"deployed_by", deployedBy)

	event := events.NewDeploymentCreatedEvent(record.ID, record.StorageItemID, record.AssetID, record.Quantity, record.FromRoomID, record.ToRoomID, record.DeployedBy)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish deployment event", "deployment_id", record.ID, "error", err)
	}

	return FromDataModel(record), nil
}

func (s *Service) ListDeployments(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error) {
	entries, total, err := s.ledger.ListDeployments(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list deployments", "error", err)
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *Service) HasStorageItemHistory(ctx context.Context, storageItemID int64) (bool, error) {
	return s.repo.HasStorageItemHistory(ctx, storageItemID)
}

func (s *Service) HasAssetHistory(ctx context.Context, assetID int64) (bool, error) {
	return s.repo.HasAssetHistory(ctx, assetID)
}

func (s *Service) logFailure(err error, dto DeployDTO, deployedBy int64) {
	attrs := []any{
		"storage_item_id", deref(dto.StorageItemID),
		"asset_id", deref(dto.AssetID),
		"quantity", dto.Quantity,
		"destination_room_id", dto.DestinationRoomID,
		"deployed_by", deployedBy,
		"error", err,
	}
	if _, ok := internal.IsAppError(err); ok {
		s.logger.Warn("deployment rejected", attrs...)
		return
	}
	s.logger.Error("deployment failed", attrs...)
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
