package deployment

import (
	"strings"
	"time"

	"github.com/frahmantamala/facility-management/internal"
	deploymentDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/deployment"
	"github.com/frahmantamala/facility-management/internal/inventory"
)

// Deployment is one ledger entry. Entries are never updated or deleted.
type Deployment struct {
	ID            int64     `json:"id"`
	StorageItemID *int64    `json:"storage_item_id,omitempty"`
	AssetID       *int64    `json:"asset_id,omitempty"`
	Quantity      int       `json:"quantity"`
	SerialNumber  *string   `json:"serial_number,omitempty"`
	FromRoomID    *int64    `json:"from_room_id,omitempty"`
	ToRoomID      int64     `json:"to_room_id"`
	DeployedAt    time.Time `json:"deployed_at"`
	DeployedBy    int64     `json:"deployed_by"`
	Remarks       string    `json:"remarks"`
}

func FromDataModel(r *deploymentDatamodel.DeploymentRecord) *Deployment {
	return &Deployment{
		ID:            r.ID,
		StorageItemID: r.StorageItemID,
		AssetID:       r.AssetID,
		Quantity:      r.Quantity,
		SerialNumber:  r.SerialNumber,
		FromRoomID:    r.FromRoomID,
		ToRoomID:      r.ToRoomID,
		DeployedAt:    r.DeployedAt,
		DeployedBy:    r.DeployedBy,
		Remarks:       r.Remarks,
	}
}

// StockSnapshot is the locked state of a storage item inside a deployment transaction.
type StockSnapshot struct {
	Quantity      int
	SubType       *string
	SerialNumbers []string
}

func (s StockSnapshot) Serialized() bool {
	return s.SubType != nil && inventory.IsSerializedSubType(*s.SubType)
}

// Withdrawal is the result of checking a request against a snapshot.
type Withdrawal struct {
	Remaining      []string
	SerialsChanged bool
	// SerialNumber is the trimmed serial to record on the ledger, nil when none was given.
	SerialNumber *string
}

// Withdraw checks a request against the snapshot. The snapshot itself is not modified.
func (s StockSnapshot) Withdraw(quantity int, serial *string) (Withdrawal, error) {
	if quantity < 1 {
		return Withdrawal{}, internal.ErrInvalidQuantity
	}
	if quantity > s.Quantity {
		return Withdrawal{}, internal.ErrInsufficientQuantity
	}

	var wanted *string
	if serial != nil {
		if trimmed := strings.TrimSpace(*serial); trimmed != "" {
			wanted = &trimmed
		}
	}

	if !s.Serialized() {
		return Withdrawal{Remaining: s.SerialNumbers, SerialNumber: wanted}, nil
	}

	if wanted == nil {
		return Withdrawal{}, internal.ErrSerialNumberRequired
	}

	idx := -1
	for i, sn := range s.SerialNumbers {
		if sn == *wanted {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Withdrawal{}, internal.ErrInvalidSerialNumber
	}
	if quantity != 1 {
		return Withdrawal{}, internal.ErrSerialQuantityMismatch
	}

	remaining := make([]string, 0, len(s.SerialNumbers)-1)
	remaining = append(remaining, s.SerialNumbers[:idx]...)
	remaining = append(remaining, s.SerialNumbers[idx+1:]...)
	return Withdrawal{Remaining: remaining, SerialsChanged: true, SerialNumber: wanted}, nil
}

// StorageItemCommand moves quantity units of a storage item into a room.
type StorageItemCommand struct {
	StorageItemID int64
	Quantity      int
	SerialNumber  *string
	ToRoomID      int64
	DeployedBy    int64
	Remarks       string
}

// AssetCommand relocates a single asset.
type AssetCommand struct {
	AssetID    int64
	ToRoomID   int64
	DeployedBy int64
	Remarks    string
}

// LedgerEntry is a ledger row joined with the names of what it references.
type LedgerEntry struct {
	ID              int64     `db:"id" json:"id"`
	StorageItemID   *int64    `db:"storage_item_id" json:"storage_item_id,omitempty"`
	StorageItemName *string   `db:"storage_item_name" json:"storage_item_name,omitempty"`
	AssetID         *int64    `db:"asset_id" json:"asset_id,omitempty"`
	AssetTag        *string   `db:"asset_tag" json:"asset_tag,omitempty"`
	AssetName       *string   `db:"asset_name" json:"asset_name,omitempty"`
	Quantity        int       `db:"quantity" json:"quantity"`
	SerialNumber    *string   `db:"serial_number" json:"serial_number,omitempty"`
	FromRoomID      *int64    `db:"from_room_id" json:"from_room_id,omitempty"`
	FromRoomName    *string   `db:"from_room_name" json:"from_room_name,omitempty"`
	ToRoomID        int64     `db:"to_room_id" json:"to_room_id"`
	ToRoomName      *string   `db:"to_room_name" json:"to_room_name,omitempty"`
	DeployedAt      time.Time `db:"deployed_at" json:"deployed_at"`
	DeployedBy      int64     `db:"deployed_by" json:"deployed_by"`
	DeployedByName  *string   `db:"deployed_by_name" json:"deployed_by_name,omitempty"`
	Remarks         string    `db:"remarks" json:"remarks"`
}

// LedgerFilter narrows ListDeployments. RoomID matches either side of a move.
type LedgerFilter struct {
	StorageItemID int64
	AssetID       int64
	RoomID        int64
	DeployedBy    int64
	Since         *time.Time
	Until         *time.Time
	Limit         int
	Offset        int
}
