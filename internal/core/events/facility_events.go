package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeDeploymentCreated   = "deployment.created"
	EventTypeTicketStatusChanged = "ticket.status_changed"
	EventTypeGrantsReplaced      = "user.grants_replaced"
)

type DeploymentCreatedEvent struct {
	BaseEvent
	DeploymentID  int64  `json:"deployment_id"`
	StorageItemID *int64 `json:"storage_item_id,omitempty"`
	AssetID       *int64 `json:"asset_id,omitempty"`
	Quantity      int    `json:"quantity"`
	FromRoomID    *int64 `json:"from_room_id,omitempty"`
	ToRoomID      int64  `json:"to_room_id"`
	DeployedBy    int64  `json:"deployed_by"`
}

func NewDeploymentCreatedEvent(deploymentID int64, storageItemID, assetID *int64, quantity int, fromRoomID *int64, toRoomID, deployedBy int64) *DeploymentCreatedEvent {
	data := map[string]interface{}{
		"deployment_id": deploymentID,
		"quantity":      quantity,
		"to_room_id":    toRoomID,
		"deployed_by":   deployedBy,
	}
	if storageItemID != nil {
		data["storage_item_id"] = *storageItemID
	}
	if assetID != nil {
		data["asset_id"] = *assetID
	}
	if fromRoomID != nil {
		data["from_room_id"] = *fromRoomID
	}

	return &DeploymentCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDeploymentCreated,
			Timestamp: time.Now(),
			Data:      data,
		},
		DeploymentID:  deploymentID,
		StorageItemID: storageItemID,
		AssetID:       assetID,
		Quantity:      quantity,
		FromRoomID:    fromRoomID,
		ToRoomID:      toRoomID,
		DeployedBy:    deployedBy,
	}
}

type TicketStatusChangedEvent struct {
	BaseEvent
	TicketID  int64  `json:"ticket_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy int64  `json:"changed_by"`
}

func NewTicketStatusChangedEvent(ticketID int64, from, to string, changedBy int64) *TicketStatusChangedEvent {
	return &TicketStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":  ticketID,
				"from":       from,
				"to":         to,
				"changed_by": changedBy,
			},
		},
		TicketID:  ticketID,
		From:      from,
		To:        to,
		ChangedBy: changedBy,
	}
}

type GrantsReplacedEvent struct {
	BaseEvent
	UserID    int64    `json:"user_id"`
	Codes     []string `json:"codes"`
	GrantedBy int64    `json:"granted_by"`
}

func NewGrantsReplacedEvent(userID int64, codes []string, grantedBy int64) *GrantsReplacedEvent {
	return &GrantsReplacedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGrantsReplaced,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":    userID,
				"codes":      codes,
				"granted_by": grantedBy,
			},
		},
		UserID:    userID,
		Codes:     codes,
		GrantedBy: grantedBy,
	}
}

// NewGenericEvent builds an ad-hoc event, used by the CLI to replay notifications.
func NewGenericEvent(eventType string, data map[string]interface{}) *BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
