package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/facility-management/internal/deployment"
	"github.com/jmoiron/sqlx"
)

const ledgerSelect = `
SELECT d.id, d.storage_item_id, si.name AS storage_item_name,
       d.asset_id, a.tag AS asset_tag, a.name AS asset_name,
       d.quantity, d.serial_number,
       d.from_room_id, fr.name AS from_room_name,
       d.to_room_id, tr.name AS to_room_name,
       d.deployed_at, d.deployed_by, u.name AS deployed_by_name,
       d.remarks
FROM deployment_records d
LEFT JOIN storage_items si ON si.id = d.storage_item_id
LEFT JOIN assets a ON a.id = d.asset_id
LEFT JOIN rooms fr ON fr.id = d.from_room_id
LEFT JOIN rooms tr ON tr.id = d.to_room_id
LEFT JOIN users u ON u.id = d.deployed_by`

const ledgerCount = `SELECT COUNT(*) FROM deployment_records d`

// LedgerRepository reads the deployment ledger with plain SQL through sqlx.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) ListDeployments(ctx context.Context, filter deployment.LedgerFilter) ([]deployment.LedgerEntry, int64, error) {
	where, args := ledgerWhere(filter)

	var total int64
	countQuery := r.db.Rebind(ledgerCount + where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count deployments: %w", err)
	}

	query := ledgerSelect + where + " ORDER BY d.deployed_at DESC, d.id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	entries := []deployment.LedgerEntry{}
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list deployments: %w", err)
	}
	return entries, total, nil
}

func ledgerWhere(filter deployment.LedgerFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.StorageItemID != 0 {
		conds = append(conds, "d.storage_item_id = ?")
		args = append(args, filter.StorageItemID)
	}
	if filter.AssetID != 0 {
		conds = append(conds, "d.asset_id = ?")
		args = append(args, filter.AssetID)
	}
	if filter.RoomID != 0 {
		conds = append(conds, "(d.to_room_id = ? OR d.from_room_id = ?)")
		args = append(args, filter.RoomID, filter.RoomID)
	}
	if filter.DeployedBy != 0 {
		conds = append(conds, "d.deployed_by = ?")
		args = append(args, filter.DeployedBy)
	}
	if filter.Since != nil {
		conds = append(conds, "d.deployed_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		conds = append(conds, "d.deployed_at < ?")
		args = append(args, *filter.Until)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
