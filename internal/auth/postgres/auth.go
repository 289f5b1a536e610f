package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/auth"
	userDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND password_hash IS NOT NULL", email).
		Order("id ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

// UpsertByExternalID inserts the user on first sight and refreshes profile fields afterwards.
// Concurrent first logins race on the unique external_id index; the loser re-reads the winner's row.
func (r *Repository) UpsertByExternalID(ctx context.Context, id auth.Identity, defaultRole auth.Role) (*userDatamodel.User, error) {
	name := id.Name
	if name == "" {
		name = id.Email
	}

	var row userDatamodel.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidate := userDatamodel.User{
			ExternalID: id.ExternalID,
			Email:      id.Email,
			Name:       name,
			Role:       string(defaultRole),
			IsActive:   true,
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).Create(&candidate)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			row = candidate
			return nil
		}

		if err := tx.Where("external_id = ?", id.ExternalID).First(&row).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if id.Email != "" && id.Email != row.Email {
			updates["email"] = id.Email
		}
		if id.Name != "" && id.Name != row.Name {
			updates["name"] = id.Name
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&row).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) GetGrantCodes(ctx context.Context, userID int64) ([]auth.Code, error) {
	var raw []string
	err := r.db.WithContext(ctx).
		Table("user_permissions AS up").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Where("up.user_id = ?", userID).
		Order("p.code ASC").
		Pluck("p.code", &raw).Error
	if err != nil {
		return nil, err
	}

	codes := make([]auth.Code, 0, len(raw))
	for _, c := range raw {
		codes = append(codes, auth.Code(c))
	}
	return codes, nil
}
