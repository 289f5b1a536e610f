package postgres

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/auth"
	userDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/user"
	"github.com/frahmantamala/facility-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*userDatamodel.User, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var users []*userDatamodel.User
	err := query.Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetGrantCodes(ctx context.Context, userID int64) ([]auth.Code, error) {
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

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role auth.Role) error {
	return r.updateColumn(ctx, id, "role", string(role))
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.updateColumn(ctx, id, "is_active", active)
}

func (r *UserRepository) updateColumn(ctx context.Context, id int64, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ReplaceGrants(ctx context.Context, userID int64, codes []auth.Code, grantedBy int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userDatamodel.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return internal.ErrUserNotFound
		}

		var perms []userDatamodel.Permission
		if len(codes) > 0 {
			if err := tx.Where("code IN ?", auth.CodeStrings(codes)).Find(&perms).Error; err != nil {
				return err
			}
		}
		if missing := missingCodes(codes, perms); len(missing) > 0 {
			return internal.NewValidationError("permission codes are not in the catalog: "+strings.Join(missing, ", "), internal.ErrCodeInvalidCode)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
			return err
		}
		if len(perms) == 0 {
			return nil
		}

		grants := make([]userDatamodel.UserPermission, 0, len(perms))
		for _, p := range perms {
			grants = append(grants, userDatamodel.UserPermission{
				UserID:       userID,
				PermissionID: p.ID,
				GrantedBy:    &grantedBy,
			})
		}
		return tx.Create(&grants).Error
	})
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&userDatamodel.User{})
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return internal.ErrHasChildren.WithMessage("user still owns tickets or deployment records; deactivate instead")
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepository) ListPermissions(ctx context.Context) ([]*userDatamodel.Permission, error) {
	var perms []*userDatamodel.Permission
	err := r.db.WithContext(ctx).Order("code ASC").Find(&perms).Error
	return perms, err
}

func missingCodes(codes []auth.Code, perms []userDatamodel.Permission) []string {
	found := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		found[p.Code] = struct{}{}
	}
	var missing []string
	for _, c := range codes {
		if _, ok := found[string(c)]; !ok {
			missing = append(missing, string(c))
		}
	}
	sort.Strings(missing)
	return missing
}
