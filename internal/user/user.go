package user

import (
	"time"

	"github.com/frahmantamala/facility-management/internal/auth"
	userDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/user"
)

type User struct {
	ID         int64       `json:"id"`
	ExternalID string      `json:"external_id"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       auth.Role   `json:"role"`
	IsActive   bool        `json:"is_active"`
	Grants     []auth.Code `json:"grants"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Principal is the view of u the permission checker works with.
func (u *User) Principal() *auth.User {
	return &auth.User{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Grants:     u.Grants,
	}
}

// Profile is the current user together with every code they effectively hold.
type Profile struct {
	*User
	Permissions []auth.Code `json:"permissions"`
}

type Permission struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromDataModel maps a stored row. Unrecognised stored roles degrade to guest.
func FromDataModel(u *userDatamodel.User, grants []auth.Code) *User {
	role, err := auth.ParseRole(u.Role)
	if err != nil {
		role = auth.RoleGuest
	}
	if grants == nil {
		grants = []auth.Code{}
	}
	return &User{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       role,
		IsActive:   u.IsActive,
		Grants:     grants,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func PermissionFromDataModel(p *userDatamodel.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		Code:        p.Code,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
