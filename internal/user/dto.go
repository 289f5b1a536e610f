package user

import (
	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/auth"
	"github.com/frahmantamala/facility-management/internal/core/common/validation"
)

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

func (d UpdateRoleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("role", d.Role).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	if _, err := auth.ParseRole(d.Role); err != nil {
		return internal.NewValidationFieldError("role", err.Error(), internal.ErrCodeInvalidRole)
	}
	return nil
}

type UpdateStatusDTO struct {
	IsActive bool `json:"is_active"`
}

// ReplaceGrantsDTO is the complete desired grant set; an empty list revokes every grant.
type ReplaceGrantsDTO struct {
	Codes []string `json:"codes"`
}

// Parse validates every code against the catalog and removes duplicates, preserving order.
func (d ReplaceGrantsDTO) Parse() ([]auth.Code, error) {
	seen := make(map[auth.Code]struct{}, len(d.Codes))
	codes := make([]auth.Code, 0, len(d.Codes))
	var unknown []internal.ValidationError

	for _, raw := range d.Codes {
		code, ok := auth.ParseCode(raw)
		if !ok {
			unknown = append(unknown, internal.ValidationError{
				Field:   "codes",
				Message: "unknown permission code: " + raw,
				Code:    string(internal.ErrCodeInvalidCode),
			})
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	if len(unknown) > 0 {
		return nil, internal.NewValidationError("unknown permission codes", internal.ErrCodeInvalidCode).
			WithDetails(internal.ValidationErrors{Errors: unknown})
	}
	return codes, nil
}

type UsersResponse struct {
	Users  []*User `json:"users"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type PermissionsResponse struct {
	Permissions []*Permission `json:"permissions"`
}

type CapabilitiesResponse struct {
	Capabilities map[auth.Resource]auth.Capabilities `json:"capabilities"`
}
