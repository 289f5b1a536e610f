package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/auth"
	userDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/user"
	"github.com/frahmantamala/facility-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, limit, offset int) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetGrantCodes(ctx context.Context, userID int64) ([]auth.Code, error)
	UpdateRole(ctx context.Context, id int64, role auth.Role) error
	SetActive(ctx context.Context, id int64, active bool) error
	// ReplaceGrants swaps the user's whole grant set in one transaction.
	ReplaceGrants(ctx context.Context, userID int64, codes []auth.Code, grantedBy int64) error
	// Delete removes the user and its grants.
	Delete(ctx context.Context, id int64) error
	ListPermissions(ctx context.Context) ([]*userDatamodel.Permission, error)
}

type Service struct {
	repo      RepositoryAPI
	checker   auth.PermissionChecker
	resources *auth.ResourcePermissions
	cache     auth.GrantCache
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, checker auth.PermissionChecker, cache auth.GrantCache, publisher events.Publisher, logger *slog.Logger) *Service {
	if cache == nil {
		cache = auth.NewNoopGrantCache()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		checker:   checker,
		resources: auth.NewResourcePermissions(checker),
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	grants, err := s.repo.GetGrantCodes(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row, grants), nil
}

// Me returns the caller's profile with the union of role baseline and grants.
func (s *Service) Me(ctx context.Context, principal *auth.User) (*Profile, error) {
	u, err := s.Get(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:        u,
		Permissions: s.checker.GetUserPermissionCodes(u.Principal()),
	}, nil
}

// Capabilities reports CRUD booleans for one resource type, or for all of them when resourceType is empty.
func (s *Service) Capabilities(principal *auth.User, resourceType string) map[auth.Resource]auth.Capabilities {
	if strings.TrimSpace(resourceType) == "" {
		return s.resources.All(principal)
	}
	key := auth.Resource(strings.ToLower(strings.TrimSpace(resourceType)))
	return map[auth.Resource]auth.Capabilities{
		key: s.resources.For(principal, resourceType),
	}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		grants, err := s.repo.GetGrantCodes(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		users = append(users, FromDataModel(row, grants))
	}
	return users, nil
}

func (s *Service) UpdateRole(ctx context.Context, id int64, dto UpdateRoleDTO, actor *auth.User) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if id == actor.ID {
		return nil, internal.NewValidationError("cannot change your own role", internal.ErrCodeInvalidRole)
	}
	role, _ := auth.ParseRole(dto.Role)

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		s.logger.Error("failed to update role", "user_id", id, "role", role, "error", err)
		return nil, err
	}

	s.logger.Info("user role updated", "user_id", id, "role", role, "updated_by", actor.ID)
	return s.Get(ctx, id)
}

func (s *Service) SetActive(ctx context.Context, id int64, dto UpdateStatusDTO, actor *auth.User) (*User, error) {
	if id == actor.ID && !dto.IsActive {
		return nil, internal.NewValidationError("cannot deactivate your own account", internal.ErrCodeValidationFailed)
	}
	if err := s.repo.SetActive(ctx, id, dto.IsActive); err != nil {
		s.logger.Error("failed to update user status", "user_id", id, "error", err)
		return nil, err
	}
	return s.Get(ctx, id)
}

// ReplaceGrants stores exactly the requested codes as the user's grants.
func (s *Service) ReplaceGrants(ctx context.Context, id int64, dto ReplaceGrantsDTO, actor *auth.User) (*User, error) {
	codes, err := dto.Parse()
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceGrants(ctx, id, codes, actor.ID); err != nil {
		s.logger.Error("failed to replace grants", "user_id", id, "error", err)
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("grant cache invalidation failed", "user_id", id, "error", err)
	}

	s.logger.Info("user grants replaced", "user_id", id, "count", len(codes), "granted_by", actor.ID)
	if err := s.publisher.Publish(ctx, events.NewGrantsReplacedEvent(id, auth.CodeStrings(codes), actor.ID)); err != nil {
		s.logger.Warn("failed to publish grants event", "user_id", id, "error", err)
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64, actor *auth.User) error {
	if id == actor.ID {
		return internal.NewValidationError("cannot delete your own account", internal.ErrCodeValidationFailed)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("grant cache invalidation failed", "user_id", id, "error", err)
	}
	s.logger.Info("user deleted", "user_id", id, "deleted_by", actor.ID)
	return nil
}

func (s *Service) ListPermissions(ctx context.Context) ([]*Permission, error) {
	rows, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	perms := make([]*Permission, 0, len(rows))
	for _, row := range rows {
		perms = append(perms, PermissionFromDataModel(row))
	}
	return perms, nil
}
