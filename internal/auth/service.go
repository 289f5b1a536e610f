package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/facility-management/internal"
	userDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	UpsertByExternalID(ctx context.Context, identity Identity, defaultRole Role) (*userDatamodel.User, error)
	GetGrantCodes(ctx context.Context, userID int64) ([]Code, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolvePrincipal(ctx context.Context, claims *Claims) (*User, error)
}

type ServiceConfig struct {
	DefaultRole Role
	BCryptCost  int
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	cache          GrantCache
	defaultRole    Role
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokenGen TokenGenerator, cache GrantCache, cfg ServiceConfig, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NewNoopGrantCache()
	}
	if !cfg.DefaultRole.Valid() {
		cfg.DefaultRole = RoleMember
	}
	if cfg.BCryptCost == 0 {
		cfg.BCryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		cache:          cache,
		defaultRole:    cfg.DefaultRole,
		bcryptCost:     cfg.BCryptCost,
		logger:         logger,
	}
}

// Authenticate validates local credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	row, err := s.repo.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("credential lookup failed", "error", err)
		}
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if row.PasswordHash == nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*row.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !row.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	s.logger.Info("user authenticated", "user_id", row.ID)
	return s.IssueTokens(Identity{ExternalID: row.ExternalID, Email: row.Email, Name: row.Name})
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.IssueTokens(claims.Identity())
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString, TokenTypeAccess)
}

// IssueTokens mints an access/refresh pair for an identity.
func (s *Service) IssueTokens(id Identity) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(id)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(id)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenGenerator.AccessTTL().Seconds()),
	}, nil
}

// ResolvePrincipal maps a verified identity to a local user, creating it on first use.
func (s *Service) ResolvePrincipal(ctx context.Context, claims *Claims) (*User, error) {
	row, err := s.repo.UpsertByExternalID(ctx, claims.Identity(), s.defaultRole)
	if err != nil {
		s.logger.Error("failed to map identity to user", "error", err, "external_id", claims.Subject)
		return nil, err
	}

	if !row.IsActive {
		return nil, internal.ErrUserInactive
	}

	role, err := ParseRole(row.Role)
	if err != nil {
		s.logger.Warn("stored role is not recognised, treating as guest", "user_id", row.ID, "role", row.Role)
		role = RoleGuest
	}

	grants, err := s.grantsFor(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		Email:      row.Email,
		Name:       row.Name,
		Role:       role,
		Grants:     grants,
	}, nil
}

func (s *Service) grantsFor(ctx context.Context, userID int64) ([]Code, error) {
	codes, hit, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("grant cache read failed", "user_id", userID, "error", err)
	}
	if hit {
		return codes, nil
	}

	codes, err = s.repo.GetGrantCodes(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load grants", "user_id", userID, "error", err)
		return nil, err
	}

	if err := s.cache.Set(ctx, userID, codes); err != nil {
		s.logger.Warn("grant cache write failed", "user_id", userID, "error", err)
	}
	return codes, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
