package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/facility-management/internal/transport"
)

type RBACAuthorization struct {
	*transport.BaseHandler
	checker PermissionChecker
}

func NewRBACAuthorization(checker PermissionChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		checker:     checker,
	}
}

func (ra *RBACAuthorization) guard(allowed func(*User) bool, describe ...any) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				ra.Logger.WarnContext(r.Context(), "authorization check failed: user not found in context")
				ra.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !allowed(user) {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					append([]any{"user_id", user.ID, "role", user.Role}, describe...)...)
				ra.WriteError(w, http.StatusForbidden, "forbidden: insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Middleware requires a single permission code.
func (ra *RBACAuthorization) Middleware(code Code) func(http.Handler) http.Handler {
	return ra.guard(func(u *User) bool {
		return ra.checker.HasPermission(u, code)
	}, "required_permission", code)
}

// RequireAny passes when the user holds at least one of codes.
func (ra *RBACAuthorization) RequireAny(codes ...Code) func(http.Handler) http.Handler {
	return ra.guard(func(u *User) bool {
		return ra.checker.HasAnyPermission(u, codes)
	}, "required_any", codes)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.guard(func(u *User) bool {
		return u.IsAdmin()
	}, "required_role", RoleAdmin)
}
