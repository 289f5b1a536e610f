package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth HTTP", func() {
	var (
		handler  *Handler
		rbac     *RBACAuthorization
		tokenGen *JWTTokenGenerator
		lg       *slog.Logger
	)

	ginkgo.BeforeEach(func() {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
		tokenGen = NewJWTTokenGenerator("access-secret-0123456789abcdefghij", "refresh-secret-0123456789abcdefghi", time.Minute, time.Hour)
		svc := NewService(newMockUserRepository(), tokenGen, nil, ServiceConfig{BCryptCost: bcrypt.MinCost}, lg)
		handler = NewHandler(svc)
		handler.Logger = lg
		rbac = NewRBACAuthorization(NewPermissionChecker(), lg)
	})

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		w.Header().Set("X-User", user.ExternalID)
		w.WriteHeader(http.StatusOK)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return tokens for valid credentials", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"tech@example.com","password":"correct_password"}`))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			var tokens AuthTokens
			gomega.Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(gomega.Succeed())
			gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("should answer 401 for bad credentials", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"tech@example.com","password":"nope"}`))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should answer 400 for malformed bodies", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		ginkgo.It("should reject requests without a bearer token", func() {
			w := httptest.NewRecorder()
			handler.AuthMiddleware(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should attach the resolved principal", func() {
			token, err := tokenGen.GenerateAccessToken(Identity{ExternalID: "idp-55", Email: "x@example.com"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.AuthMiddleware(ok).ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Header().Get("X-User")).To(gomega.Equal("idp-55"))
		})
	})

	ginkgo.Describe("RBACAuthorization", func() {
		serve := func(mw func(http.Handler) http.Handler, user *User) int {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if user != nil {
				req = req.WithContext(ContextWithUser(context.Background(), user))
			}
			w := httptest.NewRecorder()
			mw(ok).ServeHTTP(w, req)
			return w.Code
		}

		ginkgo.It("should answer 401 without a user", func() {
			gomega.Expect(serve(rbac.Middleware(RoomRead), nil)).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should answer 403 when the code is missing", func() {
			gomega.Expect(serve(rbac.Middleware(RoomDelete), &User{ID: 1, Role: RoleMember})).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should pass on baseline or grant", func() {
			gomega.Expect(serve(rbac.Middleware(RoomRead), &User{ID: 1, Role: RoleMember})).To(gomega.Equal(http.StatusOK))
			gomega.Expect(serve(rbac.RequireAny(BuildingDelete, RoomDelete), &User{ID: 2, Role: RoleGuest, Grants: []Code{RoomDelete}})).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should restrict admin routes by role", func() {
			gomega.Expect(serve(rbac.RequireAdmin(), &User{ID: 1, Role: RoleTechnician, Grants: AllCodes()})).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(serve(rbac.RequireAdmin(), &User{ID: 2, Role: RoleAdmin})).To(gomega.Equal(http.StatusOK))
		})
	})
})
