package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/facility-management/internal/auth"
	"github.com/frahmantamala/facility-management/internal/deployment"
	"github.com/frahmantamala/facility-management/internal/facility"
	"github.com/frahmantamala/facility-management/internal/inventory"
	"github.com/frahmantamala/facility-management/internal/schedule"
	"github.com/frahmantamala/facility-management/internal/ticket"
	"github.com/frahmantamala/facility-management/internal/transport/middleware"
	"github.com/frahmantamala/facility-management/internal/transport/swagger"
	"github.com/frahmantamala/facility-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups every HTTP handler the API mounts. Nil handlers leave their routes unregistered.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	RBAC       *auth.RBACAuthorization
	User       *user.Handler
	Facility   *facility.Handler
	Inventory  *inventory.Handler
	Deployment *deployment.Handler
	Ticket     *ticket.Handler
	Schedule   *schedule.Handler
}

type RouterConfig struct {
	AllowedOrigins string
	OpenAPIPath    string
}

func RegisterAllRoutes(router chi.Router, h Handlers, cfg RouterConfig, logger *slog.Logger) {
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if cfg.OpenAPIPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, cfg.OpenAPIPath)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}

		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.RefreshToken)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			registerUserRoutes(pr, h)
			registerFacilityRoutes(pr, h)
			registerInventoryRoutes(pr, h)
			registerDeploymentRoutes(pr, h)
			registerTicketRoutes(pr, h)
			registerScheduleRoutes(pr, h)
		})
	})
}

func registerUserRoutes(r chi.Router, h Handlers) {
	if h.User == nil {
		return
	}
	rbac := h.RBAC

	r.Get("/users/me", h.User.GetCurrentUser)
	r.Get("/users/me/capabilities", h.User.GetCapabilities)

	r.With(rbac.Middleware(auth.UserRead)).Get("/users", h.User.ListUsers)
	r.With(rbac.Middleware(auth.UserRead)).Get("/users/{id}", h.User.GetUser)
	r.With(rbac.RequireAdmin()).Put("/users/{id}/role", h.User.UpdateRole)
	r.With(rbac.Middleware(auth.UserUpdate)).Put("/users/{id}/status", h.User.UpdateStatus)
	r.With(rbac.RequireAdmin()).Put("/users/{id}/permissions", h.User.ReplaceGrants)
	r.With(rbac.Middleware(auth.UserDelete)).Delete("/users/{id}", h.User.DeleteUser)
	r.With(rbac.Middleware(auth.UserRead)).Get("/permissions", h.User.ListPermissions)
}

func registerFacilityRoutes(r chi.Router, h Handlers) {
	if h.Facility == nil {
		return
	}
	rbac, f := h.RBAC, h.Facility

	r.With(rbac.Middleware(auth.BuildingRead)).Get("/buildings", f.ListBuildings)
	r.With(rbac.Middleware(auth.BuildingCreate)).Post("/buildings", f.CreateBuilding)
	r.With(rbac.Middleware(auth.BuildingRead)).Get("/buildings/{id}", f.GetBuilding)
	r.With(rbac.Middleware(auth.BuildingUpdate)).Put("/buildings/{id}", f.UpdateBuilding)
	r.With(rbac.Middleware(auth.BuildingDelete)).Delete("/buildings/{id}", f.DeleteBuilding)
	r.With(rbac.Middleware(auth.FloorRead)).Get("/buildings/{id}/floors", f.ListFloors)

	r.With(rbac.Middleware(auth.FloorCreate)).Post("/floors", f.CreateFloor)
	r.With(rbac.Middleware(auth.FloorRead)).Get("/floors/{id}", f.GetFloor)
	r.With(rbac.Middleware(auth.FloorUpdate)).Put("/floors/{id}", f.UpdateFloor)
	r.With(rbac.Middleware(auth.FloorDelete)).Delete("/floors/{id}", f.DeleteFloor)
	r.With(rbac.Middleware(auth.RoomRead)).Get("/floors/{id}/rooms", f.ListFloorRooms)

	r.With(rbac.Middleware(auth.RoomRead)).Get("/rooms", f.ListRooms)
	r.With(rbac.Middleware(auth.RoomCreate)).Post("/rooms", f.CreateRoom)
	r.With(rbac.Middleware(auth.RoomRead)).Get("/rooms/{id}", f.GetRoom)
	r.With(rbac.Middleware(auth.RoomUpdate)).Put("/rooms/{id}", f.UpdateRoom)
	r.With(rbac.Middleware(auth.RoomDelete)).Delete("/rooms/{id}", f.DeleteRoom)
}

func registerInventoryRoutes(r chi.Router, h Handlers) {
	if h.Inventory == nil {
		return
	}
	rbac, inv := h.RBAC, h.Inventory

	r.With(rbac.Middleware(auth.StorageRead)).Get("/storage-items", inv.ListStorageItems)
	r.With(rbac.Middleware(auth.StorageCreate)).Post("/storage-items", inv.CreateStorageItem)
	r.With(rbac.Middleware(auth.StorageRead)).Get("/storage-items/export", inv.ExportStorageItems)
	r.With(rbac.Middleware(auth.StorageRead)).Get("/storage-items/{id}", inv.GetStorageItem)
	r.With(rbac.Middleware(auth.StorageUpdate)).Put("/storage-items/{id}", inv.UpdateStorageItem)
	r.With(rbac.Middleware(auth.StorageDelete)).Delete("/storage-items/{id}", inv.DeleteStorageItem)

	r.With(rbac.Middleware(auth.AssetRead)).Get("/assets", inv.ListAssets)
	r.With(rbac.Middleware(auth.AssetCreate)).Post("/assets", inv.CreateAsset)
	r.With(rbac.Middleware(auth.AssetRead)).Get("/assets/{id}", inv.GetAsset)
	r.With(rbac.Middleware(auth.AssetUpdate)).Put("/assets/{id}", inv.UpdateAsset)
	r.With(rbac.Middleware(auth.AssetDelete)).Delete("/assets/{id}", inv.DeleteAsset)
}

func registerDeploymentRoutes(r chi.Router, h Handlers) {
	if h.Deployment == nil {
		return
	}
	r.With(h.RBAC.Middleware(auth.DeploymentRead)).Get("/deployments", h.Deployment.ListDeployments)
	r.With(h.RBAC.Middleware(auth.DeploymentCreate)).Post("/deployments", h.Deployment.CreateDeployment)
}

// Ticket routes gate on the coarse code; the service applies reporter and staff rules.
func registerTicketRoutes(r chi.Router, h Handlers) {
	if h.Ticket == nil {
		return
	}
	rbac, t := h.RBAC, h.Ticket

	r.With(rbac.Middleware(auth.TicketRead)).Get("/tickets", t.ListTickets)
	r.With(rbac.Middleware(auth.TicketCreate)).Post("/tickets", t.CreateTicket)
	r.With(rbac.Middleware(auth.TicketRead)).Get("/tickets/{id}", t.GetTicket)
	r.With(rbac.RequireAny(auth.TicketCreate, auth.TicketUpdate)).Put("/tickets/{id}", t.UpdateTicket)
	r.With(rbac.RequireAny(auth.TicketCreate, auth.TicketUpdate)).Patch("/tickets/{id}/status", t.UpdateTicketStatus)
	r.With(rbac.Middleware(auth.TicketUpdate)).Put("/tickets/{id}/assignee", t.AssignTicket)
	r.With(rbac.RequireAny(auth.TicketCreate, auth.TicketDelete)).Delete("/tickets/{id}", t.DeleteTicket)
	r.With(rbac.Middleware(auth.TicketRead)).Get("/tickets/{id}/comments", t.ListComments)
	r.With(rbac.Middleware(auth.TicketRead)).Post("/tickets/{id}/comments", t.AddComment)
}

// Owners may edit their own schedules, so update and delete also accept schedule_create.
func registerScheduleRoutes(r chi.Router, h Handlers) {
	if h.Schedule == nil {
		return
	}
	rbac, s := h.RBAC, h.Schedule

	r.With(rbac.Middleware(auth.ScheduleRead)).Get("/schedules", s.ListSchedules)
	r.With(rbac.Middleware(auth.ScheduleCreate)).Post("/schedules", s.CreateSchedule)
	r.With(rbac.Middleware(auth.ScheduleRead)).Get("/schedules/{id}", s.GetSchedule)
	r.With(rbac.RequireAny(auth.ScheduleCreate, auth.ScheduleUpdate)).Put("/schedules/{id}", s.UpdateSchedule)
	r.With(rbac.RequireAny(auth.ScheduleCreate, auth.ScheduleDelete)).Delete("/schedules/{id}", s.DeleteSchedule)
}
